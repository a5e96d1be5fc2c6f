package api

import (
	"errors"
	"net/http"
	"strings"

	"orgsite/m/domain"
	"orgsite/m/internal/repository"
)

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		serverError(w, r, "unable to list projects", err)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

func (h *Handler) projectInput(w http.ResponseWriter, r *http.Request) (repository.ProjectInput, bool) {
	f, err := h.parseForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return repository.ProjectInput{}, false
	}
	in := repository.ProjectInput{
		Title:       f.required("title"),
		Description: f.required("description"),
		Status:      f.required("status"),
		Budget:      f.required("budget"),
		Date:        f.required("date"),
		Category:    f.required("category"),
	}
	if _, missing := f.errors["status"]; !missing && !domain.ValidProjectStatus(in.Status) {
		f.errors["status"] = "must be one of " + strings.Join([]string{domain.StatusCompleted, domain.StatusOngoing, domain.StatusPlanned}, ", ")
	}
	if !f.valid() {
		respondValidation(w, f.errors)
		return repository.ProjectInput{}, false
	}
	return in, true
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	in, ok := h.projectInput(w, r)
	if !ok {
		return
	}
	image, err := h.saveUpload(r, "image")
	if err != nil {
		serverError(w, r, "unable to store image", err)
		return
	}
	in.ImageURL = image

	project, err := h.projects.Create(r.Context(), in)
	if err != nil {
		serverError(w, r, "unable to create project", err)
		return
	}
	audit(r, "create_project", project.ID)
	respondJSON(w, http.StatusCreated, project)
}

func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	in, ok := h.projectInput(w, r)
	if !ok {
		return
	}
	if _, err := h.projects.Get(r.Context(), id); err != nil {
		h.projectError(w, r, err)
		return
	}
	image, err := h.saveUpload(r, "image")
	if err != nil {
		serverError(w, r, "unable to store image", err)
		return
	}
	in.ImageURL = image

	project, err := h.projects.Update(r.Context(), id, in)
	if err != nil {
		h.projectError(w, r, err)
		return
	}
	audit(r, "update_project", project.ID)
	respondJSON(w, http.StatusOK, project)
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	if err := h.projects.Delete(r.Context(), id); err != nil {
		h.projectError(w, r, err)
		return
	}
	audit(r, "delete_project", id)
	deleted(w)
}

func (h *Handler) projectError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}
	serverError(w, r, "unable to update project", err)
}
