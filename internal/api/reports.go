package api

import (
	"errors"
	"log"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"orgsite/m/internal/repository"
	"orgsite/m/internal/storage"
)

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List(r.Context())
	if err != nil {
		serverError(w, r, "unable to list reports", err)
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		h.reportError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) createReport(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	title := f.required("title")
	if !hasFile(r, "file") {
		f.errors["file"] = "is required"
	}
	if !f.valid() {
		respondValidation(w, f.errors)
		return
	}

	name, err := h.saveUpload(r, "file")
	if err != nil || name == nil {
		serverError(w, r, "unable to store file", err)
		return
	}

	report, err := h.reports.Create(r.Context(), title, *name)
	if err != nil {
		serverError(w, r, "unable to create report", err)
		return
	}
	audit(r, "create_report", report.ID)
	respondJSON(w, http.StatusCreated, report)
}

// updateReport changes the title only. It accepts a JSON body or form data.
func (h *Handler) updateReport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	var title string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var payload struct {
			Title *string `json:"title"`
		}
		if err := decodeJSON(r, &payload); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if payload.Title == nil {
			respondValidation(w, map[string]string{"title": "is required"})
			return
		}
		title = *payload.Title
	} else {
		f, err := h.parseForm(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid form data")
			return
		}
		title = f.required("title")
		if !f.valid() {
			respondValidation(w, f.errors)
			return
		}
	}

	report, err := h.reports.UpdateTitle(r.Context(), id, title)
	if err != nil {
		h.reportError(w, r, err)
		return
	}
	audit(r, "update_report", report.ID)
	respondJSON(w, http.StatusOK, report)
}

// deleteReport removes the row, then the file. A file that is already gone
// does not fail the request.
func (h *Handler) deleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	report, err := h.reports.Delete(r.Context(), id)
	if err != nil {
		h.reportError(w, r, err)
		return
	}
	if err := h.store.Remove(report.FilePath); err != nil {
		log.Printf("rid=%s msg=remove_report_file file=%s err=%v", middleware.GetReqID(r.Context()), report.FilePath, err)
	}
	audit(r, "delete_report", id)
	deleted(w)
}

func (h *Handler) downloadReport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		h.reportError(w, r, err)
		return
	}
	f, err := h.store.Open(report.FilePath)
	if errors.Is(err, storage.ErrBlobNotFound) {
		respondError(w, http.StatusNotFound, "file not found")
		return
	}
	if err != nil {
		serverError(w, r, "unable to read file", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		serverError(w, r, "unable to read file", err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": report.FilePath}))
	http.ServeContent(w, r, report.FilePath, info.ModTime(), f)
}

func (h *Handler) reportError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}
	serverError(w, r, "unable to load report", err)
}
