package api

import (
	"errors"
	"net/http"

	"orgsite/m/internal/repository"
)

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List(r.Context())
	if err != nil {
		serverError(w, r, "unable to list members", err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

// memberInput validates the member form. The photo is handled separately.
func (h *Handler) memberInput(w http.ResponseWriter, r *http.Request) (repository.MemberInput, bool) {
	f, err := h.parseForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return repository.MemberInput{}, false
	}
	in := repository.MemberInput{
		Name:      f.required("name"),
		Position:  f.required("position"),
		Committee: f.optional("committee"),
		About:     f.optional("about"),
	}
	if !f.valid() {
		respondValidation(w, f.errors)
		return repository.MemberInput{}, false
	}
	return in, true
}

func (h *Handler) createMember(w http.ResponseWriter, r *http.Request) {
	in, ok := h.memberInput(w, r)
	if !ok {
		return
	}
	photo, err := h.saveUpload(r, "photo")
	if err != nil {
		serverError(w, r, "unable to store photo", err)
		return
	}
	in.PhotoURL = photo

	member, err := h.members.Create(r.Context(), in)
	if err != nil {
		serverError(w, r, "unable to create member", err)
		return
	}
	audit(r, "create_member", member.ID)
	respondJSON(w, http.StatusCreated, member)
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid member id")
		return
	}
	in, ok := h.memberInput(w, r)
	if !ok {
		return
	}
	if _, err := h.members.Get(r.Context(), id); err != nil {
		h.memberError(w, r, err)
		return
	}
	photo, err := h.saveUpload(r, "photo")
	if err != nil {
		serverError(w, r, "unable to store photo", err)
		return
	}
	in.PhotoURL = photo

	member, err := h.members.Update(r.Context(), id, in)
	if err != nil {
		h.memberError(w, r, err)
		return
	}
	audit(r, "update_member", member.ID)
	respondJSON(w, http.StatusOK, member)
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid member id")
		return
	}
	if err := h.members.Delete(r.Context(), id); err != nil {
		h.memberError(w, r, err)
		return
	}
	audit(r, "delete_member", id)
	deleted(w)
}

func (h *Handler) memberError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "member not found")
		return
	}
	serverError(w, r, "unable to update member", err)
}
