package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
)

// form reads multipart or urlencoded fields and collects field-level
// validation errors.
type form struct {
	values url.Values
	errors map[string]string
}

func (h *Handler) parseForm(r *http.Request) (*form, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(h.cfg.MaxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return &form{values: r.PostForm, errors: map[string]string{}}, nil
}

// required returns the field value, recording an error when the field is
// absent. An empty value counts as provided.
func (f *form) required(key string) string {
	v, ok := f.values[key]
	if !ok || len(v) == 0 {
		f.errors[key] = "is required"
		return ""
	}
	return v[0]
}

// optional returns nil when the field is absent.
func (f *form) optional(key string) *string {
	v, ok := f.values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	s := v[0]
	return &s
}

func (f *form) valid() bool {
	return len(f.errors) == 0
}

// hasFile reports whether the request carries a non-empty upload in field.
func hasFile(r *http.Request, field string) bool {
	if r.MultipartForm == nil {
		return false
	}
	files := r.MultipartForm.File[field]
	return len(files) > 0 && files[0].Filename != ""
}

// saveUpload stores the file attached as field and returns its generated
// name, or nil when no file was sent.
func (h *Handler) saveUpload(r *http.Request, field string) (*string, error) {
	if !hasFile(r, field) {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	name, err := h.store.Save(file, header.Filename)
	if err != nil {
		return nil, err
	}
	return &name, nil
}
