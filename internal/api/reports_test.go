package api

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orgsite/m/domain"
)

func createReport(t *testing.T, env *testEnv, title string, content []byte) domain.Report {
	t.Helper()
	body, ct := multipartBody(t, map[string]string{"title": title}, &upload{field: "file", name: "annual report.pdf", content: content})
	rr := env.do(t, http.MethodPost, "/reports", body, ct, true)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create report: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	return decodeBody[domain.Report](t, rr)
}

func TestReportCreateGetDownload(t *testing.T) {
	env := newTestEnv(t)
	content := []byte("%PDF-1.4 fake")

	report := createReport(t, env, "Annual 2023", content)
	if filepath.Ext(report.FilePath) != ".pdf" || strings.Contains(report.FilePath, "annual") {
		t.Errorf("file_path should be a generated name, got %q", report.FilePath)
	}
	if report.UploadedAt.IsZero() {
		t.Error("uploaded_at should be set")
	}

	got := decodeBody[domain.Report](t, env.do(t, http.MethodGet, "/reports/"+itoa(report.ID), nil, "", false))
	if got.ID != report.ID || got.Title != "Annual 2023" || !got.UploadedAt.Equal(report.UploadedAt) {
		t.Errorf("get = %+v, want %+v", got, report)
	}

	rr := env.do(t, http.MethodGet, "/reports/download/"+itoa(report.ID), nil, "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != string(content) {
		t.Errorf("download body = %q", rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	disposition, params, err := mime.ParseMediaType(rr.Header().Get("Content-Disposition"))
	if err != nil || disposition != "attachment" || params["filename"] != report.FilePath {
		t.Errorf("Content-Disposition = %q", rr.Header().Get("Content-Disposition"))
	}

	// file_path is a bare name that resolves under /uploads.
	rr = env.do(t, http.MethodGet, "/uploads/"+report.FilePath, nil, "", false)
	if rr.Code != http.StatusOK || rr.Body.String() != string(content) {
		t.Errorf("static link: got %d %q", rr.Code, rr.Body.String())
	}
}

func TestReportUpdateTitleOnly(t *testing.T) {
	env := newTestEnv(t)
	report := createReport(t, env, "Draft", []byte("x"))

	rr := env.do(t, http.MethodPut, "/reports/"+itoa(report.ID), strings.NewReader(`{"title":"Final"}`), "application/json", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("json update: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	updated := decodeBody[domain.Report](t, rr)
	if updated.Title != "Final" || updated.FilePath != report.FilePath {
		t.Errorf("unexpected report %+v", updated)
	}

	body, ct := multipartBody(t, map[string]string{"title": "Final v2"}, nil)
	rr = env.do(t, http.MethodPut, "/reports/"+itoa(report.ID), body, ct, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("form update: expected 200, got %d", rr.Code)
	}
	if got := decodeBody[domain.Report](t, rr); got.Title != "Final v2" {
		t.Errorf("title = %q", got.Title)
	}

	if rr := env.do(t, http.MethodPut, "/reports/999", strings.NewReader(`{"title":"x"}`), "application/json", true); rr.Code != http.StatusNotFound {
		t.Errorf("update missing: expected 404, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPut, "/reports/"+itoa(report.ID), strings.NewReader(`{}`), "application/json", true); rr.Code != http.StatusBadRequest {
		t.Errorf("missing title: expected 400, got %d", rr.Code)
	}
}

func TestReportCreateRequiresFile(t *testing.T) {
	env := newTestEnv(t)
	body, ct := multipartBody(t, map[string]string{"title": "No file"}, nil)
	rr := env.do(t, http.MethodPost, "/reports", body, ct, true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"file"`) {
		t.Errorf("expected field error for file, got %s", rr.Body.String())
	}
}

func TestReportDelete(t *testing.T) {
	env := newTestEnv(t)
	report := createReport(t, env, "Q1", []byte("q1"))
	path := filepath.Join(env.store.Dir(), report.FilePath)

	rr := env.do(t, http.MethodDelete, "/reports/"+itoa(report.ID), nil, "", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rr.Code)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should be removed, stat err = %v", err)
	}
	if rr := env.do(t, http.MethodGet, "/reports/"+itoa(report.ID), nil, "", false); rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodDelete, "/reports/"+itoa(report.ID), nil, "", true); rr.Code != http.StatusNotFound {
		t.Errorf("delete missing: expected 404, got %d", rr.Code)
	}
}

func TestReportDeleteWithMissingFile(t *testing.T) {
	env := newTestEnv(t)
	report := createReport(t, env, "Q2", []byte("q2"))
	if err := os.Remove(filepath.Join(env.store.Dir(), report.FilePath)); err != nil {
		t.Fatalf("remove: %v", err)
	}

	rr := env.do(t, http.MethodDelete, "/reports/"+itoa(report.ID), nil, "", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete should succeed without the file, got %d", rr.Code)
	}
	list := decodeBody[[]domain.Report](t, env.do(t, http.MethodGet, "/reports", nil, "", false))
	if len(list) != 0 {
		t.Errorf("row should be gone, got %+v", list)
	}
}

func TestReportDownloadNotFound(t *testing.T) {
	env := newTestEnv(t)

	if rr := env.do(t, http.MethodGet, "/reports/download/999", nil, "", false); rr.Code != http.StatusNotFound {
		t.Errorf("missing row: expected 404, got %d", rr.Code)
	}

	report := createReport(t, env, "Gone", []byte("x"))
	if err := os.Remove(filepath.Join(env.store.Dir(), report.FilePath)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if rr := env.do(t, http.MethodGet, "/reports/download/"+itoa(report.ID), nil, "", false); rr.Code != http.StatusNotFound {
		t.Errorf("missing file: expected 404, got %d", rr.Code)
	}
}
