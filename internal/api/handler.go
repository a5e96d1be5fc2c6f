package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"orgsite/m/internal/auth"
	"orgsite/m/internal/config"
	"orgsite/m/internal/repository"
	"orgsite/m/internal/storage"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	members     *repository.Members
	projects    *repository.Projects
	reports     *repository.Reports
	credentials *auth.Credentials
	tokens      *auth.Tokens
	store       *storage.Store
	cfg         config.Config
}

// New constructs a Handler.
func New(db *sqlx.DB, store *storage.Store, cfg config.Config) *Handler {
	return &Handler{
		members:     repository.NewMembers(db),
		projects:    repository.NewProjects(db),
		reports:     repository.NewReports(db),
		credentials: auth.NewCredentials(repository.NewAdmins(db)),
		tokens:      auth.NewTokens(cfg.Secret, cfg.TokenTTL),
		store:       store,
		cfg:         cfg,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Get("/health", h.health)
	r.Post("/login", h.login)
	r.Get("/uploads/{name}", h.serveUpload)

	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.listMembers)
		r.Group(func(pr chi.Router) {
			pr.Use(h.authMiddleware)
			pr.Post("/", h.createMember)
			pr.Put("/{id}", h.updateMember)
			pr.Delete("/{id}", h.deleteMember)
		})
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.listProjects)
		r.Group(func(pr chi.Router) {
			pr.Use(h.authMiddleware)
			pr.Post("/", h.createProject)
			pr.Put("/{id}", h.updateProject)
			pr.Delete("/{id}", h.deleteProject)
		})
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.listReports)
		r.Get("/{id}", h.getReport)
		r.Get("/download/{id}", h.downloadReport)
		r.Group(func(pr chi.Router) {
			pr.Use(h.authMiddleware)
			pr.Post("/", h.createReport)
			pr.Put("/{id}", h.updateReport)
			pr.Delete("/{id}", h.deleteReport)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// serveUpload exposes stored blobs by name. Directories are never listed.
func (h *Handler) serveUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := h.store.Open(name)
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
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// Helpers

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondValidation(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// serverError logs the cause with the request id and answers with a
// generic 500.
func serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	log.Printf("rid=%s msg=%q err=%v", middleware.GetReqID(r.Context()), message, err)
	respondError(w, http.StatusInternalServerError, message)
}

func deleted(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Deleted"})
}
