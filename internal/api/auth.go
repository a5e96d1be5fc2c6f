package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"orgsite/m/internal/auth"
)

type ctxKey string

const ctxUsername ctxKey = "username"

type loginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	fields := map[string]string{}
	if req.Username == nil {
		fields["username"] = "is required"
	}
	if req.Password == nil {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	user, err := h.credentials.Verify(r.Context(), *req.Username, *req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		serverError(w, r, "unable to verify credentials", err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.Username)
	if err != nil {
		serverError(w, r, "unable to generate token", err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	})
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		claims, err := h.tokens.Verify(tokenString)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUsername, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// usernameFromContext returns the admin that authenticated the request.
func usernameFromContext(r *http.Request) string {
	if val, ok := r.Context().Value(ctxUsername).(string); ok {
		return val
	}
	return ""
}

// audit records which admin changed which row.
func audit(r *http.Request, action string, id int64) {
	log.Printf("rid=%s admin=%s action=%s id=%d", middleware.GetReqID(r.Context()), usernameFromContext(r), action, id)
}
