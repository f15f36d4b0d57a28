package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/diewo77/client-portal/httpx"
	"github.com/diewo77/client-portal/internal/models"
	"github.com/diewo77/client-portal/internal/storage"
	"github.com/diewo77/client-portal/validation"
)

// SessionIssuer opens and closes login sessions.
type SessionIssuer interface {
	Create(ctx context.Context, w http.ResponseWriter, userID string) error
	Destroy(w http.ResponseWriter, r *http.Request) error
}

type AuthHandler struct {
	store    storage.Storage
	sessions SessionIssuer
	log      *slog.Logger
}

func NewAuthHandler(store storage.Storage, sessions SessionIssuer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{store: store, sessions: sessions, log: orDefault(log)}
}

// User returns the caller's user row.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, p.User)
}

// Login upserts the user from the posted identity claims and opens a
// session for it. It stands in for the identity provider callback in
// development and is only routed when enabled in config.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.UpsertUser
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, "Invalid login data", err)
		return
	}
	v := make(validation.Violations)
	validation.Required("id", in.ID, v)
	if in.Email != nil {
		validation.Email("email", *in.Email, v)
	}
	if in.Role != "" {
		validation.OneOf("role", string(in.Role), []string{string(models.RoleAdmin), string(models.RoleClient)}, v)
	}
	if !v.Empty() {
		badInput(w, "Invalid login data", v)
		return
	}
	in.Email = optional(in.Email)

	user, err := h.store.UpsertUser(r.Context(), in)
	if err != nil {
		serverError(h.log, w, r, "Failed to log in", err)
		return
	}
	if err := h.sessions.Create(r.Context(), w, user.ID); err != nil {
		serverError(h.log, w, r, "Failed to log in", err)
		return
	}
	h.log.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "role", user.Role)
	httpx.JSON(w, http.StatusOK, user)
}

// Logout ends the caller's session. It succeeds without a session too.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		serverError(h.log, w, r, "Failed to log out", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
