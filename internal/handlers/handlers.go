// Package handlers implements the JSON API endpoints.
//
// Handlers run behind the policy middleware: by the time one executes, the
// caller's Principal is in the request context and its visibility decided.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/client-portal/httpx"
	"github.com/diewo77/client-portal/internal/policy"
	"github.com/diewo77/client-portal/validation"
)

func principal(w http.ResponseWriter, r *http.Request) (policy.Principal, bool) {
	p, ok := policy.PrincipalFrom(r.Context())
	if !ok || p.User == nil {
		// Route registered without a policy middleware.
		httpx.JSONError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return policy.Principal{}, false
	}
	return p, true
}

// serverError logs err and answers 500 with a generic message.
func serverError(log *slog.Logger, w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.ErrorContext(r.Context(), msg, "method", r.Method, "path", r.URL.Path, "error", err)
	httpx.JSONError(w, http.StatusInternalServerError, msg, nil)
}

func badInput(w http.ResponseWriter, msg string, v validation.Violations) {
	httpx.JSONError(w, http.StatusBadRequest, msg, v.List())
}

func badBody(w http.ResponseWriter, msg string, err error) {
	httpx.JSONError(w, http.StatusBadRequest, msg, []httpx.FieldError{{Field: "body", Message: err.Error()}})
}

// list never serializes as null.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

// optional turns a blank string into nil.
func optional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
