package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/diewo77/client-portal/httpx"
	"github.com/diewo77/client-portal/internal/models"
	"github.com/diewo77/client-portal/internal/storage"
	"github.com/diewo77/client-portal/validation"
)

type ContactHandler struct {
	store storage.Storage
	log   *slog.Logger
}

func NewContactHandler(store storage.Storage, log *slog.Logger) *ContactHandler {
	return &ContactHandler{store: store, log: orDefault(log)}
}

type contactInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company *string `json:"company"`
	Message string  `json:"message"`
}

// Submit stores a public inquiry. Any status in the body is ignored.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in contactInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, "Invalid form data", err)
		return
	}
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	validation.MaxLen("name", in.Name, 255, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	validation.Required("message", in.Message, v)
	if !v.Empty() {
		badInput(w, "Invalid form data", v)
		return
	}

	form, err := h.store.CreateContactForm(r.Context(), &models.ContactForm{
		Name:    in.Name,
		Email:   in.Email,
		Company: optional(in.Company),
		Message: in.Message,
	})
	if err != nil {
		serverError(h.log, w, r, "Failed to submit contact form", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, form)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.store.GetContactForms(r.Context())
	if err != nil {
		serverError(h.log, w, r, "Failed to fetch contact forms", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(forms))
}

// UpdateStatus handles PATCH /api/contact-forms/{id}/status.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid contact form id", []httpx.FieldError{{Field: "id", Message: "invalid"}})
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, "Invalid status", err)
		return
	}
	v := make(validation.Violations)
	validation.Required("status", in.Status, v)
	validation.OneOf("status", in.Status, models.ContactFormStatuses, v)
	if !v.Empty() {
		badInput(w, "Invalid status", v)
		return
	}

	form, err := h.store.UpdateContactFormStatus(r.Context(), uint(id), models.ContactFormStatus(in.Status))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Contact form not found", nil)
			return
		}
		serverError(h.log, w, r, "Failed to update contact form status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, form)
}
