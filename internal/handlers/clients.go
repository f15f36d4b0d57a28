package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/client-portal/httpx"
	"github.com/diewo77/client-portal/internal/models"
	"github.com/diewo77/client-portal/internal/storage"
	"github.com/diewo77/client-portal/validation"
	"gorm.io/gorm"
)

type ClientHandler struct {
	store     storage.Storage
	adminName string
	log       *slog.Logger
}

// NewClientHandler builds the handler. adminName is the business name shown
// to admins on their own dashboard.
func NewClientHandler(store storage.Storage, adminName string, log *slog.Logger) *ClientHandler {
	return &ClientHandler{store: store, adminName: adminName, log: orDefault(log)}
}

type clientInput struct {
	UserID       *string `json:"userId"`
	BusinessName string  `json:"businessName"`
	ContactName  string  `json:"contactName"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
	Status       string  `json:"status"`
}

// adminClient is what an admin sees as "their" client record.
type adminClient struct {
	ID           uint    `json:"id"`
	BusinessName string  `json:"businessName"`
	ContactName  string  `json:"contactName"`
	Email        *string `json:"email"`
	IsAdmin      bool    `json:"isAdmin"`
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.store.GetClients(r.Context())
	if err != nil {
		serverError(h.log, w, r, "Failed to fetch clients", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(clients))
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in clientInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, "Invalid client data", err)
		return
	}
	v := make(validation.Violations)
	validation.Required("businessName", in.BusinessName, v)
	validation.Required("contactName", in.ContactName, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	if in.Status != "" {
		validation.OneOf("status", in.Status, models.ClientStatuses, v)
	}
	if !v.Empty() {
		badInput(w, "Invalid client data", v)
		return
	}

	client, err := h.store.CreateClient(r.Context(), &models.Client{
		UserID:       optional(in.UserID),
		BusinessName: in.BusinessName,
		ContactName:  in.ContactName,
		Email:        in.Email,
		Phone:        optional(in.Phone),
		Address:      optional(in.Address),
		Notes:        optional(in.Notes),
		Status:       models.ClientStatus(in.Status),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			badInput(w, "Invalid client data", validation.Violations{"userId": "already linked to a client"})
			return
		}
		serverError(h.log, w, r, "Failed to create client", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

// Current returns the caller's own client record. Admins get a synthetic
// record flagged isAdmin.
func (h *ClientHandler) Current(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if p.Admin {
		httpx.JSON(w, http.StatusOK, adminClient{
			BusinessName: h.adminName,
			ContactName:  p.User.FullName(),
			Email:        p.User.Email,
			IsAdmin:      true,
		})
		return
	}
	if p.Client == nil {
		httpx.JSONError(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p.Client)
}
