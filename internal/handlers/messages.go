package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/client-portal/httpx"
	"github.com/diewo77/client-portal/internal/models"
	"github.com/diewo77/client-portal/internal/storage"
	"github.com/diewo77/client-portal/validation"
)

type MessageHandler struct {
	store storage.Storage
	log   *slog.Logger
}

func NewMessageHandler(store storage.Storage, log *slog.Logger) *MessageHandler {
	return &MessageHandler{store: store, log: orDefault(log)}
}

// messageInput has no sender or read flag: both are set by the server.
type messageInput struct {
	ReceiverID *string `json:"receiverId"`
	ClientID   *uint   `json:"clientId"`
	Subject    *string `json:"subject"`
	Content    string  `json:"content"`
}

// List returns every message for admins and the caller's client's
// messages otherwise.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if !p.Admin && p.Client == nil {
		httpx.JSONError(w, http.StatusForbidden, "Access denied", nil)
		return
	}
	var (
		msgs []models.Message
		err  error
	)
	if p.Admin {
		msgs, err = h.store.GetAllMessages(r.Context())
	} else {
		msgs, err = h.store.GetMessagesByClientID(r.Context(), p.Client.ID)
	}
	if err != nil {
		serverError(h.log, w, r, "Failed to fetch messages", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(msgs))
}

// Create sends a message as the caller. A client can only post into its
// own thread, whatever clientId it sends.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var in messageInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, "Invalid message data", err)
		return
	}
	v := make(validation.Violations)
	validation.Required("content", in.Content, v)
	if !v.Empty() {
		badInput(w, "Invalid message data", v)
		return
	}

	clientID := in.ClientID
	if !p.Admin {
		clientID = p.ClientID()
	}
	sender := p.User.ID
	msg, err := h.store.CreateMessage(r.Context(), &models.Message{
		SenderID:   &sender,
		ReceiverID: optional(in.ReceiverID),
		ClientID:   clientID,
		Subject:    optional(in.Subject),
		Content:    in.Content,
	})
	if err != nil {
		serverError(h.log, w, r, "Failed to send message", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, msg)
}
