package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/client-portal/httpx"
	"github.com/diewo77/client-portal/internal/models"
	"github.com/diewo77/client-portal/internal/storage"
)

type DocumentHandler struct {
	store storage.Storage
	log   *slog.Logger
}

func NewDocumentHandler(store storage.Storage, log *slog.Logger) *DocumentHandler {
	return &DocumentHandler{store: store, log: orDefault(log)}
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if !p.Admin && p.Client == nil {
		httpx.JSONError(w, http.StatusForbidden, "Access denied", nil)
		return
	}
	var (
		docs []models.Document
		err  error
	)
	if p.Admin {
		docs, err = h.store.GetAllDocuments(r.Context())
	} else {
		docs, err = h.store.GetDocumentsByClientID(r.Context(), p.Client.ID)
	}
	if err != nil {
		serverError(h.log, w, r, "Failed to fetch documents", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list(docs))
}
