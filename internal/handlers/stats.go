package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/client-portal/httpx"
	"github.com/diewo77/client-portal/internal/storage"
)

type StatsHandler struct {
	store storage.Storage
	log   *slog.Logger
}

func NewStatsHandler(store storage.Storage, log *slog.Logger) *StatsHandler {
	return &StatsHandler{store: store, log: orDefault(log)}
}

// Get returns the admin dashboard counters.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetAdminStats(r.Context())
	if err != nil {
		serverError(h.log, w, r, "Failed to fetch stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
