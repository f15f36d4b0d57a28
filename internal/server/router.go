// Package server assembles the HTTP routes and middleware.
package server

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/client-portal/auth"
	"github.com/diewo77/client-portal/httpx"
	"github.com/diewo77/client-portal/internal/config"
	"github.com/diewo77/client-portal/internal/db"
	"github.com/diewo77/client-portal/internal/handlers"
	"github.com/diewo77/client-portal/internal/middleware"
	"github.com/diewo77/client-portal/internal/policy"
	"github.com/diewo77/client-portal/internal/storage"
	"gorm.io/gorm"
)

// Deps is everything the router needs.
type Deps struct {
	DB       *gorm.DB
	Store    storage.Storage
	Sessions *auth.Sessions
	Metrics  *middleware.Metrics
	Log      *slog.Logger
	App      config.AppConfig
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics()
	}
	mux := http.NewServeMux()
	guard := policy.NewGuard(d.Store, log)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(d.DB.WithContext(r.Context())); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", d.Metrics.Handler())

	session := guard.RequireSession()
	admin := guard.RequireAdmin()
	scoped := guard.RequireClientScope()

	// Auth
	ah := handlers.NewAuthHandler(d.Store, d.Sessions, log)
	mux.Handle("GET /api/auth/user", session(http.HandlerFunc(ah.User)))
	mux.HandleFunc("POST /api/logout", ah.Logout)
	if d.App.DevLogin {
		log.Warn("development login endpoint enabled")
		mux.HandleFunc("POST /api/login", ah.Login)
	}

	// Contact forms
	ch := handlers.NewContactHandler(d.Store, log)
	mux.HandleFunc("POST /api/contact", ch.Submit)
	mux.Handle("GET /api/contact-forms", admin(http.HandlerFunc(ch.List)))
	mux.Handle("PATCH /api/contact-forms/{id}/status", admin(http.HandlerFunc(ch.UpdateStatus)))

	// Clients
	clh := handlers.NewClientHandler(d.Store, d.App.AdminName, log)
	mux.Handle("GET /api/clients", admin(http.HandlerFunc(clh.List)))
	mux.Handle("POST /api/clients", admin(http.HandlerFunc(clh.Create)))
	mux.Handle("GET /api/clients/current", scoped(http.HandlerFunc(clh.Current)))

	// Messages
	mh := handlers.NewMessageHandler(d.Store, log)
	mux.Handle("GET /api/messages", scoped(http.HandlerFunc(mh.List)))
	mux.Handle("POST /api/messages", scoped(http.HandlerFunc(mh.Create)))

	// Documents
	dh := handlers.NewDocumentHandler(d.Store, log)
	mux.Handle("GET /api/documents", scoped(http.HandlerFunc(dh.List)))

	// Admin dashboard
	sh := handlers.NewStatsHandler(d.Store, log)
	mux.Handle("GET /api/admin/stats", admin(http.HandlerFunc(sh.Get)))

	// The metrics middleware must sit right on the mux to read the matched pattern.
	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(log),
		middleware.Recover(log),
		d.Sessions.Middleware,
		d.Metrics.Middleware,
	)
}
