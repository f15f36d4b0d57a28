package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/diewo77/client-portal/auth"
	"github.com/diewo77/client-portal/internal/config"
	"github.com/diewo77/client-portal/internal/db"
	"github.com/diewo77/client-portal/internal/middleware"
	"github.com/diewo77/client-portal/internal/server"
	"github.com/diewo77/client-portal/internal/storage"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// loadConfig reads the optional dotenv file, then the environment, and
// installs the configured logger as the slog default.
func loadConfig(envFile string) (*config.Config, *slog.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openDB connects and brings the schema up to date.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Prepare(conn, cfg.Database); err != nil {
		return nil, err
	}
	return conn, nil
}

func closeDB(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newHTTPServer wires storage, sessions and routes into an http.Server.
func newHTTPServer(cfg *config.Config, conn *gorm.DB, logger *slog.Logger) *http.Server {
	handler := server.New(server.Deps{
		DB:       conn,
		Store:    storage.NewDatabaseStorage(conn),
		Sessions: auth.NewSessions(conn, cfg.Session),
		Metrics:  middleware.NewMetrics(),
		Log:      logger,
		App:      cfg.App,
	})
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func runServe(ctx context.Context, envFile string) error {
	cfg, logger, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	conn, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(conn)

	srv := newHTTPServer(cfg, conn, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "driver", cfg.Database.Driver, "dev_login", cfg.App.DevLogin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}

func runMigrate(envFile string) error {
	cfg, logger, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	// Migrating is the whole point here, whatever DB_AUTO_MIGRATE says.
	cfg.Database.AutoMigrate = true
	conn, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer closeDB(conn)
	logger.Info("migrations completed successfully")
	return nil
}

func runSeed(ctx context.Context, envFile, file string, out io.Writer) error {
	cfg, _, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	sf, err := db.LoadSeedFile(file)
	if err != nil {
		return err
	}
	conn, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(conn)

	n, err := db.Seed(ctx, storage.NewDatabaseStorage(conn), sf)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	fmt.Fprintf(out, "seeded %d users from %s\n", n, file)
	return nil
}

func runPurgeSessions(ctx context.Context, envFile string, out io.Writer) error {
	cfg, _, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	conn, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(conn)

	n, err := auth.NewSessions(conn, cfg.Session).PurgeExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "purged %d expired sessions\n", n)
	return nil
}
