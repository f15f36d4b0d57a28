// Package db opens the database connection and manages its schema and seed data.
package db

import (
	"fmt"
	"log/slog"

	"github.com/diewo77/client-portal/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects using the configured driver. Errors from the driver are
// translated so unique violations match gorm.ErrDuplicatedKey.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		slog.Info("connecting to database", "driver", cfg.Driver, "host", cfg.Host, "port", cfg.Port, "dbname", cfg.DBName, "user", cfg.User)
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		slog.Info("connecting to database", "driver", cfg.Driver, "path", cfg.Path)
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Ping(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Ping runs a trivial query to check the connection is usable.
func Ping(conn *gorm.DB) error {
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}
