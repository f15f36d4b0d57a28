package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/diewo77/client-portal/internal/config"
	"github.com/diewo77/client-portal/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate runs AutoMigrate for all models.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Session{},
		&models.User{},
		&models.Client{},
		&models.ContactForm{},
		&models.Message{},
		&models.Document{},
	)
}

// MigrateSQL applies the embedded SQL migrations with golang-migrate.
// Only postgres is supported on this path.
func MigrateSQL(databaseURL string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Prepare brings the schema up to date according to cfg: SQL migrations
// when enabled on postgres, AutoMigrate otherwise.
func Prepare(conn *gorm.DB, cfg config.DatabaseConfig) error {
	if cfg.SQLMigrations && cfg.Driver == "postgres" {
		return MigrateSQL(cfg.MigrationURL())
	}
	if cfg.AutoMigrate {
		return Migrate(conn)
	}
	return nil
}
