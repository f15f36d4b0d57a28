// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	App      AppConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig holds connection settings. URL, when set, wins over the
// individual postgres fields. With the sqlite driver, Path is the DSN.
type DatabaseConfig struct {
	Driver        string `env:"DB_DRIVER" envDefault:"postgres"`
	URL           string `env:"DATABASE_URL"`
	Host          string `env:"DB_HOST" envDefault:"localhost"`
	Port          int    `env:"DB_PORT" envDefault:"5432"`
	User          string `env:"DB_USER" envDefault:"portal"`
	Password      string `env:"DB_PASSWORD" envDefault:"portal"`
	DBName        string `env:"DB_NAME" envDefault:"portal"`
	SSLMode       string `env:"DB_SSLMODE" envDefault:"disable"`
	Path          string `env:"DB_PATH" envDefault:"portal.db"`
	SQLMigrations bool   `env:"DB_SQL_MIGRATIONS" envDefault:"false"`
	AutoMigrate   bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	Debug         bool   `env:"DB_DEBUG" envDefault:"false"`
}

// SessionConfig controls the login session cookie.
type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET" envDefault:"devsessionsecret"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SecureCookie bool          `env:"SESSION_SECURE_COOKIE" envDefault:"false"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	// DevLogin exposes POST /api/login, which trusts posted identity claims.
	// Never enable it where the login provider is reachable.
	DevLogin  bool   `env:"DEV_LOGIN" envDefault:"false"`
	AdminName string `env:"ADMIN_BUSINESS_NAME" envDefault:"Edify Admin"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// MigrationURL returns the PostgreSQL connection string in URL format, as
// golang-migrate expects it.
func (d DatabaseConfig) MigrationURL() string {
	if d.URL != "" {
		return d.URL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.Database.Driver)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
