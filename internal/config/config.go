// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kelseyhightower/envconfig"
)

// Storage drivers.
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// defaultPassword is the development PostgreSQL password that production
// refuses to start with.
const defaultPassword = "changeme"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `envconfig:"APP_HOST" default:"0.0.0.0"`
	Port     string `envconfig:"APP_PORT" default:"8080"`
	Env      string `envconfig:"APP_ENV" default:"development"` // "development", "production", "testing"
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// StorageDriver selects the backend: mongodb, postgres or memory.
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"mongodb"`

	// MongoDB connection
	MongoURI      string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"investing"`

	// PostgreSQL connection
	DBHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	DBPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	DBUser     string `envconfig:"POSTGRES_USER" default:"investing"`
	DBPassword string `envconfig:"POSTGRES_PASSWORD" default:"changeme"`
	DBName     string `envconfig:"POSTGRES_DB" default:"investing"`

	// Valkey (Redis-compatible cache). An empty host disables the listing cache.
	ValkeyHost      string        `envconfig:"VALKEY_HOST" default:"localhost"`
	ValkeyPort      string        `envconfig:"VALKEY_PORT" default:"6379"`
	ValkeyPassword  string        `envconfig:"VALKEY_PASSWORD"`
	ListingCacheTTL time.Duration `envconfig:"LISTING_CACHE_TTL" default:"30s"`

	// Admin API
	AdminToken         string `envconfig:"ADMIN_TOKEN"`
	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`

	// CategoryMaxLevel is the deepest category level; 1 allows main
	// categories and one level of subcategories.
	CategoryMaxLevel int `envconfig:"CATEGORY_MAX_LEVEL" default:"1"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if values are
// malformed or critical values are missing in production mode.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate checks field ranges and the production safety rules.
func (c *Config) Validate() error {
	prod := c.Env == "production"
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Env, validation.Required, validation.In("development", "production", "testing")),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.StorageDriver, validation.Required, validation.In(DriverMongo, DriverPostgres, DriverMemory)),
		validation.Field(&c.MongoURI, validation.When(c.StorageDriver == DriverMongo, validation.Required)),
		validation.Field(&c.MongoDatabase, validation.When(c.StorageDriver == DriverMongo, validation.Required)),
		validation.Field(&c.DBPassword,
			validation.When(prod && c.StorageDriver == DriverPostgres,
				validation.NotIn(defaultPassword).Error("must be set in production"))),
		validation.Field(&c.StorageDriver,
			validation.When(prod, validation.NotIn(DriverMemory).Error("memory storage is not allowed in production"))),
		validation.Field(&c.AdminToken,
			validation.When(prod, validation.Required.Error("must be set in production"), validation.Length(16, 0))),
		validation.Field(&c.RateLimitPerMinute, validation.Min(1)),
		validation.Field(&c.CategoryMaxLevel, validation.Min(1)),
		validation.Field(&c.ListingCacheTTL, validation.Min(time.Duration(0))),
	)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether a Valkey host is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
