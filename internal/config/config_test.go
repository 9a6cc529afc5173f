package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "LOG_LEVEL", "STORAGE_DRIVER",
	"MONGODB_URI", "MONGODB_DATABASE",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD", "LISTING_CACHE_TTL",
	"ADMIN_TOKEN", "RATE_LIMIT_PER_MINUTE", "CATEGORY_MAX_LEVEL",
}

// clearEnv unsets every variable Load reads. t.Setenv registers the
// restore; the Unsetenv makes the variable absent rather than empty.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	defaults := map[string][2]string{
		"Host":          {cfg.Host, "0.0.0.0"},
		"Port":          {cfg.Port, "8080"},
		"Env":           {cfg.Env, "development"},
		"LogLevel":      {cfg.LogLevel, "info"},
		"StorageDriver": {cfg.StorageDriver, DriverMongo},
		"MongoURI":      {cfg.MongoURI, "mongodb://localhost:27017"},
		"MongoDatabase": {cfg.MongoDatabase, "investing"},
		"DBUser":        {cfg.DBUser, "investing"},
		"DBPassword":    {cfg.DBPassword, "changeme"},
		"ValkeyPort":    {cfg.ValkeyPort, "6379"},
	}
	for field, pair := range defaults {
		if pair[0] != pair[1] {
			t.Errorf("%s: got %q, want %q", field, pair[0], pair[1])
		}
	}
	if cfg.ListingCacheTTL != 30*time.Second {
		t.Errorf("ListingCacheTTL: got %v, want 30s", cfg.ListingCacheTTL)
	}
	if cfg.CategoryMaxLevel != 1 {
		t.Errorf("CategoryMaxLevel: got %d, want 1", cfg.CategoryMaxLevel)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Errorf("RateLimitPerMinute: got %d, want 60", cfg.RateLimitPerMinute)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "3000")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("LISTING_CACHE_TTL", "2m")
	t.Setenv("CATEGORY_MAX_LEVEL", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port: got %q, want 3000", cfg.Port)
	}
	if cfg.StorageDriver != DriverPostgres {
		t.Errorf("StorageDriver: got %q", cfg.StorageDriver)
	}
	if cfg.ListingCacheTTL != 2*time.Minute {
		t.Errorf("ListingCacheTTL: got %v", cfg.ListingCacheTTL)
	}
	if cfg.CategoryMaxLevel != 3 {
		t.Errorf("CategoryMaxLevel: got %d", cfg.CategoryMaxLevel)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel: got %v", cfg.SlogLevel())
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}, "StorageDriver"},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LogLevel"},
		{"zero max level", map[string]string{"CATEGORY_MAX_LEVEL": "0"}, "CategoryMaxLevel"},
		{"malformed ttl", map[string]string{"LISTING_CACHE_TTL": "soon"}, "LISTING_CACHE_TTL"},
		{"production without token", map[string]string{"APP_ENV": "production"}, "AdminToken"},
		{"production short token", map[string]string{"APP_ENV": "production", "ADMIN_TOKEN": "short"}, "AdminToken"},
		{"production memory store", map[string]string{
			"APP_ENV": "production", "ADMIN_TOKEN": "0123456789abcdef0123", "STORAGE_DRIVER": "memory",
		}, "StorageDriver"},
		{"production default password", map[string]string{
			"APP_ENV": "production", "ADMIN_TOKEN": "0123456789abcdef0123", "STORAGE_DRIVER": "postgres",
		}, "DBPassword"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should mention %s", err, tt.field)
			}
		})
	}
}

func TestLoad_ProductionAccepted(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("ADMIN_TOKEN", "0123456789abcdef0123")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_PASSWORD", "s3cur3-pr0d-p@ssw0rd")

	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433", DBName: "investing"}
	want := "postgres://u:p@db:5433/investing?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	tests := []struct {
		host, port, want string
	}{
		{"0.0.0.0", "8080", "0.0.0.0:8080"},
		{"", "3000", ":3000"},
		{"::1", "8080", "[::1]:8080"},
	}
	for _, tt := range tests {
		cfg := &Config{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr(%q, %q): got %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestIsDevAndCacheEnabled(t *testing.T) {
	if !(&Config{Env: "development"}).IsDev() {
		t.Error("development should be dev")
	}
	if (&Config{Env: "production"}).IsDev() {
		t.Error("production should not be dev")
	}
	if (&Config{}).CacheEnabled() {
		t.Error("empty VALKEY_HOST should disable the cache")
	}
}
