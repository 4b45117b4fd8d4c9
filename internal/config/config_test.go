package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bintangmas1/app-point/internal/config"
)

var envVars = []string{
	"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD",
	"LOG_LEVEL", "OTEL_EXPORTER_OTLP_ENDPOINT", "BOOTSTRAP_ADMIN_USERNAME",
	"BOOTSTRAP_ADMIN_PASSWORD", "COOKIE_SECURE",
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return cfgPath
}

func TestLoad(t *testing.T) {
	// Helper to clear env vars before each test
	clearEnvVars := func() {
		for _, v := range envVars {
			os.Unsetenv(v)
		}
	}

	t.Run("returns defaults when config file does not exist", func(t *testing.T) {
		clearEnvVars()

		cfg, err := config.Load("nonexistent.yaml")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.DBPath != "./pointadmin.db" {
			t.Errorf("expected DBPath './pointadmin.db', got %q", cfg.DBPath)
		}
		if cfg.DBPathSource != "default" {
			t.Errorf("expected DBPathSource 'default', got %q", cfg.DBPathSource)
		}
		if cfg.DBDriver != "sqlite3" {
			t.Errorf("expected sqlite3 driver, got %q", cfg.DBDriver)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Errorf("expected SessionTTL 24h, got %v", cfg.SessionTTL)
		}
		if cfg.SessionStore != "memory" {
			t.Errorf("expected memory session store, got %q", cfg.SessionStore)
		}
		if cfg.LedgerMaxRetries != 5 {
			t.Errorf("expected 5 ledger retries, got %d", cfg.LedgerMaxRetries)
		}
		if cfg.LoginRateLimit != 10 {
			t.Errorf("expected login rate limit 10, got %d", cfg.LoginRateLimit)
		}
		if !cfg.CookieSecure {
			t.Error("expected secure cookies by default")
		}
		if cfg.WriteTimeout != 10*time.Second {
			t.Errorf("expected WriteTimeout 10s, got %v", cfg.WriteTimeout)
		}
	})

	t.Run("loads values from YAML file", func(t *testing.T) {
		clearEnvVars()

		cfgPath := writeConfig(t, `
addr: ":9090"
db_path: "/data/test.db"
read_timeout: 15s
session_ttl: 8h
log_format: json
locale: id
ledger_max_retries: 3
cookie_secure: false
bootstrap_admin:
  name: "Owner"
  username: "owner"
  password: "changeme"
`)

		cfg, err := config.Load(cfgPath)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.Addr != ":9090" {
			t.Errorf("expected Addr ':9090', got %q", cfg.Addr)
		}
		if cfg.DBPath != "/data/test.db" || cfg.DBPathSource != "yaml file" {
			t.Errorf("unexpected DBPath %q (%s)", cfg.DBPath, cfg.DBPathSource)
		}
		if cfg.ReadTimeout != 15*time.Second {
			t.Errorf("expected ReadTimeout 15s, got %v", cfg.ReadTimeout)
		}
		if cfg.SessionTTL != 8*time.Hour {
			t.Errorf("expected SessionTTL 8h, got %v", cfg.SessionTTL)
		}
		if cfg.LogFormat != "json" || cfg.Locale != "id" {
			t.Errorf("unexpected log format/locale %q/%q", cfg.LogFormat, cfg.Locale)
		}
		if cfg.LedgerMaxRetries != 3 {
			t.Errorf("expected 3 retries, got %d", cfg.LedgerMaxRetries)
		}
		if cfg.CookieSecure {
			t.Error("expected cookie_secure false")
		}
		if cfg.BootstrapAdmin.Username != "owner" || cfg.BootstrapAdmin.Name != "Owner" {
			t.Errorf("unexpected bootstrap admin %+v", cfg.BootstrapAdmin)
		}
	})

	t.Run("env vars override YAML values", func(t *testing.T) {
		clearEnvVars()

		cfgPath := writeConfig(t, `
db_path: "/yaml/path.db"
log_level: "warn"
bootstrap_admin:
  username: "owner"
  password: "yaml-pass"
`)

		os.Setenv("DB_PATH", "/env/override.db")
		os.Setenv("PORT", "3000")
		os.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "env-pass")
		defer clearEnvVars()

		cfg, err := config.Load(cfgPath)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.DBPath != "/env/override.db" || cfg.DBPathSource != "env var" {
			t.Errorf("unexpected DBPath %q (%s)", cfg.DBPath, cfg.DBPathSource)
		}
		if cfg.Addr != ":3000" {
			t.Errorf("expected Addr ':3000', got %q", cfg.Addr)
		}
		if cfg.BootstrapAdmin.Password != "env-pass" {
			t.Errorf("expected env password, got %q", cfg.BootstrapAdmin.Password)
		}
		// Not overridden
		if cfg.LogLevel != "warn" {
			t.Errorf("expected log level from yaml, got %q", cfg.LogLevel)
		}
		if cfg.BootstrapAdmin.Username != "owner" {
			t.Errorf("expected username from yaml, got %q", cfg.BootstrapAdmin.Username)
		}
	})

	t.Run("REDIS_ADDR switches to redis sessions", func(t *testing.T) {
		clearEnvVars()
		os.Setenv("REDIS_ADDR", "localhost:6379")
		defer clearEnvVars()

		cfg, err := config.Load("nonexistent.yaml")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.SessionStore != "redis" {
			t.Errorf("expected redis session store, got %q", cfg.SessionStore)
		}
	})

	t.Run("postgres needs a database url", func(t *testing.T) {
		clearEnvVars()
		os.Setenv("DB_DRIVER", "postgres")
		defer clearEnvVars()

		if _, err := config.Load("nonexistent.yaml"); err == nil {
			t.Fatal("expected error without DATABASE_URL")
		}

		os.Setenv("DATABASE_URL", "postgres://u:p@localhost/points?sslmode=disable")
		cfg, err := config.Load("nonexistent.yaml")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.DSN() != "postgres://u:p@localhost/points?sslmode=disable" {
			t.Errorf("unexpected DSN %q", cfg.DSN())
		}
	})

	t.Run("rejects unknown session store", func(t *testing.T) {
		clearEnvVars()
		cfgPath := writeConfig(t, `session_store: "memcached"`)

		if _, err := config.Load(cfgPath); err == nil {
			t.Error("expected error for unknown session store")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		clearEnvVars()

		cfgPath := writeConfig(t, `
addr: ":9090"
  invalid indentation
db_path: "/data/test.db"
`)

		_, err := config.Load(cfgPath)
		if err == nil {
			t.Error("expected error for invalid YAML, got nil")
		}
	})
}
