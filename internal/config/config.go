package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// BootstrapAdmin is the super admin created when the worker table is empty.
type BootstrapAdmin struct {
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config holds all configuration values
type Config struct {
	Addr         string        `yaml:"addr"`
	DBDriver     string        `yaml:"db_driver"`
	DBPath       string        `yaml:"db_path"`
	DatabaseURL  string        `yaml:"database_url"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	SessionTTL    time.Duration `yaml:"session_ttl"`
	SessionStore  string        `yaml:"session_store"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`

	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	Locale       string `yaml:"locale"`
	OTelEndpoint string `yaml:"otel_endpoint"`

	LedgerMaxRetries int  `yaml:"ledger_max_retries"`
	LoginRateLimit   int  `yaml:"login_rate_limit"` // attempts per minute per client
	CookieSecure     bool `yaml:"cookie_secure"`

	BootstrapAdmin BootstrapAdmin `yaml:"bootstrap_admin"`

	DBPathSource string // where DBPath was set from: "default", "yaml file", or "env var"
	DemoMode     bool   // load sample data on new database (set via -demo flag)
}

// Load loads configuration from YAML file and overrides with env vars if present
func Load(path string) (*Config, error) {
	// Defaults
	cfg := &Config{
		Addr:             ":8080",
		DBDriver:         "sqlite3",
		DBPath:           "./pointadmin.db",
		DBPathSource:     "default",
		ReadTimeout:      5 * time.Second,
		WriteTimeout:     10 * time.Second,
		IdleTimeout:      120 * time.Second,
		SessionTTL:       24 * time.Hour,
		SessionStore:     "memory",
		LogLevel:         "info",
		LogFormat:        "console",
		Locale:           "en",
		LedgerMaxRetries: 5,
		LoginRateLimit:   10,
		CookieSecure:     true,
	}

	// Load from YAML if file exists
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		prevDBPath := cfg.DBPath
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil {
			return nil, err
		}
		if cfg.DBPath != prevDBPath {
			cfg.DBPathSource = "yaml file"
		}
	}

	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.DBDriver = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
		cfg.DBPathSource = "env var"
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
		cfg.SessionStore = "redis"
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTelEndpoint = v
	}
	if v := os.Getenv("BOOTSTRAP_ADMIN_USERNAME"); v != "" {
		cfg.BootstrapAdmin.Username = v
	}
	if v := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"); v != "" {
		cfg.BootstrapAdmin.Password = v
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "sqlite":
	case "postgres", "postgresql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("db_driver %q requires database_url", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}

	switch c.SessionStore {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("session_store redis requires redis_addr")
		}
	default:
		return fmt.Errorf("unsupported session_store %q", c.SessionStore)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.LedgerMaxRetries < 0 {
		return fmt.Errorf("ledger_max_retries must not be negative")
	}
	return nil
}

// DSN returns what database.Open expects for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" || c.DBDriver == "postgresql" {
		return c.DatabaseURL
	}
	return c.DBPath
}
