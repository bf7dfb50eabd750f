package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// Remote store backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

type Config struct {
	Addr               string        `envconfig:"ADDR" default:":8080"`
	DBPath             string        `envconfig:"DB_PATH" default:"file:dailyenglish.db"`
	RemoteBackend      string        `envconfig:"REMOTE_BACKEND" default:"sqlite"`
	PostgresDSN        string        `envconfig:"POSTGRES_DSN"`
	PostgresMaxConns   int32         `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
	CacheDir           string        `envconfig:"CACHE_DIR" default:"./cache"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"INFO"`
	SyncWorkerCount    int           `envconfig:"SYNC_WORKER_COUNT" default:"2"`
	SyncQueueSize      int           `envconfig:"SYNC_QUEUE_SIZE" default:"128"`
	SyncMaxAttempts    int           `envconfig:"SYNC_MAX_ATTEMPTS" default:"3"`
	SyncRetryBase      time.Duration `envconfig:"SYNC_RETRY_BASE" default:"500ms"`
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
	Timezone           string        `envconfig:"TIMEZONE" default:"Local"`
	StudyTickSpec      string        `envconfig:"STUDY_TICK_SPEC" default:"@every 1m"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults for anything unset.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	cfg.RemoteBackend = strings.ToLower(cfg.RemoteBackend)
	return cfg, nil
}

// Location resolves the time zone that defines the logical-day calendar.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}

	switch strings.ToLower(c.RemoteBackend) {
	case BackendSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty when REMOTE_BACKEND=sqlite"))
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN cannot be empty when REMOTE_BACKEND=postgres"))
		}
		if c.PostgresMaxConns <= 0 {
			errs = append(errs, fmt.Errorf("POSTGRES_MAX_CONNS must be > 0, got %d", c.PostgresMaxConns))
		}
	case BackendNone:
	default:
		errs = append(errs, fmt.Errorf("REMOTE_BACKEND must be one of sqlite, postgres, none, got %q", c.RemoteBackend))
	}

	if c.CacheDir == "" {
		errs = append(errs, errors.New("CACHE_DIR cannot be empty"))
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}

	if c.SyncWorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("SYNC_WORKER_COUNT must be > 0, got %d", c.SyncWorkerCount))
	}
	if c.SyncQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("SYNC_QUEUE_SIZE must be > 0, got %d", c.SyncQueueSize))
	}
	if c.SyncMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("SYNC_MAX_ATTEMPTS must be > 0, got %d", c.SyncMaxAttempts))
	}
	if c.SyncRetryBase < 0 {
		errs = append(errs, fmt.Errorf("SYNC_RETRY_BASE cannot be negative, got %s", c.SyncRetryBase))
	}
	if c.SessionIdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TIMEOUT must be > 0, got %s", c.SessionIdleTimeout))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	}

	if _, err := cron.ParseStandard(c.StudyTickSpec); err != nil {
		errs = append(errs, fmt.Errorf("STUDY_TICK_SPEC %q: %w", c.StudyTickSpec, err))
	}

	return errors.Join(errs...)
}
