// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	HTTPAddr               string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	LogLevel               string        `env:"LOG_LEVEL" envDefault:"INFO"`
	DefaultSessionDuration time.Duration `env:"DEFAULT_SESSION_DURATION" envDefault:"60s"`
	// EndedSessionRetention is how long ended sessions stay readable; zero
	// keeps them for the life of the process.
	EndedSessionRetention time.Duration `env:"ENDED_SESSION_RETENTION" envDefault:"0s"`
	AnnounceScope         string        `env:"ANNOUNCE_SCOPE" envDefault:"waiting-room"`
	AllowedOrigins        []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimitPerMinute    int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	OutboundBuffer        int           `env:"OUTBOUND_BUFFER" envDefault:"32"`
	LoopBuffer            int           `env:"LOOP_BUFFER" envDefault:"256"`
	PollStore             string        `env:"POLL_STORE" envDefault:"memory"`
	DatabaseURL           string        `env:"DATABASE_URL"`
	SQLitePath            string        `env:"SQLITE_PATH"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads an optional .env file, then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("HTTP_ADDR is required"))
	}
	if c.DefaultSessionDuration <= 0 {
		errs = append(errs, errors.New("DEFAULT_SESSION_DURATION must be positive"))
	}
	if c.EndedSessionRetention < 0 {
		errs = append(errs, errors.New("ENDED_SESSION_RETENTION must not be negative"))
	}
	switch c.AnnounceScope {
	case "waiting-room", "all":
	default:
		errs = append(errs, fmt.Errorf("ANNOUNCE_SCOPE must be waiting-room or all, got %q", c.AnnounceScope))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}
	if c.OutboundBuffer <= 0 {
		errs = append(errs, errors.New("OUTBOUND_BUFFER must be positive"))
	}
	if c.LoopBuffer <= 0 {
		errs = append(errs, errors.New("LOOP_BUFFER must be positive"))
	}
	switch c.PollStore {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when POLL_STORE=postgres"))
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when POLL_STORE=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("POLL_STORE must be memory, postgres or sqlite, got %q", c.PollStore))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
