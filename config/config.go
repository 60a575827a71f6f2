// Package config loads runtime settings from STUDIO_* environment variables
// and builds the process logger.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. STUDIO_ADDR.
const Prefix = "STUDIO"

// Config holds runtime configuration for the server and CLI.
type Config struct {
	Addr         string        `envconfig:"ADDR" default:":8080"`
	DBPath       string        `envconfig:"DB_PATH" default:"./data/studio.db"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// CoverageFile is a YAML coverage policy. Empty means one photographer per event.
	CoverageFile string `envconfig:"COVERAGE_FILE"`

	CurrencyPrefix string `envconfig:"CURRENCY_PREFIX"`
	// CurrencyLocale enables digit grouping, e.g. "en" or "en-IN".
	CurrencyLocale string `envconfig:"CURRENCY_LOCALE"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	// AlertInterval is how often the background schedule sweep runs. 0 disables it.
	AlertInterval time.Duration `envconfig:"ALERT_INTERVAL" default:"1h"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("load config: %s_LOG_FORMAT must be text or json, got %q", Prefix, cfg.LogFormat)
	}
	if cfg.AlertInterval < 0 {
		return nil, fmt.Errorf("load config: %s_ALERT_INTERVAL must not be negative", Prefix)
	}
	return &cfg, nil
}

// NewLogger returns a slog.Logger writing to stderr in the configured format.
func NewLogger(cfg *Config) *slog.Logger {
	return NewLoggerTo(os.Stderr, cfg)
}

func NewLoggerTo(w io.Writer, cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
