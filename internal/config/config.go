// Package config loads CLI settings from MOTIONGRAPH_* environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"schmoovin/motiongraph/logging"
)

// Config controls the inspector loop and its logging.
type Config struct {
	Addr           string        `env:"MOTIONGRAPH_ADDR"              envDefault:":8090"`
	LogSinks       []string      `env:"MOTIONGRAPH_LOG_SINKS"         envDefault:"console" envSeparator:","`
	LogMinSeverity string        `env:"MOTIONGRAPH_LOG_MIN_SEVERITY"  envDefault:"info"`
	LogJSONPath    string        `env:"MOTIONGRAPH_LOG_JSON_PATH"`
	LogBufferSize  int           `env:"MOTIONGRAPH_LOG_BUFFER_SIZE"   envDefault:"512"`
	LogFlush       time.Duration `env:"MOTIONGRAPH_LOG_FLUSH"         envDefault:"2s"`
	TickRate       int           `env:"MOTIONGRAPH_TICK_RATE"         envDefault:"30"`
	Trace          bool          `env:"MOTIONGRAPH_TRACE"             envDefault:"true"`
	Overrides      []string      `env:"MOTIONGRAPH_OVERRIDES"         envSeparator:","`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("config: tick rate must be positive, got %d", c.TickRate)
	}
	if _, err := logging.ParseSeverity(c.LogMinSeverity); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, sink := range c.LogSinks {
		switch strings.TrimSpace(sink) {
		case "console", "inspector":
		case "json":
			if c.LogJSONPath == "" {
				return fmt.Errorf("config: json sink needs MOTIONGRAPH_LOG_JSON_PATH")
			}
		default:
			return fmt.Errorf("config: unknown log sink %q", sink)
		}
	}
	return nil
}

// Logging converts the flat environment settings into a router config.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = make([]string, 0, len(c.LogSinks))
	for _, sink := range c.LogSinks {
		cfg.EnabledSinks = append(cfg.EnabledSinks, strings.TrimSpace(sink))
	}
	if severity, err := logging.ParseSeverity(c.LogMinSeverity); err == nil {
		cfg.MinimumSeverity = severity
	}
	// A trace is debug traffic for the inspector; the other sinks keep
	// the configured floor.
	if c.Trace && cfg.MinimumSeverity > logging.SeverityDebug {
		cfg.SinkSeverity = map[string]logging.Severity{
			"console": cfg.MinimumSeverity,
			"json":    cfg.MinimumSeverity,
		}
		cfg.MinimumSeverity = logging.SeverityDebug
	}
	if c.LogBufferSize > 0 {
		cfg.BufferSize = c.LogBufferSize
	}
	cfg.JSON.FilePath = c.LogJSONPath
	if c.LogFlush > 0 {
		cfg.JSON.FlushInterval = c.LogFlush
	}
	return cfg
}
