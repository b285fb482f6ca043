// Package config loads server settings from an optional YAML file, with
// environment variables taking precedence over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs to start.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// SessionTTL is a Go duration string, e.g. "12h".
	SessionTTL string `yaml:"session_ttl"`

	// EventBuffer is the notification queue size.
	EventBuffer int `yaml:"event_buffer"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:      defaultDBPath(),
		Addr:        ":8080",
		LogLevel:    "info",
		SessionTTL:  "12h",
		EventBuffer: 256,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shopfloor.db"
	}
	return filepath.Join(home, ".shopfloor", "shopfloor.db")
}

// Load reads the config file at path (or $SHOPFLOOR_CONFIG when path is
// empty), then applies environment overrides. A missing path loads defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("SHOPFLOOR_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}
	applyEnv(&cfg)
	if _, err := time.ParseDuration(cfg.SessionTTL); err != nil {
		return cfg, fmt.Errorf("invalid session_ttl %q: %w", cfg.SessionTTL, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SHOPFLOOR_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SHOPFLOOR_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SHOPFLOOR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SHOPFLOOR_SESSION_TTL"); v != "" {
		cfg.SessionTTL = v
	}
}

// SessionTTLDuration parses SessionTTL, falling back to 12 hours.
func (c Config) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 12 * time.Hour
	}
	return d
}
