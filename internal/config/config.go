// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings. Command-line flags override these values.
type Config struct {
	DBPath        string        `env:"CYOA_DB"`
	Seed          int64         `env:"CYOA_SEED"`
	Verbose       bool          `env:"CYOA_VERBOSE"`
	Format        string        `env:"CYOA_FORMAT" envDefault:"json" validate:"oneof=json text"`
	WatchDebounce time.Duration `env:"CYOA_WATCH_DEBOUNCE" envDefault:"500ms" validate:"gt=0"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment, fills defaults and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

// DefaultDBPath is ~/.cyoa/library.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cyoa", "library.db")
}

// Logger returns a logger writing to w when verbose is set, and a discarding
// one otherwise.
func (c *Config) Logger(w io.Writer) *log.Logger {
	if !c.Verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, "cyoa: ", log.LstdFlags)
}
