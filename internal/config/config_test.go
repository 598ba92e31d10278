package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CYOA_DB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("expected json format, got %q", cfg.Format)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", cfg.WatchDebounce)
	}
	if filepath.Base(cfg.DBPath) != "library.db" || filepath.Base(filepath.Dir(cfg.DBPath)) != ".cyoa" {
		t.Errorf("unexpected default db path %q", cfg.DBPath)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CYOA_DB", "/tmp/x.db")
	t.Setenv("CYOA_SEED", "42")
	t.Setenv("CYOA_VERBOSE", "true")
	t.Setenv("CYOA_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.Seed != 42 || !cfg.Verbose || cfg.Format != "text" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"bad seed", "CYOA_SEED", "not-an-int", "parse env:"},
		{"bad format", "CYOA_FORMAT", "xml", "config validation error"},
		{"zero debounce", "CYOA_WATCH_DEBOUNCE", "0s", "config validation error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	(&Config{}).Logger(&buf).Print("quiet")
	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got %q", buf.String())
	}
	(&Config{Verbose: true}).Logger(&buf).Print("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("expected output when verbose, got %q", buf.String())
	}
}
