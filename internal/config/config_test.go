package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("EMBER_CONFIG", "")
	path := filepath.Join(t.TempDir(), "ember.yaml")
	data := []byte(`
max_depth: 64
log_level: debug
journal:
  driver: postgres
  dsn: postgres://localhost/ember
server:
  addr: ":9000"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxDepth != 64 || cfg.LogLevel != "debug" {
		t.Errorf("unexpected top-level values: %+v", cfg)
	}
	if cfg.Journal.Driver != "postgres" || cfg.Journal.DSN != "postgres://localhost/ember" {
		t.Errorf("unexpected journal: %+v", cfg.Journal)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadLimit != DefaultReadLimit {
		t.Errorf("unset fields should keep defaults, got %d", cfg.Server.ReadLimit)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.yaml")
	if err := os.WriteFile(path, []byte("max_depth: 64\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EMBER_CONFIG", path)
	t.Setenv("EMBER_MAX_DEPTH", "8")
	t.Setenv("EMBER_JOURNAL_DSN", "file::memory:")
	t.Setenv("EMBER_ADDR", ":1234")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxDepth != 8 {
		t.Errorf("env should win over the file, got %d", cfg.MaxDepth)
	}
	if cfg.Journal.DSN != "file::memory:" || cfg.Server.Addr != ":1234" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("EMBER_CONFIG", "")
	dir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"bad yaml", write("bad.yaml", "max_depth: [")},
		{"zero depth", write("zero.yaml", "max_depth: 0")},
		{"unknown level", write("level.yaml", "log_level: loud")},
		{"unknown driver", write("driver.yaml", "journal:\n  driver: oracle")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Load(test.path); err == nil {
				t.Error("expected an error")
			}
		})
	}

	t.Run("bad env depth", func(t *testing.T) {
		t.Setenv("EMBER_MAX_DEPTH", "deep")
		if _, err := Load(""); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil || !strings.Contains(err.Error(), "unknown log level") {
		t.Errorf("expected an unknown level error, got %v", err)
	}
}
