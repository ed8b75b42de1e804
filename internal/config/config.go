// Package config loads ember settings from defaults, an optional YAML file
// and EMBER_* environment variables, in that order of precedence.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxDepth      = 512
	DefaultLogLevel      = "warn"
	DefaultJournalDriver = "sqlite"
	DefaultJournalDSN    = "ember-journal.db"
	DefaultAddr          = "127.0.0.1:8420"
	DefaultReadLimit     = 64 * 1024
)

type Config struct {
	MaxDepth int     `yaml:"max_depth"`
	LogLevel string  `yaml:"log_level"`
	Journal  Journal `yaml:"journal"`
	Server   Server  `yaml:"server"`
}

type Journal struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Server struct {
	Addr      string `yaml:"addr"`
	ReadLimit int64  `yaml:"read_limit"`
}

var journalDrivers = map[string]bool{
	"sqlite":    true,
	"sqlite3":   true,
	"postgres":  true,
	"mysql":     true,
	"sqlserver": true,
}

func Default() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
		LogLevel: DefaultLogLevel,
		Journal: Journal{
			Driver: DefaultJournalDriver,
			DSN:    DefaultJournalDSN,
		},
		Server: Server{
			Addr:      DefaultAddr,
			ReadLimit: DefaultReadLimit,
		},
	}
}

// Load builds a Config. An empty path falls back to $EMBER_CONFIG; when
// neither is set only defaults and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("EMBER_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("EMBER_MAX_DEPTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "EMBER_MAX_DEPTH")
		}
		c.MaxDepth = n
	}
	if v, ok := lookup("EMBER_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("EMBER_JOURNAL_DRIVER"); ok {
		c.Journal.Driver = v
	}
	if v, ok := lookup("EMBER_JOURNAL_DSN"); ok {
		c.Journal.DSN = v
	}
	if v, ok := lookup("EMBER_ADDR"); ok {
		c.Server.Addr = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return errors.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if !journalDrivers[c.Journal.Driver] {
		return errors.Errorf("unsupported journal driver %q", c.Journal.Driver)
	}
	if c.Server.ReadLimit < 1 {
		return errors.Errorf("server.read_limit must be positive, got %d", c.Server.ReadLimit)
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.Errorf("unknown log level %q", s)
}

// Logger returns a text logger on stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
