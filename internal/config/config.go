// Package config provides environment configuration for benchtable.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds settings read from the environment. Command-line flags take
// precedence over every field.
type Config struct {
	// DBPath is the archive used by --save, history and show.
	DBPath string `env:"BENCHTABLE_DB"`

	// Verbose enables debug logging on stderr.
	Verbose bool `env:"BENCHTABLE_VERBOSE,default=false"`

	// WatchDebounce is how long --watch waits for writes to settle.
	WatchDebounce time.Duration `env:"BENCHTABLE_WATCH_DEBOUNCE,default=200ms"`
}

// Dir returns the benchtable config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/benchtable if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "benchtable"), nil
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration through l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if cfg.WatchDebounce <= 0 {
		return nil, fmt.Errorf("invalid BENCHTABLE_WATCH_DEBOUNCE: %s (must be positive)", cfg.WatchDebounce)
	}
	return &cfg, nil
}

// ResolveDBPath returns the archive path: DBPath when set, otherwise
// benchtable.db in Dir. Nothing is created on disk.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "benchtable.db"), nil
}
