// Package config handles mobrename tool configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/aidanlsb/mobrename/internal/flavor"
)

// ProjectFile is the per-project override file, read from the project root.
const ProjectFile = ".mobrename.toml"

// Config represents the mobrename configuration.
type Config struct {
	// StaggerMS delays task i of a step by i × StaggerMS milliseconds.
	StaggerMS int `toml:"stagger_ms"`

	// Concurrency caps concurrent tasks per step. Zero means unlimited.
	Concurrency int `toml:"concurrency"`

	// StageChanges stages every change after a successful run.
	StageChanges bool `toml:"stage_changes"`

	// FlavorValidation is off, warn, or strict.
	FlavorValidation string `toml:"flavor_validation"`

	// MinKeyLength is the shortest SDK key flavor validation accepts.
	MinKeyLength int `toml:"min_key_length"`

	Log LogConfig `toml:"log"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	// Level is the console level: debug, info, warn or error.
	Level string `toml:"level"`

	// File enables a rotated JSON log at this path.
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		StaggerMS:        20,
		StageChanges:     true,
		FlavorValidation: string(flavor.PolicyWarn),
		MinKeyLength:     flavor.DefaultMinKeyLength,
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads the global config, then the project override in projectRoot.
// Missing files are skipped. An explicit path replaces the global config and
// must exist.
func Load(explicit, projectRoot string) (*Config, error) {
	cfg := Default()

	global, err := homedir.Expand(explicit)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if global == "" {
		global = DefaultPath()
		if _, err := os.Stat(global); errors.Is(err, os.ErrNotExist) {
			global = ""
		}
	}
	if global != "" {
		if err := decodeInto(global, cfg); err != nil {
			return nil, err
		}
	}

	if projectRoot != "" {
		local := filepath.Join(projectRoot, ProjectFile)
		if _, err := os.Stat(local); err == nil {
			if err := decodeInto(local, cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Log.File, err = homedir.Expand(cfg.Log.File); err != nil {
		return nil, fmt.Errorf("resolve log file: %w", err)
	}
	return cfg, nil
}

// LoadFrom loads the configuration from a specific path on top of the
// defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if err := decodeInto(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Keys absent from the file keep the values already in cfg.
func decodeInto(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects values the engine cannot use.
func (c *Config) Validate() error {
	if c.StaggerMS < 0 {
		return fmt.Errorf("stagger_ms must not be negative (got %d)", c.StaggerMS)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative (got %d)", c.Concurrency)
	}
	if c.MinKeyLength < 0 {
		return fmt.Errorf("min_key_length must not be negative (got %d)", c.MinKeyLength)
	}
	if _, err := flavor.ParsePolicy(c.FlavorValidation); err != nil {
		return err
	}
	return nil
}

// Stagger returns the per-task start delay.
func (c *Config) Stagger() time.Duration {
	return time.Duration(c.StaggerMS) * time.Millisecond
}

// FlavorPolicy returns the parsed flavor_validation value.
func (c *Config) FlavorPolicy() flavor.Policy {
	p, err := flavor.ParsePolicy(c.FlavorValidation)
	if err != nil {
		return flavor.PolicyWarn
	}
	return p
}

// DefaultPath returns the default config file path.
// Checks ~/.config/mobrename/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "mobrename", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "mobrename", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}
