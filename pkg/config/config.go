package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file. An empty path means the
// default location, which may be absent; an explicit path must exist.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locating config: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case !explicit && errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, filling empty fields with defaults.
func Validate(cfg *Config) error {
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	switch cfg.Output {
	case "txt", "json", "md":
	default:
		return fmt.Errorf("output: invalid format %q (must be txt, json, or md)", cfg.Output)
	}

	if cfg.Color == "" {
		cfg.Color = DefaultColor
	}
	switch ColorMode(cfg.Color) {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color: invalid mode %q (must be auto, always, or never)", cfg.Color)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: invalid level %q (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	if cfg.TemplateDir != "" {
		info, err := os.Stat(cfg.TemplateDir)
		if err != nil {
			return fmt.Errorf("template_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("template_dir: %s is not a directory", cfg.TemplateDir)
		}
	}

	return nil
}

// Save writes cfg to path, merged over any configuration already stored
// there. Fields left empty in cfg keep their saved values.
func Save(path string, cfg *Config) error {
	merged := &Config{}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, merged); err != nil {
			return fmt.Errorf("parsing existing config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("reading existing config: %w", err)
	}

	merged.merge(cfg)

	out, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func (c *Config) merge(o *Config) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Color != "" {
		c.Color = o.Color
	}
	if o.TemplateDir != "" {
		c.TemplateDir = o.TemplateDir
	}
	if o.Verbose {
		c.Verbose = true
	}
	if o.Log.Level != "" {
		c.Log.Level = o.Log.Level
	}
	if o.Log.File != "" {
		c.Log.File = o.Log.File
	}
}
