package config

import (
	"os"
	"path/filepath"
)

// Default values for configuration.
const (
	DefaultOutput   = "txt"
	DefaultColor    = string(ColorAuto)
	DefaultLogLevel = "warn"
)

// Environment variable names.
const (
	EnvOutput      = "VERDICT_OUTPUT"
	EnvColor       = "VERDICT_COLOR"
	EnvTemplateDir = "VERDICT_TEMPLATE_DIR"
	EnvLogLevel    = "VERDICT_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: DefaultOutput,
		Color:  DefaultColor,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// DefaultPath returns ~/.config/verdict/config.yaml, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "verdict", "config.yaml"), nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvColor); v != "" {
		c.Color = v
	}
	if v := os.Getenv(EnvTemplateDir); v != "" {
		c.TemplateDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}
