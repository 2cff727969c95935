// Package config provides configuration loading, validation and persistence
// for verdict.
package config

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Output is the default output format (txt, json or md).
	Output string `yaml:"output,omitempty"`

	// Color selects terminal styling: auto, always or never.
	Color string `yaml:"color,omitempty"`

	// TemplateDir overrides the embedded text templates when set.
	TemplateDir string `yaml:"template_dir,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`

	Log LogConfig `yaml:"log,omitempty"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level,omitempty"`

	// File, when set, receives JSON logs with size-based rotation.
	File string `yaml:"file,omitempty"`
}

// ColorMode represents when terminal styling is applied.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)
