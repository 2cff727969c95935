// Package rules loads rule and query definitions from YAML files.
package rules

import (
	"fmt"

	"go.uber.org/zap"
)

// Kind distinguishes rules from queries.
type Kind string

const (
	KindRule  Kind = "rule"
	KindQuery Kind = "query"
)

// Definition is a named rule or query source.
type Definition struct {
	Kind   Kind   `yaml:"type,omitempty" json:"type"`
	Name   string `yaml:"name" json:"name"`
	Source string `yaml:"source" json:"source"`
}

// LoadOptions controls error handling while loading.
type LoadOptions struct {
	// IgnoreErrors logs invalid files and definitions as warnings and keeps
	// going instead of failing.
	IgnoreErrors bool

	// Logger receives warnings. A no-op logger is used when nil.
	Logger *zap.Logger
}

func (o LoadOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// LoadError reports a file that could not be loaded.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
