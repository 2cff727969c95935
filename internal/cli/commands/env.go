package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ccollicutt/verdict/internal/logger"
	"github.com/ccollicutt/verdict/pkg/config"
	"github.com/ccollicutt/verdict/pkg/markup"
	"github.com/ccollicutt/verdict/pkg/output"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes.
const (
	ExitOK      = 0
	ExitFlagged = 1
	ExitError   = 2
)

// GlobalOptions holds the root command's persistent flags.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	NoColor    bool
	Output     string
	Verbose    bool
}

// Environment bundles everything a command needs to produce output. It is
// created by the root command and initialized once before any command runs.
type Environment struct {
	Options GlobalOptions

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Config    *config.Config
	Logger    *logger.Logger
	Templates *output.Templates
	Markup    *markup.Translator
	Renderer  *output.Renderer
}

// NewEnvironment creates an uninitialized environment bound to the given streams.
func NewEnvironment(stdin io.Reader, stdout, stderr io.Writer) *Environment {
	return &Environment{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger.Nop(),
	}
}

// Init loads configuration and builds the logger, templates and renderer.
func (e *Environment) Init(ctx context.Context) error {
	cfg, err := config.Load(ctx, e.Options.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	e.Config = cfg

	level := cfg.Log.Level
	if e.Options.LogLevel != "" {
		level = e.Options.LogLevel
	}
	color := e.colorEnabled()

	log, err := logger.New(logger.Options{
		Level:   level,
		File:    cfg.Log.File,
		Console: e.Stderr,
		Color:   color && isTerminal(e.Stderr),
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	e.Logger = log

	templates, err := output.LoadTemplates(cfg.TemplateDir)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	e.Templates = templates

	e.Markup = markup.NewDefault(markup.WithColor(color))
	e.Renderer = output.NewRenderer(e.Markup)

	e.Logger.Debug("environment ready",
		zap.String("format", e.Format()),
		zap.Bool("color", color),
		zap.String("template_dir", cfg.TemplateDir))
	return nil
}

// Close releases the logger.
func (e *Environment) Close() error {
	if e.Logger == nil {
		return nil
	}
	return e.Logger.Close()
}

// Format returns the output format, with the flag taking precedence over config.
func (e *Environment) Format() string {
	if e.Options.Output != "" {
		return e.Options.Output
	}
	if e.Config != nil && e.Config.Output != "" {
		return e.Config.Output
	}
	return config.DefaultOutput
}

// Verbose reports whether verbose output was requested by flag or config.
func (e *Environment) Verbose() bool {
	return e.Options.Verbose || (e.Config != nil && e.Config.Verbose)
}

// Render formats data for command in the selected output format.
func (e *Environment) Render(ctx context.Context, command string, data any, quiet bool) error {
	opts := output.FormatOptions{Verbose: e.Verbose(), Quiet: quiet}
	registry := output.NewRegistry(e.Templates, opts, e.markdownOptions())

	f, err := registry.Lookup(e.Format(), command)
	if err != nil {
		return err
	}

	e.Logger.Debug("rendering", zap.String("command", command), zap.String("formatter", f.Name()))
	if err := e.Renderer.Render(ctx, f, data, e.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}

// Print writes style-tagged text through the markup translator. String
// arguments are escaped so that only tags in format take effect.
func (e *Environment) Print(format string, args ...any) error {
	if e.Markup != nil {
		for i, arg := range args {
			if str, ok := arg.(string); ok {
				args[i] = markup.Escape(str)
			}
		}
	}
	s := fmt.Sprintf(format, args...)
	if e.Markup != nil {
		var err error
		if s, err = e.Markup.Translate(s); err != nil {
			return err
		}
	}
	_, err := io.WriteString(e.Stdout, s)
	return err
}

func (e *Environment) markdownOptions() output.MarkdownOptions {
	if !e.colorEnabled() {
		return output.MarkdownOptions{}
	}
	opts := output.MarkdownOptions{Render: true, Style: output.StyleDark}
	if f, ok := e.Stdout.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			opts.WordWrap = width
		}
	}
	return opts
}

// colorEnabled resolves the color mode against flags and the terminal.
func (e *Environment) colorEnabled() bool {
	if e.Options.NoColor {
		return false
	}
	mode := config.ColorAuto
	if e.Config != nil && e.Config.Color != "" {
		mode = config.ColorMode(e.Config.Color)
	}
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(e.Stdout)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// skipEnvironment marks commands that run without a loaded environment.
const skipEnvironment = "verdict/skip-environment"

// NeedsEnvironment reports whether cmd requires Environment.Init before running.
func NeedsEnvironment(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipEnvironment] == "true" {
			return false
		}
		// cobra's own help and completion commands
		if c.Name() == "help" || c.Name() == "completion" {
			return false
		}
	}
	return true
}
