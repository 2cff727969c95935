package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/verdict/pkg/config"
)

// ErrNoSettings is returned when setup is run without any setting to save.
var ErrNoSettings = errors.New("no options provided")

// SetupOptions holds command-line options for the setup command.
type SetupOptions struct {
	Color       string
	TemplateDir string
	LogFile     string
}

// NewSetupCommand creates the setup command.
func NewSetupCommand(env *Environment) *cobra.Command {
	opts := &SetupOptions{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Save default settings to the configuration file",
		Long: `Save default settings to the configuration file.

Settings given here are merged into the existing file; settings not given
keep their saved values. The global --output, --log-level, --verbose and
--config flags are saved too when set.

Example:
  verdict setup -o json --color never
  verdict setup --template-dir ~/.config/verdict/templates`,
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			skipEnvironment: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, env, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Color, "color", "", "Color mode (auto|always|never)")
	cmd.Flags().StringVar(&opts.TemplateDir, "template-dir", "", "Directory of templates overriding the built-in ones")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "File receiving rotated JSON logs")

	return cmd
}

func runSetup(cmd *cobra.Command, env *Environment, opts *SetupOptions) error {
	path := env.Options.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locating config: %w", err)
		}
		path = p
	}

	cfg := &config.Config{
		Output:      env.Options.Output,
		Color:       opts.Color,
		TemplateDir: opts.TemplateDir,
		Verbose:     env.Options.Verbose,
		Log: config.LogConfig{
			Level: env.Options.LogLevel,
			File:  opts.LogFile,
		},
	}
	if env.Options.NoColor && cfg.Color == "" {
		cfg.Color = string(config.ColorNever)
	}

	if *cfg == (config.Config{}) {
		return ErrNoSettings
	}

	// Validate a copy so defaults filled in by Validate are not persisted.
	check := *cfg
	if err := config.Validate(&check); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	_, err := fmt.Fprintf(env.Stdout, "Configuration saved to %s\n", path)
	return err
}
