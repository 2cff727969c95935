// Package cli provides the command-line interface for verdict.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/verdict/internal/cli/commands"
	"github.com/ccollicutt/verdict/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	commands.ExitCode = commands.ExitOK
	env := commands.NewEnvironment(stdin, stdout, stderr)
	rootCmd := NewRootCommand(env)
	defer func() { _ = env.Close() }()

	// Check if the first argument might be a plugin command
	if len(args) > 0 {
		potentialCommand := args[0]
		if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
			if !isBuiltinCommand(rootCmd, potentialCommand) {
				if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
					return plugins.Execute(pluginPath, args[1:], stdin, stdout, stderr)
				}
				// Plugin not found - will fall through to Cobra which will show error
			}
		}
	}

	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if len(args) > 0 {
			potentialCommand := args[0]
			if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
				if !isBuiltinCommand(rootCmd, potentialCommand) {
					_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(potentialCommand))
					return commands.ExitError
				}
			}
		}
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return commands.ExitError
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// Also check for special commands like help and completion
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command bound to env.
func NewRootCommand(env *commands.Environment) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "verdict",
		Short: "Render rule and query results for email messages",
		Long: `verdict renders the results of running detection rules and queries
against email messages.

It can:
  - Summarize results across many messages (analyze)
  - Show account and feedback results (me, feedback)
  - Flatten a message data model into greppable lines (create)
  - Check rule and query definition files (validate)

Output formats are txt (styled for the terminal), json and md (analyze only).
Settings are read from ~/.config/verdict/config.yaml; see 'verdict setup'.

PLUGINS:
  verdict supports plugins for extended functionality. Plugins are standalone
  binaries named verdict-<command> that are automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the verdict binary
    2. ~/.verdict/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !commands.NeedsEnvironment(cmd) {
				return nil
			}
			return env.Init(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&env.Options.ConfigPath, "config", "", "Config file (default ~/.config/verdict/config.yaml)")
	flags.StringVar(&env.Options.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	flags.BoolVar(&env.Options.NoColor, "no-color", false, "Disable colored output")
	flags.StringVarP(&env.Options.Output, "output", "o", "", "Output format (txt|json|md)")
	flags.BoolVarP(&env.Options.Verbose, "verbose", "v", false, "Show rule sources and nested values")

	rootCmd.AddCommand(commands.NewAnalyzeCommand(env))
	rootCmd.AddCommand(commands.NewMeCommand(env))
	rootCmd.AddCommand(commands.NewFeedbackCommand(env))
	rootCmd.AddCommand(commands.NewCreateCommand(env))
	rootCmd.AddCommand(commands.NewValidateCommand(env))
	rootCmd.AddCommand(commands.NewSetupCommand(env))
	rootCmd.AddCommand(commands.NewDiagnoseCommand(env))
	rootCmd.AddCommand(commands.NewVersionCommand(env))

	return rootCmd
}
