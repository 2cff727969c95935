package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/verdict/pkg/input"
	"github.com/ccollicutt/verdict/pkg/output"
)

// NewMeCommand creates the me command.
func NewMeCommand(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "me [file]",
		Short: "Show the current account",
		Long: `Show a single account object, read from the given file or stdin.

Text output lists the account's scalar fields; -v also shows nested values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd, args, env, output.CommandMe)
		},
	}
}

// NewFeedbackCommand creates the feedback command.
func NewFeedbackCommand(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "feedback [file]",
		Short: "Show the result of submitted feedback",
		Long:  `Show a single feedback result object, read from the given file or stdin.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd, args, env, output.CommandFeedback)
		},
	}
}

// NewCreateCommand creates the create command.
func NewCreateCommand(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "create [file]",
		Short: "Show a message data model",
		Long: `Show the data model created for a message, read from the given file or stdin.

Text output is one "path = value;" line per node, with the root labelled
message_data_model, so the model can be searched with grep.

Example:
  verdict create model.json | grep sender.email`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd, args, env, output.CommandCreate)
		},
	}
}

func runSingle(cmd *cobra.Command, args []string, env *Environment, command string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}

	src, err := input.ReadOne(cmd.Context(), path, env.Stdin)
	if err != nil {
		return err
	}

	env.Logger.Debug("read input", zap.String("command", command), zap.String("source", src.Name), zap.Int("bytes", len(src.Data)))

	return env.Render(cmd.Context(), command, src.Data, false)
}
