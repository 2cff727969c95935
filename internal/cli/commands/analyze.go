package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/verdict/pkg/aggregate"
	"github.com/ccollicutt/verdict/pkg/input"
	"github.com/ccollicutt/verdict/pkg/output"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Quiet bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(env *Environment) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [results-file...]",
		Short: "Summarize rule results across many messages",
		Long: `Summarize the results of running rules and queries against many messages.

Input is a JSON object mapping message identifiers to their rule and query
results, read from the given files or from stdin when no file (or "-") is given.
Several files and glob patterns are merged in order; a message seen again
replaces the earlier result.

Only rules that matched are kept. Messages are split into flagged (at least
one matching rule) and unflagged, in input order.

Exit codes:
  0 - No message was flagged
  1 - At least one message was flagged
  2 - Configuration, input or runtime error`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, env, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, env *Environment, opts *AnalyzeOptions) error {
	defer env.Logger.Trace("analyze")()

	sources, err := input.Read(cmd.Context(), args, env.Stdin)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name)
	}
	source := strings.Join(names, ", ")

	res, replaced, err := input.MergeResults(sources)
	if err != nil {
		return err
	}
	if replaced > 0 {
		env.Logger.Warn("duplicate message identifiers replaced", zap.Int("count", replaced))
	}

	view, err := aggregate.Aggregate(res)
	if err != nil {
		return fmt.Errorf("aggregating %s: %w", source, err)
	}

	env.Logger.Info("aggregated results",
		zap.String("source", source),
		zap.Int("messages", view.Stats.TotalMessages),
		zap.Int("flagged_messages", view.Stats.FlaggedMessages),
		zap.Int("flagged_rules", view.Stats.FlaggedRules))

	// JSON passes the input through; the other formats render the view.
	var payload any = view
	if env.Format() == output.FormatJSON {
		payload = res
	}

	if err := env.Render(cmd.Context(), output.CommandAnalyze, payload, opts.Quiet); err != nil {
		return err
	}

	if view.Stats.FlaggedMessages > 0 {
		ExitCode = ExitFlagged
	}

	return nil
}
