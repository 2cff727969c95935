package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/verdict/pkg/output"
	"github.com/ccollicutt/verdict/pkg/rules"
)

// ValidateOptions holds command-line options for the validate command.
type ValidateOptions struct {
	IgnoreErrors bool
}

// ValidateReport lists the definitions found by validate.
type ValidateReport struct {
	Path    string             `json:"path"`
	Rules   []rules.Definition `json:"rules"`
	Queries []rules.Definition `json:"queries"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(env *Environment) *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate rule and query definition files",
		Long: `Validate YAML rule and query definitions without running them.

The path may be a single file or a directory, which is searched recursively
for *.yml and *.yaml files.

A file holds either "rules:" and "queries:" lists, or a single definition
with a "type" of rule or query. Every definition needs a source; the name
is optional.

Checks:
  - YAML syntax
  - Definition type
  - Required source field`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, env, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.IgnoreErrors, "ignore-errors", false, "Warn about invalid files and definitions instead of failing")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, env *Environment, opts *ValidateOptions) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	loadOpts := rules.LoadOptions{IgnoreErrors: opts.IgnoreErrors, Logger: env.Logger.Logger}

	var ruleDefs, queryDefs []rules.Definition
	if info.IsDir() {
		ruleDefs, queryDefs, err = rules.LoadPath(path, loadOpts)
	} else {
		ruleDefs, queryDefs, err = rules.LoadFile(path, loadOpts)
	}
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	report := &ValidateReport{Path: path, Rules: ruleDefs, Queries: queryDefs}
	if report.Rules == nil {
		report.Rules = []rules.Definition{}
	}
	if report.Queries == nil {
		report.Queries = []rules.Definition{}
	}

	if env.Format() == output.FormatJSON {
		return env.Render(cmd.Context(), "validate", report, false)
	}

	return printValidateReport(env, report)
}

func printValidateReport(env *Environment, report *ValidateReport) error {
	if err := env.Print("<success>Definitions valid!</success> %s\n", report.Path); err != nil {
		return err
	}
	if err := env.Print("  <key>Rules:</key>   <value>%d</value>\n  <key>Queries:</key> <value>%d</value>\n",
		len(report.Rules), len(report.Queries)); err != nil {
		return err
	}

	sections := []struct {
		title string
		defs  []rules.Definition
	}{
		{"Rules", report.Rules},
		{"Queries", report.Queries},
	}
	for _, section := range sections {
		if len(section.defs) == 0 {
			continue
		}
		if err := env.Print("\n<header>%s</header>\n", section.title); err != nil {
			return err
		}
		for i, def := range section.defs {
			if err := env.Print("  %d. %s\n", i+1, def.Name); err != nil {
				return err
			}
			if env.Verbose() {
				if err := env.Print("     <query>%s</query>\n", rules.FormatMQL(def.Source)); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
