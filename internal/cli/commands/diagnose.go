package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/verdict/pkg/config"
	"github.com/ccollicutt/verdict/pkg/output"
)

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks the verdict setup for common problems:
- Config file existence and syntax
- Template directory contents
- Log file location
- Terminal color detection

Example:
  verdict diagnose
  verdict diagnose -v --config ./verdict.yaml`,
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			skipEnvironment: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), env)
		},
	}
}

func runDiagnose(ctx context.Context, env *Environment) error {
	path := env.Options.ConfigPath
	explicit := path != ""
	if !explicit {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locating config: %w", err)
		}
		path = p
	}

	results := []DiagnosticResult{}

	result := checkConfigExists(path, explicit)
	results = append(results, result)
	if result.Status == "error" {
		return printDiagnostics(env, results)
	}

	cfg, result := checkConfigParseable(ctx, env.Options.ConfigPath)
	results = append(results, result)
	if result.Status == "error" {
		return printDiagnostics(env, results)
	}

	results = append(results,
		checkTemplates(cfg),
		checkLogFile(cfg),
		checkColor(env, cfg),
	)

	return printDiagnostics(env, results)
}

func checkConfigExists(path string, explicit bool) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		if explicit {
			result.Status = "error"
			result.Message = fmt.Sprintf("Config file not found: %s", path)
			result.Suggests = []string{"Check the file path is correct"}
			return result
		}
		result.Status = "warning"
		result.Message = fmt.Sprintf("No config file at %s, using defaults", path)
		result.Suggests = []string{"Use 'verdict setup' to save default settings"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		result.Suggests = []string{
			"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			"Check environment overrides (VERDICT_OUTPUT, VERDICT_COLOR, VERDICT_TEMPLATE_DIR, VERDICT_LOG_LEVEL)",
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config loaded successfully"
	result.Details = []string{
		fmt.Sprintf("Output: %s", cfg.Output),
		fmt.Sprintf("Color: %s", cfg.Color),
		fmt.Sprintf("Log level: %s", cfg.Log.Level),
	}
	return cfg, result
}

func checkTemplates(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Templates",
	}

	if cfg.TemplateDir == "" {
		result.Status = "ok"
		result.Message = "Using built-in templates"
		return result
	}

	if _, err := output.LoadTemplates(cfg.TemplateDir); err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse templates: %v", err)
		result.Suggests = []string{"Fix the template syntax or remove template_dir"}
		return result
	}

	matches, _ := filepath.Glob(filepath.Join(cfg.TemplateDir, "*.tmpl"))
	if len(matches) == 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("No *.tmpl files in %s, using built-in templates", cfg.TemplateDir)
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d template(s) in %s", len(matches), cfg.TemplateDir)
	for _, m := range matches {
		result.Details = append(result.Details, filepath.Base(m))
	}
	return result
}

func checkLogFile(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Log File",
	}

	if cfg.Log.File == "" {
		result.Status = "ok"
		result.Message = "Logging to stderr only"
		return result
	}

	dir := filepath.Dir(cfg.Log.File)
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Log directory %s does not exist yet", dir)
		result.Suggests = []string{"It is created on first write if the parent is writable"}
		return result
	}
	if err != nil || !info.IsDir() {
		result.Status = "error"
		result.Message = fmt.Sprintf("Log directory %s is not usable", dir)
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Logging to %s", cfg.Log.File)
	return result
}

func checkColor(env *Environment, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Terminal",
	}

	probe := &Environment{Options: env.Options, Stdout: env.Stdout, Config: cfg}
	enabled := probe.colorEnabled()

	styling := "disabled"
	if enabled {
		styling = "enabled"
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Color mode %s, styling %s", cfg.Color, styling)
	result.Details = []string{fmt.Sprintf("stdout is a terminal: %v", isTerminal(env.Stdout))}
	if os.Getenv("NO_COLOR") != "" {
		result.Details = append(result.Details, "NO_COLOR is set")
	}
	return result
}

func printDiagnostics(env *Environment, results []DiagnosticResult) error {
	w := env.Stdout
	fmt.Fprintln(w, "=== verdict Configuration Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if env.Options.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running verdict.")
		ExitCode = ExitError
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}
	return nil
}
