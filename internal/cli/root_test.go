package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/verdict/internal/cli/commands"
)

const resultsJSON = `{
  "msg-1": {
    "rule_results": [
      {"name": "Lookalike domain", "source": "type.inbound && sender.email.domain.root_domain in~ ('examp1e.com')", "result": true}
    ],
    "query_results": []
  },
  "msg-2": {
    "rule_results": [
      {"name": "Lookalike domain", "source": "type.inbound && sender.email.domain.root_domain in~ ('examp1e.com')", "result": false}
    ],
    "query_results": []
  }
}`

// execute runs the CLI in-process with an isolated home and config file.
func execute(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand(commands.NewEnvironment(nil, nil, nil))

	for _, flag := range []string{"config", "log-level", "no-color", "output", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Missing persistent flag: %s", flag)
		}
	}

	for _, name := range []string{"analyze", "me", "feedback", "create", "validate", "setup", "diagnose", "version"} {
		if !isBuiltinCommand(root, name) {
			t.Errorf("Missing command: %s", name)
		}
	}
	if !isBuiltinCommand(root, "help") || isBuiltinCommand(root, "watch") {
		t.Error("isBuiltinCommand() misclassified help or watch")
	}
}

func TestRun_AnalyzeFlagged(t *testing.T) {
	code, stdout, _ := execute(t, resultsJSON, "analyze")

	if code != commands.ExitFlagged {
		t.Errorf("exit code = %d, want %d", code, commands.ExitFlagged)
	}
	if !strings.Contains(stdout, "msg-1\n    Lookalike domain") {
		t.Errorf("stdout =\n%s", stdout)
	}
}

func TestRun_AnalyzeVerbose(t *testing.T) {
	code, stdout, _ := execute(t, resultsJSON, "analyze", "-v")

	if code != commands.ExitFlagged {
		t.Errorf("exit code = %d, want %d", code, commands.ExitFlagged)
	}
	if !strings.Contains(stdout, "type.inbound \n  && sender.email") {
		t.Errorf("verbose output missing formatted source:\n%s", stdout)
	}
}

func TestRun_AnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	clean := strings.ReplaceAll(resultsJSON, `"result": true`, `"result": false`)
	if err := os.WriteFile(path, []byte(clean), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	code, stdout, _ := execute(t, "", "analyze", path)
	if code != commands.ExitOK {
		t.Errorf("exit code = %d, want %d", code, commands.ExitOK)
	}
	if strings.Contains(stdout, "\nFlagged messages\n") {
		t.Errorf("clean results listed flagged messages:\n%s", stdout)
	}
}

func TestRun_ErrorExitCode(t *testing.T) {
	code, _, stderr := execute(t, `{"msg-1": {"rule_results": []}}`, "analyze")

	if code != commands.ExitError {
		t.Errorf("exit code = %d, want %d", code, commands.ExitError)
	}
	if !strings.Contains(stderr, "Error:") || !strings.Contains(stderr, "msg-1") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_ConfigFlag(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "verdict.yaml")
	if err := os.WriteFile(cfg, []byte("output: json\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	code, stdout, _ := execute(t, `{"id": 7}`, "--config", cfg, "me")
	if code != commands.ExitOK {
		t.Errorf("exit code = %d", code)
	}
	if stdout != "{\n    \"id\": 7\n}\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	code, _, stderr := execute(t, "{}", "--config", "/nonexistent/verdict.yaml", "me")

	if code != commands.ExitError {
		t.Errorf("exit code = %d, want %d", code, commands.ExitError)
	}
	if !strings.Contains(stderr, "loading config") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_SetupThenAnalyze(t *testing.T) {
	home := t.TempDir()
	cfg := filepath.Join(home, "verdict.yaml")

	code, _, stderr := execute(t, "", "--config", cfg, "setup", "-o", "md")
	if code != commands.ExitOK {
		t.Fatalf("setup exit code = %d: %s", code, stderr)
	}

	code, stdout, _ := execute(t, resultsJSON, "--config", cfg, "analyze")
	if code != commands.ExitFlagged {
		t.Errorf("exit code = %d, want %d", code, commands.ExitFlagged)
	}
	if !strings.Contains(stdout, "# Analysis summary") {
		t.Errorf("saved md format not used:\n%s", stdout)
	}
}

func TestRun_DebugLogging(t *testing.T) {
	_, _, stderr := execute(t, "{}", "--log-level", "debug", "feedback")

	if !strings.Contains(stderr, "environment ready") {
		t.Errorf("stderr missing debug log:\n%s", stderr)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := execute(t, "", "frobnicate")

	if code != commands.ExitError {
		t.Errorf("exit code = %d, want %d", code, commands.ExitError)
	}
	if !strings.Contains(stderr, "verdict-frobnicate") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Plugin(t *testing.T) {
	dir := t.TempDir()
	plugin := filepath.Join(dir, "verdict-hello")
	if err := os.WriteFile(plugin, []byte("#!/bin/sh\necho \"hello $1\"\nexit 4\n"), 0755); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	code, stdout, _ := execute(t, "", "hello", "world")
	if code != 4 {
		t.Errorf("exit code = %d, want 4", code)
	}
	if stdout != "hello world\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := execute(t, "", "version")

	if code != commands.ExitOK || stdout != "verdict "+commands.Version+"\n" {
		t.Errorf("code %d, stdout %q", code, stdout)
	}
}
