package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ccollicutt/verdict/pkg/results"
)

func TestMarkdownFormatter_Format(t *testing.T) {
	f := NewMarkdownFormatter(FormatOptions{}, MarkdownOptions{})
	if f.Name() != "md" {
		t.Errorf("Name() = %q, want md", f.Name())
	}

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestResults(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	checks := []string{
		"# Analysis summary",
		"| Messages analyzed | 2 |",
		"| Flagged messages | 1 |",
		"## Flagged messages\n\n### m1\n\n- **R1**\n",
		"## Unflagged messages\n\n- m2\n",
	}
	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("Output missing %q\n%s", check, output)
		}
	}
	if strings.Contains(output, "```") {
		t.Error("Non-verbose output contains rule source")
	}
}

func TestMarkdownFormatter_Format_Verbose(t *testing.T) {
	f := NewMarkdownFormatter(FormatOptions{Verbose: true}, MarkdownOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestResults(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "  ```\n  type.inbound && sender.email") {
		t.Errorf("Verbose output missing rule source:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "## Queries\n\n- **Q1**: `\"bob\"`\n") {
		t.Errorf("Verbose output missing queries:\n%s", buf.String())
	}
}

func TestMarkdownFormatter_Format_VerboseBacktickSource(t *testing.T) {
	f := NewMarkdownFormatter(FormatOptions{Verbose: true}, MarkdownOptions{})

	res := results.New()
	res.Add("m1", &results.MessageResult{
		RuleResults:  []results.RuleResult{{Name: "R1", Source: "a ``` b", Result: true}},
		QueryResults: []results.QueryResult{},
	})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), res, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "  ````\n  a ``` b\n  ````\n") {
		t.Errorf("rule source not fenced safely:\n%s", buf.String())
	}
}

func TestCodeSpan(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"bob"`, "`\"bob\"`"},
		{"a`b", "``a`b``"},
		{"`x", "`` `x ``"},
	}
	for _, tt := range tests {
		if got := codeSpan(tt.input); got != tt.want {
			t.Errorf("codeSpan(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMarkdownFormatter_Format_Quiet(t *testing.T) {
	f := NewMarkdownFormatter(FormatOptions{Quiet: true}, MarkdownOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestResults(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "## Flagged messages") {
		t.Error("Quiet output contains message sections")
	}
}

func TestMarkdownFormatter_Format_Rendered(t *testing.T) {
	f := NewMarkdownFormatter(FormatOptions{}, MarkdownOptions{Render: true, Style: StyleNoTTY})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestResults(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "| --- |") {
		t.Error("Rendered output still contains raw table markup")
	}
	if !strings.Contains(output, "Analysis summary") {
		t.Errorf("Rendered output missing heading text:\n%s", output)
	}
}

func TestMdEscape(t *testing.T) {
	if got := mdEscape("a|b_c*d"); got != `a\|b\_c\*d` {
		t.Errorf("mdEscape() = %q", got)
	}
}
