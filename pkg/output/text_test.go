package output

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/verdict/pkg/aggregate"
	"github.com/ccollicutt/verdict/pkg/results"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(loadTestTemplates(t), FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "txt" {
		t.Errorf("Name() = %q, want %q", f.Name(), "txt")
	}
	if !f.Markup() {
		t.Error("Markup() = false, want true")
	}
}

func TestTextFormatter_Format(t *testing.T) {
	f := NewTextFormatter(loadTestTemplates(t), FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestResults(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()

	checks := []string{
		"<header>Summary</header>",
		"<key>Messages analyzed:</key> <value>2</value>",
		"<key>Flagged messages:</key>  <fail>1</fail>",
		"<key>Flagged rules:</key>     <fail>1</fail>",
		"<header>Flagged messages</header>\n  <fail>m1</fail>\n    <detected>R1</detected>",
		"<header>Unflagged messages</header>\n  <not-detected>m2</not-detected>",
	}
	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("Output missing %q\n%s", check, output)
		}
	}

	// Unmatched rules are filtered out
	if strings.Contains(output, "R2") {
		t.Error("Output contains unmatched rule R2")
	}
	// Rule sources and queries are verbose-only
	if strings.Contains(output, "root_domain") || strings.Contains(output, "<header>Queries</header>") {
		t.Error("Non-verbose output contains verbose details")
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Output does not end with a newline")
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(loadTestTemplates(t), FormatOptions{Verbose: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestResults(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()

	// Rule source pretty-printed
	if !strings.Contains(output, "<query>type.inbound \n  && sender.email.domain.root_domain") {
		t.Errorf("Verbose output missing formatted rule source:\n%s", output)
	}
	// Queries of the last message
	if !strings.Contains(output, `<query>Q1</query>: <value>"bob"</value>`) {
		t.Errorf("Verbose output missing queries:\n%s", output)
	}
}

func TestTextFormatter_Format_NothingFlagged(t *testing.T) {
	f := NewTextFormatter(loadTestTemplates(t), FormatOptions{})

	res := results.New()
	res.Add("clean", &results.MessageResult{
		RuleResults:  []results.RuleResult{{Name: "R1", Source: "s", Result: false}},
		QueryResults: []results.QueryResult{},
	})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), res, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "<key>Flagged messages:</key>  <success>0</success>") {
		t.Errorf("Output missing zero flagged count:\n%s", output)
	}
	if strings.Contains(output, "<header>Flagged messages</header>") {
		t.Error("Output has a flagged section with nothing flagged")
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(loadTestTemplates(t), FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestResults(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()

	// Quiet mode should be a single line
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Errorf("Quiet output has %d lines, want 1", len(lines))
	}
	if !strings.Contains(output, "2 messages, 1 flagged, 1 distinct rules matched") {
		t.Errorf("Quiet output = %q", output)
	}
}

func TestTextFormatter_Format_View(t *testing.T) {
	f := NewTextFormatter(loadTestTemplates(t), FormatOptions{})

	view, err := aggregate.Aggregate(createTestResults(t))
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	var buf bytes.Buffer
	if err := f.Format(context.Background(), view, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<fail>m1</fail>") {
		t.Error("Output missing flagged message")
	}
}

func TestTextFormatter_Format_Errors(t *testing.T) {
	f := NewTextFormatter(loadTestTemplates(t), FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), results.New(), &buf); !errors.Is(err, aggregate.ErrEmptyInput) {
		t.Errorf("Format() error = %v, want ErrEmptyInput", err)
	}
	if err := f.Format(context.Background(), "nope", &buf); !errors.Is(err, ErrUnsupportedData) {
		t.Errorf("Format() error = %v, want ErrUnsupportedData", err)
	}
}

func TestSingleFormatter_Me(t *testing.T) {
	f := NewSingleFormatter(loadTestTemplates(t), TemplateMe, FormatOptions{})

	data := []byte(`{"email_address": "alice@example.com", "org_name": "Example", "id": 12345678901, "roles": ["admin"]}`)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), data, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	checks := []string{
		"<header>Account</header>",
		"<key>email_address:</key> <value>alice@example.com</value>",
		"<key>org_name:</key> <value>Example</value>",
		"<key>id:</key> <value>12345678901</value>",
	}
	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("Output missing %q\n%s", check, output)
		}
	}
	if strings.Contains(output, "roles") {
		t.Error("Non-verbose output contains nested value")
	}
}

func TestSingleFormatter_Verbose(t *testing.T) {
	f := NewSingleFormatter(loadTestTemplates(t), TemplateFeedback, FormatOptions{Verbose: true})

	data := map[string]any{"status": "received", "labels": []any{"phish"}}

	var buf bytes.Buffer
	if err := f.Format(context.Background(), data, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "<success>Feedback submitted</success>") {
		t.Errorf("Output missing confirmation:\n%s", output)
	}
	if !strings.Contains(output, `<key>labels:</key> <value>["phish"]</value>`) {
		t.Errorf("Verbose output missing nested value:\n%s", output)
	}
}

func TestSingleFormatter_NullAndTaggedValues(t *testing.T) {
	f := NewSingleFormatter(loadTestTemplates(t), TemplateFeedback, FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), []byte(`{"status": null, "<key>": "</value>"}`), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, check := range []string{
		"<key>status:</key> <value>null</value>",
		`<key>\<key>:</key> <value>\</value></value>`,
	} {
		if !strings.Contains(output, check) {
			t.Errorf("Output missing %q\n%s", check, output)
		}
	}
}

func TestTextFormatter_Format_EscapesIdentifiers(t *testing.T) {
	f := NewTextFormatter(loadTestTemplates(t), FormatOptions{Verbose: true})

	res := results.New()
	res.Add("<fail>m1", &results.MessageResult{
		RuleResults:  []results.RuleResult{{Name: "R</detected>", Source: `x\y`, Result: true}},
		QueryResults: []results.QueryResult{},
	})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), res, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, check := range []string{
		`<fail>\<fail>m1</fail>`,
		`<detected>R\</detected></detected>`,
		`<query>x\\y</query>`,
	} {
		if !strings.Contains(output, check) {
			t.Errorf("Output missing %q\n%s", check, output)
		}
	}
}

func TestSingleFormatter_Empty(t *testing.T) {
	f := NewSingleFormatter(loadTestTemplates(t), TemplateFeedback, FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), []byte(`{}`), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<warning>No feedback result</warning>") {
		t.Errorf("Format() = %q", buf.String())
	}
}

func TestSingleFormatter_NotObject(t *testing.T) {
	f := NewSingleFormatter(loadTestTemplates(t), TemplateMe, FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), []byte(`[1]`), &buf); !errors.Is(err, ErrUnsupportedData) {
		t.Errorf("Format() error = %v, want ErrUnsupportedData", err)
	}
}

func TestLoadTemplates_Override(t *testing.T) {
	dir := t.TempDir()
	override := `<header>Custom</header> {{ .Stats.TotalMessages }}`
	if err := os.WriteFile(filepath.Join(dir, TemplateAnalyze), []byte(override), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tmpl, err := LoadTemplates(dir)
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}

	f := NewTextFormatter(tmpl, FormatOptions{})
	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestResults(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "<header>Custom</header> 2\n" {
		t.Errorf("Format() = %q", buf.String())
	}

	// Templates not overridden are still available
	var me bytes.Buffer
	if err := tmpl.Execute(&me, TemplateMe, &SingleData{}); err != nil {
		t.Errorf("Execute(me) error = %v", err)
	}
}

func TestLoadTemplates_InvalidOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.tmpl"), []byte("{{ .Stats"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadTemplates(dir); err == nil {
		t.Error("LoadTemplates() expected error for invalid template")
	}
}

func TestTemplates_ExecuteUnknown(t *testing.T) {
	var buf bytes.Buffer
	if err := loadTestTemplates(t).Execute(&buf, "missing.tmpl", nil); err == nil {
		t.Error("Execute() expected error for unknown template")
	}
}
