package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ccollicutt/verdict/pkg/aggregate"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format_Results(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	res := createTestResults(t)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), res, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()

	// Four-space indentation
	if !strings.Contains(output, "\n    \"m1\": {") {
		t.Errorf("Output not indented with four spaces:\n%s", output)
	}
	// Insertion order
	if strings.Index(output, `"m1"`) > strings.Index(output, `"m2"`) {
		t.Error("Message order not preserved")
	}
	// No aggregation: unmatched rules are still present
	if !strings.Contains(output, `"R2"`) {
		t.Error("Output is missing unmatched rule R2")
	}
	// No HTML escaping of operators
	if !strings.Contains(output, "&&") {
		t.Error("Output escaped && in rule source")
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
}

func TestJSONFormatter_Format_Raw(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})

	var buf bytes.Buffer
	raw := json.RawMessage(`{"z":1,"a":{"b":[1,2]}}`)
	if err := f.Format(context.Background(), raw, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "{\n    \"z\": 1,\n    \"a\": {\n        \"b\": [\n            1,\n            2\n        ]\n    }\n}\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestJSONFormatter_Format_InvalidRaw(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), []byte(`{"a":`), &buf); err == nil {
		t.Error("Format() expected error for invalid JSON")
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	res := createTestResults(t)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), res, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Quiet mode should only output summary
	var parsed aggregate.Stats
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	want := aggregate.Stats{TotalMessages: 2, TotalRules: 2, TotalQueries: 1, FlaggedRules: 1, FlaggedMessages: 1}
	if parsed != want {
		t.Errorf("Stats = %+v, want %+v", parsed, want)
	}
}

func TestJSONFormatter_Format_Value(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), map[string]string{"email": "<a@b.c>"}, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "{\n    \"email\": \"<a@b.c>\"\n}\n" {
		t.Errorf("Format() = %q", buf.String())
	}
}
