package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// TextFormatter formats analyze results as human-readable text with style
// tags.
type TextFormatter struct {
	opts      FormatOptions
	templates *Templates
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(templates *Templates, opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts, templates: templates}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return FormatText
}

// Markup reports that the output contains style tags.
func (f *TextFormatter) Markup() bool {
	return true
}

// Format aggregates the results and renders the summary report. data must be
// a *results.Results or an already aggregated *aggregate.View.
func (f *TextFormatter) Format(ctx context.Context, data any, w io.Writer) error {
	view, err := toView(data)
	if err != nil {
		return err
	}

	if f.opts.Quiet {
		_, err := fmt.Fprintf(w, "<header>verdict:</header> %d messages, %d flagged, %d distinct rules matched\n",
			view.Stats.TotalMessages,
			view.Stats.FlaggedMessages,
			view.Stats.FlaggedRules)
		return err
	}

	return executeTemplate(f.templates, TemplateAnalyze, NewAnalyzeData(view, f.opts.Verbose), w)
}

// SingleFormatter passes a single result object to a template unchanged.
// It serves the me and feedback commands.
type SingleFormatter struct {
	opts      FormatOptions
	templates *Templates
	template  string
}

// NewSingleFormatter creates a formatter rendering the named template.
func NewSingleFormatter(templates *Templates, template string, opts FormatOptions) *SingleFormatter {
	return &SingleFormatter{opts: opts, templates: templates, template: template}
}

// Name returns the format name.
func (f *SingleFormatter) Name() string {
	return FormatText
}

// Markup reports that the output contains style tags.
func (f *SingleFormatter) Markup() bool {
	return true
}

// Format renders a JSON object (raw bytes or a decoded map).
func (f *SingleFormatter) Format(ctx context.Context, data any, w io.Writer) error {
	result, err := toObject(data)
	if err != nil {
		return err
	}
	return executeTemplate(f.templates, f.template, &SingleData{Result: result, Verbose: f.opts.Verbose}, w)
}

func toObject(data any) (map[string]any, error) {
	var raw []byte
	switch v := data.(type) {
	case map[string]any:
		return v, nil
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		return nil, ErrUnsupportedData
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON object: %v", ErrUnsupportedData, err)
	}
	return obj, nil
}

func executeTemplate(templates *Templates, name string, data any, w io.Writer) error {
	var buf bytes.Buffer
	if err := templates.Execute(&buf, name, data); err != nil {
		return err
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		buf.WriteByte('\n')
	}
	_, err := buf.WriteTo(w)
	return err
}
