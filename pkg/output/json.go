package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ccollicutt/verdict/pkg/results"
)

// JSONIndent is the indentation used for JSON output.
const JSONIndent = "    "

// JSONFormatter formats raw result data as JSON. It does not aggregate.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return FormatJSON
}

// Format renders data as indented JSON. Raw JSON input is re-indented
// without reordering keys.
func (f *JSONFormatter) Format(ctx context.Context, data any, w io.Writer) error {
	if res, ok := data.(*results.Results); ok && f.opts.Quiet {
		// Quiet mode: just summary
		view, err := toView(res)
		if err != nil {
			return err
		}
		data = view.Stats
	}

	var raw []byte
	switch v := data.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	}
	if raw != nil {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", JSONIndent); err != nil {
			return fmt.Errorf("indenting json: %w", err)
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(w)
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", JSONIndent)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}
