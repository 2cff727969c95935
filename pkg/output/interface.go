package output

import (
	"context"
	"errors"
	"io"
)

// ErrUnsupportedData is returned when a formatter is given data it cannot render.
var ErrUnsupportedData = errors.New("unsupported data for formatter")

// Formatter renders result data in a specific format.
type Formatter interface {
	// Format renders data to the given writer.
	Format(ctx context.Context, data any, w io.Writer) error

	// Name returns the format name (json, txt, md).
	Name() string
}

// MarkupFormatter is implemented by formatters whose output contains style
// tags that must be translated before display.
type MarkupFormatter interface {
	Formatter

	// Markup reports whether the output contains style tags.
	Markup() bool
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose enables detailed output such as rule sources and query values.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool
}
