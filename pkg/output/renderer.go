package output

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/verdict/pkg/markup"
)

// Renderer runs formatters and post-processes their output for display.
type Renderer struct {
	markup *markup.Translator
}

// NewRenderer creates a renderer translating style tags with t.
func NewRenderer(t *markup.Translator) *Renderer {
	return &Renderer{markup: t}
}

// Render formats data with f and writes the result to w. Style tags in the
// output of markup formatters are translated first.
func (r *Renderer) Render(ctx context.Context, f Formatter, data any, w io.Writer) error {
	var buf bytes.Buffer
	if err := f.Format(ctx, data, &buf); err != nil {
		return err
	}

	if m, ok := f.(MarkupFormatter); ok && m.Markup() && r.markup != nil {
		out, err := r.markup.Translate(buf.String())
		if err != nil {
			return fmt.Errorf("translating markup: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}
