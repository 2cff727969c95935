package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour/v2"
)

// Glamour style names.
const (
	StyleDark  = "dark"
	StyleNoTTY = "notty"
)

// MarkdownOptions controls terminal rendering of Markdown output.
type MarkdownOptions struct {
	// Render pipes the Markdown through a terminal renderer.
	Render bool

	// Style is the glamour style name (dark, light, notty, dracula).
	Style string

	// WordWrap is the wrap width; zero uses 80.
	WordWrap int
}

// MarkdownFormatter formats analyze results as a Markdown report.
type MarkdownFormatter struct {
	opts   FormatOptions
	mdOpts MarkdownOptions
}

// NewMarkdownFormatter creates a Markdown formatter.
func NewMarkdownFormatter(opts FormatOptions, mdOpts MarkdownOptions) *MarkdownFormatter {
	if mdOpts.Style == "" {
		mdOpts.Style = StyleNoTTY
	}
	if mdOpts.WordWrap <= 0 {
		mdOpts.WordWrap = 80
	}
	return &MarkdownFormatter{opts: opts, mdOpts: mdOpts}
}

// Name returns the format name.
func (f *MarkdownFormatter) Name() string {
	return FormatMarkdown
}

// Format aggregates the results and writes a Markdown report.
func (f *MarkdownFormatter) Format(ctx context.Context, data any, w io.Writer) error {
	view, err := toView(data)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# Analysis summary\n\n")
	b.WriteString("| Metric | Count |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Messages analyzed | %d |\n", view.Stats.TotalMessages))
	b.WriteString(fmt.Sprintf("| Rules evaluated | %d |\n", view.Stats.TotalRules))
	b.WriteString(fmt.Sprintf("| Queries evaluated | %d |\n", view.Stats.TotalQueries))
	b.WriteString(fmt.Sprintf("| Flagged messages | %d |\n", view.Stats.FlaggedMessages))
	b.WriteString(fmt.Sprintf("| Flagged rules | %d |\n", view.Stats.FlaggedRules))

	if !f.opts.Quiet {
		if len(view.FlaggedMessages) > 0 {
			b.WriteString("\n## Flagged messages\n")
			for _, msg := range view.FlaggedMessages {
				b.WriteString(fmt.Sprintf("\n### %s\n\n", mdEscape(msg.ID)))
				for _, rule := range msg.RuleResults {
					b.WriteString(fmt.Sprintf("- **%s**\n", mdEscape(rule.Name)))
					if f.opts.Verbose {
						fence := codeFence(rule.Source)
						b.WriteString("\n  " + fence + "\n")
						for _, line := range strings.Split(rule.Source, "\n") {
							b.WriteString("  " + line + "\n")
						}
						b.WriteString("  " + fence + "\n\n")
					}
				}
			}
		}

		if len(view.UnflaggedMessages) > 0 {
			b.WriteString("\n## Unflagged messages\n\n")
			for _, msg := range view.UnflaggedMessages {
				b.WriteString(fmt.Sprintf("- %s\n", mdEscape(msg.ID)))
			}
		}

		if f.opts.Verbose && len(view.Queries) > 0 {
			b.WriteString("\n## Queries\n\n")
			for _, q := range view.Queries {
				b.WriteString(fmt.Sprintf("- **%s**: %s\n", mdEscape(q.Name()), codeSpan(compactJSON(q.Value()))))
			}
		}
	}

	out := b.String()
	if f.mdOpts.Render {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(f.mdOpts.Style),
			glamour.WithWordWrap(f.mdOpts.WordWrap),
		)
		if err != nil {
			return fmt.Errorf("creating markdown renderer: %w", err)
		}
		if out, err = r.Render(out); err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
	}

	_, err = io.WriteString(w, out)
	return err
}

// codeFence returns a backtick fence longer than any backtick run in s.
func codeFence(s string) string {
	return strings.Repeat("`", max(3, backtickRun(s)+1))
}

// codeSpan wraps s in an inline code span that survives backticks in s.
func codeSpan(s string) string {
	fence := strings.Repeat("`", backtickRun(s)+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

func backtickRun(s string) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}

func mdEscape(s string) string {
	r := strings.NewReplacer("|", "\\|", "*", "\\*", "_", "\\_", "`", "\\`", "#", "\\#")
	return r.Replace(s)
}
