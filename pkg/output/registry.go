package output

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownFormat is returned for an output format with no formatters.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrUnknownCommand is returned when a format has no formatter for a command.
	ErrUnknownCommand = errors.New("no formatter for command")
)

// Registry is the dispatch table from output format and command to formatter.
// JSON output serves every command; other formats are keyed by command.
type Registry struct {
	json     Formatter
	commands map[string]map[string]Formatter
}

// NewRegistry builds the standard dispatch table.
func NewRegistry(templates *Templates, opts FormatOptions, mdOpts MarkdownOptions) *Registry {
	return &Registry{
		json: NewJSONFormatter(opts),
		commands: map[string]map[string]Formatter{
			FormatText: {
				CommandMe:       NewSingleFormatter(templates, TemplateMe, opts),
				CommandFeedback: NewSingleFormatter(templates, TemplateFeedback, opts),
				CommandCreate:   NewDumpFormatter(DataModelRoot),
				CommandAnalyze:  NewTextFormatter(templates, opts),
			},
			FormatMarkdown: {
				CommandAnalyze: NewMarkdownFormatter(opts, mdOpts),
			},
		},
	}
}

// Lookup returns the formatter for a format and command.
func (r *Registry) Lookup(format, command string) (Formatter, error) {
	if format == FormatJSON {
		return r.json, nil
	}
	byCommand, ok := r.commands[format]
	if !ok {
		return nil, fmt.Errorf("%w %q (use %s)", ErrUnknownFormat, format, strings.Join(r.Formats(), "|"))
	}
	f, ok := byCommand[command]
	if !ok {
		return nil, fmt.Errorf("%w %q in format %q", ErrUnknownCommand, command, format)
	}
	return f, nil
}

// Formats returns the supported format names, sorted.
func (r *Registry) Formats() []string {
	formats := []string{FormatJSON}
	for format := range r.commands {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
