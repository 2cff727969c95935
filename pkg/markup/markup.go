// Package markup translates inline style tags such as <header>...</header>
// into terminal escape sequences.
package markup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

// MismatchedTagError is returned when a closing tag does not match the
// innermost open tag.
type MismatchedTagError struct {
	// Tag is the closing tag that was found.
	Tag string

	// Open is the innermost open tag, empty if none was open.
	Open string

	// Offset is the byte offset of the closing tag in the input.
	Offset int
}

func (e *MismatchedTagError) Error() string {
	if e.Open == "" {
		return fmt.Sprintf("closing tag </%s> at offset %d has no opening tag", e.Tag, e.Offset)
	}
	return fmt.Sprintf("closing tag </%s> at offset %d does not match <%s>", e.Tag, e.Offset, e.Open)
}

// Translator converts tagged text to styled terminal output. It is read-only
// after construction and safe for concurrent use.
type Translator struct {
	styles map[string]lipgloss.Style
	color  bool
}

// Option configures a Translator.
type Option func(*Translator)

// WithColor enables or disables escape sequences. When disabled, tags are
// stripped and the text is left plain.
func WithColor(enabled bool) Option {
	return func(t *Translator) {
		t.color = enabled
	}
}

// WithStyle registers or replaces the style for a tag.
func WithStyle(tag string, style lipgloss.Style) Option {
	return func(t *Translator) {
		t.styles[tag] = style
	}
}

// New creates a translator over the given tag registry. Color is enabled by
// default.
func New(styles map[string]lipgloss.Style, opts ...Option) *Translator {
	t := &Translator{
		styles: make(map[string]lipgloss.Style, len(styles)),
		color:  true,
	}
	for tag, style := range styles {
		t.styles[tag] = style
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewDefault creates a translator with DefaultStyles.
func NewDefault(opts ...Option) *Translator {
	return New(DefaultStyles(), opts...)
}

// Color reports whether escape sequences are emitted.
func (t *Translator) Color() bool {
	return t.color
}

// Tags returns the registered tag names, sorted.
func (t *Translator) Tags() []string {
	tags := make([]string, 0, len(t.styles))
	for tag := range t.styles {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Escape makes s render verbatim through Translate by backslash-escaping
// every backslash and '<'. Text coming from data must be escaped before it
// is placed between tags.
func Escape(s string) string {
	if !strings.ContainsAny(s, `\<`) {
		return s
	}
	return escaper.Replace(s)
}

var escaper = strings.NewReplacer(`\`, `\\`, "<", `\<`)

// Translate replaces registered tags in s with escape sequences, or strips
// them when color is disabled. Anything that looks like a tag but is not
// registered is kept verbatim. Tags left open are closed at the end of input.
// A backslash before '<' or another backslash emits that byte as text.
func (t *Translator) Translate(s string) (string, error) {
	var (
		out   strings.Builder
		text  strings.Builder
		stack []string
	)

	flush := func() {
		if text.Len() == 0 {
			return
		}
		out.WriteString(t.render(text.String(), stack))
		text.Reset()
	}

	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '<') {
			text.WriteByte(s[i+1])
			i += 2
			continue
		}
		if s[i] == '<' {
			if name, closing, n, ok := t.parseTag(s[i:]); ok {
				flush()
				if closing {
					top := ""
					if len(stack) > 0 {
						top = stack[len(stack)-1]
					}
					if top != name {
						return "", &MismatchedTagError{Tag: name, Open: top, Offset: i}
					}
					stack = stack[:len(stack)-1]
				} else {
					stack = append(stack, name)
				}
				i += n
				continue
			}
		}
		text.WriteByte(s[i])
		i++
	}
	flush()

	return out.String(), nil
}

// parseTag matches <name> or </name> at the start of s for a registered name.
func (t *Translator) parseTag(s string) (name string, closing bool, n int, ok bool) {
	j := 1
	if j < len(s) && s[j] == '/' {
		closing = true
		j++
	}
	start := j
	for j < len(s) && isTagByte(s[j]) {
		j++
	}
	if j == start || j >= len(s) || s[j] != '>' {
		return "", false, 0, false
	}
	name = s[start:j]
	if _, known := t.styles[name]; !known {
		return "", false, 0, false
	}
	return name, closing, j + 1, true
}

func isTagByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '-'
}

// render styles text with the innermost tag's style layered over the outer
// ones. Lines are styled one by one so that no padding is introduced.
func (t *Translator) render(text string, stack []string) string {
	if !t.color || len(stack) == 0 {
		return text
	}

	style := t.styles[stack[len(stack)-1]]
	for i := len(stack) - 2; i >= 0; i-- {
		style = style.Inherit(t.styles[stack[i]])
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
