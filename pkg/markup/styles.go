package markup

import (
	"github.com/charmbracelet/lipgloss/v2"
)

// Tag names understood by the default translator.
const (
	TagHeader      = "header"
	TagKey         = "key"
	TagValue       = "value"
	TagNotDetected = "not-detected"
	TagFail        = "fail"
	TagSuccess     = "success"
	TagUnknown     = "unknown"
	TagDetected    = "detected"
	TagEnrichment  = "enrichment"
	TagWarning     = "warning"
	TagQuery       = "query"
)

// ANSI color indexes.
var (
	green        = lipgloss.Color("2")
	cyan         = lipgloss.Color("6")
	white        = lipgloss.Color("7")
	brightRed    = lipgloss.Color("9")
	brightGreen  = lipgloss.Color("10")
	brightYellow = lipgloss.Color("11")
)

// DefaultStyles returns the style registry for result output.
func DefaultStyles() map[string]lipgloss.Style {
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)

	return map[string]lipgloss.Style{
		TagHeader:      base.Bold(true),
		TagKey:         base.Foreground(cyan),
		TagValue:       base.Foreground(green),
		TagNotDetected: base.Faint(true),
		TagFail:        base.Foreground(brightRed),
		TagSuccess:     base.Foreground(green),
		TagUnknown:     base.Faint(true),
		TagDetected:    base.Foreground(brightGreen),
		TagEnrichment:  base.Foreground(brightYellow),
		TagWarning:     base.Foreground(brightYellow),
		TagQuery:       base.Foreground(white),
	}
}
