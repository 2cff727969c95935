package rules

import (
	"strings"
)

// FormatMQL breaks a rule source onto multiple lines at boolean operators
// and between list elements, for display.
func FormatMQL(source string) string {
	source = strings.ReplaceAll(source, "&&", "\n  &&")
	source = strings.ReplaceAll(source, "||", "\n  ||")
	source = strings.ReplaceAll(source, "],", "],\n  ")
	return source
}
