package output

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/ccollicutt/verdict/pkg/markup"
	"github.com/ccollicutt/verdict/pkg/rules"
)

// Template names.
const (
	TemplateAnalyze  = "analyze.txt.tmpl"
	TemplateMe       = "me.txt.tmpl"
	TemplateFeedback = "feedback.txt.tmpl"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Templates is the parsed template set used by text formatters. Build it once
// with LoadTemplates and share it; it is safe for concurrent use.
type Templates struct {
	set *template.Template
}

// LoadTemplates parses the built-in templates. When dir is non-empty, any
// *.tmpl file in it replaces the built-in template of the same name.
func LoadTemplates(dir string) (*Templates, error) {
	set, err := template.New("verdict").Funcs(templateFuncs()).ParseFS(builtinTemplates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing built-in templates: %w", err)
	}

	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.tmpl"))
		if err != nil {
			return nil, fmt.Errorf("searching template dir: %w", err)
		}
		if len(matches) > 0 {
			if set, err = set.ParseFS(os.DirFS(dir), "*.tmpl"); err != nil {
				return nil, fmt.Errorf("parsing templates in %s: %w", dir, err)
			}
		}
	}

	return &Templates{set: set}, nil
}

// Execute renders the named template.
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	tmpl := t.set.Lookup(name)
	if tmpl == nil {
		return fmt.Errorf("template %q not found", name)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"mql":    rules.FormatMQL,
		"json":   compactJSON,
		"upper":  strings.ToUpper,
		"scalar": isScalar,
		"show":   showValue,
		"esc":    markup.Escape,
	}
}

// showValue prints a decoded JSON value: null for nil, JSON for containers.
func showValue(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any, []any:
		return compactJSON(v)
	default:
		return fmt.Sprint(v)
	}
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func isScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	default:
		return true
	}
}
