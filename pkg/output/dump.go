package output

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/ccollicutt/verdict/pkg/flatten"
)

// DumpFormatter flattens a message data model into greppable assignment lines.
type DumpFormatter struct {
	root string
}

// NewDumpFormatter creates a dump formatter labelling the root with root.
func NewDumpFormatter(root string) *DumpFormatter {
	return &DumpFormatter{root: root}
}

// Name returns the format name.
func (f *DumpFormatter) Name() string {
	return FormatText
}

// Format writes one line per node of data.
func (f *DumpFormatter) Format(ctx context.Context, data any, w io.Writer) error {
	var (
		lines []string
		err   error
	)
	switch v := data.(type) {
	case json.RawMessage:
		lines, err = flatten.Dump(v, f.root)
	case []byte:
		lines, err = flatten.Dump(v, f.root)
	default:
		lines, err = flatten.DumpValue(v, f.root)
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
