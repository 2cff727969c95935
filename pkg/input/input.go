// Package input reads command input from files, glob patterns or stdin.
package input

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ccollicutt/verdict/pkg/results"
)

// StdinName is the argument that selects standard input.
const StdinName = "-"

// Source is the content of one input file or stdin.
type Source struct {
	Name string
	Data []byte
}

// Read expands paths and returns the content of each file in order. No paths,
// or a "-" entry, reads stdin.
func Read(ctx context.Context, paths []string, stdin io.Reader) ([]Source, error) {
	if len(paths) == 0 {
		paths = []string{StdinName}
	}

	files, err := ExpandGlobs(paths)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		if file == StdinName {
			if stdin == nil {
				return nil, fmt.Errorf("reading stdin: no input stream")
			}
			data, err = io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			sources = append(sources, Source{Name: "stdin", Data: data})
			continue
		}

		data, err = os.ReadFile(file) // #nosec G304 -- user-provided input path is expected
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		sources = append(sources, Source{Name: file, Data: data})
	}

	return sources, nil
}

// ReadOne reads a single input, from path or from stdin when path is empty or "-".
func ReadOne(ctx context.Context, path string, stdin io.Reader) (Source, error) {
	var paths []string
	if path != "" {
		paths = []string{path}
	}
	sources, err := Read(ctx, paths, stdin)
	if err != nil {
		return Source{}, err
	}
	if len(sources) != 1 {
		return Source{}, fmt.Errorf("%q matched %d files, want one", path, len(sources))
	}
	return sources[0], nil
}

// MergeResults decodes each source and merges the results in order. A message
// identifier seen again replaces the earlier result but keeps its position.
// The returned count is the number of replaced messages.
func MergeResults(sources []Source) (*results.Results, int, error) {
	merged := results.New()
	replaced := 0

	for _, src := range sources {
		res, err := results.Decode(bytes.NewReader(src.Data))
		if err != nil {
			return nil, 0, fmt.Errorf("decoding %s: %w", src.Name, err)
		}
		for _, msg := range res.Messages() {
			if _, ok := merged.Get(msg.ID); ok {
				replaced++
			}
			merged.Add(msg.ID, msg)
		}
	}

	return merged, replaced, nil
}
