package rules

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidDocument is returned for empty or non-mapping YAML documents.
	ErrInvalidDocument = errors.New("invalid YAML document")

	// ErrInvalidType is returned when a single definition has a type other
	// than rule or query.
	ErrInvalidType = errors.New("invalid type (must be rule or query)")

	// ErrMissingSource is returned for a definition without a source.
	ErrMissingSource = errors.New("missing source")
)

type document struct {
	Rules   []Definition `yaml:"rules"`
	Queries []Definition `yaml:"queries"`
	Definition `yaml:",inline"`
}

// Load reads rules and queries from a single YAML document. The document
// either lists definitions under "rules" and "queries", or is itself one
// definition with a "type" of rule or query. name identifies the document in
// errors and warnings.
func Load(r io.Reader, name string, opts LoadOptions) (rules, queries []Definition, err error) {
	log := opts.logger().With(zap.String("file", name))

	fail := func(err error) ([]Definition, []Definition, error) {
		if opts.IgnoreErrors {
			log.Warn("skipping file", zap.Error(err))
			return nil, nil, nil
		}
		return nil, nil, &LoadError{File: name, Err: err}
	}

	var doc *document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return fail(ErrInvalidDocument)
		}
		return fail(fmt.Errorf("%w: %v", ErrInvalidDocument, err))
	}
	if doc == nil {
		return fail(ErrInvalidDocument)
	}

	ruleDefs, queryDefs := doc.Rules, doc.Queries
	if len(ruleDefs) == 0 && len(queryDefs) == 0 {
		switch doc.Kind {
		case KindRule:
			ruleDefs = []Definition{doc.Definition}
		case KindQuery:
			queryDefs = []Definition{doc.Definition}
		default:
			return fail(ErrInvalidType)
		}
	}

	rules, err = filter(ruleDefs, KindRule, name, opts, log)
	if err != nil {
		return nil, nil, err
	}
	queries, err = filter(queryDefs, KindQuery, name, opts, log)
	if err != nil {
		return nil, nil, err
	}
	return rules, queries, nil
}

func filter(defs []Definition, kind Kind, name string, opts LoadOptions, log *zap.Logger) ([]Definition, error) {
	out := make([]Definition, 0, len(defs))
	for i, def := range defs {
		if strings.TrimSpace(def.Source) == "" {
			err := fmt.Errorf("%ss[%d] (%s): %w", kind, i, def.Name, ErrMissingSource)
			if opts.IgnoreErrors {
				log.Warn("skipping definition", zap.Error(err))
				continue
			}
			return nil, &LoadError{File: name, Err: err}
		}
		out = append(out, Definition{Kind: kind, Name: def.Name, Source: def.Source})
	}
	return out, nil
}

// LoadFile loads definitions from one YAML file.
func LoadFile(path string, opts LoadOptions) (rules, queries []Definition, err error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided rules path is expected
	if err != nil {
		if opts.IgnoreErrors {
			opts.logger().Warn("skipping file", zap.String("file", path), zap.Error(err))
			return nil, nil, nil
		}
		return nil, nil, &LoadError{File: path, Err: err}
	}
	defer f.Close()

	return Load(f, path, opts)
}

// LoadPath loads every *.yml and *.yaml file below dir, in lexical order.
func LoadPath(dir string, opts LoadOptions) (rules, queries []Definition, err error) {
	files, err := findYAML(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("searching %s: %w", dir, err)
	}

	for _, file := range files {
		r, q, err := LoadFile(file, opts)
		if err != nil {
			return nil, nil, err
		}
		rules = append(rules, r...)
		queries = append(queries, q...)
	}

	if len(rules) == 0 && len(queries) == 0 {
		opts.logger().Warn("no valid YAML files found", zap.String("path", dir))
	}
	return rules, queries, nil
}

func findYAML(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yml", ".yaml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
