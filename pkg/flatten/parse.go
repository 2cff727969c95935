package flatten

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError describes an unparseable line.
type SyntaxError struct {
	// Line is the 1-based line number.
	Line int

	// Msg describes the problem.
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("flatten: line %d: %s", e.Line, e.Msg)
}

type nodeKind int

const (
	kindScalar nodeKind = iota
	kindObject
	kindArray
)

type node struct {
	kind     nodeKind
	raw      json.RawMessage
	keys     []string
	children map[string]*node
	items    []*node
}

// segment is one step of a path: an object key or an array index.
type segment struct {
	key   string
	index int
	isKey bool
}

// Parse rebuilds the compact JSON document described by lines as produced
// by Dump. The first non-empty line declares the root; its label is ignored.
func Parse(lines []string) ([]byte, error) {
	var root *node

	for i, line := range lines {
		lineNum := i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSuffix(line, ";")

		if root == nil {
			sep := strings.Index(line, " = ")
			if sep < 0 {
				return nil, &SyntaxError{Line: lineNum, Msg: "missing ' = '"}
			}
			n, err := parseValue(line[sep+3:])
			if err != nil {
				return nil, &SyntaxError{Line: lineNum, Msg: err.Error()}
			}
			root = n
			continue
		}

		segs, rest, err := parsePath(line)
		if err != nil {
			return nil, &SyntaxError{Line: lineNum, Msg: err.Error()}
		}
		if !strings.HasPrefix(rest, " = ") {
			return nil, &SyntaxError{Line: lineNum, Msg: "missing ' = '"}
		}
		n, err := parseValue(rest[3:])
		if err != nil {
			return nil, &SyntaxError{Line: lineNum, Msg: err.Error()}
		}
		if err := root.set(segs, n); err != nil {
			return nil, &SyntaxError{Line: lineNum, Msg: err.Error()}
		}
	}

	if root == nil {
		return nil, &SyntaxError{Line: 0, Msg: "no root assignment"}
	}

	var buf bytes.Buffer
	root.encode(&buf)
	return buf.Bytes(), nil
}

func parseValue(s string) (*node, error) {
	switch s {
	case "{}":
		return &node{kind: kindObject, children: make(map[string]*node)}, nil
	case "[]":
		return &node{kind: kindArray}, nil
	}
	if !json.Valid([]byte(s)) {
		return nil, fmt.Errorf("invalid value %q", s)
	}
	return &node{kind: kindScalar, raw: json.RawMessage(s)}, nil
}

func parsePath(s string) ([]segment, string, error) {
	var segs []segment
	i := 0
	for i < len(s) {
		switch {
		case s[i] == ' ':
			if len(segs) == 0 {
				return nil, "", fmt.Errorf("empty path")
			}
			return segs, s[i:], nil
		case s[i] == '.':
			if len(segs) == 0 {
				return nil, "", fmt.Errorf("path starts with '.'")
			}
			i++
			j := identEnd(s, i)
			if j == i {
				return nil, "", fmt.Errorf("expected key after '.' at column %d", i+1)
			}
			segs = append(segs, segment{key: s[i:j], isKey: true})
			i = j
		case s[i] == '[':
			seg, n, err := parseBracket(s[i:])
			if err != nil {
				return nil, "", err
			}
			segs = append(segs, seg)
			i += n
		case len(segs) == 0:
			j := identEnd(s, i)
			if j == i {
				return nil, "", fmt.Errorf("unexpected %q at column %d", s[i], i+1)
			}
			segs = append(segs, segment{key: s[i:j], isKey: true})
			i = j
		default:
			return nil, "", fmt.Errorf("unexpected %q at column %d", s[i], i+1)
		}
	}
	return nil, "", fmt.Errorf("missing ' = '")
}

func identEnd(s string, i int) int {
	j := i
	for j < len(s) && isIdentifier(s[i:j+1]) {
		j++
	}
	return j
}

// parseBracket parses ["key"] or [n] at the start of s.
func parseBracket(s string) (segment, int, error) {
	if len(s) > 1 && s[1] == '"' {
		end := 2
		for end < len(s) {
			if s[end] == '\\' {
				end += 2
				continue
			}
			if s[end] == '"' {
				break
			}
			end++
		}
		if end+1 >= len(s) || s[end+1] != ']' {
			return segment{}, 0, fmt.Errorf("unterminated key in %q", s)
		}
		var key string
		if err := json.Unmarshal([]byte(s[1:end+1]), &key); err != nil {
			return segment{}, 0, fmt.Errorf("invalid key: %w", err)
		}
		return segment{key: key, isKey: true}, end + 2, nil
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return segment{}, 0, fmt.Errorf("unterminated index in %q", s)
	}
	idx, err := strconv.Atoi(s[1:end])
	if err != nil || idx < 0 {
		return segment{}, 0, fmt.Errorf("invalid index %q", s[1:end])
	}
	return segment{index: idx}, end + 1, nil
}

func (n *node) set(segs []segment, value *node) error {
	cur := n
	for i, seg := range segs {
		last := i == len(segs)-1
		if seg.isKey {
			if cur.kind != kindObject {
				return fmt.Errorf("key %q on a non-object", seg.key)
			}
			if last {
				if _, exists := cur.children[seg.key]; !exists {
					cur.keys = append(cur.keys, seg.key)
				}
				cur.children[seg.key] = value
				return nil
			}
			next, ok := cur.children[seg.key]
			if !ok {
				return fmt.Errorf("parent of key %q is not declared", seg.key)
			}
			cur = next
			continue
		}

		if cur.kind != kindArray {
			return fmt.Errorf("index %d on a non-array", seg.index)
		}
		for len(cur.items) <= seg.index {
			cur.items = append(cur.items, nil)
		}
		if last {
			cur.items[seg.index] = value
			return nil
		}
		next := cur.items[seg.index]
		if next == nil {
			return fmt.Errorf("parent of index %d is not declared", seg.index)
		}
		cur = next
	}
	return fmt.Errorf("cannot reassign the root")
}

func (n *node) encode(buf *bytes.Buffer) {
	if n == nil {
		buf.WriteString("null")
		return
	}
	switch n.kind {
	case kindObject:
		buf.WriteByte('{')
		for i, key := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quote(key))
			buf.WriteByte(':')
			n.children[key].encode(buf)
		}
		buf.WriteByte('}')
	case kindArray:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.encode(buf)
		}
		buf.WriteByte(']')
	default:
		buf.Write(n.raw)
	}
}
