// Package flatten turns nested JSON documents into greppable assignment
// lines and back.
//
// Every node becomes one line of the form
//
//	path = value;
//
// where containers are written as {} or [] and leaves as JSON literals. The
// first line names the root; all other paths are relative to it:
//
//	message_data_model = {};
//	headers = {};
//	headers.from = "a@example.com";
//	headers["x-mailer"] = "mutt";
//	attachments = [];
//	attachments[0] = "invoice.pdf";
package flatten

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultRoot is used when no root label is given.
const DefaultRoot = "json"

// Dump flattens the JSON document in data. Object keys keep document order.
func Dump(data []byte, root string) ([]string, error) {
	if root == "" {
		root = DefaultRoot
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	d := &dumper{dec: dec, root: root}
	if err := d.value(""); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("flatten: unexpected data after top-level value")
	}
	return d.lines, nil
}

// DumpValue marshals v to JSON and flattens it.
func DumpValue(v any, root string) ([]string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("flatten: encoding value: %w", err)
	}
	return Dump(data, root)
}

type dumper struct {
	dec   *json.Decoder
	root  string
	lines []string
}

func (d *dumper) emit(path, value string) {
	if path == "" {
		path = d.root
	}
	d.lines = append(d.lines, path+" = "+value+";")
}

func (d *dumper) value(path string) error {
	tok, err := d.dec.Token()
	if err != nil {
		return fmt.Errorf("flatten: %w", err)
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			d.emit(path, "{}")
			for d.dec.More() {
				keyTok, err := d.dec.Token()
				if err != nil {
					return fmt.Errorf("flatten: %w", err)
				}
				key, _ := keyTok.(string)
				if err := d.value(childKey(path, key)); err != nil {
					return err
				}
			}
		case '[':
			d.emit(path, "[]")
			for i := 0; d.dec.More(); i++ {
				if err := d.value(childIndex(path, i)); err != nil {
					return err
				}
			}
		}
		// consume the closing delimiter
		if _, err := d.dec.Token(); err != nil {
			return fmt.Errorf("flatten: %w", err)
		}
		return nil
	case string:
		d.emit(path, quote(v))
	case json.Number:
		d.emit(path, v.String())
	case bool:
		d.emit(path, strconv.FormatBool(v))
	case nil:
		d.emit(path, "null")
	}
	return nil
}

func childKey(parent, key string) string {
	if isIdentifier(key) {
		if parent == "" {
			return key
		}
		return parent + "." + key
	}
	return parent + "[" + quote(key) + "]"
}

func childIndex(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// quote encodes s as a JSON string without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
