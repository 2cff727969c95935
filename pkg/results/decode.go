package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned when the input is not a JSON object keyed by
// message ID.
var ErrNotObject = errors.New("results must be a JSON object keyed by message id")

// ErrTrailingData is returned when anything but whitespace follows the
// results object.
var ErrTrailingData = errors.New("unexpected data after results object")

// Decode reads a results document, preserving message order and checking
// that every required field is present.
func Decode(r io.Reader) (*Results, error) {
	res := New()
	if err := res.decode(json.NewDecoder(r)); err != nil {
		return nil, err
	}
	return res, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Results) UnmarshalJSON(data []byte) error {
	decoded := New()
	if err := decoded.decode(json.NewDecoder(bytes.NewReader(data))); err != nil {
		return err
	}
	*r = *decoded
	return nil
}

// MarshalJSON writes messages in insertion order. Decoded messages are
// written exactly as they were read, including fields this package ignores.
func (r *Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range r.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if msg := r.messages[id]; msg != nil && len(msg.raw) > 0 {
			if err := json.Compact(&buf, msg.raw); err != nil {
				return nil, fmt.Errorf("encoding message %q: %w", id, err)
			}
			continue
		}
		val, err := marshal(r.messages[id])
		if err != nil {
			return nil, fmt.Errorf("encoding message %q: %w", id, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes v without escaping HTML characters, which are common in
// rule sources.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (r *Results) decode(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading results: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading message id: %w", err)
		}
		id, ok := tok.(string)
		if !ok {
			return ErrNotObject
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding message %q: %w", id, err)
		}
		msg, err := decodeMessage(id, raw)
		if err != nil {
			return err
		}
		r.Add(id, msg)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading results: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

// decodeMessage checks the required fields of one message. Field names are
// matched exactly, unlike encoding/json struct decoding.
func decodeMessage(id string, raw json.RawMessage) (*MessageResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decoding message %q: %w", id, err)
	}
	if fields == nil {
		return nil, NewMalformedMessageError(id, FieldMessage)
	}

	ruleRaw, ok := lookup(fields, FieldRuleResults)
	if !ok {
		return nil, NewMalformedMessageError(id, FieldRuleResults)
	}
	queryRaw, ok := lookup(fields, FieldQueryResults)
	if !ok {
		return nil, NewMalformedMessageError(id, FieldQueryResults)
	}

	var wireRules []map[string]json.RawMessage
	if err := json.Unmarshal(ruleRaw, &wireRules); err != nil {
		return nil, fmt.Errorf("decoding message %q: %s: %w", id, FieldRuleResults, err)
	}
	msg := &MessageResult{
		ID:           id,
		RuleResults:  make([]RuleResult, 0, len(wireRules)),
		QueryResults: []QueryResult{},
		raw:          append(json.RawMessage(nil), raw...),
	}
	if err := json.Unmarshal(queryRaw, &msg.QueryResults); err != nil {
		return nil, fmt.Errorf("decoding message %q: %s: %w", id, FieldQueryResults, err)
	}

	for i, wire := range wireRules {
		var rule RuleResult
		for _, f := range []struct {
			name string
			dst  any
		}{
			{FieldName, &rule.Name},
			{FieldSource, &rule.Source},
			{FieldResult, &rule.Result},
		} {
			v, ok := lookup(wire, f.name)
			if !ok {
				return nil, &MalformedResultError{MessageID: id, Field: f.name, RuleIndex: i}
			}
			if err := json.Unmarshal(v, f.dst); err != nil {
				return nil, fmt.Errorf("decoding message %q: rule_results[%d].%s: %w", id, i, f.name, err)
			}
		}
		msg.RuleResults = append(msg.RuleResults, rule)
	}
	return msg, nil
}

// lookup returns the field stored under exactly name. A JSON null counts as
// missing.
func lookup(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	v, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}
