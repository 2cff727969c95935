// Package results provides the data model for per-message analysis results
// produced by the rule/query engine.
package results

import (
	"encoding/json"
)

// RuleResult is the outcome of evaluating one named rule against a message.
type RuleResult struct {
	// Name is the rule name.
	Name string `json:"name"`

	// Source is the rule's query source.
	Source string `json:"source"`

	// Result is true when the rule matched the message.
	Result bool `json:"result"`
}

// Key returns the identity used to deduplicate rules across messages.
// Rules carry no unique identifier, so name and source are concatenated.
func (r RuleResult) Key() string {
	return r.Name + r.Source
}

// QueryResult is the outcome of evaluating one query against a message.
// Its content is opaque; the raw JSON is kept as-is.
type QueryResult struct {
	raw json.RawMessage
}

// NewQueryResult wraps raw JSON as a query result.
func NewQueryResult(raw json.RawMessage) QueryResult {
	return QueryResult{raw: append(json.RawMessage(nil), raw...)}
}

// Raw returns the undecoded query result.
func (q QueryResult) Raw() json.RawMessage {
	return q.raw
}

// MarshalJSON returns the raw query result.
func (q QueryResult) MarshalJSON() ([]byte, error) {
	if len(q.raw) == 0 {
		return []byte("null"), nil
	}
	return q.raw, nil
}

// UnmarshalJSON keeps a copy of the raw query result.
func (q *QueryResult) UnmarshalJSON(data []byte) error {
	q.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Name returns the query's "name" field, if it has one.
func (q QueryResult) Name() string {
	return q.stringField("name")
}

// Source returns the query's "source" field, if it has one.
func (q QueryResult) Source() string {
	return q.stringField("source")
}

// Value returns the decoded "result" field, or nil.
func (q QueryResult) Value() any {
	fields := q.fields()
	raw, ok := fields["result"]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func (q QueryResult) stringField(name string) string {
	raw, ok := q.fields()[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (q QueryResult) fields() map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(q.raw, &fields); err != nil {
		return nil
	}
	return fields
}

// MessageResult holds every rule and query result for one analyzed message.
type MessageResult struct {
	// ID is the key the message is stored under. It is not part of the
	// serialized message.
	ID string `json:"-"`

	// RuleResults lists rule outcomes in evaluation order.
	RuleResults []RuleResult `json:"rule_results"`

	// QueryResults lists query outcomes in evaluation order.
	QueryResults []QueryResult `json:"query_results"`

	raw json.RawMessage
}

// Raw returns the JSON the message was decoded from, or nil for messages
// built in code.
func (m *MessageResult) Raw() json.RawMessage {
	return m.raw
}

// FlaggedRules returns the rules that matched, preserving order.
// The returned slice is never nil.
func (m *MessageResult) FlaggedRules() []RuleResult {
	flagged := make([]RuleResult, 0, len(m.RuleResults))
	for _, rule := range m.RuleResults {
		if rule.Result {
			flagged = append(flagged, rule)
		}
	}
	return flagged
}

// Results is an ordered mapping from message ID to result.
// Iteration follows insertion order.
type Results struct {
	ids      []string
	messages map[string]*MessageResult
}

// New creates an empty result set.
func New() *Results {
	return &Results{messages: make(map[string]*MessageResult)}
}

// Add stores a message result under id. Re-adding an existing id replaces
// the message but keeps its original position.
func (r *Results) Add(id string, msg *MessageResult) {
	if r.messages == nil {
		r.messages = make(map[string]*MessageResult)
	}
	if _, exists := r.messages[id]; !exists {
		r.ids = append(r.ids, id)
	}
	if msg != nil {
		msg.ID = id
	}
	r.messages[id] = msg
}

// Get returns the message stored under id.
func (r *Results) Get(id string) (*MessageResult, bool) {
	if r == nil {
		return nil, false
	}
	msg, ok := r.messages[id]
	return msg, ok
}

// Len returns the number of messages.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}

// IDs returns message IDs in insertion order.
func (r *Results) IDs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.ids...)
}

// Messages returns the messages in insertion order.
func (r *Results) Messages() []*MessageResult {
	if r == nil {
		return nil
	}
	msgs := make([]*MessageResult, 0, len(r.ids))
	for _, id := range r.ids {
		msgs = append(msgs, r.messages[id])
	}
	return msgs
}
