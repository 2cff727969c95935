package results

import (
	"fmt"
)

// Field names reported by MalformedResultError.
const (
	FieldRuleResults  = "rule_results"
	FieldQueryResults = "query_results"
	FieldName         = "name"
	FieldSource       = "source"
	FieldResult       = "result"
	FieldMessage      = "message"
)

// MalformedResultError reports a message result missing a required field.
type MalformedResultError struct {
	// MessageID identifies the offending message.
	MessageID string

	// Field is the missing field name.
	Field string

	// RuleIndex is the position of the offending rule result, or -1 when
	// the problem is on the message itself.
	RuleIndex int
}

func (e *MalformedResultError) Error() string {
	if e.RuleIndex >= 0 {
		return fmt.Sprintf("malformed result for message %q: rule_results[%d]: missing %s",
			e.MessageID, e.RuleIndex, e.Field)
	}
	return fmt.Sprintf("malformed result for message %q: missing %s", e.MessageID, e.Field)
}

// NewMalformedMessageError reports a missing message-level field.
func NewMalformedMessageError(messageID, field string) *MalformedResultError {
	return &MalformedResultError{MessageID: messageID, Field: field, RuleIndex: -1}
}
