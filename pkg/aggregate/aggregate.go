package aggregate

import (
	"errors"

	"github.com/ccollicutt/verdict/pkg/results"
)

// ErrEmptyInput is returned when there are no messages to summarize.
var ErrEmptyInput = errors.New("no message results to aggregate")

// Aggregate computes summary statistics over res and partitions its messages
// into flagged and unflagged lists. Each message in the view carries only its
// matched rules. res itself is not modified.
//
// Rule and query totals come from the first message, and the view's Rules and
// Queries from the last one; both assume every message shares one rule/query
// set.
func Aggregate(res *results.Results) (*View, error) {
	if res.Len() == 0 {
		return nil, ErrEmptyInput
	}

	if err := validate(res); err != nil {
		return nil, err
	}
	messages := res.Messages()

	first := messages[0]
	view := &View{
		Stats: Stats{
			TotalMessages: len(messages),
			TotalRules:    len(first.RuleResults),
			TotalQueries:  len(first.QueryResults),
		},
		FlaggedMessages:   []*results.MessageResult{},
		UnflaggedMessages: []*results.MessageResult{},
		messages:          make([]*results.MessageResult, 0, len(messages)),
	}

	seen := make(map[string]struct{})
	var last *results.MessageResult
	for _, msg := range messages {
		flagged := msg.FlaggedRules()
		for _, rule := range flagged {
			seen[rule.Key()] = struct{}{}
		}

		filtered := &results.MessageResult{
			ID:           msg.ID,
			RuleResults:  flagged,
			QueryResults: msg.QueryResults,
		}
		view.messages = append(view.messages, filtered)

		if len(flagged) > 0 {
			view.FlaggedMessages = append(view.FlaggedMessages, filtered)
		} else {
			view.UnflaggedMessages = append(view.UnflaggedMessages, filtered)
		}
		last = filtered
	}

	view.Stats.FlaggedRules = len(seen)
	view.Stats.FlaggedMessages = len(view.FlaggedMessages)
	view.Rules = last.RuleResults
	view.Queries = last.QueryResults

	return view, nil
}

func validate(res *results.Results) error {
	for _, id := range res.IDs() {
		msg, _ := res.Get(id)
		switch {
		case msg == nil:
			return results.NewMalformedMessageError(id, results.FieldMessage)
		case msg.RuleResults == nil:
			return results.NewMalformedMessageError(id, results.FieldRuleResults)
		case msg.QueryResults == nil:
			return results.NewMalformedMessageError(id, results.FieldQueryResults)
		}
	}
	return nil
}
