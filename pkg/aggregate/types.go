// Package aggregate summarizes per-message analysis results into the view
// consumed by renderers.
package aggregate

import (
	"github.com/ccollicutt/verdict/pkg/results"
)

// Stats holds the summary counters of an aggregation.
type Stats struct {
	// TotalMessages is the number of analyzed messages.
	TotalMessages int `json:"total_messages"`

	// TotalRules is the rule count of the first message. It is only
	// meaningful when every message was evaluated against the same rules.
	TotalRules int `json:"total_rules"`

	// TotalQueries is the query count of the first message, with the same
	// caveat as TotalRules.
	TotalQueries int `json:"total_queries"`

	// FlaggedRules counts distinct matched rule identities across all messages.
	FlaggedRules int `json:"flagged_rules"`

	// FlaggedMessages counts messages with at least one matched rule.
	FlaggedMessages int `json:"flagged_messages"`
}

// View is the normalized, aggregated form of a result set.
type View struct {
	// Stats provides the summary counters.
	Stats Stats `json:"stats"`

	// FlaggedMessages holds messages with at least one matched rule. Their
	// RuleResults contain only matched rules.
	FlaggedMessages []*results.MessageResult `json:"flagged_messages"`

	// UnflaggedMessages holds messages with no matched rule. Their
	// RuleResults are empty.
	UnflaggedMessages []*results.MessageResult `json:"unflagged_messages"`

	// Rules are the matched rules of the last message visited.
	Rules []results.RuleResult `json:"rules"`

	// Queries are the query results of the last message visited.
	Queries []results.QueryResult `json:"queries"`

	// messages keeps every filtered message in input order.
	messages []*results.MessageResult
}

// Results rebuilds a result set from the view's filtered messages, in
// input order.
func (v *View) Results() *results.Results {
	res := results.New()
	for _, msg := range v.messages {
		res.Add(msg.ID, &results.MessageResult{
			RuleResults:  msg.RuleResults,
			QueryResults: msg.QueryResults,
		})
	}
	return res
}
