// Package output provides formatting and output generation for analysis results.
package output

import (
	"github.com/ccollicutt/verdict/pkg/aggregate"
	"github.com/ccollicutt/verdict/pkg/results"
)

// Output format names.
const (
	FormatJSON     = "json"
	FormatText     = "txt"
	FormatMarkdown = "md"
)

// Sub-command names used for dispatch.
const (
	CommandMe       = "me"
	CommandFeedback = "feedback"
	CommandCreate   = "create"
	CommandAnalyze  = "analyze"
)

// DataModelRoot labels the root line of a flattened message data model.
const DataModelRoot = "message_data_model"

// AnalyzeData is the data passed to the analyze template.
type AnalyzeData struct {
	Stats             aggregate.Stats
	FlaggedMessages   []*results.MessageResult
	UnflaggedMessages []*results.MessageResult
	Rules             []results.RuleResult
	Queries           []results.QueryResult
	Verbose           bool
}

// NewAnalyzeData builds template data from an aggregated view.
func NewAnalyzeData(view *aggregate.View, verbose bool) *AnalyzeData {
	return &AnalyzeData{
		Stats:             view.Stats,
		FlaggedMessages:   view.FlaggedMessages,
		UnflaggedMessages: view.UnflaggedMessages,
		Rules:             view.Rules,
		Queries:           view.Queries,
		Verbose:           verbose,
	}
}

// SingleData is the data passed to single-result templates.
type SingleData struct {
	Result  any
	Verbose bool
}

// toView aggregates supported analyze inputs.
func toView(data any) (*aggregate.View, error) {
	switch v := data.(type) {
	case *aggregate.View:
		return v, nil
	case *results.Results:
		return aggregate.Aggregate(v)
	default:
		return nil, ErrUnsupportedData
	}
}
