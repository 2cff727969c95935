package output

import (
	"strings"
	"testing"

	"github.com/ccollicutt/verdict/pkg/results"
)

const testResultsJSON = `{
  "m1": {
    "rule_results": [
      {"name": "R1", "source": "type.inbound && sender.email.domain.root_domain == \"bad.example\"", "result": true},
      {"name": "R2", "source": "s", "result": false}
    ],
    "query_results": [{"name": "Q1", "source": "q", "result": "alice"}]
  },
  "m2": {
    "rule_results": [
      {"name": "R1", "source": "type.inbound && sender.email.domain.root_domain == \"bad.example\"", "result": false},
      {"name": "R2", "source": "s", "result": false}
    ],
    "query_results": [{"name": "Q1", "source": "q", "result": "bob"}]
  }
}`

func createTestResults(t *testing.T) *results.Results {
	t.Helper()
	res, err := results.Decode(strings.NewReader(testResultsJSON))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return res
}

func loadTestTemplates(t *testing.T) *Templates {
	t.Helper()
	tmpl, err := LoadTemplates("")
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	return tmpl
}
