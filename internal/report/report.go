// Package report assembles the terminal result for one calldata item.
package report

import (
	"github.com/lovradikk/slipsentry/internal/dex"
	"github.com/lovradikk/slipsentry/internal/risk"
)

// Report is the immutable per-item output. Construction is total: any
// successfully decoded (or intentionally unknown) input yields one.
// Renderers consume the fields verbatim.
type Report struct {
	Selector   string         `json:"selector"`
	Family     string         `json:"family"`
	Fn         string         `json:"fn"`
	Fields     dex.Fields     `json:"fields"`
	PathTokens []string       `json:"path_tokens"`
	Findings   []risk.Finding `json:"findings"`
	RiskScore  int            `json:"risk_score"`
	RiskLabel  string         `json:"risk_label"`
}

// Build combines the decoded pieces with the heuristic output.
func Build(selector string, kind dex.SigKind, fields dex.Fields, tokens []string, findings []risk.Finding, score int, label string) *Report {
	if fields == nil {
		fields = dex.Fields{}
	}
	if tokens == nil {
		tokens = []string{}
	}
	return &Report{
		Selector:   selector,
		Family:     string(dex.KindFamily(kind)),
		Fn:         dex.KindToName(kind),
		Fields:     fields,
		PathTokens: tokens,
		Findings:   findings,
		RiskScore:  score,
		RiskLabel:  label,
	}
}
