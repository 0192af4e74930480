// Package risk runs the slippage/safety heuristics over decoded swap
// fields. Findings are observations, never errors; the decode layer
// has already rejected anything structurally broken.
package risk

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lovradikk/slipsentry/internal/dex"
	"github.com/lovradikk/slipsentry/internal/helpers"
)

// Level is a finding severity.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Finding is one fired heuristic with its supporting context.
type Finding struct {
	Level   Level          `json:"level"`
	Reason  string         `json:"reason"`
	Context map[string]any `json:"context,omitempty"`
}

// Policy holds the tunable knobs. Weights and thresholds are policy,
// not invariants; only their ordering (HIGH > MEDIUM > LOW, additive
// scoring) is fixed.
type Policy struct {
	WeightHigh      int
	WeightMedium    int
	WeightLow       int
	MaxPathHops     int
	DeadlineHorizon time.Duration
	ScoreCeiling    int
}

// DefaultPolicy matches the documented defaults: 40/15/5 weights,
// 5-hop cap, one-year deadline horizon, score clamped at 100.
func DefaultPolicy() Policy {
	return Policy{
		WeightHigh:      40,
		WeightMedium:    15,
		WeightLow:       5,
		MaxPathHops:     5,
		DeadlineHorizon: 365 * 24 * time.Hour,
		ScoreCeiling:    100,
	}
}

func (p Policy) weight(l Level) int {
	switch l {
	case LevelHigh:
		return p.WeightHigh
	case LevelMedium:
		return p.WeightMedium
	default:
		return p.WeightLow
	}
}

// Label buckets: 0 none, 1-19 low, 20-39 medium, 40+ high.
const (
	labelMediumFloor = 20
	labelHighFloor   = 40
)

// LabelFor buckets a score into its categorical label.
func LabelFor(score int) string {
	switch {
	case score >= labelHighFloor:
		return "high"
	case score >= labelMediumFloor:
		return "medium"
	case score > 0:
		return "low"
	default:
		return "none"
	}
}

// Engine evaluates the heuristic battery under one policy. The clock
// is injectable so the deadline-horizon check stays deterministic in
// tests.
type Engine struct {
	policy Policy
	now    func() time.Time
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy, now: time.Now}
}

// input is what every check sees: the full decoded view of one swap.
type input struct {
	kind   dex.SigKind
	family dex.Family
	fields dex.Fields
	tokens []string
}

type check func(*Engine, input) *Finding

// Evaluation order is emission order. Each check fires at most once
// and appends exactly one finding; scoring is additive with no early
// exit.
var checks = []check{
	(*Engine).checkZeroSlippageGuard,
	(*Engine).checkZeroDeadline,
	(*Engine).checkDistantDeadline,
	(*Engine).checkEmptyPath,
	(*Engine).checkSingleTokenPath,
	(*Engine).checkRepeatedTokens,
	(*Engine).checkExcessiveHops,
	(*Engine).checkBurnRecipient,
	(*Engine).checkUnknownSelector,
}

// Evaluate runs the battery over one decoded swap and returns the
// ordered findings, the clamped additive score and its label.
func (e *Engine) Evaluate(kind dex.SigKind, fields dex.Fields, tokens []string) ([]Finding, int, string) {
	in := input{kind: kind, family: dex.KindFamily(kind), fields: fields, tokens: tokens}

	findings := []Finding{}
	score := 0
	for _, c := range checks {
		if f := c(e, in); f != nil {
			findings = append(findings, *f)
			score += e.policy.weight(f.Level)
		}
	}
	if e.policy.ScoreCeiling > 0 && score > e.policy.ScoreCeiling {
		score = e.policy.ScoreCeiling
	}
	return findings, score, LabelFor(score)
}

func (e *Engine) checkZeroSlippageGuard(in input) *Finding {
	guard, ok := dex.SlippageGuard(in.kind)
	if !ok {
		return nil
	}
	v, ok := in.fields.Uint(guard)
	if !ok || v.Sign() != 0 {
		return nil
	}
	return &Finding{
		Level:   LevelHigh,
		Reason:  "no_slippage_floor",
		Context: map[string]any{"field": guard},
	}
}

func (e *Engine) checkZeroDeadline(in input) *Finding {
	dl, ok := in.fields.Uint("deadline")
	if !ok || dl.Sign() != 0 {
		return nil
	}
	return &Finding{
		Level:   LevelHigh,
		Reason:  "zero_deadline",
		Context: map[string]any{"deadline": "0"},
	}
}

func (e *Engine) checkDistantDeadline(in input) *Finding {
	dl, ok := in.fields.Uint("deadline")
	if !ok || dl.Sign() == 0 {
		return nil
	}
	horizon := big.NewInt(e.now().Add(e.policy.DeadlineHorizon).Unix())
	if dl.Cmp(horizon) <= 0 {
		return nil
	}
	return &Finding{
		Level:   LevelMedium,
		Reason:  "distant_deadline",
		Context: map[string]any{"deadline": dl.String(), "horizon": horizon.String()},
	}
}

func (e *Engine) checkEmptyPath(in input) *Finding {
	if in.family == dex.FamilyUnknown || len(in.tokens) != 0 {
		return nil
	}
	return &Finding{Level: LevelMedium, Reason: "empty_path"}
}

func (e *Engine) checkSingleTokenPath(in input) *Finding {
	if len(in.tokens) != 1 {
		return nil
	}
	return &Finding{
		Level:   LevelMedium,
		Reason:  "single_token_path",
		Context: map[string]any{"token": in.tokens[0]},
	}
}

func (e *Engine) checkRepeatedTokens(in input) *Finding {
	seen := make(map[string]struct{}, len(in.tokens))
	for _, tok := range in.tokens {
		if _, dup := seen[tok]; dup {
			return &Finding{
				Level:   LevelMedium,
				Reason:  "repeated_path_token",
				Context: map[string]any{"token": tok},
			}
		}
		seen[tok] = struct{}{}
	}
	return nil
}

func (e *Engine) checkExcessiveHops(in input) *Finding {
	if len(in.tokens) <= e.policy.MaxPathHops {
		return nil
	}
	return &Finding{
		Level:   LevelLow,
		Reason:  "excessive_hops",
		Context: map[string]any{"hops": len(in.tokens), "max": e.policy.MaxPathHops},
	}
}

func (e *Engine) checkBurnRecipient(in input) *Finding {
	recipient, ok := in.fields.Addr("to")
	if !ok {
		recipient, ok = in.fields.Addr("recipient")
	}
	if !ok || !helpers.IsDeadAddress(common.HexToAddress(recipient)) {
		return nil
	}
	return &Finding{
		Level:   LevelHigh,
		Reason:  "burn_recipient",
		Context: map[string]any{"recipient": recipient},
	}
}

func (e *Engine) checkUnknownSelector(in input) *Finding {
	if in.family != dex.FamilyUnknown {
		return nil
	}
	return &Finding{Level: LevelLow, Reason: "unknown_selector"}
}
