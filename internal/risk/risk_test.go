package risk

import (
	"math/big"
	"testing"
	"time"

	"github.com/lovradikk/slipsentry/internal/dex"
)

var testNow = time.Unix(1700000000, 0)

func testEngine() *Engine {
	e := NewEngine(DefaultPolicy())
	e.now = func() time.Time { return testNow }
	return e
}

func hasReason(findings []Finding, reason string, level Level) bool {
	for _, f := range findings {
		if f.Reason == reason && f.Level == level {
			return true
		}
	}
	return false
}

func path(n int) []string {
	toks := make([]string, n)
	for i := range toks {
		toks[i] = "0x00000000000000000000000000000000000000" + string([]byte{'0' + byte(i/10), '0' + byte(i%10)})
	}
	return toks
}

func TestZeroGuardAndZeroDeadline(t *testing.T) {
	e := testEngine()
	fields := dex.Fields{
		"amount0":  big.NewInt(1000),
		"amount1":  big.NewInt(0),
		"deadline": big.NewInt(0),
		"to":       "0x00000000000000000000000000000000000000aa",
	}
	findings, score, label := e.Evaluate(dex.SigSwapExactTokensForTokens, fields, path(2))

	if !hasReason(findings, "no_slippage_floor", LevelHigh) {
		t.Error("missing no_slippage_floor HIGH")
	}
	if !hasReason(findings, "zero_deadline", LevelHigh) {
		t.Error("missing zero_deadline HIGH")
	}
	if score < 80 {
		t.Errorf("two HIGH findings should score >= 80, got %d", score)
	}
	if label != "high" {
		t.Errorf("label = %s", label)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	e := testEngine()
	base := dex.Fields{
		"amount0":  big.NewInt(1000),
		"amount1":  big.NewInt(0),
		"deadline": big.NewInt(testNow.Unix() + 300),
	}
	_, scoreOne, _ := e.Evaluate(dex.SigSwapExactTokensForTokens, base, path(2))

	worse := dex.Fields{
		"amount0":  big.NewInt(1000),
		"amount1":  big.NewInt(0),
		"deadline": big.NewInt(0),
	}
	_, scoreTwo, _ := e.Evaluate(dex.SigSwapExactTokensForTokens, worse, path(2))

	if scoreTwo < scoreOne {
		t.Fatalf("adding a zero deadline lowered the score: %d < %d", scoreTwo, scoreOne)
	}
}

func TestDistantDeadline(t *testing.T) {
	e := testEngine()
	soon := dex.Fields{"deadline": big.NewInt(testNow.Add(time.Hour).Unix())}
	findings, _, _ := e.Evaluate(dex.SigSwapExactTokensForTokens, soon, path(2))
	if hasReason(findings, "distant_deadline", LevelMedium) {
		t.Error("one hour out should not fire")
	}

	far := dex.Fields{"deadline": big.NewInt(testNow.Add(2 * 365 * 24 * time.Hour).Unix())}
	findings, _, _ = e.Evaluate(dex.SigSwapExactTokensForTokens, far, path(2))
	if !hasReason(findings, "distant_deadline", LevelMedium) {
		t.Error("two years out should fire MEDIUM")
	}
}

func TestPathHeuristics(t *testing.T) {
	e := testEngine()
	fields := dex.Fields{"deadline": big.NewInt(testNow.Unix() + 300)}

	findings, _, _ := e.Evaluate(dex.SigSwapExactETHForTokens, fields, path(1))
	if !hasReason(findings, "single_token_path", LevelMedium) {
		t.Error("single-token path should fire MEDIUM")
	}

	findings, _, _ = e.Evaluate(dex.SigSwapExactETHForTokens, fields, []string{})
	if !hasReason(findings, "empty_path", LevelMedium) {
		t.Error("empty path should fire MEDIUM")
	}

	findings, _, _ = e.Evaluate(dex.SigSwapExactETHForTokens, fields, path(6))
	if !hasReason(findings, "excessive_hops", LevelLow) {
		t.Error("six hops should fire LOW")
	}
	findings, _, _ = e.Evaluate(dex.SigSwapExactETHForTokens, fields, path(5))
	if hasReason(findings, "excessive_hops", LevelLow) {
		t.Error("five hops is within policy")
	}
}

func TestRepeatedTokens(t *testing.T) {
	e := testEngine()
	fields := dex.Fields{"deadline": big.NewInt(testNow.Unix() + 300)}

	a, b, c := path(3)[0], path(3)[1], path(3)[2]
	findings, _, _ := e.Evaluate(dex.SigSwapExactTokensForTokens, fields, []string{a, b, a})
	if !hasReason(findings, "repeated_path_token", LevelMedium) {
		t.Error("A,B,A should fire")
	}
	findings, _, _ = e.Evaluate(dex.SigSwapExactTokensForTokens, fields, []string{a, b, c})
	if hasReason(findings, "repeated_path_token", LevelMedium) {
		t.Error("A,B,C should not fire")
	}
}

func TestBurnRecipient(t *testing.T) {
	e := testEngine()
	fields := dex.Fields{
		"deadline": big.NewInt(testNow.Unix() + 300),
		"to":       "0x000000000000000000000000000000000000dead",
	}
	findings, _, _ := e.Evaluate(dex.SigSwapExactTokensForTokens, fields, path(2))
	if !hasReason(findings, "burn_recipient", LevelHigh) {
		t.Error("dEaD recipient should fire HIGH")
	}
}

func TestUnknownSelector(t *testing.T) {
	e := testEngine()
	findings, score, label := e.Evaluate(dex.SigUnknown, dex.Fields{}, nil)
	if len(findings) != 1 {
		t.Fatalf("unknown selector must yield exactly one finding, got %d", len(findings))
	}
	if findings[0].Level != LevelLow || findings[0].Reason != "unknown_selector" {
		t.Fatalf("finding = %+v", findings[0])
	}
	if score <= 0 || label != "low" {
		t.Fatalf("score=%d label=%s", score, label)
	}
}

func TestLabelBuckets(t *testing.T) {
	cases := map[int]string{
		0:  "none",
		1:  "low",
		19: "low",
		20: "medium",
		39: "medium",
		40: "high",
		95: "high",
	}
	for score, want := range cases {
		if got := LabelFor(score); got != want {
			t.Errorf("LabelFor(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestScoreCeiling(t *testing.T) {
	e := testEngine()
	// everything fires: zero guard, zero deadline, repeated token,
	// excess hops, burn recipient
	toks := append(path(6), path(6)[0])
	fields := dex.Fields{
		"amount1":  big.NewInt(0),
		"deadline": big.NewInt(0),
		"to":       "0x000000000000000000000000000000000000dead",
	}
	_, score, _ := e.Evaluate(dex.SigSwapExactTokensForTokens, fields, toks)
	if score > e.policy.ScoreCeiling {
		t.Fatalf("score %d exceeds ceiling %d", score, e.policy.ScoreCeiling)
	}
}
