// Package analyzer ties the pipeline together: selector dispatch,
// family decode, heuristics, report assembly.
package analyzer

import (
	"context"
	"encoding/hex"
	"sync"

	"github.com/lovradikk/slipsentry/internal/calldata"
	"github.com/lovradikk/slipsentry/internal/dex"
	v2 "github.com/lovradikk/slipsentry/internal/dex/v2"
	v3 "github.com/lovradikk/slipsentry/internal/dex/v3"
	"github.com/lovradikk/slipsentry/internal/report"
	"github.com/lovradikk/slipsentry/internal/risk"
	"github.com/lovradikk/slipsentry/internal/telemetry"
)

// Analyzer decodes and scores calldata items. It is stateless apart
// from the policy, so one instance is safe for concurrent use.
type Analyzer struct {
	engine *risk.Engine
}

func New(policy risk.Policy) *Analyzer {
	return &Analyzer{engine: risk.NewEngine(policy)}
}

// AnalyzeHex normalizes hex text and analyzes the resulting bytes.
func (a *Analyzer) AnalyzeHex(text string) (*report.Report, error) {
	raw, err := calldata.Normalize(text)
	if err != nil {
		return nil, err
	}
	return a.Analyze(raw)
}

// Analyze produces one report for raw calldata (selector included).
// Unrecognized selectors yield a soft "unknown" report; recognized
// selectors with structurally broken payloads fail hard.
func (a *Analyzer) Analyze(raw []byte) (*report.Report, error) {
	selHex := hex.EncodeToString(raw)
	var buf calldata.Buffer
	if len(raw) >= 4 {
		selHex = hex.EncodeToString(raw[:4])
		buf = calldata.Buffer(raw[4:])
	}

	kind := dex.Classify(raw)

	var (
		fields dex.Fields
		tokens []string
		err    error
	)
	switch dex.KindFamily(kind) {
	case dex.FamilyV2:
		fields, tokens, err = v2.DecodeSwap(buf, kind)
	case dex.FamilyV3:
		fields, tokens, err = v3.DecodeExact(buf, kind)
	}
	if err != nil {
		return nil, err
	}

	findings, score, label := a.engine.Evaluate(kind, fields, tokens)
	return report.Build(selHex, kind, fields, tokens, findings, score, label), nil
}

// Result pairs one batch item with its report or failure.
type Result struct {
	Index  int
	Report *report.Report
	Err    error
}

// AnalyzeBatch decodes raw items concurrently and returns results in
// input order. A failed item never stops the others.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, items [][]byte, workers int) []Result {
	return a.runBatch(ctx, len(items), workers, func(i int) (*report.Report, error) {
		return a.Analyze(items[i])
	})
}

// AnalyzeHexBatch is AnalyzeBatch over hex text items; normalization
// failures are per-item results like any other decode error.
func (a *Analyzer) AnalyzeHexBatch(ctx context.Context, items []string, workers int) []Result {
	return a.runBatch(ctx, len(items), workers, func(i int) (*report.Report, error) {
		return a.AnalyzeHex(items[i])
	})
}

func (a *Analyzer) runBatch(ctx context.Context, n, workers int, analyze func(int) (*report.Report, error)) []Result {
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	results := make([]Result, n)
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					results[i] = Result{Index: i, Err: ctx.Err()}
					continue
				}
				rep, err := analyze(i)
				if err != nil {
					telemetry.Debugf("[analyzer] item %d: %v", i, err)
				}
				results[i] = Result{Index: i, Report: rep, Err: err}
			}
		}()
	}
	wg.Wait()
	return results
}
