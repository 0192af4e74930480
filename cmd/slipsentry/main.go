package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sugawarayuuta/sonnet"

	"github.com/lovradikk/slipsentry/internal/analyzer"
	"github.com/lovradikk/slipsentry/internal/config"
	"github.com/lovradikk/slipsentry/internal/helpers"
	"github.com/lovradikk/slipsentry/internal/report"
	"github.com/lovradikk/slipsentry/internal/telemetry"
)

type resultOut struct {
	Index  int            `json:"index"`
	Report *report.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func main() {
	pretty := flag.Bool("pretty", false, "human-readable output instead of JSON")
	cfgPath := flag.String("config", config.DefaultPath, "policy config path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: slipsentry [-pretty] [-config path] <hex|file|->")
		os.Exit(2)
	}

	telemetry.Start()
	defer telemetry.Stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	telemetry.EnableDebug(cfg.DEBUG)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	items, err := collectItems(flag.Arg(0))
	if err != nil {
		log.Fatalf("input: %v", err)
	}

	a := analyzer.New(cfg.Policy())
	results := a.AnalyzeHexBatch(ctx, items, cfg.WORKERS)

	if *pretty {
		printPretty(results)
		return
	}

	out := make([]resultOut, len(results))
	for i, r := range results {
		out[i] = resultOut{Index: r.Index, Report: r.Report}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			out[i].Report = nil
		}
	}
	enc, err := sonnet.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	fmt.Println(string(enc))
}

// collectItems accepts a single hex string, "-" for stdin lines, or a
// path to a file of hex lines.
func collectItems(arg string) ([]string, error) {
	if strings.HasPrefix(arg, "0x") {
		return []string{arg}, nil
	}

	var in *os.File
	if arg == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(arg)
		if err != nil {
			// not a file; treat as bare hex
			return []string{arg}, nil
		}
		defer f.Close()
		in = f
	}

	var items []string
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	return items, sc.Err()
}

func printPretty(results []analyzer.Result) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("#%d  DECODE FAILED: %v\n", r.Index, r.Err)
			continue
		}
		rep := r.Report
		fmt.Printf("#%d  %s (%s)  risk=%d [%s]\n", r.Index, rep.Fn, rep.Family, rep.RiskScore, rep.RiskLabel)
		if dl, ok := rep.Fields.Uint("deadline"); ok {
			fmt.Printf("    deadline: %s\n", helpers.FormatDeadline(dl))
		}
		if len(rep.PathTokens) > 0 {
			hops := make([]string, len(rep.PathTokens))
			for i, tok := range rep.PathTokens {
				hops[i] = helpers.ShortAddress(tok)
			}
			fmt.Printf("    path: %s\n", strings.Join(hops, " -> "))
		}
		for _, f := range rep.Findings {
			fmt.Printf("    [%s] %s %v\n", f.Level, f.Reason, f.Context)
		}
	}
}
