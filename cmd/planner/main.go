// Command planner is the education-connect CLI: reads a planning input
// payload, runs Normalizer through Validator (optionally fanned out across
// scoring profiles), and writes the result/report/candidates artifacts
// §6 of the spec names.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"education-connect/internal/diagnose"
	"education-connect/internal/domain"
	"education-connect/internal/exporter"
	"education-connect/internal/model"
	"education-connect/internal/normalize"
	"education-connect/internal/pipeline"
	"education-connect/internal/precheck"
	"education-connect/internal/profile"
	"education-connect/internal/taskspace"
)

// exit codes per spec.md §6.
const (
	exitSuccess       = 0
	exitFatalInput    = 1
	exitHardViolation = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("planner", pflag.ContinueOnError)
	in := flags.String("in", "", "input payload path (required)")
	out := flags.String("out", "", "result output path (required unless --validate-only)")
	reportPath := flags.String("report", "", "diagnostic report output path")
	candidatesPath := flags.String("candidates", "", "candidates output path (multi-profile mode)")
	seed := flags.Int64("seed", 42, "solver random seed")
	timeLimit := flags.Int("time", 720, "total time budget in seconds")
	workers := flags.Int("workers", 8, "constraint solver worker count")
	phase1Ratio := flags.Float64("phase1-ratio", 0.20, "fraction of the time budget spent on phase 1")
	autoBudget := flags.Bool("auto-budget", true, "enable the staged auto-budget policy")
	multi := flags.Bool("multi", false, "fan out across rules.scoringProfiles")
	candidatesMax := flags.Int("candidates-max", 6, "cap on candidates kept in the candidates file")
	validateOnly := flags.Bool("validate-only", false, "normalize and precheck only; do not solve or write --out")
	explain := flags.String("explain", "", "GROUP,DATE,SLOT: explain one task's candidate elimination instead of solving")
	verbose := flags.Bool("verbose", false, "emit a production JSON logger instead of a no-op one")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitSuccess
		}
		fmt.Fprintln(os.Stderr, err)
		return exitFatalInput
	}

	v := viper.New()
	v.SetEnvPrefix("EC_PLANNER")
	v.AutomaticEnv()
	v.SetDefault("seed", *seed)
	v.SetDefault("time", *timeLimit)
	v.SetDefault("workers", *workers)
	v.SetDefault("phase1-ratio", *phase1Ratio)
	v.SetDefault("auto-budget", *autoBudget)
	_ = v.BindPFlag("seed", flags.Lookup("seed"))
	_ = v.BindPFlag("time", flags.Lookup("time"))
	_ = v.BindPFlag("workers", flags.Lookup("workers"))
	_ = v.BindPFlag("phase1-ratio", flags.Lookup("phase1-ratio"))
	_ = v.BindPFlag("auto-budget", flags.Lookup("auto-budget"))

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewProduction()
		if err == nil {
			logger = l
		}
	}
	defer logger.Sync() //nolint:errcheck

	if *in == "" {
		fmt.Fprintln(os.Stderr, "--in is required")
		return exitFatalInput
	}
	if *out == "" && !*validateOnly {
		fmt.Fprintln(os.Stderr, "--out is required unless --validate-only")
		return exitFatalInput
	}

	payload, err := readPayload(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading input: %v\n", err)
		return exitFatalInput
	}

	n, err := normalize.Normalize(payload, logger)
	if err != nil {
		// Both fatal Normalizer conditions (§4.1) map to the same exit code;
		// apperr's sentinels exist so a caller embedding this as a library can
		// still branch on errors.Is without string matching.
		fmt.Fprintf(os.Stderr, "normalize: %v\n", err)
		return exitFatalInput
	}

	if *explain != "" {
		return runExplain(n, *explain)
	}

	cfg := pipeline.Config{
		Solver:       model.LocalSolver{},
		TimeLimitSec: v.GetFloat64("time"),
		Phase1Ratio:  v.GetFloat64("phase1-ratio"),
		Workers:      v.GetInt("workers"),
		Seed:         v.GetInt64("seed"),
		AutoBudget:   v.GetBool("auto-budget"),
		Logger:       logger,
	}

	if *validateOnly {
		return runValidateOnly(n, *reportPath)
	}

	ctx := context.Background()
	start := time.Now()

	if *multi && len(n.Profiles) > 0 {
		return runMulti(ctx, n, cfg, start, *out, *reportPath, *candidatesPath, *candidatesMax)
	}
	return runSingle(ctx, n, cfg, start, *out, *reportPath)
}

func readPayload(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func runValidateOnly(n *domain.Normalized, reportPath string) int {
	tasks, err := taskspace.Build(n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskspace: %v\n", err)
		return exitFatalInput
	}
	rep := precheck.Run(n, tasks)
	if reportPath != "" {
		_ = exporter.WriteJSON(reportPath, rep)
	}
	// Blocking errors are reported, never abort, per §4.3/§7 — validate-only
	// always exits 0.
	return exitSuccess
}

func runSingle(ctx context.Context, n *domain.Normalized, cfg pipeline.Config, start time.Time, outPath, reportPath string) int {
	res, err := pipeline.Run(ctx, n, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeline: %v\n", err)
		return exitFatalInput
	}

	resultDoc := exporter.BuildResult(n, res, cfg.Seed, int(cfg.TimeLimitSec), "local-anneal")
	if err := exporter.WriteJSON(outPath, resultDoc); err != nil {
		fmt.Fprintf(os.Stderr, "writing result: %v\n", err)
		return exitFatalInput
	}

	if reportPath != "" {
		reportDoc := exporter.BuildReport(n, res, time.Since(start).Seconds(), "local-anneal", nil)
		if err := exporter.WriteJSON(reportPath, reportDoc); err != nil {
			fmt.Fprintf(os.Stderr, "writing report: %v\n", err)
			return exitFatalInput
		}
	}

	if res.Validator.HasHardViolations() {
		return exitHardViolation
	}
	return exitSuccess
}

func runMulti(ctx context.Context, n *domain.Normalized, cfg pipeline.Config, start time.Time, outPath, reportPath, candidatesPath string, candidatesMax int) int {
	profResult, err := profile.Run(ctx, n, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "profile run: %v\n", err)
		return exitFatalInput
	}

	primary := profResult.Candidates[0]
	for _, c := range profResult.Candidates {
		if c.ProfileID == profResult.PrimaryProfileID {
			primary = c
			break
		}
	}

	resultDoc := exporter.BuildResult(n, primary.Result, cfg.Seed, int(cfg.TimeLimitSec), "local-anneal")
	if err := exporter.WriteJSON(outPath, resultDoc); err != nil {
		fmt.Fprintf(os.Stderr, "writing result: %v\n", err)
		return exitFatalInput
	}

	if candidatesMax > 0 && len(profResult.Candidates) > candidatesMax {
		profResult.Candidates = profResult.Candidates[:candidatesMax]
	}

	if reportPath != "" {
		reportDoc := exporter.BuildReport(n, primary.Result, time.Since(start).Seconds(), "local-anneal", &profResult)
		if err := exporter.WriteJSON(reportPath, reportDoc); err != nil {
			fmt.Fprintf(os.Stderr, "writing report: %v\n", err)
			return exitFatalInput
		}
	}

	if candidatesPath != "" {
		candidatesDoc := exporter.BuildCandidates(profResult)
		if err := exporter.WriteJSON(candidatesPath, candidatesDoc); err != nil {
			fmt.Fprintf(os.Stderr, "writing candidates: %v\n", err)
			return exitFatalInput
		}
	}

	if primary.Result.Validator.HasHardViolations() {
		return exitHardViolation
	}
	return exitSuccess
}

func runExplain(n *domain.Normalized, spec string) int {
	parts := strings.SplitN(spec, ",", 3)
	if len(parts) != 3 {
		fmt.Fprintln(os.Stderr, "--explain expects GROUP,DATE,SLOT")
		return exitFatalInput
	}
	exp, err := diagnose.Explain(n, parts[0], parts[1], domain.SlotKey(strings.ToUpper(parts[2])))
	if err != nil {
		fmt.Fprintf(os.Stderr, "explain: %v\n", err)
		return exitFatalInput
	}
	data, _ := json.MarshalIndent(exp, "", "  ")
	fmt.Println(string(data))
	return exitSuccess
}

