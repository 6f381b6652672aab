// Package pipeline wires Normalizer output through TaskSpace, Precheck,
// FeasibleSolver, LNSDriver, Scorer and Validator as the single
// cooperative, single-threaded run spec.md's §5 describes. ProfileRunner
// and the CLI both drive the pipeline through this one entry point so a
// single-profile run and a multi-profile fan-out never diverge in how the
// stages are wired together.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"education-connect/internal/domain"
	"education-connect/internal/feasible"
	"education-connect/internal/lns"
	"education-connect/internal/model"
	"education-connect/internal/objective"
	"education-connect/internal/precheck"
	"education-connect/internal/scorer"
	"education-connect/internal/taskspace"
	"education-connect/internal/validator"
)

// Config configures one end-to-end solve.
type Config struct {
	Solver       model.Solver
	TimeLimitSec float64
	Phase1Ratio  float64
	Workers      int
	Seed         int64
	AutoBudget   bool
	Logger       *zap.Logger
}

// Result bundles every stage's output the report and result serializers need.
type Result struct {
	Tasks      []domain.Task
	Precheck   precheck.Report
	Phase1     feasible.Outcome
	LNS        lns.Result
	Solution   domain.Solution
	Scorer     scorer.Report
	Validator  validator.Report
	ElapsedMs  int64
	Phase1Sec  float64
	LNSSec     float64
}

// clampPhase1Ratio clamps the phase 1 share of the time budget to
// [0.05, 0.9].
func clampPhase1Ratio(r float64) float64 {
	if r < 0.05 {
		return 0.05
	}
	if r > 0.9 {
		return 0.9
	}
	return r
}

// Run executes TaskSpace through Validator against an already-normalized
// input. It never touches the Normalizer — callers own that step so
// ProfileRunner can normalize once and reuse the same Normalized value
// across every profile, swapping only the weights.
func Run(ctx context.Context, n *domain.Normalized, cfg Config) (Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	tasks, err := taskspace.Build(n)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("taskspace built", zap.Int("tasks", len(tasks)))

	precheckReport := precheck.Run(n, tasks)
	logger.Debug("precheck complete", zap.Int("warnings", len(precheckReport.Warnings)), zap.Int("errors", len(precheckReport.Errors)))

	ratio := clampPhase1Ratio(cfg.Phase1Ratio)
	phase1Sec := float64(int(cfg.TimeLimitSec * ratio))
	if phase1Sec < 1 {
		phase1Sec = 1
	}
	lnsSec := cfg.TimeLimitSec - phase1Sec
	if lnsSec < 1 {
		lnsSec = 1
	}

	phase1, err := feasible.Run(ctx, n, tasks, cfg.Solver, feasible.Params{
		PhaseTimeSec: phase1Sec,
		Workers:      cfg.Workers,
		Seed:         cfg.Seed,
	}, logger)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("phase1 complete", zap.Bool("usedSolver", phase1.UsedSolver), zap.Int("assignments", len(phase1.Solution)))

	driver := lns.Driver{Solver: cfg.Solver, Logger: logger}
	lnsResult, err := driver.Run(ctx, n, tasks, phase1.Solution, lns.Params{
		TotalTimeSec: lnsSec,
		AutoBudget:   cfg.AutoBudget,
		Workers:      cfg.Workers,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return Result{}, err
	}
	logger.Debug("lns complete", zap.Float64("bestScore", lnsResult.BestScore), zap.Int("curvePoints", len(lnsResult.Curve)))

	idx := objective.BuildIndex(n, tasks)
	scorerReport := scorer.Score(n, idx, lnsResult.Solution)
	validatorReport := validator.Run(n, tasks, lnsResult.Solution)

	return Result{
		Tasks:     tasks,
		Precheck:  precheckReport,
		Phase1:    phase1,
		LNS:       lnsResult,
		Solution:  lnsResult.Solution,
		Scorer:    scorerReport,
		Validator: validatorReport,
		ElapsedMs: time.Since(start).Milliseconds(),
		Phase1Sec: phase1Sec,
		LNSSec:    lnsSec,
	}, nil
}
