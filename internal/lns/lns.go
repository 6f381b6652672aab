// Package lns implements Phase 2: Large-Neighborhood Search over the
// Phase 1 incumbent, repeatedly releasing a hotspot-biased subset of tasks
// and re-solving with the rest fixed, accepting only strict improvements.
package lns

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"education-connect/internal/domain"
	"education-connect/internal/model"
	"education-connect/internal/objective"
)

const (
	checkpointEvery        = 10
	maxCurvePoints         = 500
	noSolutionShakeupLimit = 20
	noSolutionAbortLimit   = 80
	periodicShakeupEvery   = 40
	shakeupRatio           = 0.25
	hotspotRatio           = 0.30
	baseRatio              = 0.15
	forcedLargeRatio       = 0.50
	extensionWindow        = 90 * time.Second
)

// Params configures one LNS run.
type Params struct {
	TotalTimeSec float64
	AutoBudget   bool
	Workers      int
	Seed         int64
}

// Result is the final incumbent plus the telemetry curve and any
// diagnostics the report surfaces (stage transitions, early stops).
type Result struct {
	Solution    domain.Solution
	BestScore   float64
	Curve       []domain.CurvePoint
	Diagnostics []string
}

// Driver runs the iteration loop against a Solver port, so it never
// depends on a concrete solve engine.
type Driver struct {
	Solver model.Solver
	Logger *zap.Logger
}

// Run drives the base-polish step followed by the staged auto-budget LNS
// loop, starting from incumbent (Phase 1's solution).
func (d Driver) Run(ctx context.Context, n *domain.Normalized, tasks []domain.Task, incumbent domain.Solution, params Params) (Result, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	idx := objective.BuildIndex(n, tasks)
	weights := n.Rules.Weights
	required := n.RequiredByGroup

	existingByKey := make(map[domain.TaskKey]string, len(n.Existing))
	for _, a := range n.Existing {
		existingByKey[a.TaskKey()] = a.LocationID
	}

	start := time.Now()
	best := incumbent.Clone()
	bestScore := objective.Score(weights, objective.Evaluate(idx, required, best))

	var curve []domain.CurvePoint
	var diagnostics []string

	appendPoint := func(p domain.CurvePoint) {
		curve = append(curve, p)
		if len(curve) > maxCurvePoints {
			curve = append(curve[:1], curve[2:]...)
		}
	}

	appendPoint(domain.CurvePoint{
		Phase:     domain.CurvePhaseZero,
		IterScore: bestScore,
		BestScore: bestScore,
		Accepted:  true,
	})

	// Base polish: full task set, nothing fixed, biased toward the
	// incumbent via Hints, budget capped at a third of the total run.
	basePolishSec := params.TotalTimeSec / 3
	if basePolishSec > 20 {
		basePolishSec = 20
	}
	if basePolishSec > 0 {
		b, err := d.Solver.Build(n, tasks, nil, true)
		if err == nil && !b.Infeasible {
			out, solveErr := d.Solver.Solve(ctx, b, model.Params{
				TimeLimitSec: basePolishSec,
				Workers:      params.Workers,
				Seed:         params.Seed,
				Hints:        cloneLocations(best),
			})
			if solveErr == nil && out.Status == model.StatusFeasible {
				score := objective.Score(weights, objective.Evaluate(idx, required, out.Assignments))
				accepted := score > bestScore
				if accepted {
					best = out.Assignments.Clone()
					bestScore = score
				}
				appendPoint(domain.CurvePoint{
					Phase:     domain.CurvePhaseBase,
					IterScore: score,
					BestScore: bestScore,
					Accepted:  accepted,
				})
			}
		}
	}

	stages := autoBudgetStages(params.TotalTimeSec, params.AutoBudget)
	stageIdx := 0
	deadline := start.Add(secondsToDuration(stages[stageIdx]))

	rng := rand.New(rand.NewSource(params.Seed))
	iteration := 0
	noSolutionStreak := 0
	lastImprovement := time.Now()

	n2 := len(tasksWithCandidates(tasks))

	for {
		now := time.Now()
		if now.Add(time.Second).After(deadline) {
			if stageIdx < len(stages)-1 {
				missing := anyRequiredMissing(idx, required, best)
				improved := now.Sub(lastImprovement) <= extensionWindow
				if missing || improved {
					stageIdx++
					deadline = start.Add(secondsToDuration(stages[stageIdx]))
					diagnostics = append(diagnostics, "auto-budget: extended to next stage")
					continue
				}
				diagnostics = append(diagnostics, "auto-budget: stopped before the full time budget")
			}
			break
		}
		if noSolutionStreak >= noSolutionAbortLimit {
			diagnostics = append(diagnostics, "aborted after a long no-solution streak")
			break
		}
		if ctx.Err() != nil {
			diagnostics = append(diagnostics, "context cancelled")
			break
		}

		hasMissing := anyRequiredMissing(idx, required, best)
		hasOverload := anyCapacityOverload(idx, best)
		ratio := baseRatio
		if hasMissing || hasOverload {
			ratio = hotspotRatio
		} else if iteration%periodicShakeupEvery == 0 && iteration > 0 {
			ratio = shakeupRatio
		}
		if noSolutionStreak >= noSolutionShakeupLimit && ratio < forcedLargeRatio {
			ratio = forcedLargeRatio
		}

		k := clampInt(int(round(float64(n2)*ratio)), 2, n2-1)
		if k < 2 {
			break
		}

		released, mode := releasePlan(idx, required, best, existingByKey, tasks, k, rng)
		if len(released) == 0 {
			noSolutionStreak++
			iteration++
			continue
		}
		releasedSet := make(map[domain.TaskKey]bool, len(released))
		for _, key := range released {
			releasedSet[key] = true
		}

		fixed := make(map[domain.TaskKey]string, len(tasks)-len(released))
		for _, t := range tasks {
			if len(t.CandidateLocationIDs) == 0 || releasedSet[t.Key] {
				continue
			}
			if a, ok := best[t.Key]; ok {
				fixed[t.Key] = a.LocationID
			}
		}

		perIterSec := 2.0
		if ratio >= hotspotRatio {
			perIterSec = 3.0
		}
		if noSolutionStreak >= noSolutionShakeupLimit {
			perIterSec = 6.0
		}

		b, err := d.Solver.Build(n, tasks, fixed, true)
		var accepted bool
		var score float64
		if err == nil && !b.Infeasible {
			out, solveErr := d.Solver.Solve(ctx, b, model.Params{
				TimeLimitSec: perIterSec,
				Workers:      params.Workers,
				Seed:         params.Seed + int64(iteration) + 1,
				Hints:        cloneLocations(best),
			})
			if solveErr == nil && out.Status == model.StatusFeasible {
				score = objective.Score(weights, objective.Evaluate(idx, required, out.Assignments))
				if score > bestScore {
					best = out.Assignments.Clone()
					bestScore = score
					accepted = true
					lastImprovement = time.Now()
				}
				noSolutionStreak = 0
			} else {
				noSolutionStreak++
			}
		} else {
			noSolutionStreak++
		}

		if accepted || iteration%checkpointEvery == 0 {
			appendPoint(domain.CurvePoint{
				Phase:         domain.CurvePhaseIter(iteration),
				IterScore:     score,
				BestScore:     bestScore,
				Accepted:      accepted,
				ReleasedCount: len(released),
				ReleaseMode:   string(mode),
				ReleaseRatio:  ratio,
			})
		}

		iteration++
	}

	appendPoint(domain.CurvePoint{
		Phase:     domain.CurvePhaseFinal,
		IterScore: bestScore,
		BestScore: bestScore,
		Accepted:  true,
	})

	logger.Debug("lns finished", zap.Int("iterations", iteration), zap.Float64("bestScore", bestScore))

	return Result{Solution: best, BestScore: bestScore, Curve: curve, Diagnostics: diagnostics}, nil
}

// autoBudgetStages returns the monotone staged deadlines (seconds from run
// start) LNS checks against. When autoBudget is disabled there is a single
// stage running straight to totalTimeSec.
func autoBudgetStages(totalTimeSec float64, autoBudget bool) []float64 {
	if !autoBudget {
		return []float64{totalTimeSec}
	}
	stage1 := minF2(120, totalTimeSec)
	stage2 := minF2(300, totalTimeSec)
	if stage2 < stage1 {
		stage2 = stage1
	}
	stage3 := totalTimeSec
	if stage3 < stage2 {
		stage3 = stage2
	}
	return []float64{stage1, stage2, stage3}
}

func tasksWithCandidates(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if len(t.CandidateLocationIDs) > 0 {
			out = append(out, t)
		}
	}
	return out
}

func cloneLocations(sol domain.Solution) map[domain.TaskKey]string {
	out := make(map[domain.TaskKey]string, len(sol))
	for k, a := range sol {
		out[k] = a.LocationID
	}
	return out
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(f float64) float64 {
	if f < 0 {
		return float64(int(f - 0.5))
	}
	return float64(int(f + 0.5))
}

func minF2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
