package model

import (
	"context"
	"math"
	"math/rand"
	"time"

	"education-connect/internal/domain"
	"education-connect/internal/objective"
)

// annealConfig mirrors the shape of a classic simulated-annealing pass:
// start hot, cool geometrically, cap the move count.
type annealConfig struct {
	InitialTemp float64
	CoolingRate float64
	MaxMoves    int
}

func defaultAnnealConfig() annealConfig {
	return annealConfig{InitialTemp: 50, CoolingRate: 0.995, MaxMoves: 4000}
}

// LocalSolver is the custom local-search core standing in for an external
// CP/ILP engine, per the solver port's explicit allowance: greedy
// construction followed by a simulated-annealing repair pass.
type LocalSolver struct{}

func (LocalSolver) Build(n *domain.Normalized, tasks []domain.Task, fixed map[domain.TaskKey]string, withObjective bool) (*Bundle, error) {
	return Build(n, tasks, fixed, withObjective)
}

func (LocalSolver) Solve(ctx context.Context, b *Bundle, params Params) (Outcome, error) {
	if b.Infeasible {
		return Outcome{Status: StatusInfeasible}, nil
	}

	rng := rand.New(rand.NewSource(params.Seed))
	s := construct(b, params.Hints, rng)

	if len(s.sol) == 0 && len(b.Tasks) > 0 && !anyAssignable(b) {
		return Outcome{Status: StatusNoSolution}, nil
	}

	if params.StopAtFirst || !b.WithObjective {
		return outcomeFrom(b, s), nil
	}

	deadline := time.Now().Add(secondsToDuration(params.TimeLimitSec))
	anneal(ctx, b, s, rng, deadline, defaultAnnealConfig())

	return outcomeFrom(b, s), nil
}

func anyAssignable(b *Bundle) bool {
	for _, t := range b.Tasks {
		if len(t.CandidateLocationIDs) > 0 {
			return true
		}
	}
	return false
}

func secondsToDuration(sec float64) time.Duration {
	if sec <= 0 {
		return 0
	}
	return time.Duration(sec * float64(time.Second))
}

func outcomeFrom(b *Bundle, s *state) Outcome {
	m := objective.Evaluate(b.Index, b.Required, s.sol)
	score := objective.Score(b.Normalized.Rules.Weights, m)
	return Outcome{
		Status:      StatusFeasible,
		Assignments: s.sol.Clone(),
		Objective:   score,
		BestBound:   score,
	}
}

// anneal repeatedly proposes reassigning one free (non-fixed) task to a
// different valid candidate, or filling a currently-unassigned task, and
// accepts the move by the Metropolis criterion on the objective cost
// (negative score). Runs until deadline or MaxMoves, whichever first.
func anneal(ctx context.Context, b *Bundle, s *state, rng *rand.Rand, deadline time.Time, cfg annealConfig) {
	free := freeTasks(b)
	if len(free) == 0 {
		return
	}

	currentCost := -objective.Score(b.Normalized.Rules.Weights, objective.Evaluate(b.Index, b.Required, s.sol))
	temperature := cfg.InitialTemp

	for move := 0; move < cfg.MaxMoves; move++ {
		if ctx.Err() != nil {
			return
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return
		}

		t := free[rng.Intn(len(free))]
		if len(t.CandidateLocationIDs) == 0 {
			continue
		}
		newLoc := t.CandidateLocationIDs[rng.Intn(len(t.CandidateLocationIDs))]
		oldAssignment, hadOld := s.sol[t.Key]
		if hadOld && oldAssignment.LocationID == newLoc {
			continue
		}

		s.unassign(t)
		if !s.canAssign(t, newLoc) {
			if hadOld {
				s.assign(t, oldAssignment.LocationID)
			}
			continue
		}
		s.assign(t, newLoc)

		newCost := -objective.Score(b.Normalized.Rules.Weights, objective.Evaluate(b.Index, b.Required, s.sol))
		delta := newCost - currentCost

		accept := delta < 0
		if !accept && temperature > 1e-9 {
			accept = rng.Float64() < math.Exp(-delta/temperature)
		}

		if accept {
			currentCost = newCost
		} else {
			s.unassign(t)
			if hadOld {
				s.assign(t, oldAssignment.LocationID)
			}
		}

		temperature *= cfg.CoolingRate
	}
}

func freeTasks(b *Bundle) []domain.Task {
	var out []domain.Task
	for _, t := range b.Tasks {
		if _, fixed := b.Fixed[t.Key]; fixed {
			continue
		}
		if len(t.CandidateLocationIDs) == 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}
