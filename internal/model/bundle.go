// Package model builds the Boolean assignment model described by
// ConstraintModel and exposes a small solver port so FeasibleSolver and
// LNSDriver can both drive it without depending on a concrete engine.
package model

import (
	"education-connect/internal/domain"
	"education-connect/internal/objective"
)

// Bundle is the built model: the task universe, its precomputed lookup
// index, and the current iteration's fixed-task overlay.
type Bundle struct {
	Normalized    *domain.Normalized
	Tasks         []domain.Task
	Index         *objective.Index
	Required      domain.RequiredByGroup
	Fixed         map[domain.TaskKey]string
	WithObjective bool
	// Infeasible is set when a fixed task's forced location isn't among its
	// own candidates — hard constraint 5's "force 0=1", surfaced as an
	// immediate infeasible outcome rather than attempted.
	Infeasible bool
}

// Build constructs a Bundle over tasks, fixing each key in fixed to its
// named location. withObjective controls whether Solve spends any budget
// on soft-objective improvement versus returning the first feasible
// assignment it finds.
func Build(n *domain.Normalized, tasks []domain.Task, fixed map[domain.TaskKey]string, withObjective bool) (*Bundle, error) {
	idx := objective.BuildIndex(n, tasks)
	b := &Bundle{
		Normalized:    n,
		Tasks:         tasks,
		Index:         idx,
		Required:      n.RequiredByGroup,
		Fixed:         fixed,
		WithObjective: withObjective,
	}
	for key, locID := range fixed {
		t, ok := idx.TasksByKey[key]
		if !ok {
			continue
		}
		if locID != "" && !t.HasCandidate(locID) {
			b.Infeasible = true
			break
		}
	}
	return b, nil
}
