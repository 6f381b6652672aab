// Package feasible implements Phase 1: produce any feasible assignment to
// seed the LNS incumbent. It prefers the constraint solver in
// stop-at-first mode and falls back to a deterministic greedy pass when
// the solver is unavailable or comes back empty.
package feasible

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"education-connect/internal/domain"
	"education-connect/internal/model"
)

// RequiredPair names a group/location required-coverage pair the greedy
// fallback could not place anywhere.
type RequiredPair struct {
	GroupID    string
	LocationID string
}

// Outcome is Phase 1's result plus the diagnostics the report needs.
type Outcome struct {
	Solution         domain.Solution
	UsedSolver       bool
	UnplacedRequired []RequiredPair
}

// Params configures the phase 1 attempt.
type Params struct {
	PhaseTimeSec float64
	Workers      int
	Seed         int64
}

// Run attempts the constraint solver first, then the greedy fallback.
func Run(ctx context.Context, n *domain.Normalized, tasks []domain.Task, solver model.Solver, params Params, logger *zap.Logger) (Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	b, err := solver.Build(n, tasks, nil, false)
	if err == nil && !b.Infeasible {
		out, solveErr := solver.Solve(ctx, b, model.Params{
			TimeLimitSec: params.PhaseTimeSec,
			Workers:      params.Workers,
			Seed:         params.Seed,
			StopAtFirst:  true,
		})
		if solveErr == nil && out.Status == model.StatusFeasible && len(out.Assignments) > 0 {
			logger.Debug("phase1 solver produced a feasible assignment", zap.Int("assignments", len(out.Assignments)))
			return Outcome{Solution: out.Assignments, UsedSolver: true}, nil
		}
	}

	logger.Debug("phase1 falling back to greedy construction")
	return greedyFallback(n, tasks), nil
}

func greedyFallback(n *domain.Normalized, tasks []domain.Task) Outcome {
	tasksByKey := make(map[domain.TaskKey]domain.Task, len(tasks))
	sortedTasks := make([]domain.Task, len(tasks))
	copy(sortedTasks, tasks)
	sort.SliceStable(sortedTasks, func(i, j int) bool {
		if sortedTasks[i].GroupID != sortedTasks[j].GroupID {
			return sortedTasks[i].GroupID < sortedTasks[j].GroupID
		}
		if sortedTasks[i].Date != sortedTasks[j].Date {
			return sortedTasks[i].Date < sortedTasks[j].Date
		}
		return domain.SlotOrderIndex(sortedTasks[i].Slot) < domain.SlotOrderIndex(sortedTasks[j].Slot)
	})
	for _, t := range sortedTasks {
		tasksByKey[t.Key] = t
	}

	locByID := make(map[string]domain.Location, len(n.Locations))
	for _, l := range n.Locations {
		locByID[l.ID] = l
	}

	type usageKey struct {
		date, slot, locID string
	}
	load := map[usageKey]int{}
	sol := domain.Solution{}
	groupLocVisited := map[string]map[string]bool{}

	markVisited := func(groupID, locID string) {
		if groupLocVisited[groupID] == nil {
			groupLocVisited[groupID] = map[string]bool{}
		}
		groupLocVisited[groupID][locID] = true
	}
	isMA := func(s domain.SlotKey) bool { return s == domain.SlotMorning || s == domain.SlotAfternoon }

	canPlace := func(t domain.Task, locID string) bool {
		loc, ok := locByID[locID]
		if !ok {
			return false
		}
		if isMA(t.Slot) && groupLocVisited[t.GroupID][locID] {
			return false
		}
		if loc.Capacity <= 0 {
			return true
		}
		k := usageKey{t.Date, string(t.Slot), locID}
		return load[k]+t.ParticipantCount <= loc.Capacity
	}
	place := func(t domain.Task, locID string) {
		sol[t.Key] = domain.Assignment{
			GroupID:          t.GroupID,
			LocationID:       locID,
			Date:             t.Date,
			Slot:             t.Slot,
			ParticipantCount: t.ParticipantCount,
		}
		if isMA(t.Slot) {
			markVisited(t.GroupID, locID)
		}
		if loc, ok := locByID[locID]; ok && loc.Capacity > 0 {
			k := usageKey{t.Date, string(t.Slot), locID}
			load[k] += t.ParticipantCount
		}
	}

	// Step 1: preserve existing assignments that remain valid.
	existingSorted := make([]domain.Assignment, len(n.Existing))
	copy(existingSorted, n.Existing)
	sort.SliceStable(existingSorted, func(i, j int) bool {
		if existingSorted[i].GroupID != existingSorted[j].GroupID {
			return existingSorted[i].GroupID < existingSorted[j].GroupID
		}
		if existingSorted[i].Date != existingSorted[j].Date {
			return existingSorted[i].Date < existingSorted[j].Date
		}
		return domain.SlotOrderIndex(existingSorted[i].Slot) < domain.SlotOrderIndex(existingSorted[j].Slot)
	})
	for _, a := range existingSorted {
		t, ok := tasksByKey[a.TaskKey()]
		if !ok || !t.HasCandidate(a.LocationID) {
			continue
		}
		if canPlace(t, a.LocationID) {
			place(t, a.LocationID)
		}
	}

	// Step 2: cover required (group, location) pairs not already covered.
	var unplaced []RequiredPair
	groupIDs := make([]string, 0, len(n.RequiredByGroup))
	for gid := range n.RequiredByGroup {
		groupIDs = append(groupIDs, gid)
	}
	sort.Strings(groupIDs)

	tasksByGroup := map[string][]domain.Task{}
	for _, t := range sortedTasks {
		tasksByGroup[t.GroupID] = append(tasksByGroup[t.GroupID], t)
	}

	for _, gid := range groupIDs {
		locs := n.RequiredByGroup[gid]
		if locs == nil {
			continue
		}
		locIDs := locs.Slice()
		sort.Strings(locIDs)
		for _, locID := range locIDs {
			if groupLocVisited[gid][locID] {
				continue
			}
			placed := false
			for _, t := range tasksByGroup[gid] {
				if _, already := sol[t.Key]; already {
					continue
				}
				if !t.HasCandidate(locID) {
					continue
				}
				if !canPlace(t, locID) {
					continue
				}
				place(t, locID)
				placed = true
				break
			}
			if !placed {
				unplaced = append(unplaced, RequiredPair{GroupID: gid, LocationID: locID})
			}
		}
	}

	return Outcome{Solution: sol, UsedSolver: false, UnplacedRequired: unplaced}
}
