// Package validator replays a candidate assignment set against the
// normalized input and task space to audit it: hard-constraint violations
// and must-visit coverage gaps, matching spec.md's Validator (§4.8) exactly.
// It never mutates the solution; a clean Validator result is what the spec
// calls a "feasible" assignment set.
package validator

import (
	"sort"

	"education-connect/internal/domain"
	"education-connect/internal/objective"
)

// ViolationKind names the fixed set of hard-constraint replay defects.
type ViolationKind string

const (
	ViolationMissingGroup      ViolationKind = "missing_group"
	ViolationMissingLocation   ViolationKind = "missing_location"
	ViolationOutOfScope        ViolationKind = "out_of_scope"
	ViolationOutOfGroupRange   ViolationKind = "out_of_group_range"
	ViolationInvalidSlot       ViolationKind = "invalid_slot"
	ViolationGroupSlotConflict ViolationKind = "group_slot_conflict"
	ViolationLocationUnavailable ViolationKind = "location_unavailable"
	ViolationCapacity          ViolationKind = "capacity"
)

// Violation is one hard-constraint defect found while replaying an
// assignment.
type Violation struct {
	Kind       ViolationKind
	GroupID    string
	LocationID string
	Date       string
	Slot       domain.SlotKey
}

// MustVisitMissing names a required (group, location) pair the assignment
// set never covers.
type MustVisitMissing struct {
	GroupID    string
	LocationID string
}

// Report is the full post-solve audit.
type Report struct {
	Violations       []Violation
	MustVisitMissing []MustVisitMissing
}

// HasHardViolations reports whether the audit found any hard-constraint
// defect — the CLI's exit-code-2 condition.
func (r Report) HasHardViolations() bool {
	return len(r.Violations) > 0
}

// Run replays sol against n and tasks, building the full Report. tasks is
// the built task space (so candidate-location membership and forbidden
// boundary slots are checked against what TaskSpace actually allowed, not
// re-derived).
func Run(n *domain.Normalized, tasks []domain.Task, sol domain.Solution) Report {
	groupByID := make(map[string]domain.Group, len(n.Groups))
	for _, g := range n.Groups {
		groupByID[g.ID] = g
	}
	locByID := make(map[string]domain.Location, len(n.Locations))
	for _, l := range n.Locations {
		locByID[l.ID] = l
	}
	taskByKey := make(map[domain.TaskKey]domain.Task, len(tasks))
	for _, t := range tasks {
		taskByKey[t.Key] = t
	}
	activeSlots := make(map[domain.SlotKey]bool, len(n.Rules.ActiveSlots))
	for _, s := range n.Rules.ActiveSlots {
		activeSlots[s] = true
	}

	var rep Report

	// usage[date|slot|locID] tracks capacity incrementally; groupSlot dedupes
	// task keys (hard constraint 1, at-most-one, is structurally satisfied by
	// domain.Solution's map shape, but a caller could still hand us a raw
	// replay of a list with duplicates, so we still guard it defensively via
	// the assignment's own derived TaskKey matching the map key it's under).
	usage := map[string]int{}
	for k, v := range objective.ExistingUsage(n.Existing) {
		usage[k.Date+"|"+string(k.Slot)+"|"+k.LocationID] = v
	}
	groupSlotSeen := map[domain.TaskKey]bool{}
	covered := map[string]bool{}

	// Deterministic order for reproducible reports.
	keys := make([]domain.TaskKey, 0, len(sol))
	for k := range sol {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		a := sol[key]
		if key != a.TaskKey() {
			rep.Violations = append(rep.Violations, Violation{Kind: ViolationGroupSlotConflict, GroupID: a.GroupID, Date: a.Date, Slot: a.Slot})
			continue
		}
		if groupSlotSeen[key] {
			rep.Violations = append(rep.Violations, Violation{Kind: ViolationGroupSlotConflict, GroupID: a.GroupID, Date: a.Date, Slot: a.Slot})
			continue
		}
		groupSlotSeen[key] = true

		g, hasGroup := groupByID[a.GroupID]
		if !hasGroup {
			rep.Violations = append(rep.Violations, Violation{Kind: ViolationMissingGroup, GroupID: a.GroupID, Date: a.Date, Slot: a.Slot})
			continue
		}
		loc, hasLoc := locByID[a.LocationID]
		if !hasLoc {
			rep.Violations = append(rep.Violations, Violation{Kind: ViolationMissingLocation, GroupID: a.GroupID, LocationID: a.LocationID, Date: a.Date, Slot: a.Slot})
			continue
		}
		if !activeSlots[a.Slot] {
			rep.Violations = append(rep.Violations, Violation{Kind: ViolationInvalidSlot, GroupID: a.GroupID, Date: a.Date, Slot: a.Slot})
			continue
		}
		if a.Date < n.Scope.Start.Format("2006-01-02") || a.Date > n.Scope.End.Format("2006-01-02") {
			rep.Violations = append(rep.Violations, Violation{Kind: ViolationOutOfScope, GroupID: a.GroupID, Date: a.Date, Slot: a.Slot})
			continue
		}
		if a.Date < g.StartDate || a.Date > g.EndDate {
			rep.Violations = append(rep.Violations, Violation{Kind: ViolationOutOfGroupRange, GroupID: a.GroupID, Date: a.Date, Slot: a.Slot})
			continue
		}
		t, hasTask := taskByKey[key]
		if !hasTask || !t.HasCandidate(a.LocationID) {
			rep.Violations = append(rep.Violations, Violation{Kind: ViolationLocationUnavailable, GroupID: a.GroupID, LocationID: a.LocationID, Date: a.Date, Slot: a.Slot})
			continue
		}

		if loc.Capacity > 0 {
			usageKey := a.Date + "|" + string(a.Slot) + "|" + a.LocationID
			usage[usageKey] += a.ParticipantCount
			if usage[usageKey] > loc.Capacity {
				rep.Violations = append(rep.Violations, Violation{Kind: ViolationCapacity, GroupID: a.GroupID, LocationID: a.LocationID, Date: a.Date, Slot: a.Slot})
			}
		}

		covered[a.GroupID+"|"+a.LocationID] = true
	}

	gids := make([]string, 0, len(n.RequiredByGroup))
	for gid := range n.RequiredByGroup {
		gids = append(gids, gid)
	}
	sort.Strings(gids)
	for _, gid := range gids {
		locs := n.RequiredByGroup[gid]
		if locs == nil {
			continue
		}
		locIDs := locs.Slice()
		sort.Strings(locIDs)
		for _, locID := range locIDs {
			if !covered[gid+"|"+locID] {
				rep.MustVisitMissing = append(rep.MustVisitMissing, MustVisitMissing{GroupID: gid, LocationID: locID})
			}
		}
	}

	return rep
}
