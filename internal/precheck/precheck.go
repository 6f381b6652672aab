// Package precheck inspects a built task space for structural defects
// before any solve attempt: groups with no tasks in scope (a warning) and
// required coverage that is already impossible (a blocking error that is
// reported but never aborts the run).
package precheck

import (
	"sort"

	"education-connect/internal/domain"
)

// WarningKind and ErrorKind name the fixed set of precheck findings.
type WarningKind string

const (
	WarnGroupNoSlotsInScope WarningKind = "group_no_slots_in_scope"
)

type ErrorKind string

const (
	ErrRequiredGroupMissing           ErrorKind = "required_group_missing"
	ErrRequiredLocationMissing        ErrorKind = "required_location_missing"
	ErrRequiredLocationNoFeasibleSlot ErrorKind = "required_location_no_feasible_slot"
)

// Warning is a non-blocking finding.
type Warning struct {
	Kind    WarningKind
	GroupID string
}

// BlockingError is a structural defect that is reported but does not abort
// the pipeline; the solver still runs and pays the soft required-coverage
// penalty for whatever can't be covered.
type BlockingError struct {
	Kind       ErrorKind
	GroupID    string
	LocationID string
}

// Report bundles every precheck finding.
type Report struct {
	Warnings []Warning
	Errors   []BlockingError
}

// Run inspects n's groups/locations against the built task space.
func Run(n *domain.Normalized, tasks []domain.Task) Report {
	var rep Report

	tasksByGroup := make(map[string][]domain.Task, len(n.Groups))
	for _, t := range tasks {
		tasksByGroup[t.GroupID] = append(tasksByGroup[t.GroupID], t)
	}

	groupByID := make(map[string]domain.Group, len(n.Groups))
	for _, g := range n.Groups {
		groupByID[g.ID] = g
		if len(tasksByGroup[g.ID]) == 0 {
			rep.Warnings = append(rep.Warnings, Warning{Kind: WarnGroupNoSlotsInScope, GroupID: g.ID})
		}
	}

	requiredGroupIDs := make([]string, 0, len(n.RequiredByGroup))
	for gid := range n.RequiredByGroup {
		requiredGroupIDs = append(requiredGroupIDs, gid)
	}
	sort.Strings(requiredGroupIDs)

	for _, gid := range requiredGroupIDs {
		locs := n.RequiredByGroup[gid]
		if locs == nil || locs.Size() == 0 {
			continue
		}
		if _, ok := groupByID[gid]; !ok {
			rep.Errors = append(rep.Errors, BlockingError{Kind: ErrRequiredGroupMissing, GroupID: gid})
			continue
		}

		locIDs := locs.Slice()
		sort.Strings(locIDs)
		groupTasks := tasksByGroup[gid]
		for _, locID := range locIDs {
			if !locationExists(n, locID) {
				rep.Errors = append(rep.Errors, BlockingError{Kind: ErrRequiredLocationMissing, GroupID: gid, LocationID: locID})
				continue
			}
			if !hasFeasibleSlot(groupTasks, locID) {
				rep.Errors = append(rep.Errors, BlockingError{Kind: ErrRequiredLocationNoFeasibleSlot, GroupID: gid, LocationID: locID})
			}
		}
	}

	return rep
}

func locationExists(n *domain.Normalized, locID string) bool {
	for _, l := range n.Locations {
		if l.ID == locID {
			return true
		}
	}
	return false
}

func hasFeasibleSlot(tasks []domain.Task, locID string) bool {
	for _, t := range tasks {
		if t.HasCandidate(locID) {
			return true
		}
	}
	return false
}
