// Package diagnose explains why a given (group, date, slot) task ended up
// with zero or few candidate locations. It is the SPEC_FULL.md §3
// supplement grounded on original_source/tools/analyze_missing_candidates.py:
// the distilled spec only says TaskSpace filters candidates down, never why
// a particular task lost them all. diagnose re-runs the same filter chain
// one location at a time and records which check eliminated it first.
package diagnose

import (
	"fmt"
	"sort"
	"time"

	"education-connect/internal/domain"
)

// EliminationReason names the TaskSpace filter that dropped a location from
// one task's candidate list.
type EliminationReason string

const (
	ReasonBoundarySlot   EliminationReason = "boundary_slot"
	ReasonInactive       EliminationReason = "inactive"
	ReasonWrongGroupType EliminationReason = "wrong_group_type"
	ReasonBlockedWeekday EliminationReason = "blocked_weekday"
	ReasonClosedDate     EliminationReason = "closed_date"
	ReasonNoOpenWindow   EliminationReason = "no_open_hours_window"
)

// Elimination is one location's reason for not candidating for a task.
type Elimination struct {
	LocationID string
	Reason     EliminationReason
}

// Explanation is the full diagnostic for one (group, date, slot) task.
type Explanation struct {
	GroupID      string
	Date         string
	Slot         domain.SlotKey
	Forbidden    bool // true when the task is a forbidden boundary slot
	Eliminations []Elimination
}

// Explain re-derives why groupID's task on date/slot has the candidates (or
// lack of them) it has, against the normalized input. It does not consult
// an already-built task space — it recomputes from locations directly so it
// still works for a task TaskSpace never even enumerated.
func Explain(n *domain.Normalized, groupID, date string, slot domain.SlotKey) (Explanation, error) {
	var group domain.Group
	found := false
	for _, g := range n.Groups {
		if g.ID == groupID {
			group = g
			found = true
			break
		}
	}
	if !found {
		return Explanation{}, fmt.Errorf("diagnose: unknown group %q", groupID)
	}

	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return Explanation{}, fmt.Errorf("diagnose: malformed date %q: %w", date, err)
	}
	weekday := d.Weekday()

	exp := Explanation{GroupID: groupID, Date: date, Slot: slot}

	singleDay := group.IsSingleDay()
	if date == group.StartDate && slot == domain.SlotMorning {
		exp.Forbidden = true
		return exp, nil
	}
	if !singleDay && date == group.EndDate && slot == domain.SlotAfternoon {
		exp.Forbidden = true
		return exp, nil
	}

	window := n.Rules.SlotWindows[slot]

	locs := make([]domain.Location, len(n.Locations))
	copy(locs, n.Locations)
	sort.Slice(locs, func(i, j int) bool { return locs[i].ID < locs[j].ID })

	for _, loc := range locs {
		switch {
		case !loc.IsActive:
			exp.Eliminations = append(exp.Eliminations, Elimination{LocationID: loc.ID, Reason: ReasonInactive})
		case !loc.AcceptsGroupType(group.Type):
			exp.Eliminations = append(exp.Eliminations, Elimination{LocationID: loc.ID, Reason: ReasonWrongGroupType})
		case loc.IsBlockedWeekday(weekday):
			exp.Eliminations = append(exp.Eliminations, Elimination{LocationID: loc.ID, Reason: ReasonBlockedWeekday})
		case loc.IsClosedOn(date):
			exp.Eliminations = append(exp.Eliminations, Elimination{LocationID: loc.ID, Reason: ReasonClosedDate})
		case !loc.AdmitsSlot(weekday, window):
			exp.Eliminations = append(exp.Eliminations, Elimination{LocationID: loc.ID, Reason: ReasonNoOpenWindow})
		}
	}

	return exp, nil
}

// LowCandidateThreshold is the candidate count at or below which a task's
// full Explanation goes into the report's precheck.candidateGaps; tasks
// with more candidates are not listed there.
const LowCandidateThreshold = 2

// CandidateGaps scans tasks for any non-forbidden task at or below
// LowCandidateThreshold candidates and explains each one, for the report's
// precheck.candidateGaps field.
func CandidateGaps(n *domain.Normalized, tasks []domain.Task) ([]Explanation, error) {
	var out []Explanation
	for _, t := range tasks {
		if len(t.CandidateLocationIDs) > LowCandidateThreshold {
			continue
		}
		g, err := Explain(n, t.GroupID, t.Date, t.Slot)
		if err != nil {
			return nil, err
		}
		if g.Forbidden {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}
