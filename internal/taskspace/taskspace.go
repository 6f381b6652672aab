// Package taskspace enumerates the (group, date, slot) tasks a normalized
// input implies, together with each task's admissible location candidates.
package taskspace

import (
	"time"

	"education-connect/internal/domain"
)

// Build enumerates every task implied by n. A group whose own range is
// disjoint from the global scope simply contributes no tasks — that's
// surfaced as a warning by the precheck stage, not here.
func Build(n *domain.Normalized) ([]domain.Task, error) {
	existingByKey := make(map[domain.TaskKey]string, len(n.Existing))
	for _, a := range n.Existing {
		existingByKey[a.TaskKey()] = a.LocationID
	}

	var tasks []domain.Task
	for _, g := range n.Groups {
		groupStart, groupEnd, err := g.Dates()
		if err != nil {
			continue
		}
		start, end, ok := domain.ClampedRange(n.Scope.Start, n.Scope.End, groupStart, groupEnd)
		if !ok {
			continue
		}
		singleDay := g.IsSingleDay()
		for _, d := range domain.DateRange(start, end) {
			date := domain.FormatDate(d)
			weekday := d.Weekday()
			for _, slot := range n.Rules.ActiveSlots {
				key := domain.NewTaskKey(g.ID, date, slot)
				task := domain.Task{
					Key:              key,
					GroupID:          g.ID,
					Date:             date,
					Slot:             slot,
					ParticipantCount: g.ParticipantCount,
				}
				if loc, ok := existingByKey[key]; ok {
					task.ExistingLocationID = loc
				}

				if forbidden(slot, date, g.StartDate, g.EndDate, singleDay) {
					tasks = append(tasks, task)
					continue
				}

				task.CandidateLocationIDs = candidatesFor(n, g, weekday, date, slot)
				tasks = append(tasks, task)
			}
		}
	}
	return tasks, nil
}

// forbidden implements the boundary-slot hard rule: start-day MORNING is
// always forbidden; end-day AFTERNOON is forbidden for multi-day groups
// only (a single-day group's start day is also its end day, and only the
// MORNING prohibition applies to it).
func forbidden(slot domain.SlotKey, date, groupStart, groupEnd string, singleDay bool) bool {
	if date == groupStart && slot == domain.SlotMorning {
		return true
	}
	if !singleDay && date == groupEnd && slot == domain.SlotAfternoon {
		return true
	}
	return false
}

func candidatesFor(n *domain.Normalized, g domain.Group, weekday time.Weekday, date string, slot domain.SlotKey) []string {
	window := n.Rules.SlotWindows[slot]
	var out []string
	for _, loc := range n.Locations {
		if !loc.IsActive {
			continue
		}
		if !loc.AcceptsGroupType(g.Type) {
			continue
		}
		if loc.IsBlockedWeekday(weekday) {
			continue
		}
		if loc.IsClosedOn(date) {
			continue
		}
		if !loc.AdmitsSlot(weekday, window) {
			continue
		}
		out = append(out, loc.ID)
	}
	return out
}
