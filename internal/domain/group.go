package domain

import "time"

// Group is a student/teacher group scheduled for visits across the date
// range [StartDate, EndDate].
type Group struct {
	ID               string
	Name             string
	Type             string // matched against Location.TargetGroups
	StartDate        string // YYYY-MM-DD
	EndDate          string // YYYY-MM-DD
	ParticipantCount int
}

// Dates parses StartDate/EndDate; callers are expected to call this only
// after Normalize has already validated the format.
func (g Group) Dates() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", g.StartDate)
	if err != nil {
		return
	}
	end, err = time.Parse("2006-01-02", g.EndDate)
	return
}

// IsSingleDay reports whether the group's trip is a single calendar day.
func (g Group) IsSingleDay() bool {
	return g.StartDate == g.EndDate
}

// ClampedRange intersects the group's own range with the global scope,
// returning ok=false when the ranges are disjoint.
func ClampedRange(scopeStart, scopeEnd, groupStart, groupEnd time.Time) (start, end time.Time, ok bool) {
	start = scopeStart
	if groupStart.After(start) {
		start = groupStart
	}
	end = scopeEnd
	if groupEnd.Before(end) {
		end = groupEnd
	}
	if start.After(end) {
		return start, end, false
	}
	return start, end, true
}

// DateRange enumerates every calendar day in [start, end], inclusive.
func DateRange(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// FormatDate renders a time.Time back to the canonical YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
