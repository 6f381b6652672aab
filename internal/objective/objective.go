// Package objective computes the single weighted-penalty metric the
// constraint model optimizes and the scorer reports. Keeping one
// implementation here is what makes the invariant "scorer and model agree
// in sign" hold by construction instead of by convention.
package objective

import (
	"education-connect/internal/domain"
)

// UsageKey identifies a (date, slot, location) capacity cell.
type UsageKey struct {
	Date       string
	Slot       domain.SlotKey
	LocationID string
}

// ExistingUsage sums existing assignments' participant counts per cell —
// load the solver must respect but never re-derives from a solution.
func ExistingUsage(existing []domain.Assignment) map[UsageKey]int {
	out := map[UsageKey]int{}
	for _, a := range existing {
		k := UsageKey{Date: a.Date, Slot: a.Slot, LocationID: a.LocationID}
		out[k] += a.ParticipantCount
	}
	return out
}

// Metrics is the raw, per-penalty breakdown a candidate solution produces.
// ConsolidatePenalty and WrongSlotPenalty are already weighted by their
// location's own preference weight (it's a per-location coefficient, not a
// single global scalar); the rest are raw counts Score multiplies by the
// matching global weight.
type Metrics struct {
	Repeats            int
	Missing            int
	OverT1             int
	OverT2             int
	RequiredMissing    int
	ConsolidatePenalty float64
	WrongSlotPenalty   float64
	ClusterDayUsed     int
}

// Score folds Metrics into the single maximized objective value.
func Score(w domain.Weights, m Metrics) float64 {
	return -(w.Repeat*float64(m.Repeats) +
		w.BalanceT1*float64(m.OverT1) +
		w.BalanceT2*float64(m.OverT2) +
		w.Missing*float64(m.Missing) +
		w.Required*float64(m.RequiredMissing) +
		m.ConsolidatePenalty +
		m.WrongSlotPenalty +
		w.ClusterDay*float64(m.ClusterDayUsed))
}

// Index is the read-only context Evaluate needs about the task space
// and normalized input; built once per solve and reused across calls.
type Index struct {
	Tasks         []domain.Task
	TasksByKey    map[domain.TaskKey]domain.Task
	GroupByID     map[string]domain.Group
	LocByID       map[string]domain.Location
	ExistingUsage map[UsageKey]int
	Thresholds    [2]float64 // balanceThreshold1, balanceThreshold2
}

// BuildIndex precomputes the lookup structures Evaluate and the local
// solver both need.
func BuildIndex(n *domain.Normalized, tasks []domain.Task) *Index {
	idx := &Index{
		Tasks:         tasks,
		TasksByKey:    make(map[domain.TaskKey]domain.Task, len(tasks)),
		GroupByID:     make(map[string]domain.Group, len(n.Groups)),
		LocByID:       make(map[string]domain.Location, len(n.Locations)),
		ExistingUsage: ExistingUsage(n.Existing),
		Thresholds:    [2]float64{n.Rules.BalanceThreshold1, n.Rules.BalanceThreshold2},
	}
	for _, t := range tasks {
		idx.TasksByKey[t.Key] = t
	}
	for _, g := range n.Groups {
		idx.GroupByID[g.ID] = g
	}
	for _, l := range n.Locations {
		idx.LocByID[l.ID] = l
	}
	return idx
}

func isMASlot(s domain.SlotKey) bool {
	return s == domain.SlotMorning || s == domain.SlotAfternoon
}

// Evaluate computes Metrics for sol against idx.
func Evaluate(idx *Index, required domain.RequiredByGroup, sol domain.Solution) Metrics {
	var m Metrics

	type groupLocKey struct{ groupID, locID string }
	maVisits := map[groupLocKey]int{}

	load := make(map[UsageKey]int, len(idx.ExistingUsage))
	for k, v := range idx.ExistingUsage {
		load[k] = v
	}

	// covered[g][l] tracks required-coverage regardless of slot.
	covered := map[groupLocKey]bool{}

	// consolidate/targetSlot/cluster bookkeeping, keyed by (locationID, date).
	type locDateKey struct {
		locID string
		date  string
	}
	usedM := map[locDateKey]bool{}
	usedA := map[locDateKey]bool{}
	dayUsed := map[locDateKey]bool{}

	for _, a := range sol {
		load[UsageKey{Date: a.Date, Slot: a.Slot, LocationID: a.LocationID}] += a.ParticipantCount
		covered[groupLocKey{a.GroupID, a.LocationID}] = true

		if isMASlot(a.Slot) {
			maVisits[groupLocKey{a.GroupID, a.LocationID}]++
		}

		ldk := locDateKey{a.LocationID, a.Date}
		switch a.Slot {
		case domain.SlotMorning:
			usedM[ldk] = true
		case domain.SlotAfternoon:
			usedA[ldk] = true
		}
		if loc, ok := idx.LocByID[a.LocationID]; ok && loc.ClusterPreferSameDay && isMASlot(a.Slot) {
			dayUsed[ldk] = true
		}
	}

	for _, c := range maVisits {
		if c > 1 {
			m.Repeats += c - 1
		}
	}

	for _, t := range idx.Tasks {
		if !isMASlot(t.Slot) {
			continue
		}
		g, ok := idx.GroupByID[t.GroupID]
		if !ok || !t.IsMiddleDay(g.StartDate, g.EndDate) {
			continue
		}
		if _, assigned := sol[t.Key]; !assigned {
			m.Missing++
		}
	}

	t1, t2 := idx.Thresholds[0], idx.Thresholds[1]
	for k, used := range load {
		if !isMASlot(k.Slot) {
			continue
		}
		loc, ok := idx.LocByID[k.LocationID]
		if !ok || loc.Capacity <= 0 {
			continue
		}
		cap1 := int(float64(loc.Capacity) * t1)
		cap2 := int(float64(loc.Capacity) * t2)
		if over := used - cap1; over > 0 {
			m.OverT1 += over
		}
		if over := used - cap2; over > 0 {
			m.OverT2 += over
		}
	}

	for gid, locs := range required {
		if locs == nil {
			continue
		}
		for _, lid := range locs.Slice() {
			if !covered[groupLocKey{gid, lid}] {
				m.RequiredMissing++
			}
		}
	}

	dates := map[string]bool{}
	for _, t := range idx.Tasks {
		dates[t.Date] = true
	}
	for _, loc := range idx.LocByID {
		pref := loc.Preference
		for date := range dates {
			ldk := locDateKey{loc.ID, date}
			if pref.ConsolidateMode == domain.ConsolidateByDay {
				if usedM[ldk] && usedA[ldk] {
					m.ConsolidatePenalty += pref.ConsolidateWeight
				}
			}
			if pref.TargetSlot == domain.SlotMorning && usedA[ldk] {
				if pref.TargetSlotMode == domain.TargetSlotSoft {
					m.WrongSlotPenalty += pref.WrongSlotPenalty
				}
			}
			if pref.TargetSlot == domain.SlotAfternoon && usedM[ldk] {
				if pref.TargetSlotMode == domain.TargetSlotSoft {
					m.WrongSlotPenalty += pref.WrongSlotPenalty
				}
			}
			if dayUsed[ldk] {
				m.ClusterDayUsed++
			}
		}
	}

	return m
}

// ViolatesHardSlotPreference reports whether assigning loc to slot would
// break a HARD targetSlot preference — used by the solver to
// reject a move outright rather than merely penalize it.
func ViolatesHardSlotPreference(loc domain.Location, slot domain.SlotKey) bool {
	pref := loc.Preference
	if pref.TargetSlotMode != domain.TargetSlotHard {
		return false
	}
	switch pref.TargetSlot {
	case domain.SlotMorning:
		return slot == domain.SlotAfternoon
	case domain.SlotAfternoon:
		return slot == domain.SlotMorning
	default:
		return false
	}
}
