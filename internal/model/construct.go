package model

import (
	"math/rand"
	"sort"

	"education-connect/internal/domain"
	"education-connect/internal/objective"
)

// state is the mutable bookkeeping a greedy construction and the annealer
// both thread through: the working solution plus the hard-constraint
// tracking that makes validity checks O(1) instead of a full re-scan.
type state struct {
	idx      *objective.Index
	required domain.RequiredByGroup
	sol      domain.Solution
	// visited[g][l] enforces hard constraint 2 (no repeat M/A visit).
	visited map[string]map[string]bool
	// load[date|slot|loc] enforces capacity, seeded from existing usage.
	load map[objective.UsageKey]int
}

func newState(b *Bundle) *state {
	s := &state{
		idx:      b.Index,
		required: b.Required,
		sol:      domain.Solution{},
		visited:  map[string]map[string]bool{},
		load:     map[objective.UsageKey]int{},
	}
	for k, v := range b.Index.ExistingUsage {
		s.load[k] = v
	}
	return s
}

func (s *state) groupLocVisited(groupID, locID string) bool {
	return s.visited[groupID] != nil && s.visited[groupID][locID]
}

func (s *state) markVisited(groupID, locID string) {
	if s.visited[groupID] == nil {
		s.visited[groupID] = map[string]bool{}
	}
	s.visited[groupID][locID] = true
}

func (s *state) unmarkVisited(groupID, locID string) {
	if s.visited[groupID] != nil {
		delete(s.visited[groupID], locID)
	}
}

func isMASlot(slot domain.SlotKey) bool {
	return slot == domain.SlotMorning || slot == domain.SlotAfternoon
}

// canAssign reports whether assigning task t to locID is hard-feasible
// given the state's current tracking. A current assignment of t itself is
// counted in that tracking, so callers unassign t before asking.
func (s *state) canAssign(t domain.Task, locID string) bool {
	loc, ok := s.idx.LocByID[locID]
	if !ok {
		return false
	}
	if isMASlot(t.Slot) && s.groupLocVisited(t.GroupID, locID) {
		return false
	}
	if objective.ViolatesHardSlotPreference(loc, t.Slot) {
		return false
	}
	if loc.Capacity > 0 {
		key := objective.UsageKey{Date: t.Date, Slot: t.Slot, LocationID: locID}
		if s.load[key]+t.ParticipantCount > loc.Capacity {
			return false
		}
	}
	return true
}

// assign records t -> locID, updating hard-constraint tracking. Caller must
// have checked canAssign first.
func (s *state) assign(t domain.Task, locID string) {
	s.sol[t.Key] = domain.Assignment{
		GroupID:          t.GroupID,
		LocationID:       locID,
		Date:             t.Date,
		Slot:             t.Slot,
		ParticipantCount: t.ParticipantCount,
	}
	if isMASlot(t.Slot) {
		s.markVisited(t.GroupID, locID)
	}
	if loc, ok := s.idx.LocByID[locID]; ok && loc.Capacity > 0 {
		key := objective.UsageKey{Date: t.Date, Slot: t.Slot, LocationID: locID}
		s.load[key] += t.ParticipantCount
	}
}

// unassign reverses assign for t, if it currently holds an assignment.
func (s *state) unassign(t domain.Task) {
	a, ok := s.sol[t.Key]
	if !ok {
		return
	}
	delete(s.sol, t.Key)
	if isMASlot(t.Slot) {
		s.unmarkVisited(t.GroupID, a.LocationID)
	}
	if loc, ok := s.idx.LocByID[a.LocationID]; ok && loc.Capacity > 0 {
		key := objective.UsageKey{Date: t.Date, Slot: t.Slot, LocationID: a.LocationID}
		s.load[key] -= t.ParticipantCount
	}
}

// orderedTasks sorts tasks by (date, slot order, group id). When rng is
// set, tasks sharing a (date, slot) are shuffled among themselves so
// repeated LNS iterations with different seeds explore different
// constructions.
func orderedTasks(tasks []domain.Task, rng *rand.Rand) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Slot != out[j].Slot {
			return domain.SlotOrderIndex(out[i].Slot) < domain.SlotOrderIndex(out[j].Slot)
		}
		return out[i].GroupID < out[j].GroupID
	})
	if rng != nil {
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date < out[j].Date
			}
			return domain.SlotOrderIndex(out[i].Slot) < domain.SlotOrderIndex(out[j].Slot)
		})
	}
	return out
}

// candidateOrder ranks t's candidates for a greedy pick: a hint first, then
// locations still required for the group and uncovered, then the rest in
// their original (input) order.
func candidateOrder(t domain.Task, required domain.RequiredByGroup, covered map[string]bool, hint string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(id string) {
		if id == "" || seen[id] || !t.HasCandidate(id) {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	add(hint)
	if locs, ok := required[t.GroupID]; ok && locs != nil {
		ids := locs.Slice()
		sort.Strings(ids)
		for _, id := range ids {
			if !covered[t.GroupID+"|"+id] {
				add(id)
			}
		}
	}
	for _, id := range t.CandidateLocationIDs {
		add(id)
	}
	return out
}

// construct runs a single deterministic-given-seed greedy pass: fixed tasks
// are assigned first (taken as given, per hard constraint 5), then every
// remaining task is assigned the best still-valid candidate it can find.
func construct(b *Bundle, hints map[domain.TaskKey]string, rng *rand.Rand) *state {
	s := newState(b)

	for key, locID := range b.Fixed {
		t, ok := b.Index.TasksByKey[key]
		if !ok || locID == "" {
			continue
		}
		s.assign(t, locID)
	}

	covered := map[string]bool{}
	for key, a := range s.sol {
		_ = key
		covered[a.GroupID+"|"+a.LocationID] = true
	}

	for _, t := range orderedTasks(b.Tasks, rng) {
		if _, fixed := b.Fixed[t.Key]; fixed {
			continue
		}
		if len(t.CandidateLocationIDs) == 0 {
			continue
		}
		for _, locID := range candidateOrder(t, b.Required, covered, hints[t.Key]) {
			if s.canAssign(t, locID) {
				s.assign(t, locID)
				covered[t.GroupID+"|"+locID] = true
				break
			}
		}
	}

	return s
}
