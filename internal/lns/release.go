package lns

import (
	"math/rand"
	"sort"

	"education-connect/internal/domain"
	"education-connect/internal/objective"
)

// releaseMode names the hotspot source that contributed the first task of a
// release set, for the telemetry curve's releaseMode field.
type releaseMode string

const (
	modeRequired releaseMode = "required"
	modeOverload releaseMode = "overload"
	modeDrift    releaseMode = "drift"
	modeRandom   releaseMode = "random"
	modeShakeup  releaseMode = "shakeup"
)

// releasePlan selects k task keys to free, drawing in order from the four
// hotspot sources until k is reached, shuffling within each source.
func releasePlan(idx *objective.Index, required domain.RequiredByGroup, incumbent domain.Solution, existingByKey map[domain.TaskKey]string, all []domain.Task, k int, rng *rand.Rand) ([]domain.TaskKey, releaseMode) {
	chosen := map[domain.TaskKey]bool{}
	var out []domain.TaskKey
	dominant := modeRandom

	take := func(keys []domain.TaskKey, mode releaseMode) {
		rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		for _, key := range keys {
			if len(out) >= k {
				return
			}
			if chosen[key] {
				continue
			}
			chosen[key] = true
			out = append(out, key)
			if len(out) == 1 {
				dominant = mode
			}
		}
	}

	take(unmetRequiredTaskKeys(idx, required, incumbent), modeRequired)
	if len(out) < k {
		take(overloadedTaskKeys(idx, incumbent), modeOverload)
	}
	if len(out) < k {
		take(driftTaskKeys(incumbent, existingByKey, all), modeDrift)
	}
	if len(out) < k {
		var rest []domain.TaskKey
		for _, t := range all {
			if len(t.CandidateLocationIDs) == 0 || chosen[t.Key] {
				continue
			}
			rest = append(rest, t.Key)
		}
		take(rest, modeRandom)
	}

	return out, dominant
}

// unmetRequiredTaskKeys returns tasks belonging to a group whose required
// location is not yet covered by the incumbent and that list the location
// as a candidate.
func unmetRequiredTaskKeys(idx *objective.Index, required domain.RequiredByGroup, incumbent domain.Solution) []domain.TaskKey {
	covered := map[string]bool{}
	for _, a := range incumbent {
		covered[a.GroupID+"|"+a.LocationID] = true
	}
	var out []domain.TaskKey
	gids := make([]string, 0, len(required))
	for gid := range required {
		gids = append(gids, gid)
	}
	sort.Strings(gids)
	for _, gid := range gids {
		locs := required[gid]
		if locs == nil {
			continue
		}
		locIDs := locs.Slice()
		sort.Strings(locIDs)
		for _, locID := range locIDs {
			if covered[gid+"|"+locID] {
				continue
			}
			for _, t := range idx.Tasks {
				if t.GroupID == gid && t.HasCandidate(locID) {
					out = append(out, t.Key)
				}
			}
		}
	}
	return out
}

// overloadedTaskKeys returns tasks currently assigned to a (date, slot,
// location) cell whose load exceeds its t1 threshold, ordered by overload
// magnitude descending.
func overloadedTaskKeys(idx *objective.Index, incumbent domain.Solution) []domain.TaskKey {
	load := make(map[objective.UsageKey]int, len(idx.ExistingUsage))
	for k, v := range idx.ExistingUsage {
		load[k] = v
	}
	for _, a := range incumbent {
		load[objective.UsageKey{Date: a.Date, Slot: a.Slot, LocationID: a.LocationID}] += a.ParticipantCount
	}

	type overload struct {
		key objective.UsageKey
		amt int
	}
	var overloads []overload
	t1 := idx.Thresholds[0]
	for k, used := range load {
		loc, ok := idx.LocByID[k.LocationID]
		if !ok || loc.Capacity <= 0 {
			continue
		}
		cap1 := int(float64(loc.Capacity) * t1)
		if over := used - cap1; over > 0 {
			overloads = append(overloads, overload{key: k, amt: over})
		}
	}
	sort.Slice(overloads, func(i, j int) bool { return overloads[i].amt > overloads[j].amt })

	var out []domain.TaskKey
	for _, ov := range overloads {
		for _, t := range idx.Tasks {
			if t.Date == ov.key.Date && t.Slot == ov.key.Slot {
				if a, ok := incumbent[t.Key]; ok && a.LocationID == ov.key.LocationID {
					out = append(out, t.Key)
				}
			}
		}
	}
	return out
}

// driftTaskKeys returns tasks whose incumbent assignment differs from the
// original existing plan for that task key (including tasks newly
// assigned, or cleared, relative to the existing plan).
func driftTaskKeys(incumbent domain.Solution, existingByKey map[domain.TaskKey]string, all []domain.Task) []domain.TaskKey {
	var out []domain.TaskKey
	for _, t := range all {
		if len(t.CandidateLocationIDs) == 0 {
			continue
		}
		existingLoc, hadExisting := existingByKey[t.Key]
		incumbentAssignment, hasIncumbent := incumbent[t.Key]
		switch {
		case hadExisting && hasIncumbent && incumbentAssignment.LocationID != existingLoc:
			out = append(out, t.Key)
		case hadExisting && !hasIncumbent:
			out = append(out, t.Key)
		case !hadExisting && hasIncumbent:
			out = append(out, t.Key)
		}
	}
	return out
}

func anyRequiredMissing(idx *objective.Index, required domain.RequiredByGroup, incumbent domain.Solution) bool {
	covered := map[string]bool{}
	for _, a := range incumbent {
		covered[a.GroupID+"|"+a.LocationID] = true
	}
	for gid, locs := range required {
		if locs == nil {
			continue
		}
		for _, locID := range locs.Slice() {
			if !covered[gid+"|"+locID] {
				return true
			}
		}
	}
	return false
}

func anyCapacityOverload(idx *objective.Index, incumbent domain.Solution) bool {
	load := make(map[objective.UsageKey]int, len(idx.ExistingUsage))
	for k, v := range idx.ExistingUsage {
		load[k] = v
	}
	for _, a := range incumbent {
		load[objective.UsageKey{Date: a.Date, Slot: a.Slot, LocationID: a.LocationID}] += a.ParticipantCount
	}
	t1 := idx.Thresholds[0]
	for k, used := range load {
		loc, ok := idx.LocByID[k.LocationID]
		if !ok || loc.Capacity <= 0 {
			continue
		}
		if used > int(float64(loc.Capacity)*t1) {
			return true
		}
	}
	return false
}
