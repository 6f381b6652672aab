// Package domain holds the concrete record types the planning pipeline
// operates on: groups, locations, tasks, assignments, preferences and the
// resolved rule set. Types here are plain data — the pipeline stages
// (normalize, taskspace, model, lns, scorer, validator) own the behavior.
package domain

// SlotKey identifies one of the fixed daily time slots.
type SlotKey string

const (
	SlotMorning   SlotKey = "MORNING"
	SlotAfternoon SlotKey = "AFTERNOON"
	SlotEvening   SlotKey = "EVENING"
)

// SlotOrder fixes the within-day ordering used for sorting and for the
// slotOrderIndex tie-break the greedy fallback relies on.
var SlotOrder = []SlotKey{SlotMorning, SlotAfternoon, SlotEvening}

// SlotOrderIndex returns the position of a slot in SlotOrder, or len(SlotOrder)
// for an unknown slot (sorts it last instead of panicking).
func SlotOrderIndex(s SlotKey) int {
	for i, k := range SlotOrder {
		if k == s {
			return i
		}
	}
	return len(SlotOrder)
}

// HourWindow is an hour range within a day, in fractional hours
// (e.g. 18.75 == 18:45), start inclusive / end inclusive per spec's
// slotStart >= s && slotEnd <= e admission rule.
type HourWindow struct {
	Start float64
	End   float64
}

// DefaultSlotWindows is used when the input payload doesn't name its own.
var DefaultSlotWindows = map[SlotKey]HourWindow{
	SlotMorning:   {Start: 6, End: 12},
	SlotAfternoon: {Start: 12, End: 18},
	SlotEvening:   {Start: 18, End: 20.75},
}

// DefaultActiveSlots is the slot set used when the input omits one.
var DefaultActiveSlots = []SlotKey{SlotMorning, SlotAfternoon}

// ConsolidateMode controls how a location's same-day preference is scored.
type ConsolidateMode string

const (
	ConsolidateNone     ConsolidateMode = "NONE"
	ConsolidateByDay    ConsolidateMode = "BY_DAY"
	ConsolidateByWindow ConsolidateMode = "BY_WINDOW"
)

// TargetSlotMode controls whether a location's preferred slot is a hard
// requirement or a soft penalty.
type TargetSlotMode string

const (
	TargetSlotSoft TargetSlotMode = "SOFT"
	TargetSlotHard TargetSlotMode = "HARD"
)

// Default penalty weights, per §4.4.
const (
	DefaultWeightRepeat      = 1000.0
	DefaultWeightBalanceT1   = 1.0
	DefaultWeightBalanceT2   = 3.0
	DefaultWeightMissing     = 5.0
	DefaultWeightRequired    = 2000.0
	DefaultWeightConsolidate = 30.0
	DefaultWeightWrongSlot   = 20.0
	DefaultClusterDayPenalty = 40.0

	DefaultBalanceThreshold1 = 0.7
	DefaultBalanceThreshold2 = 0.9
)
