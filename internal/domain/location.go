package domain

import (
	"strconv"
	"time"

	"github.com/hashicorp/go-set/v3"
)

// TargetGroupsAll is the sentinel value meaning a location accepts every
// group type.
const TargetGroupsAll = "all"

// Location is a catalog entry a task may be assigned to.
type Location struct {
	ID                  string
	Name                string
	TargetGroups        string // "all" or a specific group type
	IsActive            bool
	Capacity            int // 0 == unlimited
	BlockedWeekdays     *set.Set[time.Weekday]
	ClosedDates         *set.Set[string] // YYYY-MM-DD
	OpenHours           map[string][]HourWindow
	ClusterPreferSameDay bool
	Preference          LocationPreference
}

// AcceptsGroupType reports whether the location is open to the given group type.
func (l Location) AcceptsGroupType(groupType string) bool {
	return l.TargetGroups == TargetGroupsAll || l.TargetGroups == groupType
}

// IsClosedOn reports whether the date (YYYY-MM-DD) is in ClosedDates.
func (l Location) IsClosedOn(date string) bool {
	if l.ClosedDates == nil {
		return false
	}
	return l.ClosedDates.Contains(date)
}

// IsBlockedWeekday reports whether the weekday is blocked.
func (l Location) IsBlockedWeekday(wd time.Weekday) bool {
	if l.BlockedWeekdays == nil {
		return false
	}
	return l.BlockedWeekdays.Contains(wd)
}

// AdmitsSlot reports whether any open-hours window on the given weekday
// (falling back to "default") fully contains [slotStart, slotEnd].
//
// A location whose openHours field was absent from the input entirely is
// always open (OpenHours == nil). One whose field was present but empty
// (openHours: {}) is never available — an explicit "closed" declaration,
// distinct from "unspecified".
func (l Location) AdmitsSlot(wd time.Weekday, slot HourWindow) bool {
	if l.OpenHours == nil {
		return true
	}
	if len(l.OpenHours) == 0 {
		return false
	}
	windows, ok := l.OpenHours[weekdayKey(wd)]
	if !ok {
		windows, ok = l.OpenHours["default"]
		if !ok {
			return false
		}
	}
	for _, w := range windows {
		if slot.Start >= w.Start && slot.End <= w.End {
			return true
		}
	}
	return false
}

// weekdayKey renders a weekday as the numeric string key ("0".."6",
// Sunday=0) openHours is indexed by.
func weekdayKey(wd time.Weekday) string {
	return strconv.Itoa(int(wd))
}

// LocationPreference carries the per-location soft-scoring preferences.
type LocationPreference struct {
	ConsolidateMode   ConsolidateMode
	TargetSlot        SlotKey // "" if unset
	TargetSlotMode    TargetSlotMode
	ConsolidateWeight float64
	WrongSlotPenalty  float64
}
