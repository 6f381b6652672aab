package normalize

import (
	"strings"
	"time"

	"github.com/hashicorp/go-set/v3"

	"education-connect/internal/domain"
)

// parseLocations builds the location catalog, dropping rows with no id.
func parseLocations(raw any) []domain.Location {
	rows := asSlice(raw)
	out := make([]domain.Location, 0, len(rows))
	for _, item := range rows {
		row := asMap(item)
		if row == nil {
			continue
		}
		id := asString(row["id"])
		if id == "" {
			continue
		}
		capacity := asInt(row["capacity"], 0)
		if capacity < 0 {
			capacity = 0
		}
		name := asString(row["name"])
		if name == "" {
			name = "#" + id
		}
		targetGroups := asString(firstOf(row, "targetGroups", "target_groups"))
		if targetGroups == "" {
			targetGroups = domain.TargetGroupsAll
		}
		out = append(out, domain.Location{
			ID:                   id,
			Name:                 name,
			TargetGroups:         targetGroups,
			IsActive:             asBool(firstOf(row, "isActive", "is_active"), false),
			Capacity:             capacity,
			BlockedWeekdays:      parseBlockedWeekdays(firstOf(row, aliasBlockedWeekdays...)),
			ClosedDates:          parseClosedDates(firstOf(row, aliasClosedDates...)),
			OpenHours:            parseOpenHours(firstOf(row, aliasOpenHours...)),
			ClusterPreferSameDay: asBool(firstOf(row, aliasClusterSameDay...), false),
		})
	}
	return out
}

// weekdaySepReplacer collapses the alternate list separators the original
// tool's CSV-ish blockedWeekdays/closedDates strings may use onto a comma.
var weekdaySepReplacer = strings.NewReplacer("，", ",", "、", ",", ";", ",", "|", ",")

// parseBlockedWeekdays accepts either a list of 0..6 ints or a delimited
// string of digits.
func parseBlockedWeekdays(raw any) *set.Set[time.Weekday] {
	out := set.New[time.Weekday](0)
	switch items := raw.(type) {
	case []any:
		for _, v := range items {
			n := asInt(v, -1)
			if n >= 0 && n <= 6 {
				out.Insert(time.Weekday(n))
			}
		}
	case string:
		for _, tok := range strings.Split(weekdaySepReplacer.Replace(items), ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			n := asInt(tok, -1)
			if n >= 0 && n <= 6 {
				out.Insert(time.Weekday(n))
			}
		}
	}
	return out
}

// parseClosedDates accepts either a list of YYYY-MM-DD strings or a
// delimited string of dates.
func parseClosedDates(raw any) *set.Set[string] {
	out := set.New[string](0)
	switch items := raw.(type) {
	case []any:
		for _, v := range items {
			s := asString(v)
			if isValidDate(s) {
				out.Insert(s)
			}
		}
	case string:
		for _, tok := range strings.Split(weekdaySepReplacer.Replace(items), ",") {
			tok = strings.TrimSpace(tok)
			if isValidDate(tok) {
				out.Insert(tok)
			}
		}
	}
	return out
}

// parseOpenHours returns nil when the field was absent (always open), a
// non-nil empty map when it was present but empty (never available), or
// the resolved per-weekday window list otherwise. Malformed window entries
// are dropped individually.
func parseOpenHours(raw any) map[string][]domain.HourWindow {
	m := asMap(raw)
	if m == nil {
		return nil
	}
	out := make(map[string][]domain.HourWindow, len(m))
	for key, v := range m {
		rows := asSlice(v)
		var windows []domain.HourWindow
		for _, item := range rows {
			row := asMap(item)
			if row == nil {
				continue
			}
			startV, hasStart := row["start"]
			endV, hasEnd := row["end"]
			if !hasStart || !hasEnd {
				continue
			}
			windows = append(windows, domain.HourWindow{
				Start: asFloat(startV, 0),
				End:   asFloat(endV, 0),
			})
		}
		out[key] = windows
	}
	return out
}
