package normalize

import (
	"strings"

	"education-connect/internal/domain"
)

// parseSlotWindows merges the input's rules.slotWindows over the defaults,
// keeping a default window for any slot key the input doesn't override.
func parseSlotWindows(raw any) map[domain.SlotKey]domain.HourWindow {
	out := make(map[domain.SlotKey]domain.HourWindow, len(domain.DefaultSlotWindows))
	for k, v := range domain.DefaultSlotWindows {
		out[k] = v
	}
	m := asMap(raw)
	for key, def := range domain.DefaultSlotWindows {
		row := asMap(m[string(key)])
		if row == nil {
			continue
		}
		out[key] = domain.HourWindow{
			Start: asFloat(row["start"], def.Start),
			End:   asFloat(row["end"], def.End),
		}
	}
	return out
}

// parseActiveSlots resolves rules.timeSlots against the resolved slot
// window set, falling back to the default active set when absent/empty.
func parseActiveSlots(raw any, windows map[domain.SlotKey]domain.HourWindow) []domain.SlotKey {
	items := asSlice(raw)
	if items == nil {
		return append([]domain.SlotKey{}, domain.DefaultActiveSlots...)
	}
	seen := map[domain.SlotKey]bool{}
	var out []domain.SlotKey
	for _, item := range items {
		key := domain.SlotKey(strings.ToUpper(strings.TrimSpace(asString(item))))
		if _, ok := windows[key]; !ok {
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	if len(out) == 0 {
		return append([]domain.SlotKey{}, domain.DefaultActiveSlots...)
	}
	return out
}

// parseWeights reads rules.weight{Repeat,BalanceT1,BalanceT2,Missing,
// Consolidate,WrongSlot} plus the required-coverage weight, clamping
// negatives to 0 and defaulting any field the payload omits.
func parseWeights(rules map[string]any) domain.Weights {
	d := domain.DefaultWeights()
	if rules == nil {
		return d
	}
	w := domain.Weights{
		Repeat:      asFloat(rules["weightRepeat"], d.Repeat),
		BalanceT1:   asFloat(rules["weightBalanceT1"], d.BalanceT1),
		BalanceT2:   asFloat(rules["weightBalanceT2"], d.BalanceT2),
		Missing:     asFloat(rules["weightMissing"], d.Missing),
		Required:    asFloat(rules["weightRequired"], d.Required),
		Consolidate: asFloat(rules["weightConsolidate"], d.Consolidate),
		WrongSlot:   asFloat(rules["weightWrongSlot"], d.WrongSlot),
		ClusterDay:  asFloat(rules["clusterDayPenalty"], d.ClusterDay),
	}
	return w.Clamp()
}

// parseLocationPreferences reads rules.locationPreferences, keyed by
// location id. defaultConsolidate/defaultWrongSlot are the already-resolved
// global weight fallbacks a location without its own override inherits.
func parseLocationPreferences(raw any, defaultConsolidate, defaultWrongSlot float64) map[string]domain.LocationPreference {
	out := map[string]domain.LocationPreference{}
	m := asMap(raw)
	for locID, v := range m {
		row := asMap(v)
		if row == nil {
			continue
		}
		pref := domain.LocationPreference{
			ConsolidateMode:   domain.ConsolidateMode(strings.ToUpper(asString(row["consolidateMode"]))),
			TargetSlot:        domain.SlotKey(strings.ToUpper(asString(row["targetSlot"]))),
			TargetSlotMode:    domain.TargetSlotMode(strings.ToUpper(asString(row["targetSlotMode"]))),
			ConsolidateWeight: asFloat(row["consolidateWeight"], defaultConsolidate),
			WrongSlotPenalty:  asFloat(row["wrongSlotPenalty"], defaultWrongSlot),
		}
		if pref.ConsolidateMode == "" {
			pref.ConsolidateMode = domain.ConsolidateNone
		}
		if pref.TargetSlotMode == "" {
			pref.TargetSlotMode = domain.TargetSlotSoft
		}
		if pref.ConsolidateWeight < 0 {
			pref.ConsolidateWeight = 0
		}
		if pref.WrongSlotPenalty < 0 {
			pref.WrongSlotPenalty = 0
		}
		out[locID] = pref
	}
	return out
}

// parseScoringProfiles reads rules.scoringProfiles.
func parseScoringProfiles(raw any) []domain.ScoringProfile {
	items := asSlice(raw)
	out := make([]domain.ScoringProfile, 0, len(items))
	for _, item := range items {
		row := asMap(item)
		if row == nil {
			continue
		}
		id := asString(row["id"])
		if id == "" {
			continue
		}
		overrides := asMap(row["overrides"])
		w, has := domain.Weights{}, map[string]bool{}
		setIf := func(key string, dst *float64) {
			if v, ok := overrides[key]; ok {
				*dst = asFloat(v, 0)
				has[key] = true
			}
		}
		setIf("weightRepeat", &w.Repeat)
		setIf("weightBalanceT1", &w.BalanceT1)
		setIf("weightBalanceT2", &w.BalanceT2)
		setIf("weightMissing", &w.Missing)
		setIf("weightRequired", &w.Required)
		setIf("weightConsolidate", &w.Consolidate)
		setIf("weightWrongSlot", &w.WrongSlot)
		setIf("clusterDayPenalty", &w.ClusterDay)
		out = append(out, domain.ScoringProfile{
			ID:          id,
			Label:       asString(row["label"]),
			Overrides:   w,
			HasOverride: has,
		})
	}
	return out
}
