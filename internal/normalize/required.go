package normalize

import (
	"github.com/hashicorp/go-set/v3"

	"education-connect/internal/domain"
)

// parseRequiredByGroup builds the must-visit map from requiredLocationsByGroup,
// falling back per-group to legacyPlanItemsByGroup (the v1
// plan_items_by_group shape) only when the group has no direct entries.
func parseRequiredByGroup(requiredRaw, legacyRaw any) domain.RequiredByGroup {
	out := domain.RequiredByGroup{}

	required := asMap(requiredRaw)
	for groupID, v := range required {
		row := asMap(v)
		if row == nil {
			continue
		}
		ids := uniqStrings(asSlice(row["locationIds"]))
		if len(ids) == 0 {
			ids = legacyRequiredRow(row)
		}
		if len(ids) > 0 {
			out[groupID] = set.From(ids)
		}
	}

	legacy := asMap(legacyRaw)
	for groupID, v := range legacy {
		if s, ok := out[groupID]; ok && s.Size() > 0 {
			continue
		}
		entries := asSlice(v)
		var ids []string
		for _, item := range entries {
			row := asMap(item)
			if row == nil {
				continue
			}
			id := asString(firstOf(row, aliasLocationID...))
			if id != "" {
				ids = append(ids, id)
			}
		}
		ids = uniqStringList(ids)
		if len(ids) > 0 {
			out[groupID] = set.From(ids)
		}
	}

	return out
}

// legacyRequiredRow recovers a requiredLocationsByGroup row that used the
// v1 {"locations":[{"locationId":...}]} or {"location_id":...} shape
// instead of a direct locationIds list.
func legacyRequiredRow(row map[string]any) []string {
	if legacyRows := asSlice(row["locations"]); legacyRows != nil {
		var ids []string
		for _, item := range legacyRows {
			sub := asMap(item)
			if sub == nil {
				continue
			}
			if id := asString(firstOf(sub, aliasLocationID...)); id != "" {
				ids = append(ids, id)
			}
		}
		return uniqStringList(ids)
	}
	if id := asString(firstOf(row, aliasLocationID...)); id != "" {
		return []string{id}
	}
	return nil
}

func uniqStrings(items []any) []string {
	var ids []string
	for _, v := range items {
		if s := asString(v); s != "" {
			ids = append(ids, s)
		}
	}
	return uniqStringList(ids)
}

func uniqStringList(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
