package normalize

import "education-connect/internal/domain"

// parseGroups builds the group list, dropping (silently) any row whose id
// is empty or whose start/end dates are missing, malformed, or inverted.
func parseGroups(raw any) []domain.Group {
	rows := asSlice(raw)
	out := make([]domain.Group, 0, len(rows))
	for _, item := range rows {
		row := asMap(item)
		if row == nil {
			continue
		}
		id := asString(row["id"])
		if id == "" {
			continue
		}
		start := asString(firstOf(row, aliasGroupStart...))
		end := asString(firstOf(row, aliasGroupEnd...))
		if !isValidDate(start) || !isValidDate(end) || start > end {
			continue
		}
		students := maxInt(0, asInt(firstOf(row, aliasStudentCount...), 0))
		teachers := maxInt(0, asInt(firstOf(row, aliasTeacherCount...), 0))
		participants := asInt(firstOf(row, aliasParticipants...), students+teachers)
		if participants <= 0 {
			participants = maxInt(1, students+teachers)
		}
		name := asString(row["name"])
		if name == "" {
			name = "#" + id
		}
		groupType := asString(row["type"])
		if groupType == "" {
			groupType = domain.TargetGroupsAll
		}
		out = append(out, domain.Group{
			ID:               id,
			Name:             name,
			Type:             groupType,
			StartDate:        start,
			EndDate:          end,
			ParticipantCount: participants,
		})
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
