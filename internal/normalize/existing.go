package normalize

import (
	"strings"

	"education-connect/internal/domain"
)

// parseExistingAssignments reads data.existingAssignments, dropping any row
// with a missing id, malformed date, or slot outside the active slot set.
func parseExistingAssignments(raw any, activeSlots []domain.SlotKey) []domain.Assignment {
	allowed := map[domain.SlotKey]bool{}
	for _, s := range activeSlots {
		allowed[s] = true
	}

	rows := asSlice(raw)
	out := make([]domain.Assignment, 0, len(rows))
	for _, item := range rows {
		row := asMap(item)
		if row == nil {
			continue
		}
		groupID := asString(firstOf(row, aliasGroupID...))
		locationID := asString(firstOf(row, aliasLocationID...))
		date := asString(firstOf(row, aliasDate...))
		slot := domain.SlotKey(strings.ToUpper(asString(firstOf(row, aliasTimeSlot...))))
		if groupID == "" || locationID == "" {
			continue
		}
		if !isValidDate(date) {
			continue
		}
		if !allowed[slot] {
			continue
		}
		participants := asInt(firstOf(row, aliasParticipants...), 1)
		if participants < 1 {
			participants = 1
		}
		out = append(out, domain.Assignment{
			GroupID:          groupID,
			LocationID:       locationID,
			Date:             date,
			Slot:             slot,
			ParticipantCount: participants,
		})
	}
	return out
}
