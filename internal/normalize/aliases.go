package normalize

// firstOf returns the first non-nil value found in row under keys, in the
// order given — the legacy-field coercion table original_source's
// normalize.py applies per row (e.g. a group's "startDate" vs "start_date").
func firstOf(row map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// Per-entity alias groups, named so callers read like documentation.
var (
	aliasGroupStart      = []string{"startDate", "start_date"}
	aliasGroupEnd        = []string{"endDate", "end_date"}
	aliasStudentCount    = []string{"studentCount", "student_count"}
	aliasTeacherCount    = []string{"teacherCount", "teacher_count"}
	aliasParticipants    = []string{"participantCount", "participant_count"}
	aliasTargetGroups    = []string{"targetGroups", "target_groups"}
	aliasIsActive        = []string{"isActive", "is_active"}
	aliasClusterSameDay  = []string{"clusterPreferSameDay", "cluster_prefer_same_day", "clusterSameDay"}
	aliasBlockedWeekdays = []string{"blockedWeekdays", "blocked_weekdays"}
	aliasClosedDates     = []string{"closedDates", "closed_dates"}
	aliasOpenHours       = []string{"openHours", "open_hours"}
	aliasGroupID         = []string{"groupId", "group_id"}
	aliasLocationID      = []string{"locationId", "location_id"}
	aliasDate            = []string{"date", "activity_date"}
	aliasTimeSlot        = []string{"timeSlot", "time_slot", "slot"}
)
