package diagnose

import (
	"testing"
	"time"

	"github.com/hashicorp/go-set/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"education-connect/internal/domain"
)

func TestExplain_BoundarySlotForbidden(t *testing.T) {
	n := &domain.Normalized{
		Groups: []domain.Group{{ID: "g1", Type: "all", StartDate: "2025-03-10", EndDate: "2025-03-12", ParticipantCount: 5}},
		Rules:  domain.Rules{SlotWindows: domain.DefaultSlotWindows},
	}
	exp, err := Explain(n, "g1", "2025-03-10", domain.SlotMorning)
	require.NoError(t, err)
	assert.True(t, exp.Forbidden)
}

func TestExplain_ReportsPerLocationReasons(t *testing.T) {
	n := &domain.Normalized{
		Groups: []domain.Group{{ID: "g1", Type: "school", StartDate: "2025-03-10", EndDate: "2025-03-12", ParticipantCount: 5}},
		Locations: []domain.Location{
			{ID: "inactive-loc", IsActive: false},
			{ID: "wrong-type", IsActive: true, TargetGroups: "museum-only"},
			{ID: "blocked-day", IsActive: true, TargetGroups: "all", BlockedWeekdays: set.From([]time.Weekday{time.Tuesday})},
			{ID: "closed", IsActive: true, TargetGroups: "all", ClosedDates: set.From([]string{"2025-03-11"})},
		},
		Rules: domain.Rules{SlotWindows: domain.DefaultSlotWindows},
	}
	exp, err := Explain(n, "g1", "2025-03-11", domain.SlotAfternoon)
	require.NoError(t, err)
	require.Len(t, exp.Eliminations, 4)
	byID := map[string]EliminationReason{}
	for _, e := range exp.Eliminations {
		byID[e.LocationID] = e.Reason
	}
	assert.Equal(t, ReasonInactive, byID["inactive-loc"])
	assert.Equal(t, ReasonWrongGroupType, byID["wrong-type"])
	assert.Equal(t, ReasonClosedDate, byID["closed"])
}

func TestExplain_UnknownGroupErrors(t *testing.T) {
	n := &domain.Normalized{Rules: domain.Rules{SlotWindows: domain.DefaultSlotWindows}}
	_, err := Explain(n, "missing", "2025-03-11", domain.SlotAfternoon)
	assert.Error(t, err)
}
