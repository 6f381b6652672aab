package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"education-connect/internal/apperr"
	"education-connect/internal/domain"
)

func v2Payload() map[string]any {
	return map[string]any{
		"schema": "ec-planning-input@2",
		"scope": map[string]any{
			"startDate": "2025-03-10",
			"endDate":   "2025-03-12",
		},
		"data": map[string]any{
			"groups": []any{
				map[string]any{
					"id":               "g1",
					"name":             "Group 1",
					"type":             "all",
					"startDate":        "2025-03-10",
					"endDate":          "2025-03-12",
					"participantCount": 15,
				},
			},
			"locations": []any{
				map[string]any{
					"id":       "l1",
					"name":     "Museum",
					"isActive": true,
					"capacity": 20,
				},
			},
			"requiredLocationsByGroup": map[string]any{
				"g1": map[string]any{"locationIds": []any{"l1"}},
			},
		},
	}
}

func TestNormalize_V2HappyPath(t *testing.T) {
	n, err := Normalize(v2Payload(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, n.Groups, 1)
	require.Len(t, n.Locations, 1)
	assert.Equal(t, "g1", n.Groups[0].ID)
	assert.Equal(t, 15, n.Groups[0].ParticipantCount)
	assert.True(t, n.Locations[0].IsActive)
	assert.Equal(t, domain.DefaultActiveSlots, n.Rules.ActiveSlots)
	assert.Equal(t, domain.DefaultBalanceThreshold1, n.Rules.BalanceThreshold1)
	assert.Equal(t, domain.DefaultBalanceThreshold2, n.Rules.BalanceThreshold2)
	require.Contains(t, n.RequiredByGroup, "g1")
	assert.True(t, n.RequiredByGroup["g1"].Contains("l1"))
}

func TestNormalize_UnknownSchemaIsFatal(t *testing.T) {
	payload := v2Payload()
	payload["schema"] = "ec-planning-input@99"
	_, err := Normalize(payload, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSchemaUnknown))
}

func TestNormalize_InvertedScopeIsFatal(t *testing.T) {
	payload := v2Payload()
	payload["scope"] = map[string]any{"startDate": "2025-03-12", "endDate": "2025-03-10"}
	_, err := Normalize(payload, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidScope))
}

func TestNormalize_MissingScopeIsFatal(t *testing.T) {
	payload := v2Payload()
	payload["scope"] = map[string]any{}
	_, err := Normalize(payload, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidScope))
}

func TestNormalize_MalformedRowsAreSkippedNotFatal(t *testing.T) {
	payload := v2Payload()
	data := payload["data"].(map[string]any)
	data["groups"] = append(data["groups"].([]any), map[string]any{
		"id":        "bad",
		"startDate": "not-a-date",
		"endDate":   "2025-03-12",
	})
	data["locations"] = append(data["locations"].([]any), map[string]any{
		"name": "no id here",
	})
	n, err := Normalize(payload, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, n.Groups, 1)
	assert.Len(t, n.Locations, 1)
}

func TestNormalize_V1LegacySchema(t *testing.T) {
	payload := map[string]any{
		"schema": "ec-planning-input@1",
		"range": map[string]any{
			"startDate": "2025-03-10",
			"endDate":   "2025-03-12",
		},
		"groups": []any{
			map[string]any{
				"id":            "g1",
				"start_date":    "2025-03-10",
				"end_date":      "2025-03-12",
				"student_count": 10,
				"teacher_count": 2,
			},
		},
		"locations": []any{
			map[string]any{"id": "l1", "is_active": "yes", "capacity": "20"},
		},
		"plan_items_by_group": map[string]any{
			"g1": []any{map[string]any{"location_id": "l1"}},
		},
		"existing": map[string]any{
			"activities": []any{
				map[string]any{
					"group_id":    "g1",
					"location_id": "l1",
					"date":        "2025-03-10",
					"time_slot":   "afternoon",
				},
			},
		},
	}
	n, err := Normalize(payload, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, n.Groups, 1)
	assert.Equal(t, 12, n.Groups[0].ParticipantCount)
	require.True(t, n.Locations[0].IsActive)
	require.Contains(t, n.RequiredByGroup, "g1")
	assert.True(t, n.RequiredByGroup["g1"].Contains("l1"))
	require.Len(t, n.Existing, 1)
	assert.Equal(t, domain.SlotAfternoon, n.Existing[0].Slot)
}

func TestNormalize_OpenHoursAbsentVsEmpty(t *testing.T) {
	payload := v2Payload()
	data := payload["data"].(map[string]any)
	data["locations"] = []any{
		map[string]any{"id": "absent", "isActive": true, "capacity": 1},
		map[string]any{"id": "empty", "isActive": true, "capacity": 1, "openHours": map[string]any{}},
	}
	n, err := Normalize(payload, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, n.Locations, 2)
	byID := map[string]domain.Location{}
	for _, l := range n.Locations {
		byID[l.ID] = l
	}
	assert.Nil(t, byID["absent"].OpenHours)
	assert.NotNil(t, byID["empty"].OpenHours)
	assert.Len(t, byID["empty"].OpenHours, 0)
}
