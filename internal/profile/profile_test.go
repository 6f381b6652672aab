package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"education-connect/internal/domain"
	"education-connect/internal/model"
	"education-connect/internal/pipeline"
)

func smallNormalized() *domain.Normalized {
	start, _ := time.Parse("2006-01-02", "2025-03-10")
	end, _ := time.Parse("2006-01-02", "2025-03-10")
	return &domain.Normalized{
		Scope: domain.Scope{Start: start, End: end},
		Groups: []domain.Group{
			{ID: "g1", Type: "all", StartDate: "2025-03-10", EndDate: "2025-03-10", ParticipantCount: 5},
		},
		Locations: []domain.Location{
			{ID: "l1", IsActive: true, TargetGroups: "all", Capacity: 20},
		},
		Rules: domain.Rules{
			ActiveSlots:       domain.DefaultActiveSlots,
			SlotWindows:       domain.DefaultSlotWindows,
			Weights:           domain.DefaultWeights(),
			BalanceThreshold1: 0.7,
			BalanceThreshold2: 0.9,
		},
		Profiles: []domain.ScoringProfile{
			{ID: "missing-heavy", Label: "Missing Heavy", Overrides: domain.Weights{Missing: 500}, HasOverride: map[string]bool{"weightMissing": true}},
		},
	}
}

func TestAllocateSeconds_BaselineGetsHalfWithFloor(t *testing.T) {
	baseline, other := allocateSeconds(100, 2)
	assert.Equal(t, 50.0, baseline)
	assert.Equal(t, 25.0, other)

	baseline, other = allocateSeconds(10, 3)
	assert.Equal(t, 10.0, baseline)
	assert.Equal(t, 8.0, other)
}

func TestAllocateSeconds_NoOtherProfilesGetsEverything(t *testing.T) {
	baseline, other := allocateSeconds(42, 0)
	assert.Equal(t, 42.0, baseline)
	assert.Equal(t, 0.0, other)
}

func TestRun_ProducesOneCandidatePerProfilePlusBaseline(t *testing.T) {
	n := smallNormalized()
	cfg := pipeline.Config{Solver: model.LocalSolver{}, TimeLimitSec: 4, Phase1Ratio: 0.25, Workers: 1, Seed: 1, AutoBudget: false}
	res, err := Run(context.Background(), n, cfg)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "baseline", res.Candidates[0].ProfileID)
	assert.Equal(t, "missing-heavy", res.Candidates[1].ProfileID)
	assert.NotEmpty(t, res.PrimaryProfileID)
}
