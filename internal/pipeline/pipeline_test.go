package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"education-connect/internal/domain"
	"education-connect/internal/model"
)

func trivialFitNormalized() *domain.Normalized {
	start, _ := time.Parse("2006-01-02", "2025-03-10")
	return &domain.Normalized{
		Scope: domain.Scope{Start: start, End: start},
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
	}
}

// TestRun_Scenario1_TrivialFit matches spec.md §8 Scenario 1: one single-day
// group, one always-open location; expect exactly one AFTERNOON assignment
// (start-day MORNING is forbidden), no required-coverage gap, no hard
// violations.
func TestRun_Scenario1_TrivialFit(t *testing.T) {
	n := trivialFitNormalized()
	cfg := Config{Solver: model.LocalSolver{}, TimeLimitSec: 3, Phase1Ratio: 0.25, Workers: 1, Seed: 42, AutoBudget: false}
	res, err := Run(context.Background(), n, cfg)
	require.NoError(t, err)
	require.Len(t, res.Solution, 1)
	for _, a := range res.Solution {
		assert.Equal(t, domain.SlotAfternoon, a.Slot)
	}
	assert.Equal(t, 0, res.Scorer.RequiredMissing)
	assert.False(t, res.Validator.HasHardViolations())
}

func TestRun_IdempotentGivenSameSeed(t *testing.T) {
	n := trivialFitNormalized()
	cfg := Config{Solver: model.LocalSolver{}, TimeLimitSec: 2, Phase1Ratio: 0.25, Workers: 1, Seed: 7, AutoBudget: false}
	res1, err := Run(context.Background(), n, cfg)
	require.NoError(t, err)
	res2, err := Run(context.Background(), n, cfg)
	require.NoError(t, err)
	assert.Equal(t, res1.Scorer.Score, res2.Scorer.Score)
}
