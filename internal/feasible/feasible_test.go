package feasible

import (
	"context"
	"testing"

	"github.com/hashicorp/go-set/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"education-connect/internal/domain"
	"education-connect/internal/model"
)

func TestRun_UsesSolverWhenFeasible(t *testing.T) {
	n := &domain.Normalized{
		Rules: domain.Rules{Weights: domain.DefaultWeights(), BalanceThreshold1: 0.7, BalanceThreshold2: 0.9},
		Locations: []domain.Location{
			{ID: "l1", IsActive: true, Capacity: 10},
		},
	}
	tasks := []domain.Task{
		{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 3, CandidateLocationIDs: []string{"l1"}},
	}
	out, err := Run(context.Background(), n, tasks, model.LocalSolver{}, Params{PhaseTimeSec: 1, Seed: 1}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, out.UsedSolver)
	assert.Len(t, out.Solution, 1)
}

func TestGreedyFallback_PreservesValidExisting(t *testing.T) {
	n := &domain.Normalized{
		Locations: []domain.Location{{ID: "l1", IsActive: true, Capacity: 10}},
		Existing: []domain.Assignment{
			{GroupID: "g1", LocationID: "l1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 5},
		},
	}
	tasks := []domain.Task{
		{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 5, CandidateLocationIDs: []string{"l1"}},
	}
	out := greedyFallback(n, tasks)
	require.Len(t, out.Solution, 1)
	assert.Equal(t, "l1", out.Solution[tasks[0].Key].LocationID)
}

func TestGreedyFallback_RecordsUnplacedRequired(t *testing.T) {
	n := &domain.Normalized{
		Locations:       []domain.Location{{ID: "l1", IsActive: true, Capacity: 1}},
		RequiredByGroup: domain.RequiredByGroup{"g1": set.From([]string{"l1"})},
	}
	tasks := []domain.Task{
		{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 5, CandidateLocationIDs: []string{"l1"}},
	}
	out := greedyFallback(n, tasks)
	require.Len(t, out.UnplacedRequired, 1)
	assert.Equal(t, "l1", out.UnplacedRequired[0].LocationID)
}
