package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"education-connect/internal/domain"
)

func simpleNormalized() *domain.Normalized {
	return &domain.Normalized{
		Rules: domain.Rules{
			Weights:           domain.DefaultWeights(),
			BalanceThreshold1: 0.7,
			BalanceThreshold2: 0.9,
		},
		Locations: []domain.Location{
			{ID: "l1", IsActive: true, Capacity: 10, Preference: domain.LocationPreference{TargetSlotMode: domain.TargetSlotSoft}},
		},
	}
}

func TestBuild_MarksInfeasibleWhenFixedLocationNotCandidate(t *testing.T) {
	n := simpleNormalized()
	tasks := []domain.Task{
		{Key: "g1|2025-03-11|MORNING", GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotMorning, CandidateLocationIDs: []string{"l1"}},
	}
	b, err := Build(n, tasks, map[domain.TaskKey]string{tasks[0].Key: "ghost"}, false)
	require.NoError(t, err)
	assert.True(t, b.Infeasible)
}

func TestLocalSolver_StopAtFirstProducesFeasibleAssignment(t *testing.T) {
	n := simpleNormalized()
	tasks := []domain.Task{
		{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 5, CandidateLocationIDs: []string{"l1"}},
	}
	b, err := Build(n, tasks, nil, false)
	require.NoError(t, err)

	solver := LocalSolver{}
	out, err := solver.Solve(context.Background(), b, Params{StopAtFirst: true, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusFeasible, out.Status)
	assert.Len(t, out.Assignments, 1)
}

func TestLocalSolver_RespectsFixedTask(t *testing.T) {
	n := simpleNormalized()
	key := domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon)
	tasks := []domain.Task{
		{Key: key, GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 5, CandidateLocationIDs: []string{"l1"}},
	}
	fixed := map[domain.TaskKey]string{key: "l1"}
	b, err := Build(n, tasks, fixed, true)
	require.NoError(t, err)

	solver := LocalSolver{}
	out, err := solver.Solve(context.Background(), b, Params{Seed: 7, TimeLimitSec: 0.01})
	require.NoError(t, err)
	require.Equal(t, StatusFeasible, out.Status)
	assert.Equal(t, "l1", out.Assignments[key].LocationID)
}

func TestLocalSolver_NoRepeatHardConstraintHolds(t *testing.T) {
	n := simpleNormalized()
	tasks := []domain.Task{
		{Key: domain.NewTaskKey("g1", "2025-03-10", domain.SlotAfternoon), GroupID: "g1", Date: "2025-03-10", Slot: domain.SlotAfternoon, ParticipantCount: 2, CandidateLocationIDs: []string{"l1"}},
		{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotMorning), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotMorning, ParticipantCount: 2, CandidateLocationIDs: []string{"l1"}},
	}
	b, err := Build(n, tasks, nil, true)
	require.NoError(t, err)
	solver := LocalSolver{}
	out, err := solver.Solve(context.Background(), b, Params{Seed: 3, TimeLimitSec: 0.05})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out.Assignments), 1)
}
