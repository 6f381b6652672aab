package lns

import (
	"context"
	"testing"

	"github.com/hashicorp/go-set/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"education-connect/internal/domain"
	"education-connect/internal/model"
	"education-connect/internal/objective"
)

func twoLocationNormalized() *domain.Normalized {
	return &domain.Normalized{
		Rules: domain.Rules{
			Weights:           domain.DefaultWeights(),
			BalanceThreshold1: 0.7,
			BalanceThreshold2: 0.9,
		},
		Locations: []domain.Location{
			{ID: "l1", IsActive: true, Capacity: 10, Preference: domain.LocationPreference{TargetSlotMode: domain.TargetSlotSoft}},
			{ID: "l2", IsActive: true, Capacity: 10, Preference: domain.LocationPreference{TargetSlotMode: domain.TargetSlotSoft}},
		},
	}
}

func TestRun_ProducesFinalCurvePointAndKeepsOrImprovesScore(t *testing.T) {
	n := twoLocationNormalized()
	tasks := []domain.Task{
		{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 3, CandidateLocationIDs: []string{"l1", "l2"}},
		{Key: domain.NewTaskKey("g1", "2025-03-12", domain.SlotMorning), GroupID: "g1", Date: "2025-03-12", Slot: domain.SlotMorning, ParticipantCount: 3, CandidateLocationIDs: []string{"l1", "l2"}},
	}

	incumbent := domain.Solution{
		tasks[0].Key: {GroupID: "g1", LocationID: "l1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 3},
	}

	initialScore := objective.Score(n.Rules.Weights, objective.Evaluate(objective.BuildIndex(n, tasks), n.RequiredByGroup, incumbent))

	d := Driver{Solver: model.LocalSolver{}}
	res, err := d.Run(context.Background(), n, tasks, incumbent, Params{TotalTimeSec: 1, Workers: 1, Seed: 7, AutoBudget: true})
	require.NoError(t, err)

	require.NotEmpty(t, res.Curve)
	last := res.Curve[len(res.Curve)-1]
	assert.Equal(t, domain.CurvePhaseFinal, last.Phase)
	assert.GreaterOrEqual(t, res.BestScore, initialScore)
}

func TestAutoBudgetStages_ClampsToTotalAndIsMonotone(t *testing.T) {
	stages := autoBudgetStages(720, true)
	require.Len(t, stages, 3)
	assert.Equal(t, 120.0, stages[0])
	assert.Equal(t, 300.0, stages[1])
	assert.Equal(t, 720.0, stages[2])

	short := autoBudgetStages(60, true)
	for i := 1; i < len(short); i++ {
		assert.GreaterOrEqual(t, short[i], short[i-1])
	}
	assert.Equal(t, 60.0, short[len(short)-1])
}

func TestAutoBudgetStages_DisabledIsSingleStage(t *testing.T) {
	stages := autoBudgetStages(500, false)
	assert.Equal(t, []float64{500}, stages)
}

func TestReleasePlan_PrioritizesUnmetRequiredLocation(t *testing.T) {
	n := twoLocationNormalized()
	required := domain.RequiredByGroup{"g1": set.From([]string{"l2"})}
	n.RequiredByGroup = required
	tasks := []domain.Task{
		{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotAfternoon, CandidateLocationIDs: []string{"l1", "l2"}},
		{Key: domain.NewTaskKey("g1", "2025-03-12", domain.SlotMorning), GroupID: "g1", Date: "2025-03-12", Slot: domain.SlotMorning, CandidateLocationIDs: []string{"l1"}},
	}
	incumbent := domain.Solution{
		tasks[0].Key: {GroupID: "g1", LocationID: "l1", Date: "2025-03-11", Slot: domain.SlotAfternoon},
		tasks[1].Key: {GroupID: "g1", LocationID: "l1", Date: "2025-03-12", Slot: domain.SlotMorning},
	}
	idx := objective.BuildIndex(n, tasks)
	keys := unmetRequiredTaskKeys(idx, required, incumbent)
	require.Len(t, keys, 1)
	assert.Equal(t, tasks[0].Key, keys[0])
}
