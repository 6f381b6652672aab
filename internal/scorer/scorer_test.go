package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"education-connect/internal/domain"
	"education-connect/internal/objective"
)

func TestScore_AgreesWithObjectiveSign(t *testing.T) {
	n := &domain.Normalized{
		Rules: domain.Rules{Weights: domain.DefaultWeights(), BalanceThreshold1: 0.7, BalanceThreshold2: 0.9},
		Locations: []domain.Location{
			{ID: "l1", IsActive: true, Capacity: 10},
		},
	}
	tasks := []domain.Task{
		{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 3, CandidateLocationIDs: []string{"l1"}},
	}
	sol := domain.Solution{
		tasks[0].Key: {GroupID: "g1", LocationID: "l1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 3},
	}
	idx := objective.BuildIndex(n, tasks)
	m := objective.Evaluate(idx, n.RequiredByGroup, sol)
	want := objective.Score(n.Rules.Weights, m)

	got := Score(n, idx, sol)
	assert.Equal(t, want, got.Score)
	assert.Equal(t, 0, got.Repeats)
}
