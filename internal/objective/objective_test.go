package objective

import (
	"testing"

	"github.com/hashicorp/go-set/v3"
	"github.com/stretchr/testify/assert"

	"education-connect/internal/domain"
)

func TestScore_Zeroed(t *testing.T) {
	w := domain.DefaultWeights()
	assert.Equal(t, 0.0, Score(w, Metrics{}))
}

func TestEvaluate_CapacityOverload(t *testing.T) {
	n := &domain.Normalized{
		Rules: domain.Rules{BalanceThreshold1: 0.7, BalanceThreshold2: 0.9},
		Locations: []domain.Location{
			{ID: "l1", Capacity: 10},
		},
	}
	tasks := []domain.Task{
		{Key: "g1|2025-03-10|MORNING", GroupID: "g1", Date: "2025-03-10", Slot: domain.SlotMorning, CandidateLocationIDs: []string{"l1"}},
	}
	idx := BuildIndex(n, tasks)
	sol := domain.Solution{
		tasks[0].Key: {GroupID: "g1", LocationID: "l1", Date: "2025-03-10", Slot: domain.SlotMorning, ParticipantCount: 9},
	}
	m := Evaluate(idx, nil, sol)
	assert.Equal(t, 2, m.OverT1) // 9 participants - floor(10*0.7)=7 -> over by 2
	assert.Equal(t, 0, m.OverT2) // 9 - floor(10*0.9)=9 -> not over
}

func TestEvaluate_RequiredMissing(t *testing.T) {
	n := &domain.Normalized{
		Locations: []domain.Location{{ID: "l1"}},
	}
	tasks := []domain.Task{
		{Key: "g1|2025-03-10|MORNING", GroupID: "g1", CandidateLocationIDs: []string{"l1"}},
	}
	idx := BuildIndex(n, tasks)
	required := domain.RequiredByGroup{"g1": set.From([]string{"l1"})}
	m := Evaluate(idx, required, domain.Solution{})
	assert.Equal(t, 1, m.RequiredMissing)
}

func TestEvaluate_MissingMiddleDay(t *testing.T) {
	n := &domain.Normalized{
		Groups: []domain.Group{{ID: "g1", StartDate: "2025-03-10", EndDate: "2025-03-12"}},
	}
	tasks := []domain.Task{
		{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotMorning), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotMorning},
	}
	idx := BuildIndex(n, tasks)
	m := Evaluate(idx, nil, domain.Solution{})
	assert.Equal(t, 1, m.Missing)
}
