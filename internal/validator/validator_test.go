package validator

import (
	"testing"
	"time"

	"github.com/hashicorp/go-set/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"education-connect/internal/domain"
)

func baseNormalized() *domain.Normalized {
	return &domain.Normalized{
		Scope: domain.Scope{
			Start: mustDate("2025-03-10"),
			End:   mustDate("2025-03-12"),
		},
		Groups: []domain.Group{
			{ID: "g1", Type: "all", StartDate: "2025-03-10", EndDate: "2025-03-12", ParticipantCount: 5},
		},
		Locations: []domain.Location{
			{ID: "l1", IsActive: true, Capacity: 10},
		},
		Rules: domain.Rules{ActiveSlots: domain.DefaultActiveSlots},
	}
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRun_CleanAssignmentHasNoViolations(t *testing.T) {
	n := baseNormalized()
	task := domain.Task{
		Key:                  domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon),
		GroupID:              "g1",
		Date:                 "2025-03-11",
		Slot:                 domain.SlotAfternoon,
		ParticipantCount:     5,
		CandidateLocationIDs: []string{"l1"},
	}
	sol := domain.Solution{
		task.Key: {GroupID: "g1", LocationID: "l1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 5},
	}
	rep := Run(n, []domain.Task{task}, sol)
	assert.False(t, rep.HasHardViolations())
	assert.Empty(t, rep.MustVisitMissing)
}

func TestRun_CapacityViolationDetected(t *testing.T) {
	n := baseNormalized()
	n.Locations[0].Capacity = 5
	task1 := domain.Task{Key: domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon), GroupID: "g1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 3, CandidateLocationIDs: []string{"l1"}}
	n.Groups = append(n.Groups, domain.Group{ID: "g2", Type: "all", StartDate: "2025-03-10", EndDate: "2025-03-12", ParticipantCount: 4})
	task2 := domain.Task{Key: domain.NewTaskKey("g2", "2025-03-11", domain.SlotAfternoon), GroupID: "g2", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 4, CandidateLocationIDs: []string{"l1"}}

	sol := domain.Solution{
		task1.Key: {GroupID: "g1", LocationID: "l1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 3},
		task2.Key: {GroupID: "g2", LocationID: "l1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 4},
	}
	rep := Run(n, []domain.Task{task1, task2}, sol)
	require.True(t, rep.HasHardViolations())
	assert.Equal(t, ViolationCapacity, rep.Violations[0].Kind)
}

func TestRun_MustVisitMissingReported(t *testing.T) {
	n := baseNormalized()
	n.RequiredByGroup = domain.RequiredByGroup{"g1": set.From([]string{"l1"})}
	rep := Run(n, nil, domain.Solution{})
	require.Len(t, rep.MustVisitMissing, 1)
	assert.Equal(t, "l1", rep.MustVisitMissing[0].LocationID)
	assert.False(t, rep.HasHardViolations())
}

func TestRun_LocationUnavailableWhenNotACandidate(t *testing.T) {
	n := baseNormalized()
	task := domain.Task{
		Key:                  domain.NewTaskKey("g1", "2025-03-11", domain.SlotAfternoon),
		GroupID:              "g1",
		Date:                 "2025-03-11",
		Slot:                 domain.SlotAfternoon,
		ParticipantCount:     5,
		CandidateLocationIDs: nil,
	}
	sol := domain.Solution{
		task.Key: {GroupID: "g1", LocationID: "l1", Date: "2025-03-11", Slot: domain.SlotAfternoon, ParticipantCount: 5},
	}
	rep := Run(n, []domain.Task{task}, sol)
	require.True(t, rep.HasHardViolations())
	assert.Equal(t, ViolationLocationUnavailable, rep.Violations[0].Kind)
}

func TestRun_OutOfGroupRangeDetected(t *testing.T) {
	n := baseNormalized()
	n.Groups[0].StartDate = "2025-03-11"
	task := domain.Task{
		Key:                  domain.NewTaskKey("g1", "2025-03-10", domain.SlotAfternoon),
		GroupID:              "g1",
		Date:                 "2025-03-10",
		Slot:                 domain.SlotAfternoon,
		ParticipantCount:     5,
		CandidateLocationIDs: []string{"l1"},
	}
	sol := domain.Solution{
		task.Key: {GroupID: "g1", LocationID: "l1", Date: "2025-03-10", Slot: domain.SlotAfternoon, ParticipantCount: 5},
	}
	rep := Run(n, []domain.Task{task}, sol)
	require.True(t, rep.HasHardViolations())
	assert.Equal(t, ViolationOutOfGroupRange, rep.Violations[0].Kind)
}
