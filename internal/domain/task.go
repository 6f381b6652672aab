package domain

import "fmt"

// TaskKey uniquely identifies a (group, date, slot) triple.
type TaskKey string

// NewTaskKey builds the canonical "{groupId}|{date}|{slot}" key.
func NewTaskKey(groupID, date string, slot SlotKey) TaskKey {
	return TaskKey(fmt.Sprintf("%s|%s|%s", groupID, date, slot))
}

// Task is a (group, date, slot) unit of work the solver may assign a
// location to. Immutable once TaskSpace builds it.
type Task struct {
	Key                  TaskKey
	GroupID              string
	Date                 string
	Slot                 SlotKey
	ParticipantCount     int
	CandidateLocationIDs []string // ordered
	ExistingLocationID   string   // "" if none
}

// IsMiddleDay reports whether Date is strictly between the group's start
// and end dates.
func (t Task) IsMiddleDay(groupStart, groupEnd string) bool {
	return t.Date > groupStart && t.Date < groupEnd
}

// HasCandidate reports whether locationID is among the task's candidates.
func (t Task) HasCandidate(locationID string) bool {
	for _, id := range t.CandidateLocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}
