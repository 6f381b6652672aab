// Package exporter renders the pipeline's result, human-readable report,
// and (when multi-profile mode ran) candidates artifacts as the §6 JSON
// schemas: all UTF-8, human-indented, trailing newline — the same
// MarshalIndent-then-WriteFile convention the teacher's schedule exporter
// used, adapted from schedule-export shape to the planning result/report/
// candidates shapes this domain actually emits.
package exporter

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/google/uuid"

	"education-connect/internal/domain"
	"education-connect/internal/pipeline"
)

// ResultDoc is the ec-planning-result@1 document.
type ResultDoc struct {
	Schema      string         `json:"schema"`
	SnapshotID  string         `json:"snapshot_id"`
	Mode        string         `json:"mode"`
	Range       RangeDoc       `json:"range"`
	Rules       ResultRulesDoc `json:"rules"`
	Assignments []AssignmentDoc `json:"assignments"`
	Unassigned  []any           `json:"unassigned"`
	Meta        MetaDoc         `json:"meta"`
}

// RangeDoc is the scope date range as rendered in the result document.
type RangeDoc struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ResultRulesDoc echoes the resolved slot configuration used for this run.
type ResultRulesDoc struct {
	TimeSlots   []string              `json:"timeSlots"`
	SlotWindows map[string]WindowDoc `json:"slotWindows"`
}

// WindowDoc is one slot's hour window.
type WindowDoc struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// AssignmentDoc is one emitted assignment.
type AssignmentDoc struct {
	GroupID          string `json:"groupId"`
	LocationID       string `json:"locationId"`
	Date             string `json:"date"`
	TimeSlot         string `json:"timeSlot"`
	ParticipantCount int    `json:"participantCount"`
	Notes            string `json:"notes"`
}

// MetaDoc records the run's solver configuration and outcome timing.
type MetaDoc struct {
	Solver       string `json:"solver"`
	Seed         int64  `json:"seed"`
	TimeLimitSec int    `json:"timeLimitSec"`
	ElapsedMs    int64  `json:"elapsedMs"`
	Engine       string `json:"engine"`
}

// BuildResult renders res into the ec-planning-result@1 shape.
func BuildResult(n *domain.Normalized, res pipeline.Result, seed int64, timeLimitSec int, engine string) ResultDoc {
	assignments := make([]AssignmentDoc, 0, len(res.Solution))
	for _, a := range res.Solution {
		assignments = append(assignments, AssignmentDoc{
			GroupID:          a.GroupID,
			LocationID:       a.LocationID,
			Date:             a.Date,
			TimeSlot:         string(a.Slot),
			ParticipantCount: a.ParticipantCount,
			Notes:            a.Notes,
		})
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].GroupID != assignments[j].GroupID {
			return assignments[i].GroupID < assignments[j].GroupID
		}
		if assignments[i].Date != assignments[j].Date {
			return assignments[i].Date < assignments[j].Date
		}
		return domain.SlotOrderIndex(domain.SlotKey(assignments[i].TimeSlot)) < domain.SlotOrderIndex(domain.SlotKey(assignments[j].TimeSlot))
	})

	timeSlots := make([]string, 0, len(n.Rules.ActiveSlots))
	for _, s := range n.Rules.ActiveSlots {
		timeSlots = append(timeSlots, string(s))
	}
	windows := make(map[string]WindowDoc, len(n.Rules.SlotWindows))
	for k, w := range n.Rules.SlotWindows {
		windows[string(k)] = WindowDoc{Start: w.Start, End: w.End}
	}

	return ResultDoc{
		Schema:     "ec-planning-result@1",
		SnapshotID: uuid.NewString(),
		Mode:       "replaceExisting",
		Range: RangeDoc{
			StartDate: domain.FormatDate(n.Scope.Start),
			EndDate:   domain.FormatDate(n.Scope.End),
		},
		Rules: ResultRulesDoc{
			TimeSlots:   timeSlots,
			SlotWindows: windows,
		},
		Assignments: assignments,
		Unassigned:  []any{},
		Meta: MetaDoc{
			Solver:       "education-connect-lns",
			Seed:         seed,
			TimeLimitSec: timeLimitSec,
			ElapsedMs:    res.ElapsedMs,
			Engine:       engine,
		},
	}
}

// WriteJSON marshals v as indented JSON with a trailing newline and writes
// it to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
