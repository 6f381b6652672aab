// Package scorer exposes the objective breakdown under the field names the
// report schema documents, without re-implementing the computation itself —
// it is a thin named view over internal/objective's Metrics and Score.
package scorer

import (
	"education-connect/internal/domain"
	"education-connect/internal/objective"
)

// Report is the documented per-penalty breakdown plus the folded score.
type Report struct {
	Repeats            int     `json:"repeats"`
	Missing            int     `json:"missing"`
	OverT1             int     `json:"overT1"`
	OverT2             int     `json:"overT2"`
	RequiredMissing    int     `json:"requiredMissing"`
	ConsolidatePenalty float64 `json:"consolidatePenalty"`
	WrongSlotPenalty   float64 `json:"wrongSlotPenalty"`
	ClusterPenalty     float64 `json:"clusterPenalty"`
	Score              float64 `json:"score"`
}

// Score evaluates sol against idx and folds it into the report the same
// way the solver's internal objective does, so the two never disagree.
func Score(n *domain.Normalized, idx *objective.Index, sol domain.Solution) Report {
	m := objective.Evaluate(idx, n.RequiredByGroup, sol)
	w := n.Rules.Weights
	return Report{
		Repeats:            m.Repeats,
		Missing:            m.Missing,
		OverT1:             m.OverT1,
		OverT2:             m.OverT2,
		RequiredMissing:    m.RequiredMissing,
		ConsolidatePenalty: m.ConsolidatePenalty,
		WrongSlotPenalty:   m.WrongSlotPenalty,
		ClusterPenalty:     float64(m.ClusterDayUsed) * w.ClusterDay,
		Score:              objective.Score(w, m),
	}
}
