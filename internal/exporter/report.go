package exporter

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"education-connect/internal/diagnose"
	"education-connect/internal/domain"
	"education-connect/internal/feasible"
	"education-connect/internal/pipeline"
	"education-connect/internal/precheck"
	"education-connect/internal/profile"
	"education-connect/internal/validator"
)

// ReportDoc is the diagnostic report document: a human-facing summary plus
// the full stage-by-stage breakdown.
type ReportDoc struct {
	Summary  SummaryDoc  `json:"summary"`
	Precheck PrecheckDoc `json:"precheck"`
	Phase1   Phase1Doc   `json:"phase1"`
	Optimize OptimizeDoc `json:"optimize"`
	Audit    AuditDoc    `json:"audit"`
}

// SummaryDoc is the human-readable top line: the assignment count rendered
// with go-humanize, and the elapsed time in seconds with one decimal.
type SummaryDoc struct {
	TotalAssignments      int     `json:"totalAssignments"`
	TotalAssignmentsHuman string  `json:"totalAssignmentsHuman"`
	Score                 float64 `json:"score"`
	Elapsed               string  `json:"elapsed"`
}

// PrecheckDoc mirrors precheck.Report plus the supplemented candidateGaps
// diagnostic from SPEC_FULL.md §3.
type PrecheckDoc struct {
	Warnings      []WarningDoc       `json:"warnings"`
	Errors        []BlockingErrorDoc `json:"errors"`
	CandidateGaps []CandidateGapDoc  `json:"candidateGaps,omitempty"`
}

// WarningDoc is one precheck warning.
type WarningDoc struct {
	Kind    string `json:"kind"`
	GroupID string `json:"groupId"`
}

// BlockingErrorDoc is one precheck blocking error.
type BlockingErrorDoc struct {
	Kind       string `json:"kind"`
	GroupID    string `json:"groupId"`
	LocationID string `json:"locationId,omitempty"`
}

// CandidateGapDoc explains one low-candidate task.
type CandidateGapDoc struct {
	GroupID      string           `json:"groupId"`
	Date         string           `json:"date"`
	Slot         string           `json:"slot"`
	Eliminations []EliminationDoc `json:"eliminations"`
}

// EliminationDoc is one location's elimination reason.
type EliminationDoc struct {
	LocationID string `json:"locationId"`
	Reason     string `json:"reason"`
}

// Phase1Doc records how Phase 1 produced its incumbent.
type Phase1Doc struct {
	UsedSolver       bool              `json:"usedSolver"`
	Assignments      int               `json:"assignments"`
	UnplacedRequired []RequiredPairDoc `json:"unplacedRequired,omitempty"`
}

// RequiredPairDoc is one required (group, location) pair.
type RequiredPairDoc struct {
	GroupID    string `json:"groupId"`
	LocationID string `json:"locationId"`
}

// OptimizeDoc records the LNS phase's telemetry.
type OptimizeDoc struct {
	Engine      string          `json:"engine"`
	Diagnostics []string        `json:"diagnostics"`
	Curve       []CurvePointDoc `json:"curve"`
	Candidates  []CandidateDoc  `json:"candidates,omitempty"`
}

// CurvePointDoc is one telemetry curve entry.
type CurvePointDoc struct {
	Iter          domain.CurvePhase `json:"iter"`
	IterScore     float64           `json:"iterScore"`
	BestScore     float64           `json:"bestScore"`
	Accepted      bool              `json:"accepted"`
	ReleasedCount int               `json:"releasedCount"`
	ReleaseMode   string            `json:"releaseMode"`
	ReleaseRatio  float64           `json:"releaseRatio"`
}

// CandidateDoc is one profile's summary in multi-profile mode.
type CandidateDoc struct {
	ProfileID        string  `json:"profileId"`
	Label            string  `json:"label"`
	HardViolations   int     `json:"hardViolations"`
	MustVisitMissing int     `json:"mustVisitMissing"`
	Repeats          int     `json:"repeats"`
	OverT1           int     `json:"overT1"`
	OverT2           int     `json:"overT2"`
	Missing          int     `json:"missing"`
	Objective        float64 `json:"objective"`
}

// AuditDoc is the Validator's post-solve audit.
type AuditDoc struct {
	HardViolations         []ViolationDoc    `json:"hardViolations"`
	MustVisitMissing       []RequiredPairDoc `json:"mustVisitMissing"`
	MustVisitMissingGroups []string          `json:"mustVisitMissingGroups"`
}

// ViolationDoc is one hard-constraint replay defect.
type ViolationDoc struct {
	Kind       string `json:"kind"`
	GroupID    string `json:"groupId,omitempty"`
	LocationID string `json:"locationId,omitempty"`
	Date       string `json:"date,omitempty"`
	Slot       string `json:"slot,omitempty"`
}

// BuildReport renders res (plus n's required precheck and optional
// candidateGaps) into the ReportDoc shape. profResult is nil outside
// --multi mode.
func BuildReport(n *domain.Normalized, res pipeline.Result, elapsed float64, engine string, profResult *profile.Result) ReportDoc {
	gaps, _ := diagnose.CandidateGaps(n, res.Tasks)

	doc := ReportDoc{
		Summary: SummaryDoc{
			TotalAssignments:       len(res.Solution),
			TotalAssignmentsHuman:  humanize.Comma(int64(len(res.Solution))),
			Score:                  res.Scorer.Score,
			Elapsed:                fmt.Sprintf("%.1fs", elapsed),
		},
		Precheck: PrecheckDoc{
			Warnings:      renderWarnings(res.Precheck),
			Errors:        renderErrors(res.Precheck),
			CandidateGaps: renderCandidateGaps(gaps),
		},
		Phase1: Phase1Doc{
			UsedSolver:       res.Phase1.UsedSolver,
			Assignments:      len(res.Phase1.Solution),
			UnplacedRequired: renderRequiredPairs(res.Phase1.UnplacedRequired),
		},
		Optimize: OptimizeDoc{
			Engine:      engine,
			Diagnostics: res.LNS.Diagnostics,
			Curve:       renderCurve(res.LNS.Curve),
		},
		Audit: AuditDoc{
			HardViolations:         renderViolations(res.Validator.Violations),
			MustVisitMissing:       renderMustVisitMissing(res.Validator.MustVisitMissing),
			MustVisitMissingGroups: mustVisitMissingGroups(res.Validator.MustVisitMissing),
		},
	}

	if profResult != nil {
		doc.Optimize.Candidates = renderCandidates(*profResult)
	}

	return doc
}

func renderWarnings(rep precheck.Report) []WarningDoc {
	out := make([]WarningDoc, 0, len(rep.Warnings))
	for _, w := range rep.Warnings {
		out = append(out, WarningDoc{Kind: string(w.Kind), GroupID: w.GroupID})
	}
	return out
}

func renderErrors(rep precheck.Report) []BlockingErrorDoc {
	out := make([]BlockingErrorDoc, 0, len(rep.Errors))
	for _, e := range rep.Errors {
		out = append(out, BlockingErrorDoc{Kind: string(e.Kind), GroupID: e.GroupID, LocationID: e.LocationID})
	}
	return out
}

func renderCandidateGaps(gaps []diagnose.Explanation) []CandidateGapDoc {
	out := make([]CandidateGapDoc, 0, len(gaps))
	for _, g := range gaps {
		elims := make([]EliminationDoc, 0, len(g.Eliminations))
		for _, e := range g.Eliminations {
			elims = append(elims, EliminationDoc{LocationID: e.LocationID, Reason: string(e.Reason)})
		}
		out = append(out, CandidateGapDoc{GroupID: g.GroupID, Date: g.Date, Slot: string(g.Slot), Eliminations: elims})
	}
	return out
}

func renderRequiredPairs(pairs []feasible.RequiredPair) []RequiredPairDoc {
	out := make([]RequiredPairDoc, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, RequiredPairDoc{GroupID: p.GroupID, LocationID: p.LocationID})
	}
	return out
}

func renderCurve(curve []domain.CurvePoint) []CurvePointDoc {
	out := make([]CurvePointDoc, 0, len(curve))
	for _, p := range curve {
		out = append(out, CurvePointDoc{
			Iter:          p.Phase,
			IterScore:     p.IterScore,
			BestScore:     p.BestScore,
			Accepted:      p.Accepted,
			ReleasedCount: p.ReleasedCount,
			ReleaseMode:   p.ReleaseMode,
			ReleaseRatio:  p.ReleaseRatio,
		})
	}
	return out
}

func renderViolations(vs []validator.Violation) []ViolationDoc {
	out := make([]ViolationDoc, 0, len(vs))
	for _, v := range vs {
		out = append(out, ViolationDoc{
			Kind:       string(v.Kind),
			GroupID:    v.GroupID,
			LocationID: v.LocationID,
			Date:       v.Date,
			Slot:       string(v.Slot),
		})
	}
	return out
}

func renderMustVisitMissing(mvs []validator.MustVisitMissing) []RequiredPairDoc {
	out := make([]RequiredPairDoc, 0, len(mvs))
	for _, m := range mvs {
		out = append(out, RequiredPairDoc{GroupID: m.GroupID, LocationID: m.LocationID})
	}
	return out
}

func mustVisitMissingGroups(mvs []validator.MustVisitMissing) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range mvs {
		if seen[m.GroupID] {
			continue
		}
		seen[m.GroupID] = true
		out = append(out, m.GroupID)
	}
	sort.Strings(out)
	return out
}

func renderCandidates(profResult profile.Result) []CandidateDoc {
	out := make([]CandidateDoc, 0, len(profResult.Candidates))
	for _, c := range profResult.Candidates {
		out = append(out, CandidateDoc{
			ProfileID:        c.ProfileID,
			Label:            c.Label,
			HardViolations:   c.Summary.HardViolations,
			MustVisitMissing: c.Summary.MustVisitMissing,
			Repeats:          c.Summary.Repeats,
			OverT1:           c.Summary.OverT1,
			OverT2:           c.Summary.OverT2,
			Missing:          c.Summary.Missing,
			Objective:        c.Summary.Objective,
		})
	}
	return out
}
