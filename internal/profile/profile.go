// Package profile implements the optional ProfileRunner (spec.md §4.9):
// fan out the same normalized input across the baseline weights plus every
// rules.scoringProfiles entry, rank the runs, and pick a primary. Every
// profile's own summary survives into Candidate.Summary per
// SPEC_FULL.md §3's supplemented "keep every profile, not just the winner"
// behavior, grounded in original_source/tools/run_profiles.py.
package profile

import (
	"context"

	"education-connect/internal/domain"
	"education-connect/internal/pipeline"
)

// Candidate is one profile's full run result plus its ranking summary.
type Candidate struct {
	ProfileID string
	Label     string
	Result    pipeline.Result
	Summary   Summary
}

// Summary is the ranking tuple the spec names, kept alongside the
// objective value the original also retains per profile.
type Summary struct {
	HardViolations   int
	MustVisitMissing int
	Repeats          int
	OverT1           int
	OverT2           int
	Missing          int
	Objective        float64
}

// summaryOf extracts the ranking tuple from one pipeline run.
func summaryOf(r pipeline.Result) Summary {
	return Summary{
		HardViolations:   len(r.Validator.Violations),
		MustVisitMissing: len(r.Validator.MustVisitMissing),
		Repeats:          r.Scorer.Repeats,
		OverT1:           r.Scorer.OverT1,
		OverT2:           r.Scorer.OverT2,
		Missing:          r.Scorer.Missing,
		Objective:        r.Scorer.Score,
	}
}

// less implements the lexicographic ranking order: (hardViolations,
// mustVisitMissing, repeats, overT2, overT1, missing) ascending.
func (s Summary) less(o Summary) bool {
	if s.HardViolations != o.HardViolations {
		return s.HardViolations < o.HardViolations
	}
	if s.MustVisitMissing != o.MustVisitMissing {
		return s.MustVisitMissing < o.MustVisitMissing
	}
	if s.Repeats != o.Repeats {
		return s.Repeats < o.Repeats
	}
	if s.OverT2 != o.OverT2 {
		return s.OverT2 < o.OverT2
	}
	if s.OverT1 != o.OverT1 {
		return s.OverT1 < o.OverT1
	}
	return s.Missing < o.Missing
}

// Result is the full ProfileRunner outcome.
type Result struct {
	Candidates       []Candidate
	PrimaryProfileID string
}

// allocateSeconds implements §4.9's time split: the baseline gets
// max(10, floor(total*0.5)); the remainder divides equally across the
// other profiles with an 8s floor each; any rounding remainder folds back
// into the baseline's share.
func allocateSeconds(total float64, otherCount int) (baseline float64, perOther float64) {
	baseline = total * 0.5
	if baseline < 10 {
		baseline = 10
	}
	baseline = float64(int(baseline))
	if otherCount == 0 {
		return total, 0
	}
	remaining := total - baseline
	perOther = remaining / float64(otherCount)
	if perOther < 8 {
		perOther = 8
	}
	perOther = float64(int(perOther))
	spent := baseline + perOther*float64(otherCount)
	if leftover := total - spent; leftover > 0 {
		baseline += leftover
	}
	return baseline, perOther
}

// applyOverride folds a profile's named overrides onto the baseline
// weights, leaving any field the profile didn't name at the baseline's
// already-resolved value.
func applyOverride(base domain.Weights, p domain.ScoringProfile) domain.Weights {
	out := base
	if p.HasOverride["weightRepeat"] {
		out.Repeat = p.Overrides.Repeat
	}
	if p.HasOverride["weightBalanceT1"] {
		out.BalanceT1 = p.Overrides.BalanceT1
	}
	if p.HasOverride["weightBalanceT2"] {
		out.BalanceT2 = p.Overrides.BalanceT2
	}
	if p.HasOverride["weightMissing"] {
		out.Missing = p.Overrides.Missing
	}
	if p.HasOverride["weightRequired"] {
		out.Required = p.Overrides.Required
	}
	if p.HasOverride["weightConsolidate"] {
		out.Consolidate = p.Overrides.Consolidate
	}
	if p.HasOverride["weightWrongSlot"] {
		out.WrongSlot = p.Overrides.WrongSlot
	}
	if p.HasOverride["clusterDayPenalty"] {
		out.ClusterDay = p.Overrides.ClusterDay
	}
	return out.Clamp()
}

// Run fans the pipeline out across the baseline and every profile in
// n.Profiles, ranks the candidates, and names the minimum as primary.
// n is mutated per-run only through a shallow copy of its Rules — callers'
// own normalized value is left untouched.
func Run(ctx context.Context, n *domain.Normalized, cfg pipeline.Config) (Result, error) {
	baselineSec, perOtherSec := allocateSeconds(cfg.TimeLimitSec, len(n.Profiles))

	var candidates []Candidate

	baselineCfg := cfg
	baselineCfg.TimeLimitSec = baselineSec
	baselineN := *n
	baselineResult, err := pipeline.Run(ctx, &baselineN, baselineCfg)
	if err != nil {
		return Result{}, err
	}
	candidates = append(candidates, Candidate{
		ProfileID: "baseline",
		Label:     "Baseline",
		Result:    baselineResult,
		Summary:   summaryOf(baselineResult),
	})

	for i, p := range n.Profiles {
		profCfg := cfg
		profCfg.TimeLimitSec = perOtherSec
		profCfg.Seed = cfg.Seed + int64(i+1)*1000

		profN := *n
		profN.Rules.Weights = applyOverride(n.Rules.Weights, p)

		result, err := pipeline.Run(ctx, &profN, profCfg)
		if err != nil {
			return Result{}, err
		}
		candidates = append(candidates, Candidate{
			ProfileID: p.ID,
			Label:     p.Label,
			Result:    result,
			Summary:   summaryOf(result),
		})
	}

	primary := candidates[0]
	for _, c := range candidates[1:] {
		if c.Summary.less(primary.Summary) {
			primary = c
		}
	}

	return Result{Candidates: candidates, PrimaryProfileID: primary.ProfileID}, nil
}
