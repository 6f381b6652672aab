package domain

import "github.com/hashicorp/go-set/v3"

// Weights bundles the objective's penalty coefficients. All fields are
// clamped non-negative at ingest (Normalizer); ClusterDayPenalty additionally
// floors to its default when <= 0.
type Weights struct {
	Repeat      float64
	BalanceT1   float64
	BalanceT2   float64
	Missing     float64
	Required    float64
	Consolidate float64
	WrongSlot   float64
	ClusterDay  float64
}

// DefaultWeights returns the spec's default coefficients.
func DefaultWeights() Weights {
	return Weights{
		Repeat:      DefaultWeightRepeat,
		BalanceT1:   DefaultWeightBalanceT1,
		BalanceT2:   DefaultWeightBalanceT2,
		Missing:     DefaultWeightMissing,
		Required:    DefaultWeightRequired,
		Consolidate: DefaultWeightConsolidate,
		WrongSlot:   DefaultWeightWrongSlot,
		ClusterDay:  DefaultClusterDayPenalty,
	}
}

// Clamp returns a copy with every field floored at its minimum.
func (w Weights) Clamp() Weights {
	clampNonNeg := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	out := Weights{
		Repeat:      clampNonNeg(w.Repeat),
		BalanceT1:   clampNonNeg(w.BalanceT1),
		BalanceT2:   clampNonNeg(w.BalanceT2),
		Missing:     clampNonNeg(w.Missing),
		Required:    clampNonNeg(w.Required),
		Consolidate: clampNonNeg(w.Consolidate),
		WrongSlot:   clampNonNeg(w.WrongSlot),
		ClusterDay:  clampNonNeg(w.ClusterDay),
	}
	if out.ClusterDay <= 0 {
		out.ClusterDay = DefaultClusterDayPenalty
	}
	return out
}

// Rules is the resolved, per-run rule set: active slots, slot windows,
// weights and balance thresholds.
type Rules struct {
	ActiveSlots      []SlotKey
	SlotWindows      map[SlotKey]HourWindow
	Weights          Weights
	BalanceThreshold1 float64
	BalanceThreshold2 float64
}

// ClampThresholds applies the spec's auto-correction: t1 outside (0,1)
// becomes 0.7; then t2 outside (t1,1) becomes min(0.95, max(t1+0.05, 0.9)),
// which is 0.9 when t1 is 0.7.
func ClampThresholds(t1, t2 float64) (float64, float64) {
	if t1 <= 0 || t1 >= 1 {
		t1 = DefaultBalanceThreshold1
	}
	if t2 <= t1 || t2 >= 1 {
		t2 = minF(0.95, maxF(t1+0.05, 0.9))
	}
	return t1, t2
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// RequiredByGroup maps a group id to its must-visit location id set.
type RequiredByGroup map[string]*set.Set[string]
