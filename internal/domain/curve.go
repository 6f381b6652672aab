package domain

import "strconv"

// CurvePhase is a sum type over the telemetry curve's iteration key, which
// the original mixed string and integer values for ("base", "final", or an
// integer iteration). A concrete variant avoids that stringly-typed field.
type CurvePhase struct {
	kind string
	iter int
}

var (
	// CurvePhaseZero is the phase-1 snapshot recorded before any LNS work —
	// the original keyed it as the bare integer 0, distinct from "base".
	CurvePhaseZero  = CurvePhase{kind: "iter", iter: 0}
	CurvePhaseBase  = CurvePhase{kind: "base"}
	CurvePhaseFinal = CurvePhase{kind: "final"}
)

// CurvePhaseIter builds the variant for a numbered LNS iteration.
func CurvePhaseIter(n int) CurvePhase {
	return CurvePhase{kind: "iter", iter: n}
}

// String renders the variant the way the JSON report expects: "base",
// "final", or the bare iteration number as a string.
func (p CurvePhase) String() string {
	switch p.kind {
	case "base", "final":
		return p.kind
	default:
		return strconv.Itoa(p.iter)
	}
}

// MarshalJSON renders "base"/"final" as JSON strings and an iteration as a
// bare JSON number, matching the report schema's mixed iter field.
func (p CurvePhase) MarshalJSON() ([]byte, error) {
	if p.kind == "iter" {
		return []byte(strconv.Itoa(p.iter)), nil
	}
	return []byte(`"` + p.kind + `"`), nil
}

// CurvePoint is one entry in the LNS telemetry buffer.
type CurvePoint struct {
	Phase         CurvePhase
	IterScore     float64
	BestScore     float64
	Accepted      bool
	ReleasedCount int
	ReleaseMode   string
	ReleaseRatio  float64
}
