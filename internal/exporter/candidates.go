package exporter

import "education-connect/internal/profile"

// CandidatesDoc is the ec-planning-candidates@1 document, written only in
// --multi mode.
type CandidatesDoc struct {
	Schema           string         `json:"schema"`
	PrimaryProfileID string         `json:"primaryProfileId"`
	Candidates       []CandidateDoc `json:"candidates"`
}

// BuildCandidates renders a ProfileRunner result into the candidates file
// shape.
func BuildCandidates(res profile.Result) CandidatesDoc {
	return CandidatesDoc{
		Schema:           "ec-planning-candidates@1",
		PrimaryProfileID: res.PrimaryProfileID,
		Candidates:       renderCandidates(res),
	}
}
