package domain

import "time"

// Scope is the global planning date range.
type Scope struct {
	Start time.Time
	End   time.Time
}

// Normalized is the canonical, schema-version-independent shape every
// downstream stage consumes.
type Normalized struct {
	Scope           Scope
	Groups          []Group
	Locations       []Location
	RequiredByGroup RequiredByGroup
	Existing        []Assignment
	Rules           Rules
	Profiles        []ScoringProfile
}

// ScoringProfile is one entry of rules.scoringProfiles: a named weight
// override applied by the ProfileRunner.
type ScoringProfile struct {
	ID        string
	Label     string
	Overrides Weights
	// HasOverride tracks which fields were actually present in the input so
	// the ProfileRunner only overrides what the profile named, leaving the
	// rest at the baseline's resolved value.
	HasOverride map[string]bool
}
