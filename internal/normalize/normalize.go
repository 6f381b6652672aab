// Package normalize validates and canonicalizes a raw planning-input
// payload (either schema version) into a domain.Normalized value every
// downstream pipeline stage consumes. Only the schema version and the
// scope date range are treated as fatal; every other malformed row is
// dropped silently.
package normalize

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"education-connect/internal/apperr"
	"education-connect/internal/domain"
)

// Normalize validates payload and produces the canonical Normalized value.
// logger receives one debug-level summary line (schema and per-section
// counts); callers that don't care may pass zap.NewNop().
func Normalize(payload map[string]any, logger *zap.Logger) (*domain.Normalized, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is nil", apperr.ErrEmptyPayload)
	}

	view, err := extractSchemaView(payload)
	if err != nil {
		return nil, err
	}
	if err := checkSchemaGate(view.schema); err != nil {
		return nil, err
	}

	startDate := asString(view.scope["startDate"])
	endDate := asString(view.scope["endDate"])
	if err := checkScopeGate(startDate, endDate); err != nil {
		return nil, err
	}
	scopeStart, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidScope, err)
	}
	scopeEnd, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidScope, err)
	}

	rules := asMap(payload["rules"])
	windows := parseSlotWindows(rules["slotWindows"])
	activeSlots := parseActiveSlots(rules["timeSlots"], windows)
	weights := parseWeights(rules)
	t1, t2 := domain.ClampThresholds(asFloat(rules["balanceThreshold1"], domain.DefaultBalanceThreshold1), asFloat(rules["balanceThreshold2"], domain.DefaultBalanceThreshold2))

	groups := parseGroups(view.data["groups"])
	locations := parseLocations(view.data["locations"])
	required := parseRequiredByGroup(view.data["requiredLocationsByGroup"], view.data["legacyPlanItemsByGroup"])
	existing := parseExistingAssignments(view.data["existingAssignments"], activeSlots)
	locationPrefs := parseLocationPreferences(rules["locationPreferences"], weights.Consolidate, weights.WrongSlot)
	profiles := parseScoringProfiles(rules["scoringProfiles"])

	for i, loc := range locations {
		if pref, ok := locationPrefs[loc.ID]; ok {
			locations[i].Preference = pref
		} else {
			locations[i].Preference = domain.LocationPreference{
				ConsolidateMode:   domain.ConsolidateNone,
				TargetSlotMode:    domain.TargetSlotSoft,
				ConsolidateWeight: weights.Consolidate,
				WrongSlotPenalty:  weights.WrongSlot,
			}
		}
	}

	logger.Debug("normalize complete",
		zap.String("schema", view.schema),
		zap.Int("groups", len(groups)),
		zap.Int("locations", len(locations)),
		zap.Int("existingAssignments", len(existing)),
		zap.Int("requiredGroups", len(required)),
		zap.Int("profiles", len(profiles)),
	)

	return &domain.Normalized{
		Scope:           domain.Scope{Start: scopeStart, End: scopeEnd},
		Groups:          groups,
		Locations:       locations,
		RequiredByGroup: required,
		Existing:        existing,
		Rules: domain.Rules{
			ActiveSlots:       activeSlots,
			SlotWindows:       windows,
			Weights:           weights,
			BalanceThreshold1: t1,
			BalanceThreshold2: t2,
		},
		Profiles: profiles,
	}, nil
}
