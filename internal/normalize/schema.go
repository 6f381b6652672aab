package normalize

import (
	"fmt"

	"education-connect/internal/apperr"
)

// schemaView is the schema-independent view the rest of Normalize works
// from: the raw scope object and the raw "data" object (groups, locations,
// requiredLocationsByGroup, legacyPlanItemsByGroup, existingAssignments).
type schemaView struct {
	schema string
	scope  map[string]any
	data   map[string]any
}

// extractSchemaView maps both accepted schema versions onto the common
// shape. Returns apperr.ErrSchemaUnknown when the schema field doesn't
// match either version.
func extractSchemaView(payload map[string]any) (schemaView, error) {
	schema := asString(payload["schema"])

	switch schema {
	case "ec-planning-input@2":
		return schemaView{
			schema: schema,
			scope:  asMap(payload["scope"]),
			data:   asMap(payload["data"]),
		}, nil

	case "ec-planning-input@1":
		existing := asMap(payload["existing"])
		data := map[string]any{
			"groups":                   payload["groups"],
			"locations":                payload["locations"],
			"requiredLocationsByGroup": payload["must_visit_by_group"],
			"legacyPlanItemsByGroup":   payload["plan_items_by_group"],
		}
		if existing != nil {
			data["existingAssignments"] = existing["activities"]
		}
		return schemaView{
			schema: schema,
			scope:  asMap(payload["range"]),
			data:   data,
		}, nil

	default:
		return schemaView{}, fmt.Errorf("%w: %q", apperr.ErrSchemaUnknown, schema)
	}
}
