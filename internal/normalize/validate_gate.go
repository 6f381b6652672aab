package normalize

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"education-connect/internal/apperr"
)

// schemaGate and scopeGate are the fatal-path checks: unknown schema or an
// invalid/absent/inverted scope range aborts Normalize entirely. Every
// other defect in the payload is a per-row skip, handled by hand-written
// tolerant parsing further down the pipeline — validator.Struct only
// guards the two conditions spec.md marks fatal.
type schemaGate struct {
	Schema string `validate:"required,oneof=ec-planning-input@1 ec-planning-input@2"`
}

type scopeGate struct {
	StartDate string `validate:"required"`
	EndDate   string `validate:"required"`
}

var validate = validator.New()

// checkSchemaGate runs the fatal schema-version check.
func checkSchemaGate(schema string) error {
	if err := validate.Struct(schemaGate{Schema: schema}); err != nil {
		return fmt.Errorf("%w: %q", apperr.ErrSchemaUnknown, schema)
	}
	return nil
}

// checkScopeGate runs the fatal scope checks: both dates present and
// well-formed, start <= end.
func checkScopeGate(startDate, endDate string) error {
	if err := validate.Struct(scopeGate{StartDate: startDate, EndDate: endDate}); err != nil {
		return fmt.Errorf("%w: scope dates missing", apperr.ErrInvalidScope)
	}
	if !isValidDate(startDate) || !isValidDate(endDate) {
		return fmt.Errorf("%w: scope dates malformed", apperr.ErrInvalidScope)
	}
	if startDate > endDate {
		return fmt.Errorf("%w: startDate %q after endDate %q", apperr.ErrInvalidScope, startDate, endDate)
	}
	return nil
}
