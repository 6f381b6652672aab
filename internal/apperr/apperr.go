// Package apperr defines the sentinel error kinds the Normalizer's fatal
// path can produce, so callers can branch with errors.Is instead of string
// matching.
package apperr

import "errors"

var (
	// ErrSchemaUnknown means the input payload's schema field doesn't match
	// a known version.
	ErrSchemaUnknown = errors.New("schema_unknown")
	// ErrInvalidScope means the scope's dates are absent, malformed, or
	// startDate > endDate.
	ErrInvalidScope = errors.New("invalid_scope")
	// ErrEmptyPayload means Normalize was called with a nil/empty payload.
	ErrEmptyPayload = errors.New("empty_payload")
)
