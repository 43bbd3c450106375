package approval

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyProcessed — the change request left pending before we got
	// to it (double approval, replayed form post).
	ErrAlreadyProcessed = errors.New("change request has already been processed")

	// ErrEntityNotFound — target vehicle/vendor/request row is missing or
	// not in the expected pre-state.
	ErrEntityNotFound = errors.New("target entity not found")

	// ErrUnknownMutation — no mutator registered for the kind/type pair.
	ErrUnknownMutation = errors.New("unsupported target kind / request type combination")
)

// ValidationError — proposed_data failed entity-level constraints. Carries
// the offending field so the web layer can point at the form input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid payload: " + e.Reason
	}
	return fmt.Sprintf("invalid payload: field %q %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
