package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrModelInfeasible is returned when the solver proves that no placement
	// satisfies the constraints.
	ErrModelInfeasible = errors.New("load model is infeasible")
	// ErrUnboundedOrUnknown is returned when the solver stops without proving
	// optimality or infeasibility (limits, unbounded relaxation, numerical
	// trouble).
	ErrUnboundedOrUnknown = errors.New("solver stopped without a proof")
	// ErrInputInconsistency is the sentinel wrapped by every InputError.
	ErrInputInconsistency = errors.New("input is inconsistent")
)

// InputError describes malformed instance data detected before solving.
type InputError struct {
	Field  string // "carton", "container", "route", ...
	Index  int    // Offending index, -1 when not applicable
	Reason string
}

// NewInputError creates an InputError.
func NewInputError(field string, index int, reason string, args ...any) *InputError {
	return &InputError{Field: field, Index: index, Reason: fmt.Sprintf(reason, args...)}
}

func (e *InputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s %d: %s", ErrInputInconsistency, e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInputInconsistency, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInputInconsistency
}

// ErrPlanVerification is returned when an optimal plan fails the geometric
// re-check, which points at a solver or formulation defect.
var ErrPlanVerification = errors.New("plan failed verification")
