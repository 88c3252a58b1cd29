package binding

import (
	"fmt"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// Registration errors.
var (
	// ErrInvalidBinding indicates a malformed binding declaration.
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrConflictingBinding indicates a field declared more than once, or as
	// both a scalar and a section.
	ErrConflictingBinding = errors.New("conflicting binding")
)

// Field access errors, wrapped in a BindingAccessError during a pass.
var (
	// ErrUnreachable indicates the field cannot be read or written at all.
	ErrUnreachable = errors.New("field is unreachable")

	// ErrNotAssignable indicates the value does not fit the field's type.
	ErrNotAssignable = errors.New("field is not assignable")

	// ErrNotSection indicates a section binding whose path holds a plain value.
	ErrNotSection = errors.New("path does not hold a section")
)

// Phase names the step of a pass in which a binding failed.
type Phase string

// Pass phases.
const (
	PhaseLoadScalar  Phase = "load-scalar"
	PhaseLoadSection Phase = "load-section"
	PhaseSectionSeed Phase = "section-seed"
	PhaseSaveScalar  Phase = "save-scalar"
	PhaseSaveSection Phase = "save-section"
)

// BindingAccessError reports the field and phase that aborted a pass.
type BindingAccessError struct {
	Field string
	Phase Phase
	Err   error
}

func (e *BindingAccessError) Error() string {
	return fmt.Sprintf("%s: field %q: %v", e.Phase, e.Field, e.Err)
}

func (e *BindingAccessError) Unwrap() error {
	return e.Err
}

func accessError(field string, phase Phase, err error) error {
	return &BindingAccessError{Field: field, Phase: phase, Err: err}
}
