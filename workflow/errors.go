package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is returned by a function step when a required field is absent
	// from the state.
	ErrMissingInput = errors.New("missing required input")

	// ErrFieldNotFound is returned by a transformation step whose field is absent from the state.
	ErrFieldNotFound = errors.New("field not found in state")

	// ErrNotSequence is returned by a transformation step whose field is not a slice or array.
	ErrNotSequence = errors.New("field is not a sequence")

	// ErrElementType is returned when a sequence element cannot be converted to the
	// type a transformation function expects.
	ErrElementType = errors.New("unexpected element type")

	// ErrEmptySequence is returned when reducing an empty sequence.
	ErrEmptySequence = errors.New("reduce of empty sequence")

	// ErrOutputNotFound is returned when the output key is absent from the final state.
	ErrOutputNotFound = errors.New("output not found in state")
)

// StepError reports the failure of one step. The state is left as the previous steps
// wrote it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("error in step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
