package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for chart operations.
var (
	// ErrInvalidDataset indicates knots that cannot anchor an interpolation.
	ErrInvalidDataset = errors.New("dynamo: invalid dataset")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidState indicates a simulation value became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrEmptyScript indicates a pointer script with no events.
	ErrEmptyScript = errors.New("dynamo: empty pointer script")

	// ErrUnknownScript indicates a script name that is not registered.
	ErrUnknownScript = errors.New("dynamo: unknown script")

	// ErrRunNotFound indicates a stored run that does not exist.
	ErrRunNotFound = errors.New("dynamo: run not found")
)

// DatasetError reports which knot broke dataset validation.
type DatasetError struct {
	Index   int
	Reason  string
	Wrapped error
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("%s: knot %d: %s", e.Wrapped, e.Index, e.Reason)
}

func (e *DatasetError) Unwrap() error {
	return e.Wrapped
}

// ParamError names the parameter that failed validation.
type ParamError struct {
	Name  string
	Value float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s=%g", ErrParameterBounds, e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrParameterBounds
}
