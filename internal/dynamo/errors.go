package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector holding NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrSingularity indicates two bodies at the identical position.
	ErrSingularity = errors.New("dynamo: coincident bodies (zero separation)")

	// ErrInvalidMass indicates a negative, non-finite or missing mass.
	ErrInvalidMass = errors.New("dynamo: invalid mass")

	// ErrDimensionMismatch indicates mismatched state, derivative or mass lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInvalidStep indicates a non-positive or non-finite time step.
	ErrInvalidStep = errors.New("dynamo: time step must be positive and finite")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// DimensionError reports the expected and actual length of a vector.
func DimensionError(what string, want, got int) error {
	return fmt.Errorf("%w: %s has %d components, want %d", ErrDimensionMismatch, what, got, want)
}
