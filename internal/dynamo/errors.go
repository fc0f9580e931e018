package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrSingularity indicates two bodies at zero separation during the force pass.
	ErrSingularity = errors.New("dynamo: coincident bodies (zero separation)")

	// ErrColliderGroup indicates a merge that names a body the run does not track.
	ErrColliderGroup = errors.New("dynamo: inconsistent collider group")

	// ErrInvalidConfig indicates a configuration or initial population rejected before stepping.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidState indicates a body whose position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates an acceleration slice that does not match the population.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between accelerations and bodies")
)

// SimulationError wraps an error with the step at which the run aborted.
type SimulationError struct {
	Step    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
