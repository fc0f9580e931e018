package integrators

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Euler advances bodies with the explicit Euler method. Velocities are
// updated for the whole population before any position moves.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(bodies []*dynamo.Body, acc []dynamo.Vec3, dt float64) error {
	if len(acc) != len(bodies) {
		return fmt.Errorf("%w: %d accelerations for %d bodies", dynamo.ErrDimensionMismatch, len(acc), len(bodies))
	}

	for i, b := range bodies {
		b.Velocity = b.Velocity.Add(acc[i].Scale(dt))
	}
	for _, b := range bodies {
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}

	return nil
}
