package physics

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	// G is the gravitational constant in m³ kg⁻¹ s⁻².
	G = 6.67408e-11

	// minParallelChunk keeps small populations on one goroutine.
	minParallelChunk = 16
)

// Gravity sums Newtonian attraction over every pair of bodies. There is no
// softening: coincident bodies are reported as dynamo.ErrSingularity.
type Gravity struct {
	G       float64
	Workers int
}

func NewGravity(g float64, workers int) *Gravity {
	return &Gravity{G: g, Workers: workers}
}

// AccelerationOf returns the acceleration of bodies[i] due to every other body.
func (g *Gravity) AccelerationOf(bodies []*dynamo.Body, i int) (dynamo.Vec3, error) {
	target := bodies[i]
	var acc dynamo.Vec3

	for j, other := range bodies {
		if j == i {
			continue
		}

		d := other.Position.Sub(target.Position)
		r := d.Magnitude()
		if r == 0 {
			return dynamo.Vec3{}, fmt.Errorf("%w: bodies %d and %d", dynamo.ErrSingularity, target.ID, other.ID)
		}

		acc = acc.Add(d.Scale(g.G * other.Mass / (r * r * r)))
	}

	return acc, nil
}

// Accelerations computes every body's acceleration from the same snapshot.
// The bodies are only read, so the work is split across workers; each sum
// runs in index order, which keeps the result independent of the split.
func (g *Gravity) Accelerations(bodies []*dynamo.Body) ([]dynamo.Vec3, error) {
	acc := make([]dynamo.Vec3, len(bodies))
	errs := make([]error, len(bodies))

	dynamo.ParallelFor(len(bodies), minParallelChunk, g.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			acc[i], errs[i] = g.AccelerationOf(bodies, i)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
