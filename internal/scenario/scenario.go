// Package scenario builds initial populations.
package scenario

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	// CentralMass is the mass of the body placed at the origin by Random.
	CentralMass = 2e30

	PositionRange = 5e11
	VelocityRange = 1e4
	MaxMass       = 1e26
)

// Random returns a body of CentralMass at rest at the origin followed by n
// bodies with positions in ±PositionRange, velocities in ±VelocityRange and
// masses in [0, MaxMass). The same seed always yields the same population.
func Random(n int, seed int64) []*dynamo.Body {
	rng := rand.New(rand.NewSource(seed))

	bodies := make([]*dynamo.Body, 0, n+1)
	bodies = append(bodies, dynamo.NewBody("", dynamo.Vec3{}, dynamo.Vec3{}, CentralMass))

	for i := 0; i < n; i++ {
		pos := randomVec(rng, PositionRange)
		vel := randomVec(rng, VelocityRange)
		mass := rng.Float64() * MaxMass
		// a zero draw would be rejected as a massless body
		for mass == 0 {
			mass = rng.Float64() * MaxMass
		}
		bodies = append(bodies, dynamo.NewBody("", pos, vel, mass))
	}

	return bodies
}

// randomVec draws whole-number components in [-limit, limit).
func randomVec(rng *rand.Rand, limit float64) dynamo.Vec3 {
	span := int64(2 * limit)
	draw := func() float64 { return float64(rng.Int63n(span)) - limit }
	return dynamo.Vec3{X: draw(), Y: draw(), Z: draw()}
}

// SunPlanet is a solar-mass body at rest with a 1e24 kg planet at 1e11 m
// moving at 1 km/s, well below orbital speed.
func SunPlanet() []*dynamo.Body {
	return []*dynamo.Body{
		dynamo.NewBody("sun", dynamo.Vec3{}, dynamo.Vec3{}, 2e30),
		dynamo.NewBody("planet", dynamo.Vec3{X: 1e11}, dynamo.Vec3{Y: 1e3}, 1e24),
	}
}

// Binary is two equal stars on roughly circular orbits about their common
// centre of mass, with zero total momentum.
func Binary() []*dynamo.Body {
	return []*dynamo.Body{
		dynamo.NewBody("a", dynamo.Vec3{X: -1.5e11}, dynamo.Vec3{Y: -1.05e4}, 1e30),
		dynamo.NewBody("b", dynamo.Vec3{X: 1.5e11}, dynamo.Vec3{Y: 1.05e4}, 1e30),
	}
}

// HeadOn sends two planets at each other past a central star; they merge
// within a thousand steps at dt=1000.
func HeadOn() []*dynamo.Body {
	return []*dynamo.Body{
		dynamo.NewBody("star", dynamo.Vec3{}, dynamo.Vec3{}, 2e30),
		dynamo.NewBody("left", dynamo.Vec3{X: -5e10, Y: 4e11}, dynamo.Vec3{X: 5e4}, 5e25),
		dynamo.NewBody("right", dynamo.Vec3{X: 5e10, Y: 4e11}, dynamo.Vec3{X: -5e4}, 3e25),
	}
}

// Generator builds a population for a seed. Fixed scenarios ignore it.
type Generator func(seed int64) []*dynamo.Body

func fixed(f func() []*dynamo.Body) Generator {
	return func(int64) []*dynamo.Body { return f() }
}

// Named returns the generator registered under name. numBodies only applies
// to "random".
func Named(name string, numBodies int) (Generator, error) {
	switch name {
	case "random":
		return func(seed int64) []*dynamo.Body { return Random(numBodies, seed) }, nil
	case "sun-planet":
		return fixed(SunPlanet), nil
	case "binary":
		return fixed(Binary), nil
	case "head-on":
		return fixed(HeadOn), nil
	default:
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
}

// Names lists the scenarios accepted by Named.
func Names() []string {
	return []string{"random", "sun-planet", "binary", "head-on"}
}
