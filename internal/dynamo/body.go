package dynamo

import (
	"fmt"
	"math"
)

// BodyID identifies a body for the lifetime of a run. Zero means unassigned.
type BodyID uint64

// Body is a point mass. AngularMomentum is derived from the other fields and
// is only written by UpdateAngularMomentum.
type Body struct {
	ID              BodyID
	Name            string
	Position        Vec3
	Velocity        Vec3
	Mass            float64
	AngularMomentum Vec3
}

// NewBody returns a body with its angular momentum already computed.
func NewBody(name string, position, velocity Vec3, mass float64) *Body {
	b := &Body{
		Name:     name,
		Position: position,
		Velocity: velocity,
		Mass:     mass,
	}
	b.UpdateAngularMomentum()
	return b
}

// Momentum returns m·v.
func (b *Body) Momentum() Vec3 {
	return b.Velocity.Scale(b.Mass)
}

// UpdateAngularMomentum sets L = r × (m·v) about the origin.
func (b *Body) UpdateAngularMomentum() {
	b.AngularMomentum = b.Position.Cross(b.Momentum())
}

func (b *Body) Clone() *Body {
	c := *b
	return &c
}

// Validate checks the mass invariant and that the state is finite.
func (b *Body) Validate() error {
	if math.IsNaN(b.Mass) || math.IsInf(b.Mass, 0) || b.Mass <= 0 {
		return fmt.Errorf("%w: body %d (%q) has mass %g, must be positive", ErrInvalidConfig, b.ID, b.Name, b.Mass)
	}
	if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
		return fmt.Errorf("%w: body %d (%q) has non-finite state", ErrInvalidConfig, b.ID, b.Name)
	}
	return nil
}

func (b *Body) String() string {
	return fmt.Sprintf("body %d %q m=%g p=%v v=%v", b.ID, b.Name, b.Mass, b.Position, b.Velocity)
}

// CloneBodies deep-copies a population.
func CloneBodies(bodies []*Body) []*Body {
	out := make([]*Body, len(bodies))
	for i, b := range bodies {
		out[i] = b.Clone()
	}
	return out
}

// IDGenerator hands out increasing body IDs starting at 1.
type IDGenerator struct {
	last BodyID
}

func (g *IDGenerator) Next() BodyID {
	g.last++
	return g.last
}

// Observe makes sure later IDs do not collide with id.
func (g *IDGenerator) Observe(id BodyID) {
	if id > g.last {
		g.last = id
	}
}
