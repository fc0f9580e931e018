package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Energy reports the total (kinetic plus potential) energy of the latest
// observation.
type Energy struct {
	name    string
	g       float64
	current float64
}

func NewEnergy(g float64) *Energy {
	return &Energy{
		name: "energy",
		g:    g,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(step int, bodies []*dynamo.Body) {
	e.current = physics.Energy(bodies, e.g)
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() { e.current = 0 }

// EnergyDrift tracks the largest relative departure of total energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		g:    g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(step int, bodies []*dynamo.Body) {
	energy := physics.Energy(bodies, e.g)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the largest relative change of total linear momentum.
// Merges conserve momentum, so this stays at roundoff level for a healthy run.
type MomentumDrift struct {
	name     string
	initial  dynamo.Vec3
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(step int, bodies []*dynamo.Body) {
	p := physics.LinearMomentum(bodies)

	if m.samples == 0 {
		m.initial = p
		for _, b := range bodies {
			m.scale += b.Momentum().Magnitude()
		}
	}
	m.samples++

	if m.scale > 0 {
		m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Magnitude()/m.scale)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = dynamo.Vec3{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
