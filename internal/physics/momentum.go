package physics

import "github.com/san-kum/gravsim/internal/dynamo"

// UpdateAngularMomenta recomputes the derived angular momentum of every body.
func UpdateAngularMomenta(bodies []*dynamo.Body) {
	for _, b := range bodies {
		b.UpdateAngularMomentum()
	}
}

// TotalAngularMomentum sums the stored angular momentum of the population.
func TotalAngularMomentum(bodies []*dynamo.Body) dynamo.Vec3 {
	var L dynamo.Vec3
	for _, b := range bodies {
		L = L.Add(b.AngularMomentum)
	}
	return L
}

func LinearMomentum(bodies []*dynamo.Body) dynamo.Vec3 {
	var p dynamo.Vec3
	for _, b := range bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

func TotalMass(bodies []*dynamo.Body) float64 {
	m := 0.0
	for _, b := range bodies {
		m += b.Mass
	}
	return m
}

func KineticEnergy(bodies []*dynamo.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	}
	return ke
}

// PotentialEnergy returns the pairwise gravitational potential energy.
// Coincident pairs are skipped.
func PotentialEnergy(bodies []*dynamo.Body, g float64) float64 {
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[i].Position.DistanceTo(bodies[j].Position)
			if r == 0 {
				continue
			}
			pe -= g * bodies[i].Mass * bodies[j].Mass / r
		}
	}
	return pe
}

// Energy returns kinetic plus potential energy.
func Energy(bodies []*dynamo.Body, g float64) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies, g)
}
