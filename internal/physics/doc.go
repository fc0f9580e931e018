// Package physics implements the gravitational interaction between bodies.
//
//   - [Gravity]: all-pairs Newtonian acceleration, no softening
//   - [Collisions]: proximity grouping and momentum-conserving merges
//   - [TotalAngularMomentum], [LinearMomentum], [Energy]: conserved quantities
//
// Forces are summed by brute force over every pair; there is no tree code
// or spatial partitioning. A step is expected to call, in order,
// [Collisions.Resolve], [Gravity.Accelerations], an integrator, and
// [UpdateAngularMomenta].
//
// # Conservation
//
// Merges conserve mass and linear momentum exactly. The merged position is
// the plain mean of the source positions, so the centre of mass can shift
// when bodies of unequal mass merge:
//
//	merged := physics.MergeBodies([]*dynamo.Body{a, b})
//	p := merged.Momentum() // equals a.Momentum().Add(b.Momentum())
package physics
