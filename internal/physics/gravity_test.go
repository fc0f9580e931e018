package physics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func body(id dynamo.BodyID, pos, vel dynamo.Vec3, mass float64) *dynamo.Body {
	b := dynamo.NewBody("", pos, vel, mass)
	b.ID = id
	return b
}

func closeTo(a, b, relTol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

func TestAccelerationOf_TwoBodies(t *testing.T) {
	g := NewGravity(G, 1)
	bodies := []*dynamo.Body{
		body(1, dynamo.Vec3{}, dynamo.Vec3{}, 2e30),
		body(2, dynamo.Vec3{X: 1e11}, dynamo.Vec3{}, 1e24),
	}

	a0, err := g.AccelerationOf(bodies, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a1, err := g.AccelerationOf(bodies, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want0 := G * 1e24 / (1e11 * 1e11)
	want1 := -G * 2e30 / (1e11 * 1e11)

	if !closeTo(a0.X, want0, 1e-12) || a0.Y != 0 || a0.Z != 0 {
		t.Errorf("a0 = %v, want (%g, 0, 0)", a0, want0)
	}
	if !closeTo(a1.X, want1, 1e-12) || a1.Y != 0 || a1.Z != 0 {
		t.Errorf("a1 = %v, want (%g, 0, 0)", a1, want1)
	}
}

func TestAccelerations_ThirdLaw(t *testing.T) {
	g := NewGravity(G, 1)
	bodies := []*dynamo.Body{
		body(1, dynamo.Vec3{X: -3e10, Y: 1e10}, dynamo.Vec3{}, 5e26),
		body(2, dynamo.Vec3{X: 4e10, Z: -2e10}, dynamo.Vec3{}, 3e25),
		body(3, dynamo.Vec3{Y: 7e10}, dynamo.Vec3{}, 8e24),
	}

	acc, err := g.Accelerations(bodies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var net dynamo.Vec3
	var scale float64
	for i, b := range bodies {
		f := acc[i].Scale(b.Mass)
		net = net.Add(f)
		scale = math.Max(scale, f.Magnitude())
	}

	if net.Magnitude() > 1e-12*scale {
		t.Errorf("net internal force %v not ~0 (scale %g)", net, scale)
	}
}

func TestAccelerations_Singularity(t *testing.T) {
	g := NewGravity(G, 1)
	bodies := []*dynamo.Body{
		body(1, dynamo.Vec3{X: 1}, dynamo.Vec3{}, 1),
		body(2, dynamo.Vec3{X: 5}, dynamo.Vec3{}, 1),
		body(3, dynamo.Vec3{X: 1}, dynamo.Vec3{}, 1),
	}

	_, err := g.Accelerations(bodies)
	if !errors.Is(err, dynamo.ErrSingularity) {
		t.Fatalf("expected ErrSingularity, got %v", err)
	}
}

func TestAccelerations_WorkerCountIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	bodies := make([]*dynamo.Body, 80)
	for i := range bodies {
		pos := dynamo.Vec3{X: r.Float64() * 1e12, Y: r.Float64() * 1e12, Z: r.Float64() * 1e12}
		bodies[i] = body(dynamo.BodyID(i+1), pos, dynamo.Vec3{}, r.Float64()*1e26+1)
	}

	serial, err := NewGravity(G, 1).Accelerations(bodies)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel, err := NewGravity(G, 8).Accelerations(bodies)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("body %d: serial %v != parallel %v", i, serial[i], parallel[i])
		}
	}
}

func TestAccelerations_SnapshotUnchanged(t *testing.T) {
	bodies := []*dynamo.Body{
		body(1, dynamo.Vec3{}, dynamo.Vec3{Y: 1}, 1e20),
		body(2, dynamo.Vec3{X: 1e9}, dynamo.Vec3{Y: -1}, 1e20),
	}
	before := dynamo.CloneBodies(bodies)

	if _, err := NewGravity(G, 2).Accelerations(bodies); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range bodies {
		if *bodies[i] != *before[i] {
			t.Errorf("body %d mutated by force pass", i)
		}
	}
}
