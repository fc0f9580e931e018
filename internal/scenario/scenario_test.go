package scenario

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

func TestRandom(t *testing.T) {
	bodies := Random(10, 42)

	if len(bodies) != 11 {
		t.Fatalf("expected 11 bodies, got %d", len(bodies))
	}

	central := bodies[0]
	if central.Mass != CentralMass || central.Position != (dynamo.Vec3{}) || central.Velocity != (dynamo.Vec3{}) {
		t.Errorf("unexpected central body %v", central)
	}

	for i, b := range bodies[1:] {
		if b.Mass <= 0 || b.Mass >= MaxMass {
			t.Errorf("body %d: mass %g out of range", i, b.Mass)
		}
		for _, c := range []float64{b.Position.X, b.Position.Y, b.Position.Z} {
			if c < -PositionRange || c >= PositionRange || c != math.Trunc(c) {
				t.Errorf("body %d: position component %g out of range", i, c)
			}
		}
		for _, c := range []float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z} {
			if c < -VelocityRange || c >= VelocityRange {
				t.Errorf("body %d: velocity component %g out of range", i, c)
			}
		}
		if b.AngularMomentum != b.Position.Cross(b.Momentum()) {
			t.Errorf("body %d: angular momentum not initialised", i)
		}
	}
}

func TestRandom_Deterministic(t *testing.T) {
	a, b := Random(5, 7), Random(5, 7)
	for i := range a {
		if *a[i] != *b[i] {
			t.Errorf("body %d differs between identical seeds", i)
		}
	}

	c := Random(5, 8)
	if *a[1] == *c[1] {
		t.Error("different seeds produced the same body")
	}
}

func TestNamed(t *testing.T) {
	for _, name := range Names() {
		gen, err := Named(name, 3)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if len(gen(1)) == 0 {
			t.Errorf("%s: empty population", name)
		}
	}

	if _, err := Named("nonexistent", 3); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestBinary_ZeroMomentum(t *testing.T) {
	if p := physics.LinearMomentum(Binary()); p != (dynamo.Vec3{}) {
		t.Errorf("binary momentum = %v, want zero", p)
	}
}

func TestHeadOn_Merges(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Steps = 1000

	result, err := sim.New().Run(context.Background(), HeadOn(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Merges) != 1 {
		t.Fatalf("expected 1 merge, got %d", len(result.Merges))
	}
	if got := result.Merges[0].Sources; len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("expected the two planets to merge, got %v", got)
	}
	if len(result.Bodies) != 2 {
		t.Errorf("expected 2 survivors, got %d", len(result.Bodies))
	}
}
