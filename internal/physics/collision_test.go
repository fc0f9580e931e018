package physics

import (
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func newIDs(start dynamo.BodyID) *dynamo.IDGenerator {
	ids := &dynamo.IDGenerator{}
	ids.Observe(start)
	return ids
}

func TestDetect_Threshold(t *testing.T) {
	c := NewCollisions(CollisionRadius)

	tests := []struct {
		name       string
		separation float64
		merged     bool
	}{
		{"exactly at radius", CollisionRadius, false},
		{"just inside radius", CollisionRadius - 1, true},
		{"well inside radius", CollisionRadius / 2, true},
		{"outside radius", CollisionRadius * 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodies := []*dynamo.Body{
				body(1, dynamo.Vec3{}, dynamo.Vec3{}, 1),
				body(2, dynamo.Vec3{X: tt.separation}, dynamo.Vec3{}, 1),
			}
			groups := c.Detect(bodies)
			if got := len(groups) == 1; got != tt.merged {
				t.Errorf("merged = %v, want %v (groups %v)", got, tt.merged, groups)
			}
		})
	}
}

func TestResolve_PairConservesMassAndMomentum(t *testing.T) {
	c := NewCollisions(CollisionRadius)
	a := body(1, dynamo.Vec3{X: 0}, dynamo.Vec3{X: 3000}, 1e24)
	b := body(2, dynamo.Vec3{X: 1e10}, dynamo.Vec3{X: -1000, Y: 500}, 3e24)
	far := body(3, dynamo.Vec3{X: 1e12}, dynamo.Vec3{}, 2e30)

	out, merges := c.Resolve([]*dynamo.Body{a, b, far}, newIDs(3))

	if len(out) != 2 {
		t.Fatalf("population size = %d, want 2", len(out))
	}
	if len(merges) != 1 {
		t.Fatalf("merges = %d, want 1", len(merges))
	}

	m := merges[0].Result
	if m.Mass != a.Mass+b.Mass {
		t.Errorf("merged mass = %g, want %g", m.Mass, a.Mass+b.Mass)
	}

	wantV := dynamo.Vec3{
		X: (1e24*3000 + 3e24*-1000) / 4e24,
		Y: (3e24 * 500) / 4e24,
	}
	if !closeTo(m.Velocity.X, wantV.X, 1e-12) || !closeTo(m.Velocity.Y, wantV.Y, 1e-12) || m.Velocity.Z != 0 {
		t.Errorf("merged velocity = %v, want %v", m.Velocity, wantV)
	}

	simpleMean := (3000.0 + -1000.0) / 2
	if closeTo(m.Velocity.X, simpleMean, 1e-9) {
		t.Error("merged velocity is the simple average, expected mass weighting")
	}

	if m.Position != (dynamo.Vec3{X: 5e9}) {
		t.Errorf("merged position = %v, want arithmetic mean (5e9, 0, 0)", m.Position)
	}
	if m.Name != "" {
		t.Errorf("merged name = %q, want empty", m.Name)
	}
	if m.ID != 4 {
		t.Errorf("merged id = %d, want 4", m.ID)
	}
	if out[0] != far || out[1] != m {
		t.Error("expected survivors first, merged body appended")
	}

	ids := merges[0].SourceIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("source ids = %v, want [1 2]", ids)
	}

	want := m.Position.Cross(m.Momentum())
	if m.AngularMomentum != want {
		t.Errorf("merged L = %v, want %v", m.AngularMomentum, want)
	}
}

func TestResolve_ThreeMutuallyClose(t *testing.T) {
	c := NewCollisions(CollisionRadius)
	bodies := []*dynamo.Body{
		body(1, dynamo.Vec3{}, dynamo.Vec3{X: 1}, 1e24),
		body(2, dynamo.Vec3{X: 1e9}, dynamo.Vec3{Y: 1}, 2e24),
		body(3, dynamo.Vec3{Y: 1e9}, dynamo.Vec3{Z: 1}, 3e24),
	}

	out, merges := c.Resolve(bodies, newIDs(3))

	if len(out) != 1 || len(merges) != 1 {
		t.Fatalf("expected one merged body, got population %d merges %d", len(out), len(merges))
	}
	if out[0].Mass != 6e24 {
		t.Errorf("mass = %g, want 6e24", out[0].Mass)
	}
	if len(merges[0].Sources) != 3 {
		t.Errorf("sources = %d, want 3", len(merges[0].Sources))
	}
}

func TestResolve_TransitiveChain(t *testing.T) {
	c := NewCollisions(10)
	bodies := []*dynamo.Body{
		body(1, dynamo.Vec3{X: 0}, dynamo.Vec3{}, 1),
		body(2, dynamo.Vec3{X: 8}, dynamo.Vec3{}, 1),
		body(3, dynamo.Vec3{X: 16}, dynamo.Vec3{}, 1),
	}

	if bodies[0].Position.DistanceTo(bodies[2].Position) < 10 {
		t.Fatal("test setup: ends of the chain must be far apart")
	}

	out, merges := c.Resolve(bodies, newIDs(3))
	if len(out) != 1 || len(merges) != 1 {
		t.Fatalf("expected the chain to merge into one body, got %d bodies", len(out))
	}
	if out[0].Position != (dynamo.Vec3{X: 8}) {
		t.Errorf("position = %v, want (8, 0, 0)", out[0].Position)
	}
}

func TestResolve_DisjointPairs(t *testing.T) {
	c := NewCollisions(10)
	bodies := []*dynamo.Body{
		body(1, dynamo.Vec3{X: 1000}, dynamo.Vec3{}, 1),
		body(2, dynamo.Vec3{X: 0}, dynamo.Vec3{}, 1),
		body(3, dynamo.Vec3{X: 500}, dynamo.Vec3{}, 1),
		body(4, dynamo.Vec3{X: 1005}, dynamo.Vec3{}, 1),
		body(5, dynamo.Vec3{X: 3}, dynamo.Vec3{}, 1),
	}

	out, merges := c.Resolve(bodies, newIDs(5))

	if len(merges) != 2 {
		t.Fatalf("merges = %d, want 2", len(merges))
	}
	if len(out) != 3 {
		t.Fatalf("population = %d, want 3", len(out))
	}

	first, second := merges[0].SourceIDs(), merges[1].SourceIDs()
	if first[0] != 1 || first[1] != 4 {
		t.Errorf("first group = %v, want [1 4]", first)
	}
	if second[0] != 2 || second[1] != 5 {
		t.Errorf("second group = %v, want [2 5]", second)
	}
	if out[0].ID != 3 || out[1].ID != 6 || out[2].ID != 7 {
		t.Errorf("population ids = [%d %d %d], want [3 6 7]", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestResolve_NoCollision(t *testing.T) {
	c := NewCollisions(CollisionRadius)
	bodies := []*dynamo.Body{
		body(1, dynamo.Vec3{}, dynamo.Vec3{}, 1),
		body(2, dynamo.Vec3{X: 1e11}, dynamo.Vec3{}, 1),
	}

	out, merges := c.Resolve(bodies, newIDs(2))
	if merges != nil || len(out) != 2 {
		t.Errorf("unexpected merge: population %d merges %v", len(out), merges)
	}
}

func TestResolve_DisabledRadius(t *testing.T) {
	c := NewCollisions(0)
	bodies := []*dynamo.Body{
		body(1, dynamo.Vec3{}, dynamo.Vec3{}, 1),
		body(2, dynamo.Vec3{}, dynamo.Vec3{}, 1),
	}

	if groups := c.Detect(bodies); groups != nil {
		t.Errorf("radius 0 detected %v", groups)
	}
}

func BenchmarkDetect_100(b *testing.B) {
	c := NewCollisions(CollisionRadius)
	bodies := make([]*dynamo.Body, 100)
	for i := range bodies {
		bodies[i] = body(dynamo.BodyID(i+1), dynamo.Vec3{X: float64(i) * 1e11}, dynamo.Vec3{}, 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Detect(bodies)
	}
}
