package physics

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// CollisionRadius is the reference merge distance in metres.
const CollisionRadius = 2.5e10

// Merge describes one group of bodies replaced by a single body.
type Merge struct {
	Result  *dynamo.Body
	Sources []*dynamo.Body
}

// SourceIDs returns the IDs of the merged bodies in population order.
func (m Merge) SourceIDs() []dynamo.BodyID {
	ids := make([]dynamo.BodyID, len(m.Sources))
	for i, b := range m.Sources {
		ids[i] = b.ID
	}
	return ids
}

// Collisions merges bodies that are closer than Radius. Closeness is
// transitive: if a is close to b and b to c, all three become one body even
// when a and c are far apart. A Radius of zero disables merging.
type Collisions struct {
	Radius float64
}

func NewCollisions(radius float64) *Collisions {
	return &Collisions{Radius: radius}
}

// Detect returns groups of population indices that must merge. Each group
// is sorted and has at least two members; groups are ordered by their
// lowest index.
func (c *Collisions) Detect(bodies []*dynamo.Body) [][]int {
	if c.Radius <= 0 || len(bodies) < 2 {
		return nil
	}

	g := simple.NewUndirectedGraph()
	for i := range bodies {
		g.AddNode(simple.Node(i))
	}

	found := false
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if bodies[i].Position.DistanceTo(bodies[j].Position) < c.Radius {
				g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
				found = true
			}
		}
	}
	if !found {
		return nil
	}

	var groups [][]int
	for _, component := range topo.ConnectedComponents(g) {
		if len(component) < 2 {
			continue
		}
		groups = append(groups, componentIndices(component))
	}

	sort.Slice(groups, func(a, b int) bool { return groups[a][0] < groups[b][0] })
	return groups
}

func componentIndices(nodes []graph.Node) []int {
	idx := make([]int, len(nodes))
	for i, n := range nodes {
		idx[i] = int(n.ID())
	}
	sort.Ints(idx)
	return idx
}

// Resolve replaces every colliding group with its merged body. Survivors
// keep their relative order and merged bodies are appended in group order.
// New bodies take their IDs from ids.
func (c *Collisions) Resolve(bodies []*dynamo.Body, ids *dynamo.IDGenerator) ([]*dynamo.Body, []Merge) {
	groups := c.Detect(bodies)
	if len(groups) == 0 {
		return bodies, nil
	}

	consumed := make([]bool, len(bodies))
	merges := make([]Merge, 0, len(groups))

	for _, group := range groups {
		sources := make([]*dynamo.Body, len(group))
		for k, i := range group {
			sources[k] = bodies[i]
			consumed[i] = true
		}

		merged := MergeBodies(sources)
		merged.ID = ids.Next()
		merges = append(merges, Merge{Result: merged, Sources: sources})
	}

	out := make([]*dynamo.Body, 0, len(bodies)-len(merges))
	for i, b := range bodies {
		if !consumed[i] {
			out = append(out, b)
		}
	}
	for _, m := range merges {
		out = append(out, m.Result)
	}

	return out, merges
}

// MergeBodies combines sources into one unnamed body. Mass and linear
// momentum are conserved. The position is the unweighted mean of the source
// positions, not the centre of mass.
func MergeBodies(sources []*dynamo.Body) *dynamo.Body {
	var mass float64
	var momentum, position dynamo.Vec3

	for _, b := range sources {
		mass += b.Mass
		momentum = momentum.Add(b.Momentum())
		position = position.Add(b.Position)
	}

	position = position.Scale(1 / float64(len(sources)))
	return dynamo.NewBody("", position, momentum.Scale(1/mass), mass)
}
