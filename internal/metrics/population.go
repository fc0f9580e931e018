package metrics

import "github.com/san-kum/gravsim/internal/dynamo"

// BodyCount reports the population size at the latest observation.
type BodyCount struct {
	count int
}

func NewBodyCount() *BodyCount { return &BodyCount{} }

func (c *BodyCount) Name() string { return "bodies" }

func (c *BodyCount) Observe(step int, bodies []*dynamo.Body) { c.count = len(bodies) }

func (c *BodyCount) Value() float64 { return float64(c.count) }

func (c *BodyCount) Reset() { c.count = 0 }

// Absorbed counts bodies that have disappeared into merges since the first
// observation. A merge of k bodies absorbs k-1 of them.
type Absorbed struct {
	initial int
	current int
	samples int
}

func NewAbsorbed() *Absorbed { return &Absorbed{} }

func (a *Absorbed) Name() string { return "absorbed" }

func (a *Absorbed) Observe(step int, bodies []*dynamo.Body) {
	if a.samples == 0 {
		a.initial = len(bodies)
	}
	a.current = len(bodies)
	a.samples++
}

func (a *Absorbed) Value() float64 { return float64(a.initial - a.current) }

func (a *Absorbed) Reset() {
	a.initial = 0
	a.current = 0
	a.samples = 0
}
