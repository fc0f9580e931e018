package metrics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Stability is the fraction of observations in which every body stayed
// finite and within threshold metres of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(step int, bodies []*dynamo.Body) {
	s.samples++
	for _, b := range bodies {
		if !b.Position.IsFinite() || b.Position.Magnitude() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
