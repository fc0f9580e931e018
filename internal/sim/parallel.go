package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Generator builds an initial population from a seed.
type Generator func(seed int64) []*dynamo.Body

// Ensemble runs independent simulations, one per seed, concurrently.
type Ensemble struct {
	base      *Simulator
	generate  Generator
	numRuns   int
	seedStart int64

	// NewMetrics, when set, supplies a fresh metric set for every run.
	NewMetrics func() []Metric
}

func NewEnsemble(s *Simulator, generate Generator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: s, generate: generate, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("%w: ensemble needs at least one run, got %d", dynamo.ErrInvalidConfig, e.numRuns)
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			s := New()
			s.SetLogger(e.base.log.With().Int64("seed", seed).Logger())
			if e.NewMetrics != nil {
				for _, m := range e.NewMetrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, e.generate(seed), cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
