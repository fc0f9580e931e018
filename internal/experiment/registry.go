package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
)

type Registry struct {
	scenarios map[string]func(numBodies int) sim.Generator
	metrics   map[string]func(cfg sim.Config) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios: make(map[string]func(int) sim.Generator),
		metrics:   make(map[string]func(sim.Config) sim.Metric),
	}

	for _, name := range scenario.Names() {
		name := name
		r.scenarios[name] = func(n int) sim.Generator {
			gen, _ := scenario.Named(name, n)
			return sim.Generator(gen)
		}
	}

	r.metrics["energy"] = func(cfg sim.Config) sim.Metric { return metrics.NewEnergy(cfg.G) }
	r.metrics["energy_drift"] = func(cfg sim.Config) sim.Metric { return metrics.NewEnergyDrift(cfg.G) }
	r.metrics["momentum_drift"] = func(sim.Config) sim.Metric { return metrics.NewMomentumDrift() }
	r.metrics["stability"] = func(sim.Config) sim.Metric { return metrics.NewStability(10 * scenario.PositionRange) }
	r.metrics["bodies"] = func(sim.Config) sim.Metric { return metrics.NewBodyCount() }
	r.metrics["absorbed"] = func(sim.Config) sim.Metric { return metrics.NewAbsorbed() }

	return r
}

// Register adds or replaces a scenario.
func (r *Registry) Register(name string, gen func(numBodies int) sim.Generator) {
	r.scenarios[name] = gen
}

func (r *Registry) GetScenario(name string, numBodies int) (sim.Generator, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(numBodies), nil
}

func (r *Registry) GetMetric(name string, cfg sim.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(cfg sim.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergyDrift(cfg.G),
		metrics.NewMomentumDrift(),
		metrics.NewBodyCount(),
		metrics.NewAbsorbed(),
	}
}
