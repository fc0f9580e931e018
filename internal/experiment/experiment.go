package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

type Config struct {
	Scenario  string
	NumBodies int
	Seed      int64
	Sim       sim.Config
	// Bodies, when non-empty, replaces the scenario population.
	Bodies []*dynamo.Body
}

type Experiment struct {
	cfg       Config
	registry  *Registry
	simulator *sim.Simulator
	bodies    []*dynamo.Body
}

func New(cfg Config, registry *Registry) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: registry,
	}
}

// Setup builds the initial population and a simulator carrying metrics.
func (e *Experiment) Setup(metrics []sim.Metric, log zerolog.Logger) error {
	if len(e.cfg.Bodies) > 0 {
		e.bodies = dynamo.CloneBodies(e.cfg.Bodies)
	} else {
		gen, err := e.registry.GetScenario(e.cfg.Scenario, e.cfg.NumBodies)
		if err != nil {
			return err
		}
		e.bodies = gen(e.cfg.Seed)
	}

	e.simulator = sim.New()
	e.simulator.SetLogger(log.With().Str("scenario", e.cfg.Scenario).Int64("seed", e.cfg.Seed).Logger())
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.bodies, e.cfg.Sim)
}

// InitialBodies returns a copy of the population the run starts from.
func (e *Experiment) InitialBodies() []*dynamo.Body {
	return dynamo.CloneBodies(e.bodies)
}
