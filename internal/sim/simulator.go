package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

var errNotStarted = errors.New("sim: Step called before Start")

// Simulator owns the population and its histories for the duration of a
// run. Bodies passed to Start or Run are copied; callers never alias the
// population being stepped.
type Simulator struct {
	metrics   []Metric
	observers []Observer
	log       zerolog.Logger

	cfg        Config
	gravity    *physics.Gravity
	collisions *physics.Collisions
	integrator *integrators.Euler

	bodies        []*dynamo.Body
	histories     *dynamo.HistorySet
	ids           dynamo.IDGenerator
	merges        []MergeEvent
	step          int
	initialL      dynamo.Vec3
	initialP      dynamo.Vec3
	initialEnergy float64
}

func New() *Simulator {
	return &Simulator{
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		log:        zerolog.Nop(),
		integrator: integrators.NewEuler(),
	}
}

func (s *Simulator) AddMetric(m Metric)           { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)       { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(log zerolog.Logger) { s.log = log }

// Run executes cfg.Steps-1 steps starting from bodies. Any error aborts the
// run; the returned error is a *dynamo.SimulationError carrying the step.
func (s *Simulator) Run(ctx context.Context, bodies []*dynamo.Body, cfg Config) (*Result, error) {
	if err := s.Start(bodies, cfg); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("bodies", len(s.bodies)).
		Int("steps", cfg.Steps).
		Float64("dt", cfg.TimeStep).
		Int("report_freq", cfg.ReportFreq).
		Msg("simulation started")

	for !s.Done() {
		select {
		case <-ctx.Done():
			return nil, &dynamo.SimulationError{Step: s.step + 1, Wrapped: ctx.Err()}
		default:
		}

		if err := s.Step(); err != nil {
			s.log.Error().Err(err).Msg("simulation aborted")
			return nil, err
		}
	}

	result := s.Result()
	s.log.Info().
		Int("bodies", len(result.Bodies)).
		Int("merges", len(result.Merges)).
		Float64("energy_drift", result.EnergyDrift).
		Msg("simulation finished")

	return result, nil
}

// Start validates the configuration and population, takes a private copy of
// bodies and records the initial sample at step 0. Bodies with a zero ID are
// given fresh IDs.
func (s *Simulator) Start(bodies []*dynamo.Body, cfg Config) error {
	if err := s.validate(bodies, cfg); err != nil {
		return &dynamo.SimulationError{Step: 0, Wrapped: err}
	}

	s.cfg = cfg
	s.gravity = physics.NewGravity(cfg.G, cfg.Workers)
	s.collisions = physics.NewCollisions(cfg.CollisionRadius)
	s.ids = dynamo.IDGenerator{}
	s.merges = nil
	s.step = 0

	s.bodies = dynamo.CloneBodies(bodies)
	for _, b := range s.bodies {
		s.ids.Observe(b.ID)
	}
	for _, b := range s.bodies {
		if b.ID == 0 {
			b.ID = s.ids.Next()
		}
	}

	physics.UpdateAngularMomenta(s.bodies)
	s.initialL = physics.TotalAngularMomentum(s.bodies)
	s.initialP = physics.LinearMomentum(s.bodies)
	s.initialEnergy = physics.Energy(s.bodies, cfg.G)

	s.histories = dynamo.NewHistorySet()
	for _, b := range s.bodies {
		s.histories.Open(b, 0, nil)
	}
	if err := s.histories.Sample(0, s.bodies); err != nil {
		return &dynamo.SimulationError{Step: 0, Wrapped: err}
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(0, s.bodies)
	}

	return nil
}

func (s *Simulator) validate(bodies []*dynamo.Body, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(bodies) == 0 {
		return fmt.Errorf("%w: empty population", dynamo.ErrInvalidConfig)
	}

	seen := make(map[dynamo.BodyID]bool, len(bodies))
	var maxID dynamo.BodyID
	unassigned := 0
	for _, b := range bodies {
		if err := b.Validate(); err != nil {
			return err
		}
		if b.ID == 0 {
			unassigned++
			continue
		}
		if seen[b.ID] {
			return fmt.Errorf("%w: duplicate body id %d", dynamo.ErrInvalidConfig, b.ID)
		}
		seen[b.ID] = true
		maxID = max(maxID, b.ID)
	}

	// every unassigned body and every possible merge takes a fresh ID above maxID
	if uint64(maxID) > math.MaxUint64-uint64(unassigned+len(bodies)) {
		return fmt.Errorf("%w: body id %d leaves no room for new ids", dynamo.ErrInvalidConfig, maxID)
	}
	return nil
}

// Step advances the run by one step: merge, accelerate, integrate, then
// refresh angular momentum. Positions are sampled when the step index is a
// multiple of ReportFreq.
func (s *Simulator) Step() error {
	if s.histories == nil {
		return errNotStarted
	}

	i := s.step + 1
	if err := s.advance(i); err != nil {
		return &dynamo.SimulationError{Step: i, Wrapped: err}
	}
	s.step = i

	return nil
}

func (s *Simulator) advance(i int) error {
	bodies, merges := s.collisions.Resolve(s.bodies, &s.ids)
	for _, m := range merges {
		if err := s.recordMerge(i, m); err != nil {
			return err
		}
	}
	s.bodies = bodies

	acc, err := s.gravity.Accelerations(s.bodies)
	if err != nil {
		return err
	}
	if err := s.integrator.Step(s.bodies, acc, s.cfg.TimeStep); err != nil {
		return err
	}
	physics.UpdateAngularMomenta(s.bodies)

	if s.cfg.ValidateState {
		for _, b := range s.bodies {
			if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
				return fmt.Errorf("%w: body %d", dynamo.ErrInvalidState, b.ID)
			}
		}
	}

	if i%s.cfg.ReportFreq == 0 {
		if err := s.histories.Sample(i, s.bodies); err != nil {
			return err
		}
	}

	for _, m := range s.metrics {
		m.Observe(i, s.bodies)
	}
	for _, obs := range s.observers {
		obs.OnStep(i, s.bodies)
	}

	return nil
}

func (s *Simulator) recordMerge(i int, m physics.Merge) error {
	sources := m.SourceIDs()
	for _, id := range sources {
		if !s.histories.Close(id, i) {
			return fmt.Errorf("%w: body %d has no history", dynamo.ErrColliderGroup, id)
		}
	}
	s.histories.Open(m.Result, i, sources)

	ev := MergeEvent{Step: i, Result: m.Result.ID, Sources: sources, Mass: m.Result.Mass}
	s.merges = append(s.merges, ev)

	s.log.Debug().
		Int("step", i).
		Uint64("result", uint64(ev.Result)).
		Interface("sources", sources).
		Float64("mass", ev.Mass).
		Msg("bodies merged")

	for _, obs := range s.observers {
		if mo, ok := obs.(MergeObserver); ok {
			mo.OnMerge(ev)
		}
	}
	return nil
}

// Done reports whether the configured number of steps has been taken.
func (s *Simulator) Done() bool {
	return s.histories != nil && s.step >= s.cfg.Steps-1
}

// StepIndex returns the index of the last completed step.
func (s *Simulator) StepIndex() int { return s.step }

// Bodies returns a copy of the current population.
func (s *Simulator) Bodies() []*dynamo.Body {
	return dynamo.CloneBodies(s.bodies)
}

// Histories returns the histories recorded so far. They keep growing while
// the simulator is stepped.
func (s *Simulator) Histories() []*dynamo.History {
	if s.histories == nil {
		return nil
	}
	return s.histories.All()
}

// Result summarises the run so far.
func (s *Simulator) Result() *Result {
	result := &Result{
		Histories:              s.Histories(),
		Bodies:                 s.Bodies(),
		Merges:                 append([]MergeEvent(nil), s.merges...),
		Metrics:                make(map[string]float64),
		InitialAngularMomentum: s.initialL,
		FinalAngularMomentum:   physics.TotalAngularMomentum(s.bodies),
		InitialMomentum:        s.initialP,
		FinalMomentum:          physics.LinearMomentum(s.bodies),
		StepsTaken:             s.step,
	}

	if s.initialEnergy != 0 {
		final := physics.Energy(s.bodies, s.cfg.G)
		result.EnergyDrift = math.Abs(final-s.initialEnergy) / math.Abs(s.initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result
}
