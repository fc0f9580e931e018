package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Metric accumulates a scalar over a run. Observe is called once for the
// initial population and once after every step.
type Metric interface {
	Name() string
	Observe(step int, bodies []*dynamo.Body)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, bodies []*dynamo.Body)
}

// MergeObserver is implemented by observers that want merge events.
type MergeObserver interface {
	OnMerge(ev MergeEvent)
}

type Config struct {
	TimeStep        float64
	Steps           int
	ReportFreq      int
	CollisionRadius float64
	G               float64
	Workers         int
	ValidateState   bool
}

func DefaultConfig() Config {
	return Config{
		TimeStep:        1000,
		Steps:           10000,
		ReportFreq:      100,
		CollisionRadius: physics.CollisionRadius,
		G:               physics.G,
	}
}

func (c Config) Validate() error {
	if math.IsNaN(c.TimeStep) || math.IsInf(c.TimeStep, 0) || c.TimeStep <= 0 {
		return fmt.Errorf("%w: time step must be positive, got %g", dynamo.ErrInvalidConfig, c.TimeStep)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: number of steps must be positive, got %d", dynamo.ErrInvalidConfig, c.Steps)
	}
	if c.ReportFreq <= 0 {
		return fmt.Errorf("%w: report frequency must be positive, got %d", dynamo.ErrInvalidConfig, c.ReportFreq)
	}
	if math.IsNaN(c.CollisionRadius) || c.CollisionRadius < 0 {
		return fmt.Errorf("%w: collision radius must not be negative, got %g", dynamo.ErrInvalidConfig, c.CollisionRadius)
	}
	if math.IsNaN(c.G) || c.G <= 0 {
		return fmt.Errorf("%w: gravitational constant must be positive, got %g", dynamo.ErrInvalidConfig, c.G)
	}
	return nil
}

// MergeEvent records one merge during a run.
type MergeEvent struct {
	Step    int             `json:"step"`
	Result  dynamo.BodyID   `json:"result"`
	Sources []dynamo.BodyID `json:"sources"`
	Mass    float64         `json:"mass"`
}

type Result struct {
	Histories []*dynamo.History
	Bodies    []*dynamo.Body
	Merges    []MergeEvent
	Metrics   map[string]float64

	// InitialAngularMomentum is the total over the starting population.
	InitialAngularMomentum dynamo.Vec3
	FinalAngularMomentum   dynamo.Vec3
	InitialMomentum        dynamo.Vec3
	FinalMomentum          dynamo.Vec3
	EnergyDrift            float64
	StepsTaken             int
}
