package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	DefaultScenario   = "random"
	DefaultDt         = 1000.0
	DefaultSteps      = 200000
	DefaultReportFreq = 2000
	DefaultBodies     = 10
)

type Config struct {
	Scenario        string       `yaml:"scenario"`
	Seed            int64        `yaml:"seed"`
	Dt              float64      `yaml:"dt"`
	Steps           int          `yaml:"steps"`
	ReportFreq      int          `yaml:"report_freq"`
	CollisionRadius float64      `yaml:"collision_radius"`
	G               float64      `yaml:"g"`
	Workers         int          `yaml:"workers"`
	ValidateState   bool         `yaml:"validate_state"`
	NumBodies       int          `yaml:"num_bodies"`
	Bodies          []BodyConfig `yaml:"bodies,omitempty"`
}

// BodyConfig describes one body of an explicit population.
type BodyConfig struct {
	Name     string     `yaml:"name"`
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:        DefaultScenario,
		Dt:              DefaultDt,
		Steps:           DefaultSteps,
		ReportFreq:      DefaultReportFreq,
		CollisionRadius: physics.CollisionRadius,
		G:               physics.G,
		NumBodies:       DefaultBodies,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		TimeStep:        c.Dt,
		Steps:           c.Steps,
		ReportFreq:      c.ReportFreq,
		CollisionRadius: c.CollisionRadius,
		G:               c.G,
		Workers:         c.Workers,
		ValidateState:   c.ValidateState,
	}
}

// Validate checks the run parameters and, when present, the explicit
// population. A scenario name is only required without explicit bodies.
func (c *Config) Validate() error {
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	if len(c.Bodies) > 0 {
		for i, b := range c.Bodies {
			if b.Mass <= 0 {
				return fmt.Errorf("%w: body %d (%q) has non-positive mass %g", dynamo.ErrInvalidConfig, i, b.Name, b.Mass)
			}
		}
		return nil
	}
	if _, err := scenario.Named(c.Scenario, c.NumBodies); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	if c.Scenario == "random" && c.NumBodies < 0 {
		return fmt.Errorf("%w: num_bodies must not be negative, got %d", dynamo.ErrInvalidConfig, c.NumBodies)
	}
	return nil
}

// InitialBodies returns the explicit population if one is configured,
// otherwise the scenario's population for Seed.
func (c *Config) InitialBodies() ([]*dynamo.Body, error) {
	if len(c.Bodies) > 0 {
		bodies := make([]*dynamo.Body, len(c.Bodies))
		for i, b := range c.Bodies {
			bodies[i] = dynamo.NewBody(b.Name, vec(b.Position), vec(b.Velocity), b.Mass)
		}
		return bodies, nil
	}

	gen, err := scenario.Named(c.Scenario, c.NumBodies)
	if err != nil {
		return nil, err
	}
	return gen(c.Seed), nil
}

func vec(a [3]float64) dynamo.Vec3 {
	return dynamo.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// BodiesFrom converts a population into its configuration form.
func BodiesFrom(bodies []*dynamo.Body) []BodyConfig {
	out := make([]BodyConfig, len(bodies))
	for i, b := range bodies {
		out[i] = BodyConfig{
			Name:     b.Name,
			Mass:     b.Mass,
			Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
			Velocity: [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
		}
	}
	return out
}
