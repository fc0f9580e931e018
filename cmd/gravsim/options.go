package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/storage"
)

// runFlags holds the flags shared by every command that starts a simulation.
type runFlags struct {
	preset     string
	configFile string
	scenario   string
	numBodies  int
	seed       int64
	dt         float64
	steps      int
	reportFreq int
	radius     float64
	workers    int
	validate   bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&f.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&f.scenario, "scenario", config.DefaultScenario, "initial population")
	cmd.Flags().IntVar(&f.numBodies, "bodies", config.DefaultBodies, "number of random bodies besides the central mass")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&f.dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().IntVar(&f.steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&f.reportFreq, "report", config.DefaultReportFreq, "sample positions every n steps")
	cmd.Flags().Float64Var(&f.radius, "radius", physics.CollisionRadius, "collision radius (m), 0 disables merging")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "force worker goroutines, 0 for GOMAXPROCS")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "check every body for non-finite state each step")
}

// resolve builds the run configuration: defaults, then the preset, then the
// config file, then any flag the user set explicitly.
func (f *runFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}

	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("scenario") {
		cfg.Scenario = f.scenario
		cfg.Bodies = nil
	}
	if flags.Changed("bodies") {
		cfg.NumBodies = f.numBodies
	}
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("dt") {
		cfg.Dt = f.dt
	}
	if flags.Changed("steps") {
		cfg.Steps = f.steps
	}
	if flags.Changed("report") {
		cfg.ReportFreq = f.reportFreq
	}
	if flags.Changed("radius") {
		cfg.CollisionRadius = f.radius
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("validate") {
		cfg.ValidateState = f.validate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// scenarioLabel names the population of cfg for run IDs and summaries.
func scenarioLabel(cfg *config.Config) string {
	if len(cfg.Bodies) > 0 {
		return "custom"
	}
	return cfg.Scenario
}

// checkRuns validates the --runs flag of the ensemble command.
func checkRuns(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: --runs must be at least 1, got %d", dynamo.ErrInvalidConfig, n)
	}
	return nil
}

// initialL is the total angular momentum of the starting population, the
// vector drawn over exported trajectories.
func initialL(meta *storage.RunMetadata) dynamo.Vec3 {
	return dynamo.Vec3{X: meta.InitialL[0], Y: meta.InitialL[1], Z: meta.InitialL[2]}
}

func openStore(kind, dir string) (storage.Store, error) {
	var st storage.Store
	switch kind {
	case "file", "":
		st = storage.NewFileStore(dir)
	case "sqlite":
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		st = storage.NewSQLStore(filepath.Join(dir, "runs.db"))
	default:
		return nil, fmt.Errorf("unknown store: %s (available: file, sqlite)", kind)
	}
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func newLogger(level string, json bool) zerolog.Logger {
	if json {
		return logging.NewJSON(os.Stderr, level)
	}
	return logging.New(os.Stderr, nil, level)
}
