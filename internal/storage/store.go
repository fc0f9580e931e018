// Package storage persists finished runs: their parameters, metrics, merge
// events and sampled histories.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// ErrRunNotFound is returned when a run ID is unknown to a store.
var ErrRunNotFound = errors.New("storage: run not found")

// Store is implemented by every run backend.
type Store interface {
	Init() error
	Save(meta RunMetadata, result *sim.Result) (string, error)
	List() ([]RunMetadata, error)
	Load(runID string) (*RunMetadata, error)
	LoadHistories(runID string) ([]*dynamo.History, error)
	Close() error
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	ReportFreq  int                `json:"report_freq"`
	NumBodies   int                `json:"num_bodies"`
	FinalBodies int                `json:"final_bodies"`
	Metrics     map[string]float64 `json:"metrics"`
	Merges      []sim.MergeEvent   `json:"merges"`
	InitialL    [3]float64         `json:"initial_l"`
	FinalL      [3]float64         `json:"final_l"`
}

// NewMetadata describes a run of cfg over a population of numBodies.
// Outcome fields are filled in by Save.
func NewMetadata(scenario string, seed int64, numBodies int, cfg sim.Config) RunMetadata {
	return RunMetadata{
		Scenario:   scenario,
		Seed:       seed,
		Dt:         cfg.TimeStep,
		Steps:      cfg.Steps,
		ReportFreq: cfg.ReportFreq,
		NumBodies:  numBodies,
	}
}

// complete stamps meta with an ID and the outcome of result.
func complete(meta RunMetadata, result *sim.Result) RunMetadata {
	now := time.Now().UTC()
	name := meta.Scenario
	if name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	meta.Timestamp = now
	meta.FinalBodies = len(result.Bodies)
	meta.Metrics = result.Metrics
	meta.Merges = result.Merges
	meta.InitialL = array(result.InitialAngularMomentum)
	meta.FinalL = array(result.FinalAngularMomentum)
	return meta
}

func array(v dynamo.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// Lineage is the non-sample part of a history.
type Lineage struct {
	ID         dynamo.BodyID   `json:"id"`
	Name       string          `json:"name"`
	MergedFrom []dynamo.BodyID `json:"merged_from,omitempty"`
	StartStep  int             `json:"start_step"`
	EndStep    int             `json:"end_step"`
}

func lineageOf(h *dynamo.History) Lineage {
	return Lineage{
		ID:         h.ID,
		Name:       h.Name,
		MergedFrom: h.MergedFrom,
		StartStep:  h.StartStep,
		EndStep:    h.EndStep,
	}
}

func (l Lineage) history() *dynamo.History {
	return &dynamo.History{
		ID:         l.ID,
		Name:       l.Name,
		MergedFrom: l.MergedFrom,
		StartStep:  l.StartStep,
		EndStep:    l.EndStep,
	}
}
