package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

func backends(t *testing.T) map[string]Store {
	dir := t.TempDir()
	return map[string]Store{
		"file":   NewFileStore(filepath.Join(dir, "runs")),
		"sqlite": NewSQLStore(filepath.Join(dir, "runs.db")),
		"memory": NewSQLStore(""),
	}
}

func mergingRun(t *testing.T) (RunMetadata, *sim.Result) {
	cfg := sim.DefaultConfig()
	cfg.Steps = 301

	bodies := []*dynamo.Body{
		dynamo.NewBody("a", dynamo.Vec3{}, dynamo.Vec3{X: 100}, 1e24),
		dynamo.NewBody("b", dynamo.Vec3{X: 1e10}, dynamo.Vec3{X: -100}, 3e24),
		dynamo.NewBody("c", dynamo.Vec3{Y: 5e11}, dynamo.Vec3{Z: 1.5}, 1e20),
	}

	s := sim.New()
	s.AddMetric(&constMetric{})
	result, err := s.Run(context.Background(), bodies, cfg)
	require.NoError(t, err)
	require.Len(t, result.Merges, 1)

	return NewMetadata("head-on", 42, len(bodies), cfg), result
}

type constMetric struct{}

func (constMetric) Name() string                { return "energy_drift" }
func (constMetric) Observe(int, []*dynamo.Body) {}
func (constMetric) Value() float64              { return 1.5e-7 }
func (constMetric) Reset()                      {}

func TestStoreSaveLoad(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Init())
			defer st.Close()

			meta, result := mergingRun(t)
			runID, err := st.Save(meta, result)
			require.NoError(t, err)
			assert.NotEmpty(t, runID)

			loaded, err := st.Load(runID)
			require.NoError(t, err)

			assert.Equal(t, runID, loaded.ID)
			assert.Equal(t, "head-on", loaded.Scenario)
			assert.Equal(t, int64(42), loaded.Seed)
			assert.Equal(t, 301, loaded.Steps)
			assert.Equal(t, 3, loaded.NumBodies)
			assert.Equal(t, 2, loaded.FinalBodies)
			assert.Equal(t, 1.5e-7, loaded.Metrics["energy_drift"])
			assert.Equal(t, result.Merges, loaded.Merges)
			assert.Equal(t, [3]float64{
				result.InitialAngularMomentum.X,
				result.InitialAngularMomentum.Y,
				result.InitialAngularMomentum.Z,
			}, loaded.InitialL)
			assert.False(t, loaded.Timestamp.IsZero())
		})
	}
}

func TestStoreLoadHistories(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Init())
			defer st.Close()

			meta, result := mergingRun(t)
			runID, err := st.Save(meta, result)
			require.NoError(t, err)

			histories, err := st.LoadHistories(runID)
			require.NoError(t, err)
			require.Len(t, histories, len(result.Histories))

			for i, want := range result.Histories {
				got := histories[i]
				assert.Equal(t, want.ID, got.ID)
				assert.Equal(t, want.Name, got.Name)
				assert.Equal(t, want.StartStep, got.StartStep)
				assert.Equal(t, want.EndStep, got.EndStep)
				assert.Equal(t, want.MergedFrom, got.MergedFrom)
				assert.Equal(t, want.Steps, got.Steps)
				assert.Equal(t, want.Xs, got.Xs)
				assert.Equal(t, want.Ys, got.Ys)
				assert.Equal(t, want.Zs, got.Zs)
			}
		})
	}
}

func TestStoreList(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Init())
			defer st.Close()

			runs, err := st.List()
			require.NoError(t, err)
			assert.Empty(t, runs)

			meta, result := mergingRun(t)
			first, err := st.Save(meta, result)
			require.NoError(t, err)
			second, err := st.Save(meta, result)
			require.NoError(t, err)
			assert.NotEqual(t, first, second)

			runs, err = st.List()
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, first, runs[0].ID)
			assert.Equal(t, second, runs[1].ID)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Init())
			defer st.Close()

			_, err := st.Load("missing")
			assert.True(t, errors.Is(err, ErrRunNotFound), "got %v", err)

			_, err = st.LoadHistories("missing")
			assert.True(t, errors.Is(err, ErrRunNotFound), "got %v", err)
		})
	}
}

func TestFileStoreList_MissingDir(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "never-created"))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}
