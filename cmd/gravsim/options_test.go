package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/storage"
)

func command(t *testing.T, args ...string) (*cobra.Command, *runFlags) {
	t.Helper()
	var f runFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, &f
}

func TestResolve_Defaults(t *testing.T) {
	cmd, f := command(t)
	cfg, err := f.resolve(cmd)
	require.NoError(t, err)

	assert.Equal(t, "random", cfg.Scenario)
	assert.Equal(t, 10, cfg.NumBodies)
	assert.Equal(t, 1000.0, cfg.Dt)
	assert.Equal(t, physics.CollisionRadius, cfg.CollisionRadius)
}

func TestResolve_PresetThenFlags(t *testing.T) {
	cmd, f := command(t, "--preset", "sun-planet", "--steps", "50")
	cfg, err := f.resolve(cmd)
	require.NoError(t, err)

	assert.Equal(t, "sun-planet", cfg.Scenario)
	assert.Equal(t, 50, cfg.Steps)
	assert.Equal(t, 100, cfg.ReportFreq)
}

func TestResolve_ConfigFileKeepsUnsetFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenario: binary\ndt: 500\nsteps: 20\nreport_freq: 5\n"), 0644))

	cmd, f := command(t, "--config", path, "--report", "10")
	cfg, err := f.resolve(cmd)
	require.NoError(t, err)

	assert.Equal(t, "binary", cfg.Scenario)
	assert.Equal(t, 500.0, cfg.Dt)
	assert.Equal(t, 20, cfg.Steps)
	assert.Equal(t, 10, cfg.ReportFreq)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown preset", []string{"--preset", "nope"}},
		{"unknown scenario", []string{"--scenario", "nope"}},
		{"zero dt", []string{"--dt", "0"}},
		{"negative radius", []string{"--radius", "-1"}},
		{"missing config", []string{"--config", "/nonexistent/run.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := command(t, tt.args...)
			_, err := f.resolve(cmd)
			assert.Error(t, err)
		})
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	st, err := openStore("file", dir)
	require.NoError(t, err)
	assert.IsType(t, &storage.FileStore{}, st)
	require.NoError(t, st.Close())

	st, err = openStore("sqlite", filepath.Join(dir, "db"))
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLStore{}, st)
	require.NoError(t, st.Close())
	assert.FileExists(t, filepath.Join(dir, "db", "runs.db"))

	_, err = openStore("redis", dir)
	assert.Error(t, err)
}

func TestCheckRuns(t *testing.T) {
	tests := []struct {
		runs    int
		wantErr bool
	}{
		{1, false},
		{8, false},
		{0, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := checkRuns(tt.runs)
		if tt.wantErr {
			assert.ErrorIs(t, err, dynamo.ErrInvalidConfig, "runs=%d", tt.runs)
		} else {
			assert.NoError(t, err, "runs=%d", tt.runs)
		}
	}
}

func TestInitialL(t *testing.T) {
	meta := &storage.RunMetadata{
		InitialL: [3]float64{1, 2, 3},
		FinalL:   [3]float64{4, 5, 6},
	}
	assert.Equal(t, dynamo.Vec3{X: 1, Y: 2, Z: 3}, initialL(meta))
}
