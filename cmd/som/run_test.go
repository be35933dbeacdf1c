package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/det-som/infra/config"
	"github.com/drakos74/det-som/internal/data"
	"github.com/drakos74/det-som/internal/export"
	"github.com/drakos74/det-som/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clouds = `x,y,class
0.1,0.1,cumulus
0.15,0.12,cumulus
0.9,0.85,stratus
0.88,0.95,stratus
0.5,0.45,cirrus
0.52,0.5,cirrus
`

func experimentFor(t *testing.T) config.Experiment {
	dir := t.TempDir()
	input := filepath.Join(dir, "clouds.csv")
	require.NoError(t, os.WriteFile(input, []byte(clouds), 0600))
	exp := config.DefaultExperiment(input)
	exp.Headers = true
	exp.Output = filepath.Join(dir, "results")
	exp.Storage = filepath.Join(dir, "storage")
	return exp
}

func TestRun(t *testing.T) {

	type test struct {
		random bool
		seed   int64
	}

	tests := map[string]test{
		"staggered": {},
		"random":    {random: true, seed: 7},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			exp := experimentFor(t)
			exp.Map.RandomSelection = tt.random
			exp.Seed = tt.seed
			exp.Baseline = 10
			result, err := Run(exp, Shard(exp))
			require.NoError(t, err)

			assert.Equal(t, "clouds", result.Name)
			assert.NotEmpty(t, result.Run)
			assert.True(t, result.Status.Iterations > 0)
			assert.Equal(t, 6, result.Quality.Samples)
			// k-means for the 4x3 grid needs more samples than the data set has
			assert.False(t, result.HasBase)

			assert.Equal(t, export.WeightsFile(exp.Output, exp.Input), result.Weights)
			_, err = os.Stat(result.Weights)
			require.NoError(t, err)

			require.NotNil(t, result.Snapshot)
			p, err := Shard(exp)(exp.Name)
			require.NoError(t, err)
			snapshot, err := export.Load(p, *result.Snapshot)
			require.NoError(t, err)
			assert.Equal(t, result.Run, snapshot.Run)
			assert.Equal(t, result.Map.Prototypes(), snapshot.Prototypes)

			var buf bytes.Buffer
			Report(&buf, result)
			assert.Contains(t, buf.String(), result.Run)
			assert.Contains(t, buf.String(), "Elapsed time")
		})
	}
}

func TestRun_Baseline(t *testing.T) {
	exp := experimentFor(t)
	exp.Storage = ""
	exp.Map.Rows = 1
	exp.Map.Cols = 3
	exp.Baseline = 20

	result, err := Run(exp, Shard(exp))
	require.NoError(t, err)
	assert.True(t, result.HasBase)
	assert.True(t, result.Baseline >= 0)
	require.NotNil(t, result.Snapshot)

	// without a storage directory snapshots are discarded
	p, err := Shard(exp)(exp.Name)
	require.NoError(t, err)
	_, err = export.Load(p, *result.Snapshot)
	assert.True(t, errors.Is(err, storage.NotFoundErr))
}

func TestRun_Deterministic(t *testing.T) {
	exp := experimentFor(t)
	first, err := Run(exp, Shard(exp))
	require.NoError(t, err)
	second, err := Run(exp, Shard(exp))
	require.NoError(t, err)
	assert.Equal(t, first.Map.Prototypes(), second.Map.Prototypes())
	assert.Equal(t, first.Status, second.Status)
}

func TestRun_MissingInput(t *testing.T) {
	exp := config.DefaultExperiment(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := Run(exp, Shard(exp))
	assert.True(t, errors.Is(err, data.ErrLoad))
}
