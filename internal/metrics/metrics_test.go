package metrics

import (
	"testing"

	"github.com/drakos74/det-som/internal/som"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver(t *testing.T) {
	m := New().MustRegister(prometheus.NewRegistry())

	ds := som.NewDataset(
		som.NewRecord([]float64{0}),
		som.NewRecord([]float64{0}),
		som.NewRecord([]float64{1}),
		som.NewRecord([]float64{1}),
	)
	cfg := som.DefaultConfig(1)
	cfg.Rows = 4
	cfg.Cols = 4
	sm, err := som.New(ds, cfg)
	require.NoError(t, err)

	status := sm.WithObserver(m.For("run-1")).Train()
	require.True(t, status.Converged)

	labels := []string{"run-1", string(som.StaggeredSelection)}
	p := m.prometheus
	assert.Equal(t, float64(status.Iterations), testutil.ToFloat64(p.Iterations.WithLabelValues(labels...)))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.Changes.WithLabelValues(labels...)))
	assert.Equal(t, float64(4*status.Iterations), testutil.ToFloat64(p.Samples.WithLabelValues(labels...)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Converged.WithLabelValues(labels...)))
	assert.Greater(t, testutil.ToFloat64(p.Rate.WithLabelValues(labels...)), 0.0)
	assert.Greater(t, testutil.ToFloat64(p.RadiusSq.WithLabelValues(labels...)), 0.0)
}

func TestObserver_Events(t *testing.T) {
	m := New()
	obs := m.For("run-2")
	obs.OnIteration(som.IterationStat{
		Strategy: som.RandomSelection,
		Samples:  10,
		Changes:  3,
		RadiusSq: 2.5,
	})
	obs.OnFinish(som.Status{Strategy: som.RandomSelection})

	labels := []string{"run-2", string(som.RandomSelection)}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Iterations.WithLabelValues(labels...)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.prometheus.Changes.WithLabelValues(labels...)))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.prometheus.RadiusSq.WithLabelValues(labels...)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.prometheus.Converged.WithLabelValues(labels...)))
}

func TestObserver_Forced(t *testing.T) {
	m := New().MustRegister(prometheus.NewRegistry())

	ds := som.NewDataset(
		som.NewRecord([]float64{0}),
		som.NewRecord([]float64{0}),
		som.NewRecord([]float64{1}),
		som.NewRecord([]float64{1}),
	)
	cfg := som.DefaultConfig(1)
	cfg.Rows = 4
	cfg.Cols = 4
	cfg.ForceIterations = true
	sm, err := som.New(ds, cfg)
	require.NoError(t, err)

	status := sm.WithObserver(m.For("run-3")).Train()
	require.False(t, status.Converged)
	require.Equal(t, ds.Size(), status.Iterations)

	labels := []string{"run-3", string(som.StaggeredSelection)}
	p := m.prometheus
	assert.Equal(t, float64(ds.Size()), testutil.ToFloat64(p.Iterations.WithLabelValues(labels...)))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.Changes.WithLabelValues(labels...)))
	assert.Equal(t, float64(ds.Size()*ds.Size()), testutil.ToFloat64(p.Samples.WithLabelValues(labels...)))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.Converged.WithLabelValues(labels...)))
}
