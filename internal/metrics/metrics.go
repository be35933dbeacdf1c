package metrics

import (
	"sync"

	"github.com/drakos74/det-som/internal/som"
	"github.com/prometheus/client_golang/prometheus"
)

var Observer = &Metrics{
	mutex:      new(sync.RWMutex),
	prometheus: NewPrometheusMetrics(),
}

func init() {
	Observer.MustRegister(prometheus.DefaultRegisterer)
}

type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
}

// New creates a new set of metrics, not registered anywhere.
func New() *Metrics {
	return &Metrics{
		mutex:      new(sync.RWMutex),
		prometheus: NewPrometheusMetrics(),
	}
}

// MustRegister registers all collectors with the given registerer.
func (m *Metrics) MustRegister(registerer prometheus.Registerer) *Metrics {
	registerer.MustRegister(m.prometheus.collectors()...)
	return m
}

// For returns an observer reporting under the given run id.
func (m *Metrics) For(run string) som.Observer {
	return &runObserver{
		run:     run,
		metrics: m,
	}
}

type runObserver struct {
	run     string
	metrics *Metrics
}

func (r *runObserver) OnIteration(stat som.IterationStat) {
	r.metrics.mutex.Lock()
	defer r.metrics.mutex.Unlock()
	labels := []string{r.run, string(stat.Strategy)}
	p := r.metrics.prometheus
	p.Iterations.WithLabelValues(labels...).Inc()
	p.Changes.WithLabelValues(labels...).Add(float64(stat.Changes))
	p.Samples.WithLabelValues(labels...).Add(float64(stat.Samples))
	p.RadiusSq.WithLabelValues(labels...).Set(stat.RadiusSq)
	p.Rate.WithLabelValues(labels...).Set(stat.LearningRate)
}

func (r *runObserver) OnFinish(status som.Status) {
	r.metrics.mutex.Lock()
	defer r.metrics.mutex.Unlock()
	converged := 0.0
	if status.Converged {
		converged = 1.0
	}
	r.metrics.prometheus.Converged.WithLabelValues(r.run, string(status.Strategy)).Set(converged)
}
