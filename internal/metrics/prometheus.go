package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "som"

// Prometheus holds the collectors of the training progress.
type Prometheus struct {
	Iterations *prometheus.CounterVec
	Changes    *prometheus.CounterVec
	Samples    *prometheus.CounterVec
	RadiusSq   *prometheus.GaugeVec
	Rate       *prometheus.GaugeVec
	Converged  *prometheus.GaugeVec
}

func NewPrometheusMetrics() Prometheus {
	labels := []string{"run", "strategy"}
	return Prometheus{
		Iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "iterations_total",
				Help:      "completed training iterations",
			}, labels),
		Changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bmu_changes_total",
				Help:      "records that changed their best matching node",
			}, labels),
		Samples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "samples_total",
				Help:      "records presented to the map",
			}, labels),
		RadiusSq: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "radius_sq",
				Help:      "squared neighbourhood radius of the last iteration",
			}, labels),
		Rate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "learning_rate",
				Help:      "learning rate of the last iteration",
			}, labels),
		Converged: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "converged",
				Help:      "1 if the run stopped by convergence, 0 otherwise",
			}, labels),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.Iterations,
		p.Changes,
		p.Samples,
		p.RadiusSq,
		p.Rate,
		p.Converged,
	}
}
