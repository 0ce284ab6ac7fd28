package simulator

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/growlab/growlab/internal/model"
)

// Metrics tracks what the engine predicts, labelled by greenhouse and
// crop so a dashboard can tell a struggling zone from a struggling crop.
type Metrics struct {
	simulations *prometheus.CounterVec
	nonViable   *prometheus.CounterVec
	yieldPct    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growlab_simulations_total",
			Help: "Simulations run, by greenhouse and crop.",
		}, []string{"greenhouse", "crop"}),
		nonViable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growlab_simulations_nonviable_total",
			Help: "Simulations that predicted crop death, by greenhouse and crop.",
		}, []string{"greenhouse", "crop"}),
		yieldPct: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "growlab_simulation_yield_pct",
			Help:    "Predicted yield percentage distribution.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.simulations, m.nonViable, m.yieldPct)
	}
	return m
}

func (m *Metrics) Observe(evt model.SimulationEvent) {
	labels := prometheus.Labels{"greenhouse": evt.GreenhouseID, "crop": string(evt.Crop)}
	m.simulations.With(labels).Inc()
	if !evt.Viable {
		m.nonViable.With(labels).Inc()
	}
	m.yieldPct.Observe(float64(evt.YieldPct))
}
