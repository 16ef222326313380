package access

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the simulation service.
type Metrics struct {
	Simulations         *prometheus.CounterVec // labels: outcome={success,invalid_input,data_unavailable,error}
	SimulationDuration  prometheus.Histogram
	RegionFetchDuration prometheus.Histogram
	ZonesScored         prometheus.Counter
	ZonesUnreachable    prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewUnregisteredMetrics()
	prometheus.MustRegister(
		m.Simulations,
		m.SimulationDuration,
		m.RegionFetchDuration,
		m.ZonesScored,
		m.ZonesUnreachable,
	)
	return m
}

// NewUnregisteredMetrics creates metrics without registering them. Used by
// one-shot commands that expose no /metrics endpoint, and by tests.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		Simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siting",
			Name:      "simulations_total",
			Help:      "Hospital siting simulations by outcome.",
		}, []string{"outcome"}),
		SimulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "siting",
			Name:      "simulation_duration_seconds",
			Help:      "Duration of a complete simulation including the region fetch.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		RegionFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "siting",
			Name:      "region_fetch_duration_seconds",
			Help:      "Duration of fetching and parsing the region road graph.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		ZonesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "siting",
			Name:      "zones_scored_total",
			Help:      "Total zones scored across all simulations.",
		}),
		ZonesUnreachable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "siting",
			Name:      "zones_unreachable_total",
			Help:      "Total zones without a reachable hospital.",
		}),
	}
}
