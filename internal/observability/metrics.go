package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the impact map.
type Metrics struct {
	// Simulation runs.
	Simulations            *prometheus.CounterVec   // labels: outcome={success,error,rejected,discarded}
	BackendRequestDuration *prometheus.HistogramVec // labels: endpoint={asteroids,simulation}
	SimulationCache        *prometheus.CounterVec   // labels: result={hit,miss}
	AsteroidFallbacks      prometheus.Counter

	// Map rendering.
	OverlaysRendered *prometheus.CounterVec // labels: category
	ActiveAnimations prometheus.Gauge
	SceneSubscribers prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Simulations,
		m.BackendRequestDuration,
		m.SimulationCache,
		m.AsteroidFallbacks,
		m.OverlaysRendered,
		m.ActiveAnimations,
		m.SceneSubscribers,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_map",
			Name:      "simulations_total",
			Help:      "Simulation requests by outcome.",
		}, []string{"outcome"}),
		BackendRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "impact_map",
			Name:      "backend_request_duration_seconds",
			Help:      "Simulation backend request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		SimulationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_map",
			Name:      "simulation_cache_total",
			Help:      "Simulation cache lookups by result.",
		}, []string{"result"}),
		AsteroidFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "impact_map",
			Name:      "asteroid_fallbacks_total",
			Help:      "Times the built-in asteroid presets replaced the backend list.",
		}),
		OverlaysRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_map",
			Name:      "overlays_rendered_total",
			Help:      "Effect overlays created, by category.",
		}, []string{"category"}),
		ActiveAnimations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "impact_map",
			Name:      "active_animations",
			Help:      "Expansion animations currently running.",
		}),
		SceneSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "impact_map",
			Name:      "scene_subscribers",
			Help:      "Browser connections streaming the map scene.",
		}),
	}
}
