package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for the portal server.
type Metrics struct {
	Navigations    *prometheus.CounterVec // labels: page
	Resolutions    *prometheus.CounterVec // labels: kind
	ActiveSessions prometheus.Gauge
	EventStreams   prometheus.Gauge
}

// NewMetrics creates and registers all portal metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disasterhub",
			Name:      "navigations_total",
			Help:      "Session navigations by target page.",
		}, []string{"page"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disasterhub",
			Name:      "bundle_resolutions_total",
			Help:      "Content bundles resolved by kind.",
		}, []string{"kind"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disasterhub",
			Name:      "active_sessions",
			Help:      "Sessions currently held by the registry.",
		}),
		EventStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disasterhub",
			Name:      "event_streams",
			Help:      "Open server-sent event streams.",
		}),
	}

	prometheus.MustRegister(
		m.Navigations,
		m.Resolutions,
		m.ActiveSessions,
		m.EventStreams,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Navigations:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disasterhub", Name: "navigations_total"}, []string{"page"}),
		Resolutions:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disasterhub", Name: "bundle_resolutions_total"}, []string{"kind"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "disasterhub", Name: "active_sessions"}),
		EventStreams:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "disasterhub", Name: "event_streams"}),
	}
}
