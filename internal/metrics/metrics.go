// Package metrics exposes Prometheus instrumentation for the simulation
// loop: counters and gauges describing queue depth, event throughput, and
// push-sink health. Metrics are observational only — nothing here feeds
// back into simulation correctness (spec.md §6 logging/metrics are not
// part of the correctness contract).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every metric the simulation loop reports.
type Registry struct {
	EventsProcessed *prometheus.CounterVec
	QueueDepth      prometheus.Gauge
	PushSinkDrops   prometheus.Counter
	SimulatedTime   prometheus.Gauge
}

// NewRegistry creates and registers a fresh metric set against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the global
// default registry across parallel test runs.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		EventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simbroker",
			Name:      "events_processed_total",
			Help:      "Number of simulation events processed, by kind.",
		}, []string{"kind"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simbroker",
			Name:      "queue_depth",
			Help:      "Number of events currently pending on the simulation queue.",
		}),
		PushSinkDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simbroker",
			Name:      "push_sink_drops_total",
			Help:      "Number of best-effort push notifications that failed to deliver.",
		}),
		SimulatedTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simbroker",
			Name:      "simulated_time_ns",
			Help:      "Timestamp of the most recently processed event.",
		}),
	}
	reg.MustRegister(m.EventsProcessed, m.QueueDepth, m.PushSinkDrops, m.SimulatedTime)
	return m
}
