package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated by the data store.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	mutations       *prometheus.CounterVec
	persistFailures prometheus.Counter
	persistDuration prometheus.Histogram
	clients         prometheus.Gauge
	orders          prometheus.Gauge
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gig",
			Name:      "mutations_total",
			Help:      "Data store mutations by change kind.",
		}, []string{"kind"}),
		persistFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gig",
			Name:      "persist_failures_total",
			Help:      "Failed attempts to write the data file.",
		}),
		persistDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gig",
			Name:      "persist_duration_seconds",
			Help:      "Time spent writing the data file.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "gig",
			Name:      "clients",
			Help:      "Clients currently held by the data store.",
		}),
		orders: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "gig",
			Name:      "orders",
			Help:      "Orders currently held by the data store.",
		}),
	}
}

// Mutation counts one applied change of the given kind.
func (m *Metrics) Mutation(kind string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(kind).Inc()
}

// Persisted records a write attempt and its outcome.
func (m *Metrics) Persisted(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.persistDuration.Observe(d.Seconds())
	if err != nil {
		m.persistFailures.Inc()
	}
}

// DatasetSize records the current number of clients and orders.
func (m *Metrics) DatasetSize(clients, orders int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(clients))
	m.orders.Set(float64(orders))
}
