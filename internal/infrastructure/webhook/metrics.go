package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the delivery worker
type Metrics struct {
	attempts *prometheus.CounterVec
	latency  prometheus.Histogram
	claimed  prometheus.Counter
}

// NewMetrics registers the webhook collectors on reg
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "delivery_attempts_total",
			Help:      "Webhook delivery attempts by outcome",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "delivery_duration_seconds",
			Help:      "Duration of webhook HTTP calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		claimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "deliveries_claimed_total",
			Help:      "Deliveries claimed from the queue",
		}),
	}
	reg.MustRegister(m.attempts, m.latency, m.claimed)
	return m
}

func (m *Metrics) observe(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(outcome).Inc()
	m.latency.Observe(seconds)
}

func (m *Metrics) addClaimed(n int) {
	if m == nil {
		return
	}
	m.claimed.Add(float64(n))
}
