package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cache activity per key kind. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	evictions    *prometheus.CounterVec
	pageRequests *prometheus.CounterVec
}

// NewMetrics creates the cache collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogpress",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by key kind and result (hit, miss).",
		}, []string{"kind", "result"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogpress",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Cache entries removed by reason (expired, invalidated, cleared).",
		}, []string{"reason"}),
		pageRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogpress",
			Subsystem: "page_cache",
			Name:      "requests_total",
			Help:      "Valkey response cache lookups by key kind and result (hit, miss, error).",
		}, []string{"kind", "result"}),
	}
	reg.MustRegister(m.requests, m.evictions, m.pageRequests)
	return m
}

func (m *Metrics) hit(key string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(keyKind(key), "hit").Inc()
}

func (m *Metrics) miss(key string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(keyKind(key), "miss").Inc()
}

func (m *Metrics) evicted(reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.evictions.WithLabelValues(reason).Add(float64(n))
}

func (m *Metrics) page(key, result string) {
	if m == nil {
		return
	}
	m.pageRequests.WithLabelValues(keyKind(key), result).Inc()
}
