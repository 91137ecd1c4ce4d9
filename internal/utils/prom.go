package utils

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/marketing-dashboard/internal/dashboard"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	Requests  *prometheus.CounterVec
	Latency   *prometheus.HistogramVec
	Mutations *prometheus.CounterVec
	Derive    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "mutations_total",
			Help:      "Dashboard state mutations by operation.",
		}, []string{"op"}),
		Derive: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "derive_duration_seconds",
			Help:      "Time spent in each derivation stage.",
			Buckets:   []float64{.00001, .0001, .001, .01, .1},
		}, []string{"stage"}),
	}
	reg.MustRegister(m.Requests, m.Latency, m.Mutations, m.Derive,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// Observer feeds dashboard derivations and mutations into the collectors.
func (m *Metrics) Observer() dashboard.Observer {
	return dashboard.Observer{
		Stage: func(stage string, d time.Duration) {
			m.Derive.WithLabelValues(stage).Observe(d.Seconds())
		},
		Mutation: func(op string) {
			m.Mutations.WithLabelValues(op).Inc()
		},
	}
}
