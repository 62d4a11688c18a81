package main

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	matches  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elobot",
			Name:      "matches_total",
			Help:      "Matches reported, confirmed and deleted.",
		}, []string{"transition"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elobot",
			Name:      "failures_total",
			Help:      "Failed ladder operations by operation and error kind.",
		}, []string{"operation", "kind"}),
	}

	reg.MustRegister(m.matches, m.failures)
	return m
}

func (m *metrics) transition(name string) {
	if m == nil {
		return
	}
	m.matches.WithLabelValues(name).Inc()
}

func (m *metrics) failure(op string, err error) {
	if m == nil || err == nil {
		return
	}
	m.failures.WithLabelValues(op, errorKind(err)).Inc()
}

func errorKind(err error) string {
	switch {
	case isNotFound(err):
		return "not_found"
	case isUnauthorized(err):
		return "unauthorized"
	case isInvalidMatch(err):
		return "invalid_match"
	case isDuplicate(err):
		return "duplicate"
	}

	return "storage"
}

// serveMetrics exposes reg on addr until the listener fails.
func serveMetrics(addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return errors.Wrap(http.ListenAndServe(addr, mux), "metrics listener stopped")
}
