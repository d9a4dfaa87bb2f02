// Package metrics records client-side request metrics for backend calls.
package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects request counts and latencies per method and route.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cleared  prometheus.Counter
}

// NewRecorder creates a Recorder backed by its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "miseventos",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Backend requests by method, route and status code (0 = no response).",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "miseventos",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "miseventos",
			Subsystem: "client",
			Name:      "credentials_cleared_total",
			Help:      "Times the bearer token was dropped after a 401.",
		}),
	}
	r.registry.MustRegister(r.requests, r.duration, r.cleared)
	return r
}

// ObserveRequest records one completed (or failed) request.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CredentialsCleared records a 401-triggered token drop.
func (r *Recorder) CredentialsCleared() {
	if r == nil {
		return
	}
	r.cleared.Inc()
}

// Requests returns the counter for a method/route/status triple.
func (r *Recorder) Requests(method, route string, status int) prometheus.Counter {
	return r.requests.WithLabelValues(method, route, strconv.Itoa(status))
}

// Cleared returns the 401 counter.
func (r *Recorder) Cleared() prometheus.Counter {
	return r.cleared
}

// Dump returns a human-readable snapshot of all counters (for logging).
func (r *Recorder) Dump() (string, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}

	var out []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			out = append(out, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(out)
	return strings.Join(out, "\n"), nil
}
