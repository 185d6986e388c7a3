package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SearchMetrics records catalog query latency, outcomes and result sizes.
type SearchMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	results  *prometheus.HistogramVec
}

// NewSearchMetrics registers the search metrics on the provided registerer.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	if reg == nil {
		return &SearchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Duration of catalog searches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_success_total",
		Help: "Successful catalog searches.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_failure_total",
		Help: "Failed catalog searches.",
	}, []string{"operation"})
	results := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_result_total",
		Help:    "Number of records matching a catalog search.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure, results)
	return &SearchMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		results:  results,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *SearchMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// ObserveSuccess increments the success counter and records the match count.
func (m *SearchMetrics) ObserveSuccess(operation string, total int64) {
	if m == nil || m.success == nil {
		return
	}
	label := normalizeLabel(operation)
	m.success.WithLabelValues(label).Inc()
	m.results.WithLabelValues(label).Observe(float64(total))
}

// IncFailure increments the failure counter for the named operation.
func (m *SearchMetrics) IncFailure(operation string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
