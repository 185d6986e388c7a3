package metrics

import "github.com/prometheus/client_golang/prometheus"

// ImportMetrics counts CSV import rows by outcome.
type ImportMetrics struct {
	rows *prometheus.CounterVec
}

// NewImportMetrics registers the import counters on the provided registerer.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Vehicle import rows by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(rows)
	return &ImportMetrics{rows: rows}
}

// AddRows adds n rows to the outcome counter (inserted, updated, skipped, failed).
func (m *ImportMetrics) AddRows(outcome string, n int) {
	if m == nil || m.rows == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}
