package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GridMetrics observes spatial grid occupancy and query fan-out. Pass
// nil to disable collection with zero overhead.
type GridMetrics interface {
	RecordEntityCount(count int)
	RecordCellsTouched(op string, n int)
}

type prometheusGridMetrics struct {
	entityCount   prometheus.Gauge
	cellsTouched  *prometheus.HistogramVec
}

// NewGridMetrics returns a Prometheus-backed GridMetrics, or nil if
// InitRegistry has not been called.
func NewGridMetrics() GridMetrics {
	if !IsEnabled() {
		return nil
	}
	reg := GetRegistry()
	return &prometheusGridMetrics{
		entityCount: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "soeframe_grid_entity_count",
			Help: "Number of entities currently tracked by the spatial grid.",
		}),
		cellsTouched: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "soeframe_grid_cells_touched",
				Help: "Number of cells visited per grid operation.",
			},
			[]string{"op"},
		),
	}
}

func (m *prometheusGridMetrics) RecordEntityCount(count int) {
	if m == nil {
		return
	}
	m.entityCount.Set(float64(count))
}

func (m *prometheusGridMetrics) RecordCellsTouched(op string, n int) {
	if m == nil {
		return
	}
	m.cellsTouched.WithLabelValues(op).Observe(float64(n))
}

// RecordEntityCount calls m.RecordEntityCount if m is non-nil.
func RecordEntityCount(m GridMetrics, count int) {
	if m != nil {
		m.RecordEntityCount(count)
	}
}

// RecordCellsTouched calls m.RecordCellsTouched if m is non-nil.
func RecordCellsTouched(m GridMetrics, op string, n int) {
	if m != nil {
		m.RecordCellsTouched(op, n)
	}
}
