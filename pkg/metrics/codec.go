package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CodecMetrics observes SOE/Gateway parse and serialize calls. Pass nil
// to a codec's metrics field to disable collection with zero overhead.
type CodecMetrics interface {
	ObserveParse(protocol, opcode string, duration time.Duration, err bool)
	ObserveSerialize(protocol, opcode string, duration time.Duration)
}

type prometheusCodecMetrics struct {
	parseDuration     *prometheus.HistogramVec
	parseErrors       *prometheus.CounterVec
	serializeDuration *prometheus.HistogramVec
}

// NewCodecMetrics returns a Prometheus-backed CodecMetrics, or nil if
// InitRegistry has not been called.
func NewCodecMetrics() CodecMetrics {
	if !IsEnabled() {
		return nil
	}
	reg := GetRegistry()
	return &prometheusCodecMetrics{
		parseDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "soeframe_codec_parse_duration_seconds",
				Help: "Duration of packet parse calls by protocol and opcode.",
			},
			[]string{"protocol", "opcode"},
		),
		parseErrors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "soeframe_codec_parse_errors_total",
				Help: "Count of parse calls that returned an error, by protocol and opcode.",
			},
			[]string{"protocol", "opcode"},
		),
		serializeDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "soeframe_codec_serialize_duration_seconds",
				Help: "Duration of packet serialize calls by protocol and opcode.",
			},
			[]string{"protocol", "opcode"},
		),
	}
}

func (m *prometheusCodecMetrics) ObserveParse(protocol, opcode string, duration time.Duration, err bool) {
	if m == nil {
		return
	}
	m.parseDuration.WithLabelValues(protocol, opcode).Observe(duration.Seconds())
	if err {
		m.parseErrors.WithLabelValues(protocol, opcode).Inc()
	}
}

func (m *prometheusCodecMetrics) ObserveSerialize(protocol, opcode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.serializeDuration.WithLabelValues(protocol, opcode).Observe(duration.Seconds())
}

// ObserveParse calls m.ObserveParse if m is non-nil, matching the
// package's zero-overhead-when-disabled convention for call sites that
// hold an interface value rather than a concrete pointer.
func ObserveParse(m CodecMetrics, protocol, opcode string, duration time.Duration, err bool) {
	if m != nil {
		m.ObserveParse(protocol, opcode, duration, err)
	}
}

// ObserveSerialize calls m.ObserveSerialize if m is non-nil.
func ObserveSerialize(m CodecMetrics, protocol, opcode string, duration time.Duration) {
	if m != nil {
		m.ObserveSerialize(protocol, opcode, duration)
	}
}
