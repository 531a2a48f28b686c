// Package metrics provides a nil-safe Prometheus registry for the codec
// and grid packages. Metrics are entirely optional: until InitRegistry
// is called, every constructor in this package returns nil, and every
// Record*/Observe* helper is a no-op when its receiver is nil.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var registry *prometheus.Registry

// InitRegistry enables metrics collection and returns the registry
// callers should expose over /metrics. Calling it more than once
// replaces the previous registry.
func InitRegistry() *prometheus.Registry {
	registry = prometheus.NewRegistry()
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return registry != nil
}

// GetRegistry returns the active registry, or nil if metrics are
// disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}
