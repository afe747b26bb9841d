package metricsreg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// A dedicated registry keeps the exported metrics limited to what this
// service registers itself, instead of everything the default prometheus
// registry picks up.
var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)
)

// Factory returns the promauto factory bound to the service registry.
func Factory() promauto.Factory {
	return factory
}

// Registry returns the service-wide prometheus registry.
func Registry() *prometheus.Registry {
	return registry
}
