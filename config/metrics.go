package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reload metrics are registered on the default registry so the
// actuator's /metrics endpoint picks them up without extra wiring.
var (
	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gimlet",
		Subsystem: "config",
		Name:      "reloads_total",
		Help:      "Configuration reloads partitioned by outcome.",
	}, []string{"outcome"})

	layerKeys = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gimlet",
		Subsystem: "config",
		Name:      "layer_keys",
		Help:      "Top-level keys loaded per source at the last successful reload.",
	}, []string{"source"})
)
