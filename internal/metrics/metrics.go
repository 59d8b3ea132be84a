package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	launchAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vmhuntr",
			Subsystem: "hunt",
			Name:      "attempts_total",
			Help:      "Number of launch attempts per availability domain.",
		}, []string{"domain"},
	)
	launchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vmhuntr",
			Subsystem: "hunt",
			Name:      "outcomes_total",
			Help:      "Launch outcomes per availability domain and classification.",
		}, []string{"domain", "outcome"},
	)
	sweeps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vmhuntr",
			Subsystem: "hunt",
			Name:      "sweeps_total",
			Help:      "Number of completed full-zone sweeps without success.",
		},
	)
	hunting = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vmhuntr",
			Subsystem: "hunt",
			Name:      "running",
			Help:      "Whether the hunt loop is currently running (1) or idle (0).",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{launchAttempts, launchOutcomes, sweeps, hunting}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by the hunt loop. They no-op if Register
// hasn't been called.

func IncAttempt(domain string) {
	if regOK.Load() {
		launchAttempts.WithLabelValues(domain).Inc()
	}
}

func IncOutcome(domain, outcome string) {
	if regOK.Load() {
		launchOutcomes.WithLabelValues(domain, outcome).Inc()
	}
}

func IncSweep() {
	if regOK.Load() {
		sweeps.Inc()
	}
}

func SetHunting(active bool) {
	if regOK.Load() {
		if active {
			hunting.Set(1)
		} else {
			hunting.Set(0)
		}
	}
}
