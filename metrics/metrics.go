// Package metrics provides Prometheus metrics for the safety service:
// HTTP request counters and latency, plus domain counters for
// prescription checks, emitted alerts and reference-data reloads.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	PrescriptionChecksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prescription_checks_total",
			Help: "Prescription safety checks evaluated",
		},
	)

	AlertsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safety_alerts_emitted_total",
			Help: "Safety alerts emitted, by type and severity",
		},
		[]string{"type", "severity"},
	)

	ReferenceReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_reloads_total",
			Help: "Reference-data reload attempts, by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(PrescriptionChecksTotal)
	prometheus.MustRegister(AlertsEmittedTotal)
	prometheus.MustRegister(ReferenceReloadsTotal)
}
