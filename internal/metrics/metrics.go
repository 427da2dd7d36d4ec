// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SubmitsTotal counts submit() calls by result: rejected, dispatched,
	// or ignored.
	SubmitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_submits_total",
			Help: "Login form submit calls by result.",
		}, []string{"result"})

	// ValidationFailuresTotal counts failing fields on rejected submits.
	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_validation_failures_total",
			Help: "Field validation failures on submit, by field and kind.",
		}, []string{"field", "kind"})

	// AttemptsTotal counts finished submission handler calls by outcome.
	AttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Finished submission attempts by outcome.",
		}, []string{"outcome"})

	AttemptDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "login_attempt_duration_seconds",
			Help:    "Wall time of submission handler calls.",
			Buckets: prometheus.DefBuckets,
		})

	SubmissionsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "login_submissions_in_flight",
			Help: "Forms currently in the InProgress state.",
		})

	MountedForms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "login_mounted_forms",
			Help: "Number of form instances currently held in memory.",
		})

	UnmountTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_unmount_total",
			Help: "Form instances discarded, by reason.",
		}, []string{"reason"})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"})

	HTTPResponseSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses in bytes.",
			Buckets: prometheus.ExponentialBuckets(128, 4, 7),
		}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(
		SubmitsTotal,
		ValidationFailuresTotal,
		AttemptsTotal,
		AttemptDuration,
		SubmissionsInFlight,
		MountedForms,
		UnmountTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPResponseSize,
	)
}
