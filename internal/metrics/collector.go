// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopwizard_updates_total",
			Help: "Webhook updates received, labeled by kind",
		},
		[]string{"kind"},
	)
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopwizard_commands_total",
			Help: "Bot commands handled, labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopwizard_command_duration_seconds",
			Help:    "Duration of bot commands and callbacks in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopwizard_errors_total",
			Help: "Errors converted to replies, labeled by kind",
		},
		[]string{"kind"},
	)
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopwizard_upstream_requests_total",
			Help: "Requests to external APIs, labeled by api and outcome",
		},
		[]string{"api", "outcome"},
	)
	upstreamDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopwizard_upstream_duration_seconds",
			Help:    "Latency of external API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"api"},
	)
)

// RecordUpdate counts an inbound webhook update.
func RecordUpdate(kind string) {
	updatesTotal.WithLabelValues(kind).Inc()
}

// RecordCommand counts a handled command or callback and observes its duration.
func RecordCommand(command, status string, duration time.Duration) {
	commandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordError counts an error by kind.
func RecordError(kind string) {
	errorsTotal.WithLabelValues(kind).Inc()
}

// RecordUpstream counts an external API request and observes its latency.
func RecordUpstream(api, outcome string, duration time.Duration) {
	upstreamRequestsTotal.WithLabelValues(api, outcome).Inc()
	upstreamDurationSeconds.WithLabelValues(api).Observe(duration.Seconds())
}
