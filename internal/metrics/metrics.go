// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finance_tracker"

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "route", "status"},
	)

	recordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
		},
		[]string{"collection"},
	)

	recordsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
		},
		[]string{"collection"},
	)

	botCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "telegram",
			Name:      "commands_total",
		},
		[]string{"command", "failed"},
	)
)

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.
		WithLabelValues(method, route, strconv.Itoa(status)).
		Observe(elapsed.Seconds())
}

func RecordCreated(collection string) {
	recordsCreated.WithLabelValues(collection).Inc()
}

func RecordDeleted(collection string) {
	recordsDeleted.WithLabelValues(collection).Inc()
}

func BotCommand(command string, failed bool) {
	botCommands.WithLabelValues(command, strconv.FormatBool(failed)).Inc()
}
