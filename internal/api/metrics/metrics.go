// Package metrics defines the Prometheus metrics exposed on /metrics.
// It is the single source of truth for metric names, labels and help
// strings; collectors register themselves via promauto at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agentdesk"

// ClientsCreatedTotal counts successfully created client accounts.
var ClientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_created_total",
		Help:      "Total number of client accounts created.",
	},
)

// ViewingsScheduledTotal counts successfully scheduled viewings.
var ViewingsScheduledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "viewings_scheduled_total",
		Help:      "Total number of property viewings scheduled.",
	},
)

// FormValidationFailuresTotal counts form submissions rejected by
// validation.
// Label:
//   - form: "client_creation" or "viewing_scheduling"
var FormValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "form_validation_failures_total",
		Help:      "Total number of form submissions rejected by validation.",
	},
	[]string{"form"},
)

// RequestDuration measures HTTP request latency per route.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route, method and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method", "status"},
)
