// Package metrics defines and registers all custom Prometheus metrics for
// the tracker API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker"

// MutationsTotal counts successful create/update/delete operations.
// Labels:
//   - entity: "member", "project", "sprint", "task"
//   - op: "create", "update", "delete"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of successful entity mutations.",
	},
	[]string{"entity", "op"},
)

// AccessDeniedTotal counts denied requests by how the denial was rendered.
// Label:
//   - kind: "hidden" (404, existence concealed) or "forbidden" (403)
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of denied requests, labelled by denial kind.",
	},
	[]string{"kind"},
)

// ValidationFailuresTotal counts requests rejected by field or reference
// validation.
var ValidationFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of requests rejected with a validation error list.",
	},
)

// NotificationsTotal counts outbound notification outcomes.
// Label:
//   - result: "sent", "deduplicated", "error"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of outbound notifications, labelled by outcome.",
	},
	[]string{"result"},
)
