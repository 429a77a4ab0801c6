// Package metrics registers customer registry prometheus collectors with the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "customers"

// CustomersWrittenTotal counts committed registry writes.
// Label operation is one of "create", "update", "delete".
var CustomersWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "written_total",
		Help:      "Total number of committed customer writes.",
	},
	[]string{"operation"},
)

// CustomersRejectedTotal counts writes rejected by business rules.
// Label code is business error code, e.g. "DuplicateEmail".
var CustomersRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_total",
		Help:      "Total number of customer writes rejected by validation policy.",
	},
	[]string{"code"},
)

// NotificationsTotal counts broadcast attempts.
// Labels: topic and result, result is "sent", "failed" or "dropped".
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of change notifications, by topic and result.",
	},
	[]string{"topic", "result"},
)

// NotificationQueueDepth tracks pending notifications per dispatcher worker.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// StatsDuration measures statistics snapshot computation.
var StatsDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_duration_seconds",
		Help:      "Duration of statistics snapshot computation.",
		Buckets:   prometheus.DefBuckets,
	},
)
