// Package metrics defines and registers all custom Prometheus metrics for the
// complaint API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto; echoprometheus serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "complaints"

// ── Complaint metrics ─────────────────────────────────────────────────────────

// ComplaintsCreatedTotal counts newly opened complaints.
// Label:
//   - routing: "assigned" when an authority was resolved, otherwise "unassigned"
var ComplaintsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of complaints created, by routing outcome.",
	},
	[]string{"routing"},
)

// StatusTransitionsTotal counts applied status transitions.
// Label:
//   - to: the status the complaint moved to (e.g. "processing", "confirmed")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of complaint status transitions, by target status.",
	},
	[]string{"to"},
)

// VotesTotal counts vote toggles.
// Label:
//   - action: "voted" or "unvoted"
var VotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Total number of vote toggles, by resulting action.",
	},
	[]string{"action"},
)

// MediaUploadsTotal counts stored uploads.
// Label:
//   - content_type: the sniffed MIME type (e.g. "image/png")
var MediaUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Total number of media uploads stored, by content type.",
	},
	[]string{"content_type"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts outbound mail requests.
// Labels:
//   - kind: "verification", "complaint_closed" or "authority_welcome"
//   - result: "sent", "failed" or "disabled"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheRequestsTotal counts cache reads.
// Labels:
//   - key: the cache key (e.g. "complaints:lookup")
//   - result: "hit", "miss" or "error"
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of cache reads, by key and result.",
	},
	[]string{"key", "result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsProcessedTotal counts events that were recorded and forwarded.
// Label:
//   - type: the complaint event type (e.g. "status_changed")
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of complaint events successfully processed.",
	},
	[]string{"type"},
)

// EventsErrorsTotal counts events that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "publish_failed", "queue_full")
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of complaint events that failed processing or were dropped.",
	},
	[]string{"reason"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures how long a single event takes to process end-to-end.
// Label:
//   - type: the complaint event type, or "error" on failure
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of event processing from dequeue to broker acknowledgement.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
