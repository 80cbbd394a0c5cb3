// Package metrics defines and registers all custom Prometheus metrics for the
// showcase API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors are registered with the default Prometheus registry on package
// initialisation and exposed on /metrics next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "showcase"

// ── Project metrics ───────────────────────────────────────────────────────────

// ProjectsCreatedTotal counts newly created projects.
// Label:
//   - visibility: "public" or "private"
var ProjectsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created, by visibility.",
	},
	[]string{"visibility"},
)

// EngagementsTotal counts like and bookmark changes.
// Labels:
//   - kind: "like" or "bookmark"
//   - action: "add" or "remove"
var EngagementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engagements_total",
		Help:      "Total number of successful like and bookmark changes.",
	},
	[]string{"kind", "action"},
)

// TagSuggestionsTotal counts tag suggestion calls.
// Label:
//   - result: "ok", "empty", "error" or "disabled"
var TagSuggestionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tag_suggestions_total",
		Help:      "Total number of tag suggestion calls, by result.",
	},
	[]string{"result"},
)

// ── Realtime metrics ──────────────────────────────────────────────────────────

// RealtimeConnections tracks the number of open websocket sessions.
var RealtimeConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_connections",
		Help:      "Current number of open realtime sessions.",
	},
)

// BroadcastDeliveriesTotal counts per-member delivery outcomes of room broadcasts.
// Label:
//   - result: "delivered" or "dropped" (member outbox full)
var BroadcastDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_deliveries_total",
		Help:      "Total number of per-session broadcast deliveries, by result.",
	},
	[]string{"result"},
)

// BroadcastQueueDropsTotal counts notifications discarded because the
// dispatcher shard was full.
var BroadcastQueueDropsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_queue_drops_total",
		Help:      "Total number of comment notifications dropped at enqueue time.",
	},
)

// BroadcastQueueDepth tracks the current number of notifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var BroadcastQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "broadcast_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// BroadcastDuration measures how long a single room broadcast takes.
var BroadcastDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "broadcast_duration_seconds",
		Help:      "Duration of a room broadcast from dequeue to the last outbox write.",
		Buckets:   prometheus.DefBuckets,
	},
)
