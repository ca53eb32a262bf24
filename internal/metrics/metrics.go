// Package metrics defines the prometheus collectors exposed on the console
// server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Connection metrics
var (
	// ConnectionsActive tracks the number of currently connected IRC clients.
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fakeirc_connections_active",
			Help: "Number of currently connected IRC clients",
		},
	)

	// ConnectionsTotal counts all accepted IRC client connections.
	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fakeirc_connections_total",
			Help: "Total accepted IRC client connections",
		},
	)
)

// Broadcast metrics
var (
	// BroadcastLines counts operator lines broadcast to clients, by source.
	BroadcastLines = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fakeirc_broadcast_lines_total",
			Help: "Operator lines broadcast to clients by input source",
		},
		[]string{"source"},
	)

	// BroadcastDeliveries counts successful per-client line deliveries.
	BroadcastDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fakeirc_broadcast_deliveries_total",
			Help: "Successful per-client broadcast deliveries",
		},
	)

	// BroadcastFailures counts per-client delivery failures during broadcast.
	BroadcastFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fakeirc_broadcast_delivery_failures_total",
			Help: "Per-client delivery failures during broadcast",
		},
	)
)

// Inbound traffic metrics
var (
	// MessagesIn counts parsed inbound IRC messages by command group.
	MessagesIn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fakeirc_messages_in_total",
			Help: "Parsed inbound IRC messages by command group",
		},
		[]string{"command"},
	)
)

// CommandLabel maps an IRC command to a bounded label value so arbitrary
// client input cannot explode metric cardinality.
func CommandLabel(command string) string {
	switch command {
	case "NICK", "USER", "PING", "QUIT":
		return command
	default:
		return "other"
	}
}
