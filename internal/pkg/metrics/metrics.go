// Package metrics exposes Prometheus instrumentation for the order
// lifecycle engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		},
	)

	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Total number of accepted order status transitions",
		},
		[]string{"status"},
	)

	DeliveryTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_transitions_total",
			Help: "Total number of accepted delivery status transitions",
		},
		[]string{"status"},
	)

	ConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conflicts_total",
			Help: "Total number of conditional updates lost to a concurrent writer",
		},
		[]string{"resource"},
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of envelopes published to the event bus",
		},
		[]string{"kind"},
	)

	PaymentWebhooksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Total number of payment provider callbacks by outcome",
		},
		[]string{"outcome"},
	)

	SocketConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "socket_connections_active",
			Help: "Currently open realtime gateway connections",
		},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of command handler execution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

// Register registers all collectors with the default registry.
// Call once at startup.
func Register() {
	prometheus.MustRegister(
		OrdersCreatedTotal,
		OrderTransitionsTotal,
		DeliveryTransitionsTotal,
		ConflictsTotal,
		EventsPublishedTotal,
		PaymentWebhooksTotal,
		SocketConnectionsActive,
		CommandDuration,
	)
}
