// Package busadapter implements the event publisher port on top of the
// in-process event bus. Each payload is fanned out to every topic whose
// audience cares about it; the bus itself stays payload-agnostic.
package busadapter

import (
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/eventbus"
	"orderflow/internal/pkg/metrics"
)

// Envelope kinds carried by this publisher.
const (
	KindOrderStatusChanged    = "order.status_changed"
	KindDeliveryAssigned      = "delivery.assigned"
	KindDeliveryStatusChanged = "delivery.status_changed"
	KindCourierLocation       = "courier.location"
	KindCourierLocationStale  = "courier.location_stale"
)

// BusEventPublisher publishes domain events to the in-process bus.
type BusEventPublisher struct {
	bus *eventbus.Bus
}

// NewBusEventPublisher creates the publisher.
func NewBusEventPublisher(bus *eventbus.Bus) *BusEventPublisher {
	return &BusEventPublisher{bus: bus}
}

var _ ports.EventPublisher = (*BusEventPublisher)(nil)

// PublishOrderStatusChanged notifies the customer, the restaurant queue,
// and direct order watchers.
func (p *BusEventPublisher) PublishOrderStatusChanged(event ports.OrderStatusChanged) {
	p.publish(KindOrderStatusChanged, event,
		eventbus.OrderTopic(event.OrderID),
		eventbus.RestaurantTopic(event.RestaurantID),
		eventbus.UserTopic(event.CustomerID),
	)
}

// PublishDeliveryAssigned notifies the offered courier and order watchers.
func (p *BusEventPublisher) PublishDeliveryAssigned(event ports.DeliveryAssigned) {
	p.publish(KindDeliveryAssigned, event,
		eventbus.DeliveryTopic(event.DeliveryID),
		eventbus.OrderTopic(event.OrderID),
		eventbus.UserTopic(event.CourierID),
	)
}

// PublishDeliveryStatusChanged notifies delivery and order watchers.
func (p *BusEventPublisher) PublishDeliveryStatusChanged(event ports.DeliveryStatusChanged) {
	p.publish(KindDeliveryStatusChanged, event,
		eventbus.DeliveryTopic(event.DeliveryID),
		eventbus.OrderTopic(event.OrderID),
	)
}

// PublishCourierLocation notifies watchers of the active delivery.
func (p *BusEventPublisher) PublishCourierLocation(event ports.CourierLocation) {
	p.publish(KindCourierLocation, event,
		eventbus.DeliveryTopic(event.DeliveryID),
		eventbus.CourierTopic(event.CourierID),
	)
}

// PublishCourierLocationStale warns courier watchers, and delivery
// watchers when the courier was on an active delivery.
func (p *BusEventPublisher) PublishCourierLocationStale(event ports.CourierLocationStale) {
	topics := []string{eventbus.CourierTopic(event.CourierID)}
	if event.DeliveryID != "" {
		topics = append(topics, eventbus.DeliveryTopic(event.DeliveryID))
	}
	p.publish(KindCourierLocationStale, event, topics...)
}

func (p *BusEventPublisher) publish(kind string, payload any, topics ...string) {
	for _, topic := range topics {
		p.bus.Publish(topic, kind, payload)
	}
	metrics.EventsPublishedTotal.WithLabelValues(kind).Inc()
}
