package ports

import "time"

// Event payloads pushed to live subscribers. Every payload carries the
// exact entity ids so consumers can re-filter before acting: topic
// granularity may be coarser than what a subscriber asked for.
type (
	// OrderStatusChanged announces an accepted order transition.
	OrderStatusChanged struct {
		OrderID      string    `json:"orderId"`
		OrderNumber  string    `json:"orderNumber"`
		CustomerID   string    `json:"customerId"`
		RestaurantID string    `json:"restaurantId"`
		Status       string    `json:"status"`
		At           time.Time `json:"at"`
	}

	// DeliveryAssigned announces a new delivery offered to a courier.
	DeliveryAssigned struct {
		DeliveryID string    `json:"deliveryId"`
		OrderID    string    `json:"orderId"`
		CourierID  string    `json:"courierId"`
		At         time.Time `json:"at"`
	}

	// DeliveryStatusChanged announces an accepted delivery transition.
	DeliveryStatusChanged struct {
		DeliveryID string    `json:"deliveryId"`
		OrderID    string    `json:"orderId"`
		CourierID  string    `json:"courierId"`
		Status     string    `json:"status"`
		At         time.Time `json:"at"`
	}

	// CourierLocation announces the courier's latest position for an
	// active delivery. Only the latest position is ever relevant.
	CourierLocation struct {
		DeliveryID string    `json:"deliveryId"`
		CourierID  string    `json:"courierId"`
		Latitude   float64   `json:"latitude"`
		Longitude  float64   `json:"longitude"`
		At         time.Time `json:"at"`
	}

	// CourierLocationStale signals that a courier's position can no
	// longer be trusted (disconnect or missed updates).
	CourierLocationStale struct {
		CourierID  string    `json:"courierId"`
		DeliveryID string    `json:"deliveryId,omitempty"`
		At         time.Time `json:"at"`
	}
)

// EventPublisher fans accepted state changes out to live subscribers.
// Implementations are fire-and-forget: they never block, never fail the
// calling transition, and give no delivery guarantee across restarts;
// persisted state stays authoritative. Handlers call these post-commit
// only.
type EventPublisher interface {
	PublishOrderStatusChanged(event OrderStatusChanged)
	PublishDeliveryAssigned(event DeliveryAssigned)
	PublishDeliveryStatusChanged(event DeliveryStatusChanged)
	PublishCourierLocation(event CourierLocation)
	PublishCourierLocationStale(event CourierLocationStale)
}
