// Package queries contains the read side: raw SQL projections straight
// from the database, bypassing the aggregates. Responses are plain view
// structs shaped for the HTTP layer.
package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order with its line items and full
// audit trail. Clients call this before subscribing to live updates so
// nothing is missed between snapshot and stream.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// LineItemView is one order position as presented to clients.
type LineItemView struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

// OrderEventView is one audit trail entry.
type OrderEventView struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// GetOrderQueryResponse is the full order snapshot.
type GetOrderQueryResponse struct {
	ID                  kernel.UUID      `json:"id"`
	OrderNumber         string           `json:"orderNumber"`
	CustomerID          kernel.UUID      `json:"customerId"`
	RestaurantID        kernel.UUID      `json:"restaurantId"`
	CourierID           *kernel.UUID     `json:"courierId,omitempty"`
	Status              string           `json:"status"`
	PaymentStatus       string           `json:"paymentStatus"`
	LineItems           []LineItemView   `json:"lineItems"`
	SubtotalCents       int64            `json:"subtotalCents"`
	TaxCents            int64            `json:"taxCents"`
	DeliveryFeeCents    int64            `json:"deliveryFeeCents"`
	TipCents            int64            `json:"tipCents"`
	TotalCents          int64            `json:"totalCents"`
	DeliveryAddress     string           `json:"deliveryAddress"`
	SpecialInstructions string           `json:"specialInstructions,omitempty"`
	Events              []OrderEventView `json:"events"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}
