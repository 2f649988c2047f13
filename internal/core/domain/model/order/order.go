package order

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const (
	// taxRateBps is the flat tax applied to the subtotal, in basis points.
	taxRateBps int64 = 800
	// deliveryFeeCents is the flat delivery fee charged per order.
	deliveryFeeCents int64 = 499
)

// ErrOrderIsNotConstructed is returned when an Order instance was not
// created through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the customer-facing transaction aggregate. It owns the lifecycle
// status, the payment status, and the monetary breakdown.
//
// Invariants:
//   - id, customerID, restaurantID are valid UUIDs
//   - at least one line item; totals derive from the items plus tip
//   - status transitions follow the allowed-edges table in status.go
//   - courierID is set exactly when a non-cancelled delivery exists
type Order struct {
	id          kernel.UUID
	orderNumber string

	customerID   kernel.UUID
	restaurantID kernel.UUID
	courierID    *kernel.UUID

	status        Status
	paymentStatus PaymentStatus

	lineItems []LineItem

	subtotalCents    int64
	taxCents         int64
	deliveryFeeCents int64
	tipCents         int64
	totalCents       int64

	deliveryAddress     string
	specialInstructions string

	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a PENDING order with payment PENDING and computes the
// monetary breakdown: subtotal from the line items, a flat tax on the
// subtotal, a flat delivery fee, plus the tip.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	lineItems []LineItem,
	deliveryAddress string,
	specialInstructions string,
	tipCents int64,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
	); err != nil {
		return nil, err
	}
	if len(lineItems) == 0 {
		return nil, errs.NewValueIsRequiredError("lineItems")
	}
	if deliveryAddress == "" {
		return nil, errs.NewValueIsRequiredError("deliveryAddress")
	}
	if tipCents < 0 {
		return nil, errs.NewValueIsInvalidError("tipCents")
	}

	var subtotal int64
	for _, li := range lineItems {
		subtotal += li.TotalCents()
	}
	tax := subtotal * taxRateBps / 10000

	now = now.UTC()
	return &Order{
		id:                  id,
		orderNumber:         orderNumberFor(id),
		customerID:          customerID,
		restaurantID:        restaurantID,
		status:              StatusPending,
		paymentStatus:       PaymentPending,
		lineItems:           lineItems,
		subtotalCents:       subtotal,
		taxCents:            tax,
		deliveryFeeCents:    deliveryFeeCents,
		tipCents:            tipCents,
		totalCents:          subtotal + tax + deliveryFeeCents + tipCents,
		deliveryAddress:     deliveryAddress,
		specialInstructions: specialInstructions,
		createdAt:           now,
		updatedAt:           now,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-deriving
// totals. The stored status values must already be valid.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	courierID *kernel.UUID,
	status Status,
	paymentStatus PaymentStatus,
	lineItems []LineItem,
	subtotalCents, taxCents, deliveryFeeCents, tipCents, totalCents int64,
	deliveryAddress string,
	specialInstructions string,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
		status.Validate(),
		paymentStatus.Validate(),
	); err != nil {
		return nil, err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:                  id,
		orderNumber:         orderNumber,
		customerID:          customerID,
		restaurantID:        restaurantID,
		courierID:           courierID,
		status:              status,
		paymentStatus:       paymentStatus,
		lineItems:           lineItems,
		subtotalCents:       subtotalCents,
		taxCents:            taxCents,
		deliveryFeeCents:    deliveryFeeCents,
		tipCents:            tipCents,
		totalCents:          totalCents,
		deliveryAddress:     deliveryAddress,
		specialInstructions: specialInstructions,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// orderNumberFor derives the human-readable order number from the id.
func orderNumberFor(id kernel.UUID) string {
	return "ORD-" + strings.ToUpper(id.String()[:8])
}

// Validate ensures the order came through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) OrderNumber() string          { return o.orderNumber }
func (o *Order) CustomerID() kernel.UUID      { return o.customerID }
func (o *Order) RestaurantID() kernel.UUID    { return o.restaurantID }
func (o *Order) CourierID() *kernel.UUID      { return o.courierID }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) LineItems() []LineItem        { return o.lineItems }
func (o *Order) SubtotalCents() int64         { return o.subtotalCents }
func (o *Order) TaxCents() int64              { return o.taxCents }
func (o *Order) DeliveryFeeCents() int64      { return o.deliveryFeeCents }
func (o *Order) TipCents() int64              { return o.tipCents }
func (o *Order) TotalCents() int64            { return o.totalCents }
func (o *Order) DeliveryAddress() string      { return o.deliveryAddress }
func (o *Order) SpecialInstructions() string  { return o.specialInstructions }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// TransitionTo advances the lifecycle status along a legal edge. On an
// illegal edge it returns InvalidTransitionError and the order is left
// untouched.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}
	o.status = next
	o.updatedAt = now.UTC()
	return nil
}

// AssignCourier records the courier working this order. Only valid once
// the order is READY and no courier holds it yet.
func (o *Order) AssignCourier(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.status != StatusReady {
		return errs.NewInvalidTransitionError("order", o.status.String(), "courier assignment")
	}
	if o.courierID != nil {
		return errs.NewConflictError("order", "courier already assigned")
	}
	o.courierID = &courierID
	o.updatedAt = now.UTC()
	return nil
}

// ClearCourier removes the courier link when the associated delivery is
// cancelled, keeping the courierID-iff-active-delivery invariant.
func (o *Order) ClearCourier(now time.Time) {
	o.courierID = nil
	o.updatedAt = now.UTC()
}

// SetPaymentStatus records the provider's payment outcome.
func (o *Order) SetPaymentStatus(ps PaymentStatus, now time.Time) error {
	if err := ps.Validate(); err != nil {
		return err
	}
	o.paymentStatus = ps
	o.updatedAt = now.UTC()
	return nil
}
