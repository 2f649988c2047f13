package delivery

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrDeliveryIsNotConstructed is returned for instances that bypassed
// NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery")

// Delivery is the fulfillment record for one order. Created in ASSIGNED
// when a courier is offered the order; terminal at DELIVERED or CANCELLED.
// currentLocation is an overwrite-only cache of the courier's latest
// position; no history is kept.
type Delivery struct {
	id        kernel.UUID
	orderID   kernel.UUID
	courierID kernel.UUID

	status Status

	assignedAt  time.Time
	acceptedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time

	currentLocation  *kernel.GeoPoint
	estimatedArrival *time.Time

	guard guard.ConstructorGuard
}

// NewDelivery creates a delivery in ASSIGNED for the given order/courier
// pair. One order may only ever hold one non-cancelled delivery; that
// uniqueness is enforced by the repository, not here.
func NewDelivery(id, orderID, courierID kernel.UUID, now time.Time) (*Delivery, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		courierID.Validate(),
	); err != nil {
		return nil, err
	}

	return &Delivery{
		id:         id,
		orderID:    orderID,
		courierID:  courierID,
		status:     StatusAssigned,
		assignedAt: now.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// RestoreDelivery reconstructs a delivery from persistence.
func RestoreDelivery(
	id, orderID, courierID kernel.UUID,
	status Status,
	assignedAt time.Time,
	acceptedAt, pickedUpAt, deliveredAt *time.Time,
	currentLocation *kernel.GeoPoint,
	estimatedArrival *time.Time,
) (*Delivery, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		courierID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Delivery{
		id:               id,
		orderID:          orderID,
		courierID:        courierID,
		status:           status,
		assignedAt:       assignedAt,
		acceptedAt:       acceptedAt,
		pickedUpAt:       pickedUpAt,
		deliveredAt:      deliveredAt,
		currentLocation:  currentLocation,
		estimatedArrival: estimatedArrival,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the delivery came through a constructor.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

func (d *Delivery) ID() kernel.UUID                   { return d.id }
func (d *Delivery) OrderID() kernel.UUID              { return d.orderID }
func (d *Delivery) CourierID() kernel.UUID            { return d.courierID }
func (d *Delivery) Status() Status                    { return d.status }
func (d *Delivery) AssignedAt() time.Time             { return d.assignedAt }
func (d *Delivery) AcceptedAt() *time.Time            { return d.acceptedAt }
func (d *Delivery) PickedUpAt() *time.Time            { return d.pickedUpAt }
func (d *Delivery) DeliveredAt() *time.Time           { return d.deliveredAt }
func (d *Delivery) CurrentLocation() *kernel.GeoPoint { return d.currentLocation }
func (d *Delivery) EstimatedArrival() *time.Time      { return d.estimatedArrival }

// IsHeldBy reports whether courierID is the courier working this delivery.
func (d *Delivery) IsHeldBy(courierID kernel.UUID) bool {
	return d.courierID.IsEqual(courierID)
}

// Accept moves ASSIGNED -> ACCEPTED. The repository performs the same
// check as a conditional update; this method covers the in-memory
// aggregate so state and timestamps stay consistent.
func (d *Delivery) Accept(now time.Time) error {
	next, err := d.status.TransitionTo(StatusAccepted)
	if err != nil {
		return err
	}
	d.status = next
	t := now.UTC()
	d.acceptedAt = &t
	return nil
}

// Pickup moves ACCEPTED -> PICKED_UP and stamps pickedUpAt.
func (d *Delivery) Pickup(now time.Time) error {
	next, err := d.status.TransitionTo(StatusPickedUp)
	if err != nil {
		return err
	}
	d.status = next
	t := now.UTC()
	d.pickedUpAt = &t
	return nil
}

// Deliver moves PICKED_UP -> DELIVERED and stamps deliveredAt.
func (d *Delivery) Deliver(now time.Time) error {
	next, err := d.status.TransitionTo(StatusDelivered)
	if err != nil {
		return err
	}
	d.status = next
	t := now.UTC()
	d.deliveredAt = &t
	return nil
}

// Cancel moves ASSIGNED/ACCEPTED -> CANCELLED.
func (d *Delivery) Cancel() error {
	next, err := d.status.TransitionTo(StatusCancelled)
	if err != nil {
		return err
	}
	d.status = next
	return nil
}

// UpdateLocation overwrites the cached courier position and refreshes the
// arrival estimate. Allowed only while the delivery is active.
func (d *Delivery) UpdateLocation(location kernel.GeoPoint, estimatedArrival *time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}
	if d.status.IsTerminal() {
		return errs.NewInvalidTransitionError("delivery", d.status.String(), "location update")
	}
	d.currentLocation = &location
	d.estimatedArrival = estimatedArrival
	return nil
}
