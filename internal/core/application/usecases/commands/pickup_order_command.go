package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrPickupOrderCommandIsNotConstructed = errors.New(
	"PickupOrderCommand must be created via NewPickupOrderCommand constructor",
)

// PickupOrderCommand is the courier collecting the order at the
// restaurant.
type PickupOrderCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewPickupOrderCommand validates ids and returns the command.
func NewPickupOrderCommand(deliveryID, courierID kernel.UUID) (PickupOrderCommand, error) {
	if err := errors.Join(
		deliveryID.Validate(),
		courierID.Validate(),
	); err != nil {
		return PickupOrderCommand{}, err
	}

	return PickupOrderCommand{
		deliveryID: deliveryID,
		courierID:  courierID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PickupOrderCommand) Validate() error {
	return c.guard.Validate(ErrPickupOrderCommandIsNotConstructed)
}

func (c PickupOrderCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c PickupOrderCommand) CourierID() kernel.UUID  { return c.courierID }
