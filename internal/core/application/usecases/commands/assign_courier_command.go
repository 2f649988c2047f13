package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand offers a READY order to a courier. Issued by the
// assignment job, never directly by clients.
type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	orderID    kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand validates all ids and returns the command.
func NewAssignCourierCommand(deliveryID, orderID, courierID kernel.UUID) (AssignCourierCommand, error) {
	if err := errors.Join(
		deliveryID.Validate(),
		orderID.Validate(),
		courierID.Validate(),
	); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		deliveryID: deliveryID,
		orderID:    orderID,
		courierID:  courierID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

func (c AssignCourierCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c AssignCourierCommand) OrderID() kernel.UUID    { return c.orderID }
func (c AssignCourierCommand) CourierID() kernel.UUID  { return c.courierID }
