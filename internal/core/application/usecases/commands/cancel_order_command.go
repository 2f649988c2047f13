package commands

import (
	"errors"

	"orderflow/internal/core/application/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand requests cancelling an order before it enters
// preparation.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	role    access.Role
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand validates the order id and checks the acting
// role against the cancel policy.
func NewCancelOrderCommand(orderID kernel.UUID, role access.Role, reason string) (CancelOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}
	if !access.ValidRole(role) {
		return CancelOrderCommand{}, errs.NewValueIsInvalidError("role")
	}
	if err := access.Require(role, access.ActionCancelOrder); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID: orderID,
		role:    role,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CancelOrderCommand) Role() access.Role    { return c.role }
func (c CancelOrderCommand) Reason() string       { return c.reason }
