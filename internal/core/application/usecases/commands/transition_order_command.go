package commands

import (
	"errors"

	"orderflow/internal/core/application/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand requests moving an order to a target status on
// behalf of an authenticated actor. Cancellation has its own command;
// the courier edges (PICKED_UP, DELIVERED) are cascade-only and rejected
// here by the access policy.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	role    access.Role

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand validates the target edge against the access
// policy for the acting role.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	role access.Role,
) (TransitionOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		target.Validate(),
	); err != nil {
		return TransitionOrderCommand{}, err
	}
	if !access.ValidRole(role) {
		return TransitionOrderCommand{}, errs.NewValueIsInvalidError("role")
	}

	action, ok := access.ActionForOrderTransition(target)
	if !ok {
		return TransitionOrderCommand{}, errs.NewAuthorizationError(string(role), "transition to "+target.String())
	}
	if err := access.Require(role, action); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID: orderID,
		target:  target,
		role:    role,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c TransitionOrderCommand) Target() order.Status { return c.target }
func (c TransitionOrderCommand) Role() access.Role    { return c.role }
