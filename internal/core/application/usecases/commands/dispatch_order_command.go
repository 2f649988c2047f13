package commands

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var (
	ErrDispatchOrderCommandIsNotConstructed = errors.New(
		"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
	)

	// ErrNoOrderToDispatch means no READY order is waiting for a courier.
	// Expected on most job ticks.
	ErrNoOrderToDispatch = errors.New("no order waiting for dispatch")
)

// DispatchOrderCommand asks the system to offer the oldest waiting READY
// order to a courier. Parameterless: the handler selects both sides.
type DispatchOrderCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchOrderCommand creates the command.
func NewDispatchOrderCommand() DispatchOrderCommand {
	return DispatchOrderCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}
