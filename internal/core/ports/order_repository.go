// Package ports defines the persistence and publishing contracts the
// application core depends on. Adapters implement them; command handlers
// consume them through unit-of-work factories.
package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract for the Order aggregate and
// its append-only audit events.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the aggregate's current state as a conditional
	// update guarded on expectedStatus: the row is written only where
	// id matches and status still equals expectedStatus. Zero affected
	// rows surface as ErrConflict, so a concurrent writer can never be
	// silently overwritten.
	Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order by id, including its line items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetFirstReadyUnassigned returns the oldest READY order that has no
	// non-cancelled delivery, or ErrObjectNotFound when nothing waits for
	// dispatch.
	GetFirstReadyUnassigned(ctx context.Context) (*order.Order, error)

	// AppendEvent inserts one immutable audit row. Called exactly once
	// per accepted transition, in the same transaction as Update.
	AppendEvent(ctx context.Context, event *order.Event) error

	// ListEvents returns the audit trail for an order in append order.
	ListEvents(ctx context.Context, orderID kernel.UUID) ([]*order.Event, error)
}
