package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/delivery"
	"orderflow/internal/core/domain/model/kernel"
)

// DeliveryRepository is the persistence contract for the Delivery
// aggregate. The ASSIGNED -> ACCEPTED race is resolved here, not in
// application code: Accept is a single conditional update.
type DeliveryRepository interface {
	// Add persists a new delivery in ASSIGNED. Fails with ErrConflict if
	// the order already has a non-cancelled delivery.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists the aggregate's state guarded on expectedStatus,
	// mirroring OrderRepository.Update. Zero rows -> ErrConflict.
	Update(ctx context.Context, aggregate *delivery.Delivery, expectedStatus delivery.Status) error

	// Get retrieves a delivery by id.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetActiveByOrderID returns the order's non-terminal delivery, or
	// ErrObjectNotFound when none exists.
	GetActiveByOrderID(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// GetActiveByCourierID returns the courier's non-terminal delivery,
	// or ErrObjectNotFound when the courier is idle.
	GetActiveByCourierID(ctx context.Context, courierID kernel.UUID) (*delivery.Delivery, error)

	// ListByCourierID returns all deliveries ever assigned to a courier,
	// newest first.
	ListByCourierID(ctx context.Context, courierID kernel.UUID) ([]*delivery.Delivery, error)

	// Accept performs the atomic conditional update
	// "set status=ACCEPTED, accepted_at=at where id=? and status=ASSIGNED"
	// and inspects the affected-row count: exactly one racing caller
	// succeeds, every other receives ErrConflict.
	Accept(ctx context.Context, id kernel.UUID, at time.Time) error
}
