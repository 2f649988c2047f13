package ports

import (
	"context"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
)

// CourierRepository is the persistence contract for courier profiles.
// Availability is never read-then-written by application code; both flips
// are conditional updates guarded on the expected prior value.
type CourierRepository interface {
	// Add persists a new courier profile.
	Add(ctx context.Context, aggregate *courier.Profile) error

	// Get retrieves a profile by the courier's user id.
	Get(ctx context.Context, userID kernel.UUID) (*courier.Profile, error)

	// GetAllAvailable returns every courier currently marked available.
	GetAllAvailable(ctx context.Context) ([]*courier.Profile, error)

	// GetAll returns every courier profile.
	GetAll(ctx context.Context) ([]*courier.Profile, error)

	// MarkBusy flips is_available from true to false as a conditional
	// update. ErrConflict when the courier was not available, which
	// prevents one courier from accepting two deliveries through
	// interleaved requests.
	MarkBusy(ctx context.Context, userID kernel.UUID) error

	// MarkAvailable flips is_available from false to true, same
	// discipline as MarkBusy.
	MarkAvailable(ctx context.Context, userID kernel.UUID) error

	// UpdateLocation overwrites the courier's cached position.
	UpdateLocation(ctx context.Context, userID kernel.UUID, location kernel.GeoPoint) error
}
