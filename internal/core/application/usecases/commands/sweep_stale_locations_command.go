package commands

import (
	"errors"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrSweepStaleLocationsCommandIsNotConstructed = errors.New(
	"SweepStaleLocationsCommand must be created via NewSweepStaleLocationsCommand constructor",
)

// SweepStaleLocationsCommand flags couriers on active deliveries whose
// cached position is older than maxAge.
type SweepStaleLocationsCommand struct {
	maxAge time.Duration

	guard guard.ConstructorGuard
}

// NewSweepStaleLocationsCommand creates the command with the staleness
// threshold.
func NewSweepStaleLocationsCommand(maxAge time.Duration) (SweepStaleLocationsCommand, error) {
	if maxAge <= 0 {
		return SweepStaleLocationsCommand{}, errs.NewValueIsInvalidError("maxAge")
	}
	return SweepStaleLocationsCommand{
		maxAge: maxAge,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SweepStaleLocationsCommand) Validate() error {
	return c.guard.Validate(ErrSweepStaleLocationsCommandIsNotConstructed)
}

func (c SweepStaleLocationsCommand) MaxAge() time.Duration { return c.maxAge }
