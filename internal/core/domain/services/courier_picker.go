package services

import (
	"errors"
	"math"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
)

// ErrNoCourierAvailable is returned when no candidate courier can take the
// order: the slice is empty, every courier is busy, or none has a usable
// position to rank by.
var ErrNoCourierAvailable = errors.New("no courier available")

// CourierPicker selects which available courier a READY order should be
// offered to. Selection is proximity-based: the available courier with a
// known position closest to the restaurant wins; couriers without a cached
// position are considered last.
type CourierPicker struct{}

// NewCourierPicker creates a picker instance.
func NewCourierPicker() CourierPicker {
	return CourierPicker{}
}

// Pick returns the best candidate for a pickup at restaurantLocation.
// Busy couriers are skipped. If restaurantLocation is nil, the first
// available courier is returned.
func (p CourierPicker) Pick(
	restaurantLocation *kernel.GeoPoint,
	couriers []*courier.Profile,
) (*courier.Profile, error) {
	var best *courier.Profile
	bestDistance := math.Inf(1)

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsAvailable() {
			continue
		}

		if restaurantLocation == nil || c.CurrentLocation() == nil {
			if best == nil {
				best = c
			}
			continue
		}

		d := c.CurrentLocation().DistanceTo(*restaurantLocation)
		if d < bestDistance {
			best = c
			bestDistance = d
		}
	}

	if best == nil {
		return nil, ErrNoCourierAvailable
	}
	return best, nil
}
