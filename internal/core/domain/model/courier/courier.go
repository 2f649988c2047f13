package courier

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

// ErrCourierIsNotConstructed is returned for instances that bypassed
// NewProfile or RestoreProfile.
var ErrCourierIsNotConstructed = errors.New("Profile must be created via NewProfile or RestoreProfile")

// Profile is a courier's dispatch-relevant state. Rating aggregates are
// read-only here; only availability and the location cache are mutated by
// this system.
type Profile struct {
	userID      kernel.UUID
	isAvailable bool

	currentLocation *kernel.GeoPoint

	ratingAverage float64
	ratingCount   int

	guard guard.ConstructorGuard
}

// NewProfile creates an available courier profile with no known location.
func NewProfile(userID kernel.UUID) (*Profile, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	return &Profile{
		userID:      userID,
		isAvailable: true,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreProfile reconstructs a profile from persistence.
func RestoreProfile(
	userID kernel.UUID,
	isAvailable bool,
	currentLocation *kernel.GeoPoint,
	ratingAverage float64,
	ratingCount int,
) (*Profile, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	return &Profile{
		userID:          userID,
		isAvailable:     isAvailable,
		currentLocation: currentLocation,
		ratingAverage:   ratingAverage,
		ratingCount:     ratingCount,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the profile came through a constructor.
func (p *Profile) Validate() error {
	if p == nil {
		return ErrCourierIsNotConstructed
	}
	return p.guard.Validate(ErrCourierIsNotConstructed)
}

func (p *Profile) UserID() kernel.UUID               { return p.userID }
func (p *Profile) IsAvailable() bool                 { return p.isAvailable }
func (p *Profile) CurrentLocation() *kernel.GeoPoint { return p.currentLocation }
func (p *Profile) RatingAverage() float64            { return p.ratingAverage }
func (p *Profile) RatingCount() int                  { return p.ratingCount }

// UpdateLocation overwrites the cached position. History is never kept.
func (p *Profile) UpdateLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.currentLocation = &location
	return nil
}

// LocationIsStaleAt reports whether the cached position is missing or older
// than maxAge at the given instant.
func (p *Profile) LocationIsStaleAt(at time.Time, maxAge time.Duration) bool {
	if p.currentLocation == nil {
		return true
	}
	return at.Sub(p.currentLocation.ObservedAt()) > maxAge
}
