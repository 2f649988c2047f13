// Package courierrepo persists courier profiles, including the
// conditional availability flips that keep one courier on one delivery.
package courierrepo

import (
	"time"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is the database row for a courier profile.
type CourierDTO struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsAvailable bool      `gorm:"index"`

	LocationLat        *float64
	LocationLon        *float64
	LocationObservedAt *time.Time

	RatingAverage float64
	RatingCount   int
}

// TableName maps the DTO to the "couriers" table.
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(profile *courier.Profile) CourierDTO {
	dto := CourierDTO{
		UserID:        profile.UserID().Bytes(),
		IsAvailable:   profile.IsAvailable(),
		RatingAverage: profile.RatingAverage(),
		RatingCount:   profile.RatingCount(),
	}

	if loc := profile.CurrentLocation(); loc != nil {
		lat, lon, observedAt := loc.Latitude(), loc.Longitude(), loc.ObservedAt()
		dto.LocationLat = &lat
		dto.LocationLon = &lon
		dto.LocationObservedAt = &observedAt
	}

	return dto
}

func toDomain(dto CourierDTO) (*courier.Profile, error) {
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.LocationLat != nil && dto.LocationLon != nil && dto.LocationObservedAt != nil {
		point, locErr := kernel.NewGeoPoint(*dto.LocationLat, *dto.LocationLon, *dto.LocationObservedAt)
		if locErr != nil {
			return nil, locErr
		}
		location = &point
	}

	return courier.RestoreProfile(userID, dto.IsAvailable, location, dto.RatingAverage, dto.RatingCount)
}
