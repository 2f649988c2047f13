// Package deliveryrepo persists the Delivery aggregate, including the
// conditional acceptance update that resolves the courier race.
package deliveryrepo

import (
	"time"

	"orderflow/internal/core/domain/model/delivery"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO is the database row for a delivery. The location columns
// hold the overwrite-only courier position cache.
type DeliveryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	CourierID uuid.UUID `gorm:"type:uuid;index"`

	Status string `gorm:"size:16;index"`

	AssignedAt  time.Time
	AcceptedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time

	LocationLat        *float64
	LocationLon        *float64
	LocationObservedAt *time.Time

	EstimatedArrival *time.Time
}

// TableName maps the DTO to the "deliveries" table.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	dto := DeliveryDTO{
		ID:               aggregate.ID().Bytes(),
		OrderID:          aggregate.OrderID().Bytes(),
		CourierID:        aggregate.CourierID().Bytes(),
		Status:           aggregate.Status().String(),
		AssignedAt:       aggregate.AssignedAt(),
		AcceptedAt:       aggregate.AcceptedAt(),
		PickedUpAt:       aggregate.PickedUpAt(),
		DeliveredAt:      aggregate.DeliveredAt(),
		EstimatedArrival: aggregate.EstimatedArrival(),
	}

	if loc := aggregate.CurrentLocation(); loc != nil {
		lat, lon, observedAt := loc.Latitude(), loc.Longitude(), loc.ObservedAt()
		dto.LocationLat = &lat
		dto.LocationLon = &lon
		dto.LocationObservedAt = &observedAt
	}

	return dto
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	status, err := delivery.StatusFromString(dto.Status)
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

	return delivery.RestoreDelivery(
		id, orderID, courierID, status,
		dto.AssignedAt, dto.AcceptedAt, dto.PickedUpAt, dto.DeliveredAt,
		location, dto.EstimatedArrival,
	)
}
