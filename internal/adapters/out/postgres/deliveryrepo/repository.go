package deliveryrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/delivery"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Add saves a new delivery after verifying the order has no other
// non-cancelled delivery.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("order_id = ? AND status != ?",
			aggregate.OrderID().Bytes(), delivery.StatusCancelled.String()).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.NewConflictError("delivery", "order already has an active delivery")
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the delivery state guarded on expectedStatus. Zero
// affected rows surface as ErrConflict.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery, expectedStatus delivery.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("id = ? AND status = ?", dto.ID, expectedStatus.String()).
		Updates(map[string]any{
			"status":               dto.Status,
			"accepted_at":          dto.AcceptedAt,
			"picked_up_at":         dto.PickedUpAt,
			"delivered_at":         dto.DeliveredAt,
			"location_lat":         dto.LocationLat,
			"location_lon":         dto.LocationLon,
			"location_observed_at": dto.LocationObservedAt,
			"estimated_arrival":    dto.EstimatedArrival,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("delivery", "status changed concurrently")
	}

	return nil
}

// Get retrieves a delivery by id.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByOrderID returns the order's non-terminal delivery.
func (r *GormDeliveryRepository) GetActiveByOrderID(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return r.getActive(ctx, "order_id = ?", orderID)
}

// GetActiveByCourierID returns the courier's non-terminal delivery.
func (r *GormDeliveryRepository) GetActiveByCourierID(ctx context.Context, courierID kernel.UUID) (*delivery.Delivery, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	return r.getActive(ctx, "courier_id = ?", courierID)
}

func (r *GormDeliveryRepository) getActive(ctx context.Context, condition string, id kernel.UUID) (*delivery.Delivery, error) {
	var dto DeliveryDTO
	err := r.db.WithContext(ctx).
		Where(condition, id.Bytes()).
		Where("status NOT IN ?", []string{
			delivery.StatusDelivered.String(),
			delivery.StatusCancelled.String(),
		}).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByCourierID returns all deliveries ever assigned to a courier,
// newest first.
func (r *GormDeliveryRepository) ListByCourierID(ctx context.Context, courierID kernel.UUID) ([]*delivery.Delivery, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Where("courier_id = ?", courierID.Bytes()).
		Order("assigned_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, dErr := toDomain(dto)
		if dErr != nil {
			return nil, dErr
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}

// Accept takes the ASSIGNED -> ACCEPTED edge as one conditional update.
// Exactly one racing caller sees an affected row; every other receives
// ErrConflict.
func (r *GormDeliveryRepository) Accept(ctx context.Context, id kernel.UUID, at time.Time) error {
	if err := id.Validate(); err != nil {
		return err
	}

	at = at.UTC()
	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), delivery.StatusAssigned.String()).
		Updates(map[string]any{
			"status":      delivery.StatusAccepted.String(),
			"accepted_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("delivery", "no longer open for acceptance")
	}

	return nil
}
