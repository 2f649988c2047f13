package courierrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier profile.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Profile) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a profile by the courier's user id.
func (r *GormCourierRepository) Get(ctx context.Context, userID kernel.UUID) (*courier.Profile, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", userID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable returns every courier currently marked available.
func (r *GormCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Profile, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("is_available = ?", true))
}

// GetAll returns every courier profile.
func (r *GormCourierRepository) GetAll(ctx context.Context) ([]*courier.Profile, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *GormCourierRepository) list(_ context.Context, tx *gorm.DB) ([]*courier.Profile, error) {
	var dtos []CourierDTO
	if err := tx.Find(&dtos).Error; err != nil {
		return nil, err
	}

	profiles := make([]*courier.Profile, 0, len(dtos))
	for _, dto := range dtos {
		profile, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// MarkBusy flips is_available true -> false as a conditional update.
// ErrConflict when the courier was already busy, so interleaved accepts
// cannot double-book a courier.
func (r *GormCourierRepository) MarkBusy(ctx context.Context, userID kernel.UUID) error {
	return r.flipAvailability(ctx, userID, true, false)
}

// MarkAvailable flips is_available false -> true, same discipline as
// MarkBusy.
func (r *GormCourierRepository) MarkAvailable(ctx context.Context, userID kernel.UUID) error {
	return r.flipAvailability(ctx, userID, false, true)
}

func (r *GormCourierRepository) flipAvailability(ctx context.Context, userID kernel.UUID, from, to bool) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("user_id = ? AND is_available = ?", userID.Bytes(), from).
		Update("is_available", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("courier", "availability changed concurrently")
	}

	return nil
}

// UpdateLocation overwrites the courier's cached position.
func (r *GormCourierRepository) UpdateLocation(ctx context.Context, userID kernel.UUID, location kernel.GeoPoint) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}

	observedAt := location.ObservedAt()
	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("user_id = ?", userID.Bytes()).
		Updates(map[string]any{
			"location_lat":         location.Latitude(),
			"location_lon":         location.Longitude(),
			"location_observed_at": observedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", userID.String())
	}

	return nil
}
