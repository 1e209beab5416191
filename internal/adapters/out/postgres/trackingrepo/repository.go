package trackingrepo

import (
	"context"

	"shipping/internal/core/domain/model/tracking"

	"gorm.io/gorm"
)

// GormTrackingRepository implements TrackingRepository using GORM.
type GormTrackingRepository struct {
	db *gorm.DB
}

// NewGormTrackingRepository creates a new GORM tracking repository.
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// AddConfirmationPoint persists a delivery confirmation record.
func (r *GormTrackingRepository) AddConfirmationPoint(
	ctx context.Context,
	point *tracking.ConfirmationPoint,
) error {
	if err := point.Validate(); err != nil {
		return err
	}

	dto := confirmationPointFromDomain(point)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// AddLocationPoint persists a shipper location sample.
func (r *GormTrackingRepository) AddLocationPoint(
	ctx context.Context,
	point *tracking.LocationPoint,
) error {
	if err := point.Validate(); err != nil {
		return err
	}

	dto := locationPointFromDomain(point)
	return r.db.WithContext(ctx).Create(&dto).Error
}
