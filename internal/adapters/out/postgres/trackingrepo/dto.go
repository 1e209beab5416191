// Package trackingrepo persists append-only tracking records: delivery
// confirmation points and shipper location samples. Records are inserted and
// never updated, so the package has no update or delete paths.
package trackingrepo

import (
	"time"

	"shipping/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

// ConfirmationPointDTO represents a delivery confirmation record.
type ConfirmationPointDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParcelID   uuid.UUID `gorm:"type:uuid;index"`
	Lat        float64
	Lon        float64
	RecordedAt time.Time
}

// TableName specifies the database table name for confirmation points.
func (ConfirmationPointDTO) TableName() string {
	return "confirmation_points"
}

// LocationPointDTO represents a shipper location sample.
type LocationPointDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID  uuid.UUID `gorm:"type:uuid;index"`
	ShipperID  uuid.UUID `gorm:"type:uuid;index"`
	Lat        float64
	Lon        float64
	RecordedAt time.Time
}

// TableName specifies the database table name for location points.
func (LocationPointDTO) TableName() string {
	return "location_points"
}

func confirmationPointFromDomain(point *tracking.ConfirmationPoint) ConfirmationPointDTO {
	return ConfirmationPointDTO{
		ID:         point.ID().Bytes(),
		ParcelID:   point.ParcelID().Bytes(),
		Lat:        point.Location().Lat(),
		Lon:        point.Location().Lon(),
		RecordedAt: point.RecordedAt(),
	}
}

func locationPointFromDomain(point *tracking.LocationPoint) LocationPointDTO {
	return LocationPointDTO{
		ID:         point.ID().Bytes(),
		SessionID:  point.SessionID().Bytes(),
		ShipperID:  point.ShipperID().Bytes(),
		Lat:        point.Location().Lat(),
		Lon:        point.Location().Lon(),
		RecordedAt: point.RecordedAt(),
	}
}
