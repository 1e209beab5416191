// Package parcelrepo provides data transfer objects and mapping functions for
// parcel persistence. This package implements the repository pattern for the
// parcel domain aggregate, handling the conversion between domain entities and
// database representations.
package parcelrepo

import (
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// ParcelDTO represents the database structure for persisting parcel
// aggregates. The status column is indexed together with delivered_at to
// serve the confirmation sweeps.
type ParcelDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status      string    `gorm:"index:idx_parcels_status_delivered_at"`
	DeliveredAt *time.Time `gorm:"index:idx_parcels_status_delivered_at"`
	WindowFrom  *time.Time
	WindowTo    *time.Time
}

// TableName specifies the database table name for parcel entities.
func (ParcelDTO) TableName() string {
	return "parcels"
}

// fromDomain converts a parcel domain aggregate to its database representation.
func fromDomain(aggregate *parcel.Parcel) ParcelDTO {
	return ParcelDTO{
		ID:          aggregate.ID().Bytes(),
		Status:      aggregate.Status().String(),
		DeliveredAt: aggregate.DeliveredAt(),
		WindowFrom:  aggregate.WindowFrom(),
		WindowTo:    aggregate.WindowTo(),
	}
}

// toDomain converts a database DTO to a parcel domain aggregate.
func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := parcel.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return parcel.RestoreParcel(id, status, dto.DeliveredAt, dto.WindowFrom, dto.WindowTo)
}
