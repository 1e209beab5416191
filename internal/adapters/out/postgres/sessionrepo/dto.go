// Package sessionrepo provides data transfer objects and mapping functions
// for delivery session persistence. The one-active-session-per-shipper
// invariant lives here as a partial unique index, not in application code.
package sessionrepo

import (
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/session"

	"github.com/google/uuid"
)

// SessionDTO represents the database structure for persisting session
// aggregates. The partial unique index on shipper_id for active statuses is
// created by the migration, AutoMigrate cannot express it.
type SessionDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipperID  uuid.UUID `gorm:"type:uuid;index"`
	Status     string    `gorm:"index"`
	CreatedAt  time.Time
	StartedAt  *time.Time
	EndedAt    *time.Time
	StartLat   *float64
	StartLon   *float64
	FailReason string
}

// TableName specifies the database table name for session entities.
func (SessionDTO) TableName() string {
	return "sessions"
}

// fromDomain converts a session domain aggregate to its database representation.
func fromDomain(aggregate *session.Session) SessionDTO {
	var startLat, startLon *float64
	if loc := aggregate.StartLocation(); loc != nil {
		lat, lon := loc.Lat(), loc.Lon()
		startLat, startLon = &lat, &lon
	}

	return SessionDTO{
		ID:         aggregate.ID().Bytes(),
		ShipperID:  aggregate.ShipperID().Bytes(),
		Status:     aggregate.Status().String(),
		CreatedAt:  aggregate.CreatedAt(),
		StartedAt:  aggregate.StartedAt(),
		EndedAt:    aggregate.EndedAt(),
		StartLat:   startLat,
		StartLon:   startLon,
		FailReason: aggregate.FailReason(),
	}
}

// toDomain converts a database DTO to a session domain aggregate.
func toDomain(dto SessionDTO) (*session.Session, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	shipperID, err := kernel.UUIDFromBytes(dto.ShipperID[:])
	if err != nil {
		return nil, err
	}

	status, err := session.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var startLocation *kernel.GeoLocation
	if dto.StartLat != nil && dto.StartLon != nil {
		loc, locErr := kernel.NewGeoLocation(*dto.StartLat, *dto.StartLon)
		if locErr != nil {
			return nil, locErr
		}
		startLocation = &loc
	}

	return session.RestoreSession(
		id, shipperID, status,
		dto.CreatedAt, dto.StartedAt, dto.EndedAt,
		startLocation, dto.FailReason,
	)
}
