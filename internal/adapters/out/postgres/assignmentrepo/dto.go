// Package assignmentrepo provides data transfer objects and mapping
// functions for delivery assignment persistence. Parcel custody is modeled
// as membership rows; the one-active-assignment-per-parcel invariant is a
// partial unique index on active membership rows.
package assignmentrepo

import (
	"time"

	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting assignment
// aggregates.
type AssignmentDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID         uuid.UUID `gorm:"type:uuid;index"`
	DeliveryAddressID string
	DestinationLat    *float64
	DestinationLon    *float64
	Status            string
	FailReason        string
	RouteOrder        int
	DistanceMeters    float64
	DurationSeconds   float64
	CreatedAt         time.Time
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// AssignmentParcelDTO is one parcel membership row of an assignment. Active
// rows carry custody; the migration creates a partial unique index on
// parcel_id WHERE active so a parcel can be held by at most one assignment.
type AssignmentParcelDTO struct {
	AssignmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParcelID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Active       bool
}

// TableName specifies the database table name for membership rows.
func (AssignmentParcelDTO) TableName() string {
	return "assignment_parcels"
}

// fromDomain converts an assignment domain aggregate to its database
// representation together with its membership rows.
func fromDomain(aggregate *assignment.Assignment) (AssignmentDTO, []AssignmentParcelDTO) {
	var destLat, destLon *float64
	if loc := aggregate.Destination(); loc != nil {
		lat, lon := loc.Lat(), loc.Lon()
		destLat, destLon = &lat, &lon
	}

	dto := AssignmentDTO{
		ID:                aggregate.ID().Bytes(),
		SessionID:         aggregate.SessionID().Bytes(),
		DeliveryAddressID: aggregate.DeliveryAddressID(),
		DestinationLat:    destLat,
		DestinationLon:    destLon,
		Status:            aggregate.Status().String(),
		FailReason:        aggregate.FailReason(),
		RouteOrder:        aggregate.RouteOrder(),
		DistanceMeters:    aggregate.DistanceMeters(),
		DurationSeconds:   aggregate.DurationSeconds(),
		CreatedAt:         aggregate.CreatedAt(),
	}

	parcelIDs := aggregate.ParcelIDs()
	members := make([]AssignmentParcelDTO, 0, len(parcelIDs))
	for _, parcelID := range parcelIDs {
		members = append(members, AssignmentParcelDTO{
			AssignmentID: dto.ID,
			ParcelID:     parcelID.Bytes(),
			Active:       !aggregate.Status().IsTerminal(),
		})
	}

	return dto, members
}

// toDomain converts a database DTO plus its membership rows to an assignment
// domain aggregate.
func toDomain(dto AssignmentDTO, members []AssignmentParcelDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	sessionID, err := kernel.UUIDFromBytes(dto.SessionID[:])
	if err != nil {
		return nil, err
	}

	status, err := assignment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var destination *kernel.GeoLocation
	if dto.DestinationLat != nil && dto.DestinationLon != nil {
		loc, locErr := kernel.NewGeoLocation(*dto.DestinationLat, *dto.DestinationLon)
		if locErr != nil {
			return nil, locErr
		}
		destination = &loc
	}

	parcelIDs := make([]kernel.UUID, 0, len(members))
	for _, member := range members {
		parcelID, idErr := kernel.UUIDFromBytes(member.ParcelID[:])
		if idErr != nil {
			return nil, idErr
		}
		parcelIDs = append(parcelIDs, parcelID)
	}

	return assignment.RestoreAssignment(
		id, sessionID, parcelIDs,
		dto.DeliveryAddressID, destination,
		status, dto.FailReason,
		dto.RouteOrder, dto.DistanceMeters, dto.DurationSeconds,
		dto.CreatedAt,
	)
}
