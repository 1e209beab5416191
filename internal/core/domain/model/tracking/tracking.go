// Package tracking contains append-only records written alongside lifecycle
// changes: delivery confirmation points and shipper location samples. Records
// are immutable once created and are never updated.
package tracking

import (
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
)

// ErrPointIsNotConstructed is returned when a tracking point was not created
// through its factory function.
var ErrPointIsNotConstructed = errors.New("tracking point must be created via its New* factory")

// ConfirmationPoint records where and when a parcel's delivery was confirmed.
type ConfirmationPoint struct {
	id         kernel.UUID
	parcelID   kernel.UUID
	location   kernel.GeoLocation
	recordedAt time.Time

	isConstructed bool
}

// NewConfirmationPoint creates a confirmation record for a delivered parcel.
func NewConfirmationPoint(
	id, parcelID kernel.UUID,
	location kernel.GeoLocation,
	recordedAt time.Time,
) (*ConfirmationPoint, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := parcelID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("parcelID", err)
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	return &ConfirmationPoint{
		id:            id,
		parcelID:      parcelID,
		location:      location,
		recordedAt:    recordedAt,
		isConstructed: true,
	}, nil
}

// RestoreConfirmationPoint reconstructs a confirmation record from persistence.
func RestoreConfirmationPoint(
	id, parcelID kernel.UUID,
	location kernel.GeoLocation,
	recordedAt time.Time,
) (*ConfirmationPoint, error) {
	return NewConfirmationPoint(id, parcelID, location, recordedAt)
}

// Validate ensures the point was properly constructed.
func (p *ConfirmationPoint) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPointIsNotConstructed
	}
	return nil
}

// ID returns the record's unique identifier.
func (p *ConfirmationPoint) ID() kernel.UUID { return p.id }

// ParcelID returns the confirmed parcel's identifier.
func (p *ConfirmationPoint) ParcelID() kernel.UUID { return p.parcelID }

// Location returns where the confirmation was recorded.
func (p *ConfirmationPoint) Location() kernel.GeoLocation { return p.location }

// RecordedAt returns when the confirmation was recorded.
func (p *ConfirmationPoint) RecordedAt() time.Time { return p.recordedAt }

// LocationPoint records a shipper's position sample during a session.
type LocationPoint struct {
	id         kernel.UUID
	sessionID  kernel.UUID
	shipperID  kernel.UUID
	location   kernel.GeoLocation
	recordedAt time.Time

	isConstructed bool
}

// NewLocationPoint creates a location sample for a shipper's session.
func NewLocationPoint(
	id, sessionID, shipperID kernel.UUID,
	location kernel.GeoLocation,
	recordedAt time.Time,
) (*LocationPoint, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := sessionID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("sessionID", err)
	}
	if err := shipperID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("shipperID", err)
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	return &LocationPoint{
		id:            id,
		sessionID:     sessionID,
		shipperID:     shipperID,
		location:      location,
		recordedAt:    recordedAt,
		isConstructed: true,
	}, nil
}

// RestoreLocationPoint reconstructs a location sample from persistence.
func RestoreLocationPoint(
	id, sessionID, shipperID kernel.UUID,
	location kernel.GeoLocation,
	recordedAt time.Time,
) (*LocationPoint, error) {
	return NewLocationPoint(id, sessionID, shipperID, location, recordedAt)
}

// Validate ensures the point was properly constructed.
func (p *LocationPoint) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPointIsNotConstructed
	}
	return nil
}

// ID returns the record's unique identifier.
func (p *LocationPoint) ID() kernel.UUID { return p.id }

// SessionID returns the session during which the sample was taken.
func (p *LocationPoint) SessionID() kernel.UUID { return p.sessionID }

// ShipperID returns the sampled shipper's identifier.
func (p *LocationPoint) ShipperID() kernel.UUID { return p.shipperID }

// Location returns the sampled position.
func (p *LocationPoint) Location() kernel.GeoLocation { return p.location }

// RecordedAt returns when the sample was taken.
func (p *LocationPoint) RecordedAt() time.Time { return p.recordedAt }
