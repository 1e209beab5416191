package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

var ErrAcceptTransferCommandIsNotConstructed = errors.New(
	"AcceptTransferCommand must be created via NewAcceptTransferCommand constructor",
)

// AcceptTransferCommand represents the receiving shipper confirming physical
// custody of a transferred parcel, fixing where the handoff took place.
type AcceptTransferCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	parcelID  kernel.UUID
	location  kernel.GeoLocation

	guard guard.ConstructorGuard
}

// NewAcceptTransferCommand creates a command to confirm a received transfer.
func NewAcceptTransferCommand(
	sessionID, parcelID kernel.UUID, location kernel.GeoLocation,
) (AcceptTransferCommand, error) {
	acceptCommand := AcceptTransferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		acceptCommand.setSessionID(sessionID),
		acceptCommand.setParcelID(parcelID),
		acceptCommand.setLocation(location),
	); err != nil {
		return AcceptTransferCommand{}, err
	}

	return acceptCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptTransferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptTransferCommandIsNotConstructed)
}

// SessionID returns the receiving session.
func (c AcceptTransferCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// ParcelID returns the transferred parcel.
func (c AcceptTransferCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// Location returns where the handoff was confirmed.
func (c AcceptTransferCommand) Location() kernel.GeoLocation {
	return c.location
}

func (c *AcceptTransferCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *AcceptTransferCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	c.parcelID = parcelID
	return nil
}

func (c *AcceptTransferCommand) setLocation(location kernel.GeoLocation) error {
	if err := location.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location", err)
	}

	c.location = location
	return nil
}
