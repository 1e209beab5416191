package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

var ErrStartSessionCommandIsNotConstructed = errors.New(
	"StartSessionCommand must be created via NewStartSessionCommand constructor",
)

// StartSessionCommand represents a shipper explicitly starting their session,
// fixing the route's starting location.
type StartSessionCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	location  kernel.GeoLocation

	guard guard.ConstructorGuard
}

// NewStartSessionCommand creates a command to start a created session.
func NewStartSessionCommand(sessionID kernel.UUID, location kernel.GeoLocation) (StartSessionCommand, error) {
	startCommand := StartSessionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		startCommand.setSessionID(sessionID),
		startCommand.setLocation(location),
	); err != nil {
		return StartSessionCommand{}, err
	}

	return startCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c StartSessionCommand) Validate() error {
	return c.guard.Validate(ErrStartSessionCommandIsNotConstructed)
}

// SessionID returns the session to start.
func (c StartSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Location returns the shipper's location fix.
func (c StartSessionCommand) Location() kernel.GeoLocation {
	return c.location
}

func (c *StartSessionCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *StartSessionCommand) setLocation(location kernel.GeoLocation) error {
	if err := location.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location", err)
	}

	c.location = location
	return nil
}
