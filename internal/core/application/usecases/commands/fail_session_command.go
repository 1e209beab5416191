package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var (
	ErrFailSessionCommandIsNotConstructed = errors.New(
		"FailSessionCommand must be created via NewFailSessionCommand constructor",
	)
	ErrSessionFailReasonIsRequired = errors.New("session fail reason is required")
)

// FailSessionCommand represents force-closing an active session. Remaining
// pending assignments are cancelled and their parcels returned to the
// warehouse for reassignment.
type FailSessionCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

// NewFailSessionCommand creates a command to fail a session.
func NewFailSessionCommand(sessionID kernel.UUID, reason string) (FailSessionCommand, error) {
	failCommand := FailSessionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		failCommand.setSessionID(sessionID),
		failCommand.setReason(reason),
	); err != nil {
		return FailSessionCommand{}, err
	}

	return failCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c FailSessionCommand) Validate() error {
	return c.guard.Validate(ErrFailSessionCommandIsNotConstructed)
}

// SessionID returns the session to fail.
func (c FailSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Reason returns why the session is failed.
func (c FailSessionCommand) Reason() string {
	return c.reason
}

func (c *FailSessionCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *FailSessionCommand) setReason(reason string) error {
	if reason == "" {
		return ErrSessionFailReasonIsRequired
	}

	c.reason = reason
	return nil
}
