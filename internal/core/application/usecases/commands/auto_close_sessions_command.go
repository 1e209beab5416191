package commands

import (
	"errors"

	"shipping/internal/pkg/guard"
)

var ErrAutoCloseSessionsCommandIsNotConstructed = errors.New(
	"AutoCloseSessionsCommand must be created via NewAutoCloseSessionsCommand constructor",
)

// AutoCloseSessionsCommand triggers the session auto-close sweep: active
// sessions that exceeded the maximum duration are failed, cancelling their
// remaining pending assignments.
type AutoCloseSessionsCommand struct {
	guard guard.ConstructorGuard
}

// NewAutoCloseSessionsCommand creates a command to run the auto-close sweep.
func NewAutoCloseSessionsCommand() AutoCloseSessionsCommand {
	return AutoCloseSessionsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c AutoCloseSessionsCommand) Validate() error {
	return c.guard.Validate(ErrAutoCloseSessionsCommandIsNotConstructed)
}
