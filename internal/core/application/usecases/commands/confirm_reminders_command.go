package commands

import (
	"errors"

	"shipping/internal/pkg/guard"
)

var ErrConfirmRemindersCommandIsNotConstructed = errors.New(
	"ConfirmRemindersCommand must be created via NewConfirmRemindersCommand constructor",
)

// ConfirmRemindersCommand triggers the confirmation reminder sweep: customers
// of parcels awaiting confirmation are nudged. The reminder never mutates
// parcel state; only an outbox notification is written.
type ConfirmRemindersCommand struct {
	guard guard.ConstructorGuard
}

// NewConfirmRemindersCommand creates a command to run the reminder sweep.
func NewConfirmRemindersCommand() ConfirmRemindersCommand {
	return ConfirmRemindersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ConfirmRemindersCommand) Validate() error {
	return c.guard.Validate(ErrConfirmRemindersCommandIsNotConstructed)
}
