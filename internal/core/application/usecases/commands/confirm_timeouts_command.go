package commands

import (
	"errors"

	"shipping/internal/pkg/guard"
)

var ErrConfirmTimeoutsCommandIsNotConstructed = errors.New(
	"ConfirmTimeoutsCommand must be created via NewConfirmTimeoutsCommand constructor",
)

// ConfirmTimeoutsCommand triggers the confirmation timeout sweep: parcels
// delivered longer ago than the confirmation window are finalized as if the
// customer had confirmed receipt.
type ConfirmTimeoutsCommand struct {
	guard guard.ConstructorGuard
}

// NewConfirmTimeoutsCommand creates a command to run the timeout sweep.
func NewConfirmTimeoutsCommand() ConfirmTimeoutsCommand {
	return ConfirmTimeoutsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ConfirmTimeoutsCommand) Validate() error {
	return c.guard.Validate(ErrConfirmTimeoutsCommandIsNotConstructed)
}
