package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrTransferParcelCommandIsNotConstructed = errors.New(
	"TransferParcelCommand must be created via NewTransferParcelCommand constructor",
)

// TransferParcelCommand represents moving custody of a parcel's assignment
// from one session to another. The parcel's delivery status is untouched;
// only assignment ownership changes.
type TransferParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID        kernel.UUID
	sourceSessionID kernel.UUID
	targetSessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewTransferParcelCommand creates a command to transfer a parcel between
// sessions.
func NewTransferParcelCommand(
	parcelID, sourceSessionID, targetSessionID kernel.UUID,
) (TransferParcelCommand, error) {
	transferCommand := TransferParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		transferCommand.setParcelID(parcelID),
		transferCommand.setSessions(sourceSessionID, targetSessionID),
	); err != nil {
		return TransferParcelCommand{}, err
	}

	return transferCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c TransferParcelCommand) Validate() error {
	return c.guard.Validate(ErrTransferParcelCommandIsNotConstructed)
}

// ParcelID returns the parcel whose custody moves.
func (c TransferParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// SourceSessionID returns the session claimed to hold the parcel.
func (c TransferParcelCommand) SourceSessionID() kernel.UUID {
	return c.sourceSessionID
}

// TargetSessionID returns the session receiving custody.
func (c TransferParcelCommand) TargetSessionID() kernel.UUID {
	return c.targetSessionID
}

func (c *TransferParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	c.parcelID = parcelID
	return nil
}

func (c *TransferParcelCommand) setSessions(sourceSessionID, targetSessionID kernel.UUID) error {
	if err := sourceSessionID.Validate(); err != nil {
		return err
	}
	if err := targetSessionID.Validate(); err != nil {
		return err
	}
	if sourceSessionID.IsEqual(targetSessionID) {
		return errors.New("source and target session must differ")
	}

	c.sourceSessionID = sourceSessionID
	c.targetSessionID = targetSessionID
	return nil
}
