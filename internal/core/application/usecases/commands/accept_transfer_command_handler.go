package commands

import (
	"context"
	"errors"
	"time"

	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/tracking"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// AcceptTransferCommandHandler handles the business logic for confirming a
// received transfer. Verifies the parcel is actually held by the accepting
// session and records the handoff location as a tracking sample.
type AcceptTransferCommandHandler struct {
	uowFactory UoWFactory
}

// NewAcceptTransferCommandHandler creates a handler for transfer confirmations.
func NewAcceptTransferCommandHandler(uowFactory UoWFactory) AcceptTransferCommandHandler {
	return AcceptTransferCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transfer confirmation command.
func (h AcceptTransferCommandHandler) Handle(ctx context.Context, cmd AcceptTransferCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	heldAssignment, err := uow.AssignmentRepository().GetActiveByParcel(ctx, cmd.ParcelID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewTransferConflictErrorWithCause(
			cmd.ParcelID().String(), cmd.SessionID().String(), err)
	}
	if err != nil {
		return err
	}

	if !heldAssignment.SessionID().IsEqual(cmd.SessionID()) ||
		heldAssignment.Status() != assignment.Pending {
		return errs.NewTransferConflictError(cmd.ParcelID().String(), cmd.SessionID().String())
	}

	acceptingSession, err := uow.SessionRepository().Get(ctx, cmd.SessionID())
	if err != nil {
		return err
	}

	locationPoint, err := tracking.NewLocationPoint(
		kernel.NewUUID(), acceptingSession.ID(), acceptingSession.ShipperID(), cmd.Location(), now)
	if err != nil {
		return err
	}
	if err = uow.TrackingRepository().AddLocationPoint(ctx, locationPoint); err != nil {
		return err
	}

	if err = uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityAssignment,
		EntityID:   heldAssignment.ID().String(),
		Action:     "TRANSFER_ACCEPTED",
		OccurredAt: now,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
