package commands

import (
	"context"
	"errors"
	"time"

	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// TransferParcelCommandHandler handles the business logic for custody
// handoffs. Marks the source assignment Transferred and creates a fresh
// Pending assignment under the target session, atomically. A grouped
// assignment transfers all of its parcels as a unit.
//
// Double-transfer races resolve through the active-assignment-per-parcel
// constraint: the loser's insert collides and surfaces as
// errs.TransferConflictError.
type TransferParcelCommandHandler struct {
	uowFactory UoWFactory
}

// NewTransferParcelCommandHandler creates a handler for transfer operations.
func NewTransferParcelCommandHandler(uowFactory UoWFactory) TransferParcelCommandHandler {
	return TransferParcelCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transfer command.
func (h TransferParcelCommandHandler) Handle(ctx context.Context, cmd TransferParcelCommand) error {
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

	assignmentRepo := uow.AssignmentRepository()

	sourceAssignment, err := assignmentRepo.GetActiveByParcel(ctx, cmd.ParcelID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewTransferConflictErrorWithCause(
			cmd.ParcelID().String(), cmd.SourceSessionID().String(), err)
	}
	if err != nil {
		return err
	}

	if !sourceAssignment.SessionID().IsEqual(cmd.SourceSessionID()) ||
		sourceAssignment.Status() != assignment.Pending {
		return errs.NewTransferConflictError(cmd.ParcelID().String(), cmd.SourceSessionID().String())
	}

	targetSession, err := uow.SessionRepository().Get(ctx, cmd.TargetSessionID())
	if err != nil {
		return err
	}
	if !targetSession.Status().IsActive() {
		return errs.NewValueIsInvalidError("target session is not active")
	}

	if err = sourceAssignment.Transfer(); err != nil {
		return err
	}
	if err = assignmentRepo.Update(ctx, sourceAssignment); err != nil {
		return err
	}

	routeOrder, err := assignmentRepo.NextRouteOrder(ctx, targetSession.ID())
	if err != nil {
		return err
	}

	targetAssignment, err := assignment.NewAssignment(
		kernel.NewUUID(), targetSession.ID(),
		sourceAssignment.ParcelIDs(),
		sourceAssignment.DeliveryAddressID(), sourceAssignment.Destination(),
		routeOrder, now)
	if err != nil {
		return err
	}

	if err = assignmentRepo.Add(ctx, targetAssignment); err != nil {
		if errors.Is(err, errs.ErrDuplicateAssignment) {
			return errs.NewTransferConflictErrorWithCause(
				cmd.ParcelID().String(), cmd.SourceSessionID().String(), err)
		}
		return err
	}

	publisher := uow.EventPublisher()
	if err = publisher.Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityAssignment,
		EntityID:   sourceAssignment.ID().String(),
		Action:     assignment.Transferred.String(),
		OccurredAt: now,
	}); err != nil {
		return err
	}
	if err = publisher.Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityAssignment,
		EntityID:   targetAssignment.ID().String(),
		Action:     assignment.Pending.String(),
		OccurredAt: now,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
