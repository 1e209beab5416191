package commands

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/parcel"
	"shipping/internal/core/domain/model/session"
	"shipping/internal/core/domain/model/tracking"
	"shipping/internal/core/ports"
)

// RecordOutcomeCommandHandler handles the business logic for delivery outcome
// recording. Runs every member parcel of the assignment through the state
// machine, resolves the assignment status, and auto-completes the owning
// session when no assignment remains pending.
//
// All writes happen in a single transaction: a parcel update without the
// matching assignment update can never be observed.
type RecordOutcomeCommandHandler struct {
	uowFactory UoWFactory
}

// NewRecordOutcomeCommandHandler creates a handler for outcome recording.
func NewRecordOutcomeCommandHandler(uowFactory UoWFactory) RecordOutcomeCommandHandler {
	return RecordOutcomeCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the outcome recording command.
func (h RecordOutcomeCommandHandler) Handle(ctx context.Context, cmd RecordOutcomeCommand) error {
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
	resolvedAssignment, err := assignmentRepo.Get(ctx, cmd.AssignmentID())
	if err != nil {
		return err
	}

	anyFailed, err := h.applyToParcels(ctx, uow, resolvedAssignment, cmd, now)
	if err != nil {
		return err
	}

	if anyFailed {
		err = resolvedAssignment.FailWith(cmd.Reason())
	} else {
		err = resolvedAssignment.Succeed()
	}
	if err != nil {
		return err
	}

	if err = assignmentRepo.Update(ctx, resolvedAssignment); err != nil {
		return err
	}

	if err = uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityAssignment,
		EntityID:   resolvedAssignment.ID().String(),
		Action:     resolvedAssignment.Status().String(),
		OccurredAt: now,
	}); err != nil {
		return err
	}

	if err = h.completeIfEligible(ctx, uow, resolvedAssignment.SessionID(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// applyToParcels runs each member parcel's outcome through its state
// machine. Grouped assignments transition together or not at all; the first
// rejected transition aborts the whole operation. Reports whether any member
// failed.
func (h RecordOutcomeCommandHandler) applyToParcels(
	ctx context.Context, uow UoW, resolvedAssignment *assignment.Assignment,
	cmd RecordOutcomeCommand, now time.Time,
) (bool, error) {
	parcelRepo := uow.ParcelRepository()
	trackingRepo := uow.TrackingRepository()
	publisher := uow.EventPublisher()

	anyFailed := false
	for _, parcelID := range resolvedAssignment.ParcelIDs() {
		outcome := cmd.OutcomeFor(parcelID)
		if outcome != parcel.DeliverySuccessful {
			anyFailed = true
		}

		memberParcel, err := parcelRepo.Get(ctx, parcelID)
		if err != nil {
			return false, err
		}

		effect, err := memberParcel.Apply(outcome, now)
		if err != nil {
			return false, err
		}

		if !effect.Has(parcel.EffectSkipPersist) {
			if err = parcelRepo.Update(ctx, memberParcel); err != nil {
				return false, err
			}
		}

		if outcome == parcel.DeliverySuccessful && cmd.Location() != nil {
			confirmationPoint, pointErr := tracking.NewConfirmationPoint(
				kernel.NewUUID(), parcelID, *cmd.Location(), now)
			if pointErr != nil {
				return false, pointErr
			}
			if err = trackingRepo.AddConfirmationPoint(ctx, confirmationPoint); err != nil {
				return false, err
			}
		}

		if err = publisher.Publish(ctx, ports.LifecycleEvent{
			EntityType: ports.EntityParcel,
			EntityID:   parcelID.String(),
			Action:     outcome.String(),
			OccurredAt: now,
		}); err != nil {
			return false, err
		}
	}

	return anyFailed, nil
}

// completeIfEligible transitions the owning session to Completed when none of
// its assignments is still pending. Sessions not yet started stay as they are.
func (h RecordOutcomeCommandHandler) completeIfEligible(
	ctx context.Context, uow UoW, sessionID kernel.UUID, now time.Time,
) error {
	pending, err := uow.AssignmentRepository().CountPendingBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return nil
	}

	sessionRepo := uow.SessionRepository()
	owningSession, err := sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if owningSession.Status() != session.InProgress {
		return nil
	}

	if err = owningSession.Complete(now); err != nil {
		return err
	}
	if err = sessionRepo.Update(ctx, owningSession); err != nil {
		return err
	}

	return uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntitySession,
		EntityID:   owningSession.ID().String(),
		Action:     session.Completed.String(),
		OccurredAt: now,
	})
}
