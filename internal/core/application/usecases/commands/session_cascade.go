package commands

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/parcel"
	"shipping/internal/core/domain/model/session"
	"shipping/internal/core/ports"
)

// failSessionCascade fails the session and cancels its remaining pending
// assignments, returning each cancelled assignment's parcels to the
// warehouse. Shared by the explicit fail operation and the auto-close sweep;
// the caller owns the transaction.
func failSessionCascade(
	ctx context.Context, uow UoW, failedSession *session.Session, reason string, now time.Time,
) error {
	if err := failedSession.Fail(reason, now); err != nil {
		return err
	}

	sessionRepo := uow.SessionRepository()
	if err := sessionRepo.Update(ctx, failedSession); err != nil {
		return err
	}

	assignmentRepo := uow.AssignmentRepository()
	assignments, err := assignmentRepo.GetBySession(ctx, failedSession.ID())
	if err != nil {
		return err
	}

	publisher := uow.EventPublisher()
	parcelRepo := uow.ParcelRepository()

	for _, pendingAssignment := range assignments {
		if pendingAssignment.Status() != assignment.Pending {
			continue
		}

		if err = pendingAssignment.Cancel(reason); err != nil {
			return err
		}
		if err = assignmentRepo.Update(ctx, pendingAssignment); err != nil {
			return err
		}

		for _, parcelID := range pendingAssignment.ParcelIDs() {
			heldParcel, parcelErr := parcelRepo.Get(ctx, parcelID)
			if parcelErr != nil {
				return parcelErr
			}
			// Auto-assigned but never scanned: cancelling the assignment
			// already released it, there is no status to rewind.
			if heldParcel.Status() == parcel.InWarehouse {
				continue
			}
			if parcelErr = heldParcel.ReturnToWarehouse(); parcelErr != nil {
				return parcelErr
			}
			if parcelErr = parcelRepo.Update(ctx, heldParcel); parcelErr != nil {
				return parcelErr
			}

			if parcelErr = publisher.Publish(ctx, ports.LifecycleEvent{
				EntityType: ports.EntityParcel,
				EntityID:   parcelID.String(),
				Action:     parcel.EndSession.String(),
				OccurredAt: now,
			}); parcelErr != nil {
				return parcelErr
			}
		}

		if err = publisher.Publish(ctx, ports.LifecycleEvent{
			EntityType: ports.EntityAssignment,
			EntityID:   pendingAssignment.ID().String(),
			Action:     assignment.Cancelled.String(),
			OccurredAt: now,
		}); err != nil {
			return err
		}
	}

	return publisher.Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntitySession,
		EntityID:   failedSession.ID().String(),
		Action:     session.Failed.String(),
		OccurredAt: now,
	})
}
