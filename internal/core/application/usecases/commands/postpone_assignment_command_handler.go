package commands

import (
	"context"
	"errors"
	"time"

	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/parcel"
	"shipping/internal/core/domain/model/session"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// PostponeAssignmentCommandHandler handles the business logic for postponing
// a delivery. A move-to-end request whose time fits the session's remaining
// window keeps the parcels on route and only re-orders the stop; otherwise
// the parcels transition to Delayed and wait for the session to end.
//
// Move-to-end feasibility is validated against the routing collaborator and
// fails closed: if routing is unavailable the operation returns
// errs.CollaboratorUnavailableError rather than guessing.
type PostponeAssignmentCommandHandler struct {
	uowFactory         UoWFactory
	routingClient      ports.RoutingClient
	routingProfile     string
	maxSessionDuration time.Duration
}

// NewPostponeAssignmentCommandHandler creates a handler for postpone operations.
func NewPostponeAssignmentCommandHandler(
	uowFactory UoWFactory,
	routingClient ports.RoutingClient,
	routingProfile string,
	maxSessionDuration time.Duration,
) PostponeAssignmentCommandHandler {
	return PostponeAssignmentCommandHandler{
		uowFactory:         uowFactory,
		routingClient:      routingClient,
		routingProfile:     routingProfile,
		maxSessionDuration: maxSessionDuration,
	}
}

// Handle processes the postpone command.
func (h PostponeAssignmentCommandHandler) Handle(ctx context.Context, cmd PostponeAssignmentCommand) error {
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
	postponedAssignment, err := assignmentRepo.Get(ctx, cmd.AssignmentID())
	if err != nil {
		return err
	}

	owningSession, err := uow.SessionRepository().Get(ctx, postponedAssignment.SessionID())
	if err != nil {
		return err
	}

	if cmd.MoveToEnd() {
		fits, fitErr := h.fitsRemainingWindow(ctx, cmd, postponedAssignment, owningSession)
		if fitErr != nil {
			return fitErr
		}
		if fits {
			if err = h.moveToEnd(ctx, uow, postponedAssignment, now); err != nil {
				return err
			}
			return uow.Commit(ctx)
		}
	}

	if err = h.delayParcels(ctx, uow, postponedAssignment, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// fitsRemainingWindow reports whether the requested time, plus travel to the
// stop, still falls before the session's deadline. Travel time comes from the
// routing collaborator when both coordinates are known.
func (h PostponeAssignmentCommandHandler) fitsRemainingWindow(
	ctx context.Context,
	cmd PostponeAssignmentCommand,
	postponedAssignment *assignment.Assignment,
	owningSession *session.Session,
) (bool, error) {
	deadline := owningSession.Deadline(h.maxSessionDuration)
	if !cmd.RequestedTime().Before(deadline) {
		return false, nil
	}

	destination := postponedAssignment.Destination()
	if cmd.CurrentLocation() == nil || destination == nil {
		return true, nil
	}

	matrix, err := h.routingClient.Matrix(
		ctx, []kernel.GeoLocation{*cmd.CurrentLocation(), *destination}, h.routingProfile)
	if err != nil {
		return false, err
	}
	if len(matrix.Durations) < 2 || len(matrix.Durations[0]) < 2 {
		return false, errs.NewCollaboratorUnavailableError("routing",
			errors.New("malformed matrix response"))
	}

	travel := time.Duration(matrix.Durations[0][1]) * time.Second
	return cmd.RequestedTime().Add(travel).Before(deadline), nil
}

func (h PostponeAssignmentCommandHandler) moveToEnd(
	ctx context.Context, uow UoW, postponedAssignment *assignment.Assignment, now time.Time,
) error {
	assignmentRepo := uow.AssignmentRepository()

	lastRouteOrder, err := assignmentRepo.NextRouteOrder(ctx, postponedAssignment.SessionID())
	if err != nil {
		return err
	}
	if err = postponedAssignment.MoveToEnd(lastRouteOrder); err != nil {
		return err
	}
	if err = assignmentRepo.Update(ctx, postponedAssignment); err != nil {
		return err
	}

	return uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityAssignment,
		EntityID:   postponedAssignment.ID().String(),
		Action:     "MOVED_TO_END",
		OccurredAt: now,
	})
}

// delayParcels applies the postpone event to every member parcel. The
// assignment itself stays Pending; its parcels return to the warehouse when
// the session ends.
func (h PostponeAssignmentCommandHandler) delayParcels(
	ctx context.Context, uow UoW, postponedAssignment *assignment.Assignment, now time.Time,
) error {
	parcelRepo := uow.ParcelRepository()
	publisher := uow.EventPublisher()

	for _, parcelID := range postponedAssignment.ParcelIDs() {
		memberParcel, err := parcelRepo.Get(ctx, parcelID)
		if err != nil {
			return err
		}
		if _, err = memberParcel.Apply(parcel.Postpone, now); err != nil {
			return err
		}
		if err = parcelRepo.Update(ctx, memberParcel); err != nil {
			return err
		}

		if err = publisher.Publish(ctx, ports.LifecycleEvent{
			EntityType: ports.EntityParcel,
			EntityID:   parcelID.String(),
			Action:     parcel.Postpone.String(),
			OccurredAt: now,
		}); err != nil {
			return err
		}
	}

	return nil
}
