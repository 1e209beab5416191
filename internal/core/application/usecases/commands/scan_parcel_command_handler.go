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

// ScanParcelCommandHandler handles the business logic for parcel scans.
// Attaches the parcel to the shipper's active session, or atomically creates
// a new session plus its first assignment if no active session exists.
// Scanning a parcel already held by the shipper's own session (the
// auto-assignment path reserves parcels before they are scanned) moves the
// parcel on route without creating a second assignment.
//
// Concurrent scans by the same shipper are safe: session creation is backed
// by a unique constraint, and a loser retries against the winner's session.
// Concurrent scans of the same parcel by different shippers resolve through
// the active-assignment-per-parcel constraint; the loser observes
// errs.DuplicateAssignmentError.
type ScanParcelCommandHandler struct {
	uowFactory UoWFactory
}

// NewScanParcelCommandHandler creates a handler for parcel scan operations.
func NewScanParcelCommandHandler(uowFactory UoWFactory) ScanParcelCommandHandler {
	return ScanParcelCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the parcel scan command. A lost race on session creation
// is retried once with a fresh transaction, re-reading the winner's session.
func (h ScanParcelCommandHandler) Handle(ctx context.Context, cmd ScanParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	err := h.scanOnce(ctx, cmd)
	if errors.Is(err, errs.ErrActiveSessionExists) {
		err = h.scanOnce(ctx, cmd)
	}
	return err
}

func (h ScanParcelCommandHandler) scanOnce(ctx context.Context, cmd ScanParcelCommand) error {
	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()
	scannedParcel, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	if _, err = scannedParcel.Apply(parcel.ScanQR, now); err != nil {
		return err
	}

	assignmentRepo := uow.AssignmentRepository()
	heldBy, err := assignmentRepo.GetActiveByParcel(ctx, cmd.ParcelID())
	if err == nil {
		return h.scanHeldParcel(ctx, uow, heldBy, scannedParcel, cmd.ShipperID(), now)
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	activeSession, created, err := getOrCreateSession(ctx, uow, cmd.ShipperID(), now)
	if err != nil {
		return err
	}

	routeOrder, err := assignmentRepo.NextRouteOrder(ctx, activeSession.ID())
	if err != nil {
		return err
	}

	newAssignment, err := assignment.NewAssignment(
		kernel.NewUUID(), activeSession.ID(),
		[]kernel.UUID{cmd.ParcelID()},
		cmd.DeliveryAddressID(), cmd.Destination(),
		routeOrder, now)
	if err != nil {
		return err
	}

	if err = assignmentRepo.Add(ctx, newAssignment); err != nil {
		return err
	}

	if err = parcelRepo.Update(ctx, scannedParcel); err != nil {
		return err
	}

	publisher := uow.EventPublisher()
	if created {
		if err = publisher.Publish(ctx, ports.LifecycleEvent{
			EntityType: ports.EntitySession,
			EntityID:   activeSession.ID().String(),
			Action:     session.Created.String(),
			OccurredAt: now,
		}); err != nil {
			return err
		}
	}
	if err = publisher.Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityAssignment,
		EntityID:   newAssignment.ID().String(),
		Action:     assignment.Pending.String(),
		OccurredAt: now,
	}); err != nil {
		return err
	}
	if err = publisher.Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityParcel,
		EntityID:   cmd.ParcelID().String(),
		Action:     parcel.ScanQR.String(),
		OccurredAt: now,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// scanHeldParcel completes the scan of a parcel that already has an active
// assignment. Only the shipper whose session holds the parcel may scan it;
// anyone else observes the same duplicate-assignment conflict the storage
// constraint would have produced.
func (h ScanParcelCommandHandler) scanHeldParcel(
	ctx context.Context,
	uow UoW,
	heldBy *assignment.Assignment,
	scannedParcel *parcel.Parcel,
	shipperID kernel.UUID,
	now time.Time,
) error {
	owningSession, err := uow.SessionRepository().Get(ctx, heldBy.SessionID())
	if err != nil {
		return err
	}
	if !owningSession.ShipperID().IsEqual(shipperID) {
		return errs.NewDuplicateAssignmentError(scannedParcel.ID().String())
	}

	if err = uow.ParcelRepository().Update(ctx, scannedParcel); err != nil {
		return err
	}

	if err = uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityParcel,
		EntityID:   scannedParcel.ID().String(),
		Action:     parcel.ScanQR.String(),
		OccurredAt: now,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// getOrCreateSession returns the shipper's active session, creating one when
// none exists. The second return value reports whether a session was created.
//
// A concurrent caller may win the unique-constraint race on session creation;
// callers retry with a fresh transaction and find the winner's session.
func getOrCreateSession(
	ctx context.Context, uow UoW, shipperID kernel.UUID, now time.Time,
) (*session.Session, bool, error) {
	sessionRepo := uow.SessionRepository()

	activeSession, err := sessionRepo.GetActiveByShipper(ctx, shipperID)
	if err == nil {
		return activeSession, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	activeSession, err = session.NewSession(kernel.NewUUID(), shipperID, now)
	if err != nil {
		return nil, false, err
	}

	if err = sessionRepo.Add(ctx, activeSession); err != nil {
		return nil, false, err
	}

	return activeSession, true, nil
}
