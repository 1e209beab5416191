package commands

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/session"
	"shipping/internal/core/domain/model/tracking"
	"shipping/internal/core/ports"
)

// StartSessionCommandHandler handles the business logic for starting a
// session. Records the shipper's location fix as the first tracking sample.
type StartSessionCommandHandler struct {
	uowFactory UoWFactory
}

// NewStartSessionCommandHandler creates a handler for session start operations.
func NewStartSessionCommandHandler(uowFactory UoWFactory) StartSessionCommandHandler {
	return StartSessionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the session start command.
func (h StartSessionCommandHandler) Handle(ctx context.Context, cmd StartSessionCommand) error {
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

	sessionRepo := uow.SessionRepository()
	activeSession, err := sessionRepo.Get(ctx, cmd.SessionID())
	if err != nil {
		return err
	}

	if err = activeSession.Start(cmd.Location(), now); err != nil {
		return err
	}

	if err = sessionRepo.Update(ctx, activeSession); err != nil {
		return err
	}

	locationPoint, err := tracking.NewLocationPoint(
		kernel.NewUUID(), activeSession.ID(), activeSession.ShipperID(), cmd.Location(), now)
	if err != nil {
		return err
	}
	if err = uow.TrackingRepository().AddLocationPoint(ctx, locationPoint); err != nil {
		return err
	}

	if err = uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntitySession,
		EntityID:   activeSession.ID().String(),
		Action:     session.InProgress.String(),
		OccurredAt: now,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
