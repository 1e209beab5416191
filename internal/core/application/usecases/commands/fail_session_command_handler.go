package commands

import (
	"context"
	"time"
)

// FailSessionCommandHandler handles the business logic for force-closing a
// session. The fail cascades to remaining pending assignments so their
// parcels can be reassigned.
type FailSessionCommandHandler struct {
	uowFactory UoWFactory
}

// NewFailSessionCommandHandler creates a handler for session fail operations.
func NewFailSessionCommandHandler(uowFactory UoWFactory) FailSessionCommandHandler {
	return FailSessionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the session fail command.
func (h FailSessionCommandHandler) Handle(ctx context.Context, cmd FailSessionCommand) error {
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

	failedSession, err := uow.SessionRepository().Get(ctx, cmd.SessionID())
	if err != nil {
		return err
	}

	if err = failSessionCascade(ctx, uow, failedSession, cmd.Reason(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
