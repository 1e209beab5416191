package commands

import (
	"context"
	"log/slog"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/session"
)

// autoCloseReason is recorded as the fail reason on swept sessions.
const autoCloseReason = "auto-closed: exceeded session window"

// AutoCloseSessionsCommandHandler runs the session auto-close sweep. Each
// overdue session is failed in its own transaction; one failing session is
// logged and skipped, the rest of the sweep proceeds.
type AutoCloseSessionsCommandHandler struct {
	uowFactory         UoWFactory
	maxSessionDuration time.Duration
	logger             *slog.Logger
}

// NewAutoCloseSessionsCommandHandler creates a handler for the auto-close sweep.
func NewAutoCloseSessionsCommandHandler(
	uowFactory UoWFactory, maxSessionDuration time.Duration, logger *slog.Logger,
) AutoCloseSessionsCommandHandler {
	return AutoCloseSessionsCommandHandler{
		uowFactory:         uowFactory,
		maxSessionDuration: maxSessionDuration,
		logger:             logger,
	}
}

// Handle processes the auto-close sweep command.
func (h AutoCloseSessionsCommandHandler) Handle(ctx context.Context, cmd AutoCloseSessionsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	cutoff := now.Add(-h.maxSessionDuration)

	overdue, err := h.listOverdue(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, overdueSession := range overdue {
		if err = h.closeOne(ctx, overdueSession.ID(), now); err != nil {
			h.logger.Error("session auto-close failed",
				"sessionId", overdueSession.ID().String(), "error", err)
		}
	}

	return nil
}

func (h AutoCloseSessionsCommandHandler) listOverdue(
	ctx context.Context, cutoff time.Time,
) ([]*session.Session, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.SessionRepository().GetActiveOlderThan(ctx, cutoff)
}

// closeOne fails a single session in its own transaction, re-reading it first
// in case it completed since the sweep listed it.
func (h AutoCloseSessionsCommandHandler) closeOne(
	ctx context.Context, sessionID kernel.UUID, now time.Time,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	overdueSession, err := uow.SessionRepository().Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !overdueSession.Status().IsActive() {
		return nil
	}

	if err = failSessionCascade(ctx, uow, overdueSession, autoCloseReason, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
