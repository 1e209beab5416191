package commands

import (
	"context"
	"log/slog"
	"time"

	"shipping/internal/core/domain/model/parcel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// ConfirmRemindersCommandHandler runs the confirmation reminder sweep over
// parcels delivered long enough ago to warrant a nudge but not yet lapsed.
// The reminder event is a non-persisting no-op on the parcel; the handler
// only writes the outbox notification. Per-parcel errors are logged and do
// not abort the sweep.
type ConfirmRemindersCommandHandler struct {
	uowFactory    ParcelUoWFactory
	confirmWindow time.Duration
	reminderDelay time.Duration
	logger        *slog.Logger
}

// NewConfirmRemindersCommandHandler creates a handler for the reminder sweep.
func NewConfirmRemindersCommandHandler(
	uowFactory ParcelUoWFactory,
	confirmWindow, reminderDelay time.Duration,
	logger *slog.Logger,
) ConfirmRemindersCommandHandler {
	return ConfirmRemindersCommandHandler{
		uowFactory:    uowFactory,
		confirmWindow: confirmWindow,
		reminderDelay: reminderDelay,
		logger:        logger,
	}
}

// Handle processes the reminder sweep command.
func (h ConfirmRemindersCommandHandler) Handle(ctx context.Context, cmd ConfirmRemindersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	from := now.Add(-h.confirmWindow)
	to := now.Add(-h.reminderDelay)

	awaiting, err := h.listAwaiting(ctx, from, to)
	if err != nil {
		return err
	}

	for _, awaitingParcel := range awaiting {
		if err = h.remindOne(ctx, awaitingParcel, now); err != nil {
			h.logger.Error("confirm reminder failed",
				"parcelId", awaitingParcel.ID().String(), "error", err)
		}
	}

	return nil
}

func (h ConfirmRemindersCommandHandler) listAwaiting(
	ctx context.Context, from, to time.Time,
) ([]*parcel.Parcel, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.ParcelRepository().GetDeliveredBetween(ctx, from, to)
}

func (h ConfirmRemindersCommandHandler) remindOne(
	ctx context.Context, awaitingParcel *parcel.Parcel, now time.Time,
) error {
	// Legality check only: the reminder must not change status or be persisted.
	effect, err := awaitingParcel.Apply(parcel.ConfirmReminder, now)
	if err != nil {
		return err
	}
	if !effect.Has(parcel.EffectSkipPersist) {
		return errs.NewValueIsInvalidError("reminder must not persist parcel state")
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityParcel,
		EntityID:   awaitingParcel.ID().String(),
		Action:     parcel.ConfirmReminder.String(),
		OccurredAt: now,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
