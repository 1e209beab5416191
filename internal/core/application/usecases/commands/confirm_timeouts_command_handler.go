package commands

import (
	"context"
	"log/slog"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/parcel"
	"shipping/internal/core/ports"
)

// ConfirmTimeoutsCommandHandler runs the confirmation timeout sweep. Each
// lapsed parcel is finalized in its own transaction: one failing parcel is
// logged and skipped, the rest of the sweep proceeds.
type ConfirmTimeoutsCommandHandler struct {
	uowFactory    ParcelUoWFactory
	confirmWindow time.Duration
	logger        *slog.Logger
}

// NewConfirmTimeoutsCommandHandler creates a handler for the timeout sweep.
func NewConfirmTimeoutsCommandHandler(
	uowFactory ParcelUoWFactory, confirmWindow time.Duration, logger *slog.Logger,
) ConfirmTimeoutsCommandHandler {
	return ConfirmTimeoutsCommandHandler{
		uowFactory:    uowFactory,
		confirmWindow: confirmWindow,
		logger:        logger,
	}
}

// Handle processes the timeout sweep command.
func (h ConfirmTimeoutsCommandHandler) Handle(ctx context.Context, cmd ConfirmTimeoutsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	cutoff := now.Add(-h.confirmWindow)

	lapsed, err := h.listLapsed(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, lapsedParcel := range lapsed {
		if err = h.confirmOne(ctx, lapsedParcel.ID(), now); err != nil {
			h.logger.Error("confirm timeout failed",
				"parcelId", lapsedParcel.ID().String(), "error", err)
		}
	}

	return nil
}

func (h ConfirmTimeoutsCommandHandler) listLapsed(
	ctx context.Context, cutoff time.Time,
) ([]*parcel.Parcel, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.ParcelRepository().GetDeliveredBefore(ctx, cutoff)
}

// confirmOne finalizes a single parcel in its own transaction, re-reading it
// first in case a customer confirmation landed since the sweep listed it.
func (h ConfirmTimeoutsCommandHandler) confirmOne(
	ctx context.Context, parcelID kernel.UUID, now time.Time,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()
	lapsedParcel, err := parcelRepo.Get(ctx, parcelID)
	if err != nil {
		return err
	}
	if lapsedParcel.Status() != parcel.Delivered {
		return nil
	}

	if _, err = lapsedParcel.Apply(parcel.ConfirmTimeout, now); err != nil {
		return err
	}
	if err = parcelRepo.Update(ctx, lapsedParcel); err != nil {
		return err
	}

	if err = uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntityParcel,
		EntityID:   parcelID.String(),
		Action:     parcel.ConfirmTimeout.String(),
		OccurredAt: now,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
