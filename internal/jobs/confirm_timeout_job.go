package jobs

import (
	"context"
	"log/slog"

	"shipping/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ConfirmTimeoutJob runs the confirmation timeout sweep. Delivered parcels
// whose confirmation window has lapsed without a customer response are
// auto-succeeded in batches.
type ConfirmTimeoutJob struct {
	handler commands.ConfirmTimeoutsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewConfirmTimeoutJob creates the hourly confirmation timeout sweep.
func NewConfirmTimeoutJob(handler commands.ConfirmTimeoutsCommandHandler, logger *slog.Logger) *ConfirmTimeoutJob {
	return &ConfirmTimeoutJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "confirm_timeout_job"),
	}
}

// Start schedules the sweep at the top of every hour.
func (j *ConfirmTimeoutJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewConfirmTimeoutsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Confirmation timeout sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Confirmation timeout job started (running hourly)")
	return nil
}

// Stop stops the confirmation timeout job.
func (j *ConfirmTimeoutJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Confirmation timeout job stopped")
}
