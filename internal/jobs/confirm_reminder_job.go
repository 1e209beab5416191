package jobs

import (
	"context"
	"log/slog"

	"shipping/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ConfirmReminderJob runs the confirmation reminder sweep. Delivered parcels
// past the reminder delay but still inside the confirmation window get a
// reminder event recorded for the notification pipeline.
type ConfirmReminderJob struct {
	handler commands.ConfirmRemindersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewConfirmReminderJob creates the hourly confirmation reminder sweep.
func NewConfirmReminderJob(handler commands.ConfirmRemindersCommandHandler, logger *slog.Logger) *ConfirmReminderJob {
	return &ConfirmReminderJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "confirm_reminder_job"),
	}
}

// Start schedules the sweep at half past every hour, offset from the timeout
// sweep so the two never contend for the same parcels.
func (j *ConfirmReminderJob) Start() error {
	_, err := j.cron.AddFunc("0 30 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewConfirmRemindersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Confirmation reminder sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Confirmation reminder job started (running hourly)")
	return nil
}

// Stop stops the confirmation reminder job.
func (j *ConfirmReminderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Confirmation reminder job stopped")
}
