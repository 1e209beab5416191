package jobs

import (
	"context"
	"log/slog"

	"shipping/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SessionAutocloseJob fails sessions that exceed the maximum duration.
// Each overdue session is closed in its own transaction, cascading to its
// open assignments and delayed parcels.
type SessionAutocloseJob struct {
	handler commands.AutoCloseSessionsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSessionAutocloseJob creates the hourly session auto-close sweep.
func NewSessionAutocloseJob(handler commands.AutoCloseSessionsCommandHandler, logger *slog.Logger) *SessionAutocloseJob {
	return &SessionAutocloseJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "session_autoclose_job"),
	}
}

// Start schedules the sweep at quarter past every hour.
func (j *SessionAutocloseJob) Start() error {
	_, err := j.cron.AddFunc("0 15 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewAutoCloseSessionsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Session auto-close sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session auto-close job started (running hourly)")
	return nil
}

// Stop stops the session auto-close job.
func (j *SessionAutocloseJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Session auto-close job stopped")
}
