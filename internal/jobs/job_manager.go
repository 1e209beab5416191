package jobs

import (
	"fmt"
	"log/slog"

	"shipping/internal/adapters/out/postgres/outboxrepo"
	"shipping/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	confirmTimeoutJob   *ConfirmTimeoutJob
	confirmReminderJob  *ConfirmReminderJob
	sessionAutocloseJob *SessionAutocloseJob
	outboxRelayJob      *OutboxRelayJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	confirmTimeoutsHandler commands.ConfirmTimeoutsCommandHandler,
	confirmRemindersHandler commands.ConfirmRemindersCommandHandler,
	autoCloseHandler commands.AutoCloseSessionsCommandHandler,
	outbox *outboxrepo.GormOutboxRepository,
	consumer EventConsumer,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		confirmTimeoutJob:   NewConfirmTimeoutJob(confirmTimeoutsHandler, logger),
		confirmReminderJob:  NewConfirmReminderJob(confirmRemindersHandler, logger),
		sessionAutocloseJob: NewSessionAutocloseJob(autoCloseHandler, logger),
		outboxRelayJob:      NewOutboxRelayJob(outbox, consumer, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	started := make([]interface{ Stop() }, 0, 4)

	stopStarted := func() {
		for _, job := range started {
			job.Stop()
		}
	}

	if err := jm.confirmTimeoutJob.Start(); err != nil {
		return fmt.Errorf("failed to start confirmation timeout job: %w", err)
	}
	started = append(started, jm.confirmTimeoutJob)

	if err := jm.confirmReminderJob.Start(); err != nil {
		stopStarted()
		return fmt.Errorf("failed to start confirmation reminder job: %w", err)
	}
	started = append(started, jm.confirmReminderJob)

	if err := jm.sessionAutocloseJob.Start(); err != nil {
		stopStarted()
		return fmt.Errorf("failed to start session auto-close job: %w", err)
	}
	started = append(started, jm.sessionAutocloseJob)

	if err := jm.outboxRelayJob.Start(); err != nil {
		stopStarted()
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxRelayJob.Stop()
	jm.sessionAutocloseJob.Stop()
	jm.confirmReminderJob.Stop()
	jm.confirmTimeoutJob.Stop()
}
