// Package jobs provides scheduled background tasks for the delivery engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to run the periodic sweeps the parcel and session lifecycles depend on.
//
// # Available Jobs
//
// 1. ConfirmTimeoutJob - Runs hourly to auto-succeed delivered parcels whose
// confirmation window lapsed without a customer response
// 2. ConfirmReminderJob - Runs hourly (offset by 30 minutes) to record
// reminder events for delivered parcels past the reminder delay
// 3. SessionAutocloseJob - Runs hourly (offset by 15 minutes) to fail
// sessions that exceed the maximum duration
// 4. OutboxRelayJob - Runs every ten seconds to drain pending outbox rows to
// the event consumer
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(
//		confirmTimeoutsHandler, confirmRemindersHandler, autoCloseHandler,
//		outboxRepo, consumer, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The three sweeps are staggered across the hour (minute 0, 15, and 30) so
// they never contend for the same rows. The outbox relay runs every ten
// seconds to keep downstream consumers close to real time.
//
// # Error Handling
//
// - Sweep handlers process each item in its own transaction and log per-item
// failures themselves; a job-level error means the sweep could not run at all
// - The relay marks a row failed and moves on when the consumer rejects it
// - Failed job starts will stop any already running jobs
package jobs
