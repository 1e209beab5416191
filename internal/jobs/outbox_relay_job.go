package jobs

import (
	"context"
	"log/slog"

	"shipping/internal/adapters/out/postgres/outboxrepo"
	"shipping/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// relayBatchSize caps how many outbox rows a single relay tick drains.
const relayBatchSize = 100

// EventConsumer receives lifecycle events drained from the outbox. Delivery
// is at-least-once; consumers must be idempotent.
type EventConsumer interface {
	Consume(ctx context.Context, event ports.LifecycleEvent) error
}

// LogEventConsumer writes every lifecycle event to the structured log. It is
// the default consumer until a real downstream transport is attached.
type LogEventConsumer struct {
	logger *slog.Logger
}

// NewLogEventConsumer creates a consumer that logs lifecycle events.
func NewLogEventConsumer(logger *slog.Logger) *LogEventConsumer {
	return &LogEventConsumer{logger: logger.With("component", "lifecycle_events")}
}

// Consume logs the event.
func (c *LogEventConsumer) Consume(ctx context.Context, event ports.LifecycleEvent) error {
	c.logger.InfoContext(ctx, "lifecycle event",
		"entityType", event.EntityType,
		"entityId", event.EntityID,
		"action", event.Action,
		"occurredAt", event.OccurredAt)
	return nil
}

// OutboxRelayJob drains pending outbox rows and forwards them to the
// consumer. A row is marked processed only after the consumer accepts it, so
// consumer failures leave the row pending for the next tick.
type OutboxRelayJob struct {
	outbox   *outboxrepo.GormOutboxRepository
	consumer EventConsumer
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOutboxRelayJob creates the outbox relay.
func NewOutboxRelayJob(
	outbox *outboxrepo.GormOutboxRepository, consumer EventConsumer, logger *slog.Logger,
) *OutboxRelayJob {
	return &OutboxRelayJob{
		outbox:   outbox,
		consumer: consumer,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "outbox_relay_job"),
	}
}

// Start schedules the relay to drain the outbox every ten seconds.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		if err := j.drain(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay tick failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started (running every ten seconds)")
	return nil
}

// Stop stops the outbox relay job.
func (j *OutboxRelayJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

func (j *OutboxRelayJob) drain(ctx context.Context) error {
	pending, err := j.outbox.GetPending(ctx, relayBatchSize)
	if err != nil {
		return err
	}

	for _, row := range pending {
		if consumeErr := j.consumer.Consume(ctx, row.ToLifecycleEvent()); consumeErr != nil {
			if markErr := j.outbox.MarkFailed(ctx, row, consumeErr); markErr != nil {
				return markErr
			}
			continue
		}
		if markErr := j.outbox.MarkProcessed(ctx, row); markErr != nil {
			return markErr
		}
	}

	return nil
}
