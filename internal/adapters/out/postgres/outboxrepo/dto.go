// Package outboxrepo implements the transactional outbox for lifecycle
// events. Events are written in the same transaction as the state change
// they describe and handed to downstream consumers asynchronously, giving
// at-least-once delivery.
package outboxrepo

import (
	"time"

	"shipping/internal/core/ports"

	"github.com/google/uuid"
)

// Event statuses of an outbox row.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// OutboxEventDTO represents one lifecycle event awaiting delivery.
type OutboxEventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityType  string
	EntityID    string
	Action      string
	OccurredAt  time.Time
	Status      string `gorm:"index"`
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// TableName specifies the database table name for outbox events.
func (OutboxEventDTO) TableName() string {
	return "outbox_events"
}

func fromLifecycleEvent(event ports.LifecycleEvent, now time.Time) OutboxEventDTO {
	return OutboxEventDTO{
		ID:         uuid.New(),
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		Action:     event.Action,
		OccurredAt: event.OccurredAt,
		Status:     StatusPending,
		CreatedAt:  now,
	}
}

// ToLifecycleEvent converts the row back into the port-level event. Used by
// the relay when forwarding to downstream consumers.
func (dto OutboxEventDTO) ToLifecycleEvent() ports.LifecycleEvent {
	return ports.LifecycleEvent{
		EntityType: dto.EntityType,
		EntityID:   dto.EntityID,
		Action:     dto.Action,
		OccurredAt: dto.OccurredAt,
	}
}
