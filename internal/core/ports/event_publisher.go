package ports

import (
	"context"
	"time"
)

// Entity types carried by lifecycle events.
const (
	EntityParcel     = "PARCEL"
	EntitySession    = "SESSION"
	EntityAssignment = "ASSIGNMENT"
)

// LifecycleEvent describes a state change of a parcel, session, or
// assignment for downstream cache and snapshot consumers. Delivery is
// at-least-once; consumers must be idempotent on (EntityID, Action,
// OccurredAt).
type LifecycleEvent struct {
	EntityType string
	EntityID   string
	Action     string
	OccurredAt time.Time
}

// EventPublisher records lifecycle events for asynchronous delivery. The
// postgres implementation writes an outbox row inside the same transaction
// as the state change it describes.
type EventPublisher interface {
	// Publish records a lifecycle event.
	Publish(ctx context.Context, event LifecycleEvent) error
}
