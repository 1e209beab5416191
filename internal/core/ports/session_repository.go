package ports

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/session"
)

// SessionRepository defines the persistence contract for delivery session
// aggregates. The one-active-session-per-shipper invariant is enforced by a
// storage-level unique constraint; Add surfaces a violation as
// errs.ActiveSessionExistsError.
type SessionRepository interface {
	// Add persists a new session aggregate to storage.
	Add(ctx context.Context, aggregate *session.Session) error

	// Update persists changes to an existing session aggregate.
	Update(ctx context.Context, aggregate *session.Session) error

	// Get retrieves a session aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*session.Session, error)

	// GetActiveByShipper retrieves the shipper's session in Created or
	// InProgress status, or errs.ObjectNotFoundError if none exists.
	GetActiveByShipper(ctx context.Context, shipperID kernel.UUID) (*session.Session, error)

	// GetActiveOlderThan retrieves active sessions whose effective start
	// (started_at, falling back to created_at) is before the cutoff. Used by
	// the auto-close sweep.
	GetActiveOlderThan(ctx context.Context, cutoff time.Time) ([]*session.Session, error)
}
