package ports

import (
	"context"

	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for delivery
// assignment aggregates. The one-active-assignment-per-parcel invariant is
// enforced by a storage-level unique constraint on parcel membership rows;
// Add surfaces a violation as errs.DuplicateAssignmentError.
type AssignmentRepository interface {
	// Add persists a new assignment aggregate and its parcel memberships.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an existing assignment aggregate. Moving to
	// a terminal status releases the parcel memberships.
	Update(ctx context.Context, aggregate *assignment.Assignment) error

	// Get retrieves an assignment aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// GetActiveByParcel retrieves the assignment currently holding the parcel,
	// or errs.ObjectNotFoundError if the parcel is unassigned.
	GetActiveByParcel(ctx context.Context, parcelID kernel.UUID) (*assignment.Assignment, error)

	// GetBySession retrieves all assignments owned by the session, ordered by
	// route position.
	GetBySession(ctx context.Context, sessionID kernel.UUID) ([]*assignment.Assignment, error)

	// CountPendingBySession counts the session's assignments still in Pending
	// status. Used to decide session auto-completion.
	CountPendingBySession(ctx context.Context, sessionID kernel.UUID) (int, error)

	// NextRouteOrder returns the route position after the session's current
	// last assignment.
	NextRouteOrder(ctx context.Context, sessionID kernel.UUID) (int, error)
}
