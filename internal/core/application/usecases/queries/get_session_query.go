package queries

import (
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrGetSessionQueryIsNotConstructed = errors.New(
	"GetSessionQuery must be created via NewGetSessionQuery constructor",
)

// GetSessionQuery retrieves a full session view by its identifier.
// The view includes the session lifecycle timestamps and every assignment
// that was ever part of the session, with their member parcels.
//
// Example:
//
//	query, err := NewGetSessionQuery(sessionID)
//	if err != nil {
//	    return err
//	}
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load session view: %w", err)
//	}
//
//	fmt.Printf("Session %s is %s with %d assignments\n",
//	    view.ID, view.Status, len(view.Assignments))
type GetSessionQuery struct {
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetSessionQuery creates a query for a single session view.
func NewGetSessionQuery(sessionID kernel.UUID) (GetSessionQuery, error) {
	if err := sessionID.Validate(); err != nil {
		return GetSessionQuery{}, err
	}
	return GetSessionQuery{sessionID: sessionID, guard: guard.NewConstructorGuard()}, nil
}

// SessionID returns the identifier of the requested session.
func (q GetSessionQuery) SessionID() kernel.UUID {
	return q.sessionID
}

// Validate ensures the query was created through the constructor.
func (q GetSessionQuery) Validate() error {
	return q.guard.Validate(ErrGetSessionQueryIsNotConstructed)
}

// SessionAssignmentResponse is one assignment row of the session view.
type SessionAssignmentResponse struct {
	ID                kernel.UUID
	Status            string
	DeliveryAddressID string
	RouteOrder        int
	FailReason        string
	ParcelIDs         []kernel.UUID
}

// GetSessionQueryResponse is the read model of a delivery session.
type GetSessionQueryResponse struct {
	ID          kernel.UUID
	ShipperID   kernel.UUID
	Status      string
	CreatedAt   time.Time
	StartedAt   *time.Time
	EndedAt     *time.Time
	FailReason  string
	Assignments []SessionAssignmentResponse
}
