package queries

import (
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrGetActiveSessionQueryIsNotConstructed = errors.New(
	"GetActiveSessionQuery must be created via NewGetActiveSessionQuery constructor",
)

// GetActiveSessionQuery looks up the single active session of a shipper.
// At most one session per shipper can be in CREATED or IN_PROGRESS.
type GetActiveSessionQuery struct {
	shipperID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveSessionQuery creates an active session lookup for a shipper.
func NewGetActiveSessionQuery(shipperID kernel.UUID) (GetActiveSessionQuery, error) {
	if err := shipperID.Validate(); err != nil {
		return GetActiveSessionQuery{}, err
	}
	return GetActiveSessionQuery{shipperID: shipperID, guard: guard.NewConstructorGuard()}, nil
}

// ShipperID returns the shipper whose active session is requested.
func (q GetActiveSessionQuery) ShipperID() kernel.UUID {
	return q.shipperID
}

// Validate ensures the query was created through the constructor.
func (q GetActiveSessionQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveSessionQueryIsNotConstructed)
}

// GetActiveSessionQueryResponse is the slim read model used by shipper
// applications to resume an open session.
type GetActiveSessionQueryResponse struct {
	ID        kernel.UUID
	Status    string
	CreatedAt time.Time
	StartedAt *time.Time
}
