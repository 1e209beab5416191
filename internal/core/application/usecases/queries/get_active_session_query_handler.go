package queries

import (
	"context"
	"database/sql"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/session"
	"shipping/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveSessionQueryHandler resolves the open session of a shipper.
type GetActiveSessionQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveSessionQueryHandler creates a handler for active session lookups.
func NewGetActiveSessionQueryHandler(db *gorm.DB) GetActiveSessionQueryHandler {
	return GetActiveSessionQueryHandler{db: db}
}

// Handle returns the shipper's active session or ObjectNotFoundError when
// the shipper has no open session.
func (h GetActiveSessionQueryHandler) Handle(
	ctx context.Context,
	query GetActiveSessionQuery,
) (*GetActiveSessionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			created_at,
			started_at
		FROM sessions
		WHERE shipper_id = ? AND status IN (?, ?)
	`, query.ShipperID().String(), session.Created.String(), session.InProgress.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("shipperId", query.ShipperID())
	}

	var id uuid.UUID
	var startedAt sql.NullTime
	response := &GetActiveSessionQueryResponse{}

	err = rows.Scan(&id, &response.Status, &response.CreatedAt, &startedAt)
	if err != nil {
		return nil, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	if startedAt.Valid {
		t := startedAt.Time
		response.StartedAt = &t
	}

	return response, rows.Err()
}
