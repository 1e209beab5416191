package queries

import (
	"context"
	"database/sql"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSessionQueryHandler loads the session view straight from the database,
// bypassing the aggregates. The write side owns consistency; this handler
// only projects rows.
type GetSessionQueryHandler struct {
	db *gorm.DB
}

// NewGetSessionQueryHandler creates a handler for session view queries.
func NewGetSessionQueryHandler(db *gorm.DB) GetSessionQueryHandler {
	return GetSessionQueryHandler{db: db}
}

// Handle returns the session view or ObjectNotFoundError when the session
// does not exist. Assignments are ordered by route order.
func (h GetSessionQueryHandler) Handle(
	ctx context.Context,
	query GetSessionQuery,
) (*GetSessionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	response, err := h.loadSession(ctx, query.SessionID())
	if err != nil {
		return nil, err
	}

	assignments, err := h.loadAssignments(ctx, query.SessionID())
	if err != nil {
		return nil, err
	}
	response.Assignments = assignments

	return response, nil
}

func (h GetSessionQueryHandler) loadSession(
	ctx context.Context,
	sessionID kernel.UUID,
) (*GetSessionQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			shipper_id,
			status,
			created_at,
			started_at,
			ended_at,
			fail_reason
		FROM sessions
		WHERE id = ?
	`, sessionID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("sessionId", sessionID)
	}

	var id, shipperID uuid.UUID
	var startedAt, endedAt sql.NullTime
	var failReason sql.NullString
	response := &GetSessionQueryResponse{}

	err = rows.Scan(
		&id,
		&shipperID,
		&response.Status,
		&response.CreatedAt,
		&startedAt,
		&endedAt,
		&failReason,
	)
	if err != nil {
		return nil, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	if response.ShipperID, err = kernel.UUIDFromBytes(shipperID[:]); err != nil {
		return nil, err
	}
	if startedAt.Valid {
		t := startedAt.Time
		response.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		response.EndedAt = &t
	}
	response.FailReason = failReason.String

	return response, rows.Err()
}

func (h GetSessionQueryHandler) loadAssignments(
	ctx context.Context,
	sessionID kernel.UUID,
) ([]SessionAssignmentResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			a.status,
			a.delivery_address_id,
			a.route_order,
			a.fail_reason,
			ap.parcel_id
		FROM assignments a
		JOIN assignment_parcels ap ON ap.assignment_id = a.id
		WHERE a.session_id = ?
		ORDER BY a.route_order, a.id, ap.parcel_id
	`, sessionID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]SessionAssignmentResponse, 0)

	for rows.Next() {
		var assignmentID, parcelID uuid.UUID
		var status, deliveryAddressID string
		var routeOrder int
		var failReason sql.NullString

		err = rows.Scan(
			&assignmentID,
			&status,
			&deliveryAddressID,
			&routeOrder,
			&failReason,
			&parcelID,
		)
		if err != nil {
			return nil, err
		}

		aID, idErr := kernel.UUIDFromBytes(assignmentID[:])
		if idErr != nil {
			return nil, idErr
		}
		pID, idErr := kernel.UUIDFromBytes(parcelID[:])
		if idErr != nil {
			return nil, idErr
		}

		// Rows arrive grouped per assignment; extend the last entry while
		// the assignment id matches.
		if n := len(assignments); n > 0 && assignments[n-1].ID == aID {
			assignments[n-1].ParcelIDs = append(assignments[n-1].ParcelIDs, pID)
			continue
		}

		assignments = append(assignments, SessionAssignmentResponse{
			ID:                aID,
			Status:            status,
			DeliveryAddressID: deliveryAddressID,
			RouteOrder:        routeOrder,
			FailReason:        failReason.String,
			ParcelIDs:         []kernel.UUID{pID},
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}
