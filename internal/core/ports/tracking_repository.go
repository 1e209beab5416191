package ports

import (
	"context"

	"shipping/internal/core/domain/model/tracking"
)

// TrackingRepository defines the persistence contract for append-only
// tracking records. Records are inserted and never updated.
type TrackingRepository interface {
	// AddConfirmationPoint persists a delivery confirmation record.
	AddConfirmationPoint(ctx context.Context, point *tracking.ConfirmationPoint) error

	// AddLocationPoint persists a shipper location sample.
	AddLocationPoint(ctx context.Context, point *tracking.LocationPoint) error
}
