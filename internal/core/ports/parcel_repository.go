package ports

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
// Parcels are mutated only through the state machine; repositories persist
// the resulting status and timestamps.
type ParcelRepository interface {
	// Add persists a new parcel aggregate to storage.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update persists changes to an existing parcel aggregate.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get retrieves a parcel aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetDeliveredBefore retrieves parcels still in Delivered status whose
	// deliveredAt is before the cutoff. Used by the confirmation timeout sweep.
	GetDeliveredBefore(ctx context.Context, cutoff time.Time) ([]*parcel.Parcel, error)

	// GetDeliveredBetween retrieves parcels still in Delivered status whose
	// deliveredAt falls in [from, to). Used by the confirmation reminder sweep.
	GetDeliveredBetween(ctx context.Context, from, to time.Time) ([]*parcel.Parcel, error)
}
