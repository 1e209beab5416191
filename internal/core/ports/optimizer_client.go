package ports

import (
	"context"

	"shipping/internal/core/domain/model/kernel"
)

// ProposalParcel describes one parcel offered to the optimizer.
type ProposalParcel struct {
	ParcelID          kernel.UUID
	DeliveryAddressID string
	Destination       kernel.GeoLocation
}

// ProposalStop is one destination in a shipper's proposed route. Parcels
// sharing a delivery address are grouped into a single stop.
type ProposalStop struct {
	DeliveryAddressID string
	Destination       kernel.GeoLocation
	ParcelIDs         []kernel.UUID
}

// ShipperPlan is the optimizer's proposed route for one shipper.
type ShipperPlan struct {
	ShipperID kernel.UUID
	Stops     []ProposalStop
}

// LoadStats summarizes how evenly the proposal spreads work across shippers.
type LoadStats struct {
	MeanStopsPerShipper float64
	MaxStops            int
	MinStops            int
}

// ProposalRequest is the input to the optimizer collaborator.
type ProposalRequest struct {
	ShipperIDs []kernel.UUID
	Parcels    []ProposalParcel
	Vehicle    string
	Mode       string
}

// Proposal is the optimizer's output: per-shipper stop groupings, parcels it
// could not place, and load-balance statistics.
type Proposal struct {
	Plans               []ShipperPlan
	UnassignedParcelIDs []kernel.UUID
	Stats               LoadStats
}

// OptimizerClient is the contract of the external vehicle-routing optimizer.
// The engine consumes the proposal and turns each grouping into assignments;
// it never computes groupings itself. Failures surface as
// errs.CollaboratorUnavailableError.
type OptimizerClient interface {
	// ProposeAssignments asks the optimizer for parcel-to-shipper groupings.
	ProposeAssignments(ctx context.Context, request ProposalRequest) (*Proposal, error)
}
