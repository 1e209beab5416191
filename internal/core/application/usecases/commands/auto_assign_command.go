package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

var (
	ErrAutoAssignCommandIsNotConstructed = errors.New(
		"AutoAssignCommand must be created via NewAutoAssignCommand constructor",
	)
	ErrShippersAreRequired = errors.New("at least one shipper is required")
	ErrParcelsAreRequired  = errors.New("at least one parcel is required")
)

// AutoAssignParcel describes one parcel offered for auto-assignment.
type AutoAssignParcel struct {
	ParcelID          kernel.UUID
	DeliveryAddressID string
	Destination       kernel.GeoLocation
}

// AutoAssignCommand represents a request to distribute parcels across
// shippers using the external optimizer's proposal.
type AutoAssignCommand struct { //nolint:recvcheck //using for validation
	shipperIDs []kernel.UUID
	parcels    []AutoAssignParcel
	vehicle    string
	mode       string

	guard guard.ConstructorGuard
}

// NewAutoAssignCommand creates a command to run auto-assignment.
func NewAutoAssignCommand(
	shipperIDs []kernel.UUID,
	parcels []AutoAssignParcel,
	vehicle, mode string,
) (AutoAssignCommand, error) {
	autoAssignCommand := AutoAssignCommand{
		vehicle: vehicle,
		mode:    mode,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		autoAssignCommand.setShipperIDs(shipperIDs),
		autoAssignCommand.setParcels(parcels),
	); err != nil {
		return AutoAssignCommand{}, err
	}

	return autoAssignCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AutoAssignCommand) Validate() error {
	return c.guard.Validate(ErrAutoAssignCommandIsNotConstructed)
}

// ShipperIDs returns the shippers available for assignment.
func (c AutoAssignCommand) ShipperIDs() []kernel.UUID {
	return c.shipperIDs
}

// Parcels returns the parcels offered for assignment.
func (c AutoAssignCommand) Parcels() []AutoAssignParcel {
	return c.parcels
}

// Vehicle returns the vehicle type used for optimization.
func (c AutoAssignCommand) Vehicle() string {
	return c.vehicle
}

// Mode returns the optimization mode.
func (c AutoAssignCommand) Mode() string {
	return c.mode
}

func (c *AutoAssignCommand) setShipperIDs(shipperIDs []kernel.UUID) error {
	if len(shipperIDs) == 0 {
		return ErrShippersAreRequired
	}
	for _, shipperID := range shipperIDs {
		if err := shipperID.Validate(); err != nil {
			return err
		}
	}

	c.shipperIDs = shipperIDs
	return nil
}

func (c *AutoAssignCommand) setParcels(parcels []AutoAssignParcel) error {
	if len(parcels) == 0 {
		return ErrParcelsAreRequired
	}
	for _, offeredParcel := range parcels {
		if err := offeredParcel.ParcelID.Validate(); err != nil {
			return err
		}
		if offeredParcel.DeliveryAddressID == "" {
			return ErrDeliveryAddressIsRequired
		}
		if err := offeredParcel.Destination.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("destination", err)
		}
	}

	c.parcels = parcels
	return nil
}
