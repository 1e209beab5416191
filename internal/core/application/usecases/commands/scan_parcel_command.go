package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

var (
	ErrScanParcelCommandIsNotConstructed = errors.New(
		"ScanParcelCommand must be created via NewScanParcelCommand constructor",
	)
	ErrDeliveryAddressIsRequired = errors.New("delivery address is required")
)

// ScanParcelCommand represents a shipper scanning a parcel barcode to take it
// out for delivery. The scan either extends the shipper's active session or
// opens a new one.
//
// Example:
//
//	cmd, err := NewScanParcelCommand(shipperID, parcelID, "addr-42", &destination)
//	if err != nil {
//	    return fmt.Errorf("invalid scan data: %w", err)
//	}
//
//	handler := NewScanParcelCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to scan parcel: %w", err)
//	}
type ScanParcelCommand struct { //nolint:recvcheck //using for validation
	shipperID         kernel.UUID
	parcelID          kernel.UUID
	deliveryAddressID string
	destination       *kernel.GeoLocation

	guard guard.ConstructorGuard
}

// NewScanParcelCommand creates a command to register a parcel scan.
// The destination coordinate is optional; the address identifier is not.
func NewScanParcelCommand(
	shipperID, parcelID kernel.UUID,
	deliveryAddressID string,
	destination *kernel.GeoLocation,
) (ScanParcelCommand, error) {
	scanCommand := ScanParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		scanCommand.setShipperID(shipperID),
		scanCommand.setParcelID(parcelID),
		scanCommand.setDeliveryAddressID(deliveryAddressID),
		scanCommand.setDestination(destination),
	); err != nil {
		return ScanParcelCommand{}, err
	}

	return scanCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ScanParcelCommand) Validate() error {
	return c.guard.Validate(ErrScanParcelCommandIsNotConstructed)
}

// ShipperID returns the scanning shipper's identifier.
func (c ScanParcelCommand) ShipperID() kernel.UUID {
	return c.shipperID
}

// ParcelID returns the scanned parcel's identifier.
func (c ScanParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// DeliveryAddressID returns the destination address identifier.
func (c ScanParcelCommand) DeliveryAddressID() string {
	return c.deliveryAddressID
}

// Destination returns the destination coordinate, or nil if unknown.
func (c ScanParcelCommand) Destination() *kernel.GeoLocation {
	return c.destination
}

func (c *ScanParcelCommand) setShipperID(shipperID kernel.UUID) error {
	if err := shipperID.Validate(); err != nil {
		return err
	}

	c.shipperID = shipperID
	return nil
}

func (c *ScanParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	c.parcelID = parcelID
	return nil
}

func (c *ScanParcelCommand) setDeliveryAddressID(deliveryAddressID string) error {
	if deliveryAddressID == "" {
		return ErrDeliveryAddressIsRequired
	}

	c.deliveryAddressID = deliveryAddressID
	return nil
}

func (c *ScanParcelCommand) setDestination(destination *kernel.GeoLocation) error {
	if destination == nil {
		return nil
	}
	if err := destination.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("destination", err)
	}

	c.destination = destination
	return nil
}
