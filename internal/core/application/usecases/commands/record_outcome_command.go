package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/parcel"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

var (
	ErrRecordOutcomeCommandIsNotConstructed = errors.New(
		"RecordOutcomeCommand must be created via NewRecordOutcomeCommand constructor",
	)
	ErrOutcomeEventIsInvalid = errors.New(
		"outcome must be DELIVERY_SUCCESSFUL, CAN_NOT_DELIVERY, or ACCIDENT",
	)
	ErrFailReasonIsRequired = errors.New("fail reason is required for failure outcomes")
)

// RecordOutcomeCommand represents a shipper reporting the result of a
// delivery attempt for one assignment. Postponing is a separate command.
//
// For grouped assignments the outcome applies to every member parcel unless a
// per-parcel override is given; the assignment then takes the aggregate
// status (Failed if any member failed).
type RecordOutcomeCommand struct { //nolint:recvcheck //using for validation
	assignmentID   kernel.UUID
	outcome        parcel.Event
	parcelOutcomes map[kernel.UUID]parcel.Event
	reason         string
	location       *kernel.GeoLocation

	guard guard.ConstructorGuard
}

// NewRecordOutcomeCommand creates a command to record a delivery outcome.
// The location is optional; failure outcomes require a reason.
func NewRecordOutcomeCommand(
	assignmentID kernel.UUID,
	outcome parcel.Event,
	reason string,
	location *kernel.GeoLocation,
) (RecordOutcomeCommand, error) {
	outcomeCommand := RecordOutcomeCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		outcomeCommand.setAssignmentID(assignmentID),
		outcomeCommand.setOutcome(outcome, reason),
		outcomeCommand.setLocation(location),
	); err != nil {
		return RecordOutcomeCommand{}, err
	}

	return outcomeCommand, nil
}

// NewRecordOutcomeCommandPerParcel creates a command for a grouped assignment
// whose member parcels had different outcomes on the same visit. The default
// outcome applies to parcels absent from the override map; a reason is
// required because at least one member is expected to have failed.
func NewRecordOutcomeCommandPerParcel(
	assignmentID kernel.UUID,
	defaultOutcome parcel.Event,
	parcelOutcomes map[kernel.UUID]parcel.Event,
	reason string,
	location *kernel.GeoLocation,
) (RecordOutcomeCommand, error) {
	outcomeCommand, err := NewRecordOutcomeCommand(assignmentID, defaultOutcome, reason, location)
	if err != nil {
		return RecordOutcomeCommand{}, err
	}

	overrides := make(map[kernel.UUID]parcel.Event, len(parcelOutcomes))
	for parcelID, outcome := range parcelOutcomes {
		if err = parcelID.Validate(); err != nil {
			return RecordOutcomeCommand{}, err
		}
		switch outcome {
		case parcel.DeliverySuccessful, parcel.CanNotDelivery, parcel.Accident:
		default:
			return RecordOutcomeCommand{}, ErrOutcomeEventIsInvalid
		}
		if outcome != parcel.DeliverySuccessful && reason == "" {
			return RecordOutcomeCommand{}, ErrFailReasonIsRequired
		}
		overrides[parcelID] = outcome
	}

	outcomeCommand.parcelOutcomes = overrides
	return outcomeCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordOutcomeCommand) Validate() error {
	return c.guard.Validate(ErrRecordOutcomeCommandIsNotConstructed)
}

// AssignmentID returns the assignment whose outcome is recorded.
func (c RecordOutcomeCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// Outcome returns the reported delivery outcome event.
func (c RecordOutcomeCommand) Outcome() parcel.Event {
	return c.outcome
}

// OutcomeFor returns the outcome for a member parcel, honoring per-parcel
// overrides.
func (c RecordOutcomeCommand) OutcomeFor(parcelID kernel.UUID) parcel.Event {
	if outcome, ok := c.parcelOutcomes[parcelID]; ok {
		return outcome
	}
	return c.outcome
}

// Reason returns the reported failure reason, or empty on success.
func (c RecordOutcomeCommand) Reason() string {
	return c.reason
}

// Location returns where the outcome was reported, or nil if unknown.
func (c RecordOutcomeCommand) Location() *kernel.GeoLocation {
	return c.location
}

func (c *RecordOutcomeCommand) setAssignmentID(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	c.assignmentID = assignmentID
	return nil
}

func (c *RecordOutcomeCommand) setOutcome(outcome parcel.Event, reason string) error {
	switch outcome {
	case parcel.DeliverySuccessful:
	case parcel.CanNotDelivery, parcel.Accident:
		if reason == "" {
			return ErrFailReasonIsRequired
		}
	default:
		return ErrOutcomeEventIsInvalid
	}

	c.outcome = outcome
	return nil
}

func (c *RecordOutcomeCommand) setLocation(location *kernel.GeoLocation) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location", err)
	}

	c.location = location
	return nil
}
