package commands

import (
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

var (
	ErrPostponeAssignmentCommandIsNotConstructed = errors.New(
		"PostponeAssignmentCommand must be created via NewPostponeAssignmentCommand constructor",
	)
	ErrPostponeReasonIsRequired = errors.New("postpone reason is required")
	ErrRequestedTimeIsRequired  = errors.New("requested time is required")
)

// PostponeAssignmentCommand represents a customer's request to deliver later.
// When the requested time still fits in the session's remaining window the
// assignment may be re-ordered to the end of the route instead of delaying
// its parcels.
type PostponeAssignmentCommand struct { //nolint:recvcheck //using for validation
	assignmentID    kernel.UUID
	reason          string
	requestedTime   time.Time
	moveToEnd       bool
	currentLocation *kernel.GeoLocation

	guard guard.ConstructorGuard
}

// NewPostponeAssignmentCommand creates a command to postpone an assignment.
// The current location is optional and only used to validate a move-to-end
// request against the routing collaborator.
func NewPostponeAssignmentCommand(
	assignmentID kernel.UUID,
	reason string,
	requestedTime time.Time,
	moveToEnd bool,
	currentLocation *kernel.GeoLocation,
) (PostponeAssignmentCommand, error) {
	postponeCommand := PostponeAssignmentCommand{
		moveToEnd: moveToEnd,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		postponeCommand.setAssignmentID(assignmentID),
		postponeCommand.setReason(reason),
		postponeCommand.setRequestedTime(requestedTime),
		postponeCommand.setCurrentLocation(currentLocation),
	); err != nil {
		return PostponeAssignmentCommand{}, err
	}

	return postponeCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c PostponeAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrPostponeAssignmentCommandIsNotConstructed)
}

// AssignmentID returns the assignment to postpone.
func (c PostponeAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// Reason returns why the delivery is postponed.
func (c PostponeAssignmentCommand) Reason() string {
	return c.reason
}

// RequestedTime returns when the customer wants the delivery instead.
func (c PostponeAssignmentCommand) RequestedTime() time.Time {
	return c.requestedTime
}

// MoveToEnd reports whether re-ordering to the end of the route was requested.
func (c PostponeAssignmentCommand) MoveToEnd() bool {
	return c.moveToEnd
}

// CurrentLocation returns the shipper's current position, or nil if unknown.
func (c PostponeAssignmentCommand) CurrentLocation() *kernel.GeoLocation {
	return c.currentLocation
}

func (c *PostponeAssignmentCommand) setAssignmentID(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	c.assignmentID = assignmentID
	return nil
}

func (c *PostponeAssignmentCommand) setReason(reason string) error {
	if reason == "" {
		return ErrPostponeReasonIsRequired
	}

	c.reason = reason
	return nil
}

func (c *PostponeAssignmentCommand) setRequestedTime(requestedTime time.Time) error {
	if requestedTime.IsZero() {
		return ErrRequestedTimeIsRequired
	}

	c.requestedTime = requestedTime
	return nil
}

func (c *PostponeAssignmentCommand) setCurrentLocation(currentLocation *kernel.GeoLocation) error {
	if currentLocation == nil {
		return nil
	}
	if err := currentLocation.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("currentLocation", err)
	}

	c.currentLocation = currentLocation
	return nil
}
