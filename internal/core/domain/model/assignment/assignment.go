package assignment

import (
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment instance was
// not created through the NewAssignment or RestoreAssignment factory methods.
var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment or RestoreAssignment")

const (
	eventSucceed  = "SUCCEED"
	eventFail     = "FAIL"
	eventTransfer = "TRANSFER"
	eventCancel   = "CANCEL"
)

// Assignment represents a unit of delivery work: one or more parcels sharing
// a delivery address, held by exactly one session. Parcels and the session
// are referenced by identity only.
type Assignment struct {
	// id is the unique identifier for the assignment
	id kernel.UUID

	// sessionID identifies the session that holds this assignment
	sessionID kernel.UUID

	// parcelIDs are the member parcels, grouped by shared destination
	parcelIDs []kernel.UUID

	// deliveryAddressID identifies the destination address
	deliveryAddressID string

	// destination is the destination coordinate, when known
	destination *kernel.GeoLocation

	// status is the current state in the assignment lifecycle
	status Status

	// failReason records why the assignment failed or was cancelled
	failReason string

	// routeOrder is the assignment's position in the session's route
	routeOrder int

	// distanceMeters and durationSeconds are planned route metrics
	distanceMeters  float64
	durationSeconds float64

	// createdAt is the time the assignment was created
	createdAt time.Time

	// isConstructed ensures the assignment was created via a factory method
	isConstructed bool
}

// NewAssignment creates a Pending assignment for the given parcels under the
// given session.
func NewAssignment(
	id, sessionID kernel.UUID,
	parcelIDs []kernel.UUID,
	deliveryAddressID string,
	destination *kernel.GeoLocation,
	routeOrder int,
	now time.Time,
) (*Assignment, error) {
	a := &Assignment{
		deliveryAddressID: deliveryAddressID,
		status:            Pending,
		routeOrder:        routeOrder,
		createdAt:         now,
		isConstructed:     true,
	}

	if err := errors.Join(
		a.setID(id),
		a.setSessionID(sessionID),
		a.setParcelIDs(parcelIDs),
		a.setDestination(destination),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAssignment reconstructs an assignment from persistence.
func RestoreAssignment(
	id, sessionID kernel.UUID,
	parcelIDs []kernel.UUID,
	deliveryAddressID string,
	destination *kernel.GeoLocation,
	status Status,
	failReason string,
	routeOrder int,
	distanceMeters, durationSeconds float64,
	createdAt time.Time,
) (*Assignment, error) {
	a := &Assignment{
		deliveryAddressID: deliveryAddressID,
		failReason:        failReason,
		routeOrder:        routeOrder,
		distanceMeters:    distanceMeters,
		durationSeconds:   durationSeconds,
		createdAt:         createdAt,
		isConstructed:     true,
	}

	if err := errors.Join(
		a.setID(id),
		a.setSessionID(sessionID),
		a.setParcelIDs(parcelIDs),
		a.setDestination(destination),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	a.status = status
	return a, nil
}

// Validate ensures the Assignment instance was properly constructed.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// SessionID returns the holding session's identifier.
func (a *Assignment) SessionID() kernel.UUID {
	return a.sessionID
}

// ParcelIDs returns a copy of the member parcel identifiers.
func (a *Assignment) ParcelIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(a.parcelIDs))
	copy(ids, a.parcelIDs)
	return ids
}

// DeliveryAddressID returns the destination address identifier.
func (a *Assignment) DeliveryAddressID() string {
	return a.deliveryAddressID
}

// Destination returns the destination coordinate, or nil if unknown.
func (a *Assignment) Destination() *kernel.GeoLocation {
	return a.destination
}

// Status returns the current status of the assignment.
func (a *Assignment) Status() Status {
	return a.status
}

// FailReason returns why the assignment failed or was cancelled, or empty.
func (a *Assignment) FailReason() string {
	return a.failReason
}

// RouteOrder returns the assignment's position in the session's route.
func (a *Assignment) RouteOrder() int {
	return a.routeOrder
}

// DistanceMeters returns the planned route distance in meters.
func (a *Assignment) DistanceMeters() float64 {
	return a.distanceMeters
}

// DurationSeconds returns the planned route duration in seconds.
func (a *Assignment) DurationSeconds() float64 {
	return a.durationSeconds
}

// CreatedAt returns the time the assignment was created.
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

// HoldsParcel reports whether the given parcel is a member of this assignment.
func (a *Assignment) HoldsParcel(parcelID kernel.UUID) bool {
	for _, id := range a.parcelIDs {
		if id.IsEqual(parcelID) {
			return true
		}
	}
	return false
}

// Succeed marks the assignment's delivery as successful.
func (a *Assignment) Succeed() error {
	if err := a.ensurePending(eventSucceed); err != nil {
		return err
	}
	a.status = Success
	return nil
}

// FailWith marks the assignment as failed with the given reason.
func (a *Assignment) FailWith(reason string) error {
	if err := a.ensurePending(eventFail); err != nil {
		return err
	}
	a.status = Failed
	a.failReason = reason
	return nil
}

// Transfer marks the source side of a custody handoff. The receiving session
// gets a fresh Pending assignment; this one keeps no custody.
func (a *Assignment) Transfer() error {
	if err := a.ensurePending(eventTransfer); err != nil {
		return err
	}
	a.status = Transferred
	return nil
}

// Cancel marks the assignment cancelled, typically because its session was
// failed before the delivery was attempted.
func (a *Assignment) Cancel(reason string) error {
	if err := a.ensurePending(eventCancel); err != nil {
		return err
	}
	a.status = Cancelled
	a.failReason = reason
	return nil
}

// MoveToEnd re-orders the assignment to the given position at the end of the
// session's route. Used by postpone-with-move; the status stays Pending.
func (a *Assignment) MoveToEnd(lastRouteOrder int) error {
	if a.status != Pending {
		return errs.NewInvalidTransitionError("assignment", a.status.String(), "MOVE_TO_END")
	}
	if lastRouteOrder < a.routeOrder {
		return errs.NewValueIsInvalidError("lastRouteOrder")
	}
	a.routeOrder = lastRouteOrder
	return nil
}

// SetRouteMetrics records the planned distance and duration for this stop.
func (a *Assignment) SetRouteMetrics(distanceMeters, durationSeconds float64) error {
	if distanceMeters < 0 || durationSeconds < 0 {
		return errs.NewValueIsInvalidError("route metrics must not be negative")
	}
	a.distanceMeters = distanceMeters
	a.durationSeconds = durationSeconds
	return nil
}

func (a *Assignment) ensurePending(event string) error {
	if a.status.IsTerminal() {
		return errs.NewAlreadyFinalizedError("assignment", a.status.String(), event)
	}
	if a.status != Pending {
		return errs.NewInvalidTransitionError("assignment", a.status.String(), event)
	}
	return nil
}

func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Assignment) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sessionID", err)
	}
	a.sessionID = sessionID
	return nil
}

func (a *Assignment) setParcelIDs(parcelIDs []kernel.UUID) error {
	if len(parcelIDs) == 0 {
		return errs.NewValueIsRequiredError("parcelIDs")
	}
	seen := make(map[kernel.UUID]struct{}, len(parcelIDs))
	ids := make([]kernel.UUID, 0, len(parcelIDs))
	for _, id := range parcelIDs {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("parcelIDs", err)
		}
		if _, ok := seen[id]; ok {
			return errs.NewValueIsInvalidError("parcelIDs contain duplicates")
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	a.parcelIDs = ids
	return nil
}

func (a *Assignment) setDestination(destination *kernel.GeoLocation) error {
	if destination == nil {
		return nil
	}
	if err := destination.Validate(); err != nil {
		return err
	}
	a.destination = destination
	return nil
}
