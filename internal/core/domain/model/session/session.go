package session

import (
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
)

// ErrSessionIsNotConstructed is returned when a Session instance was not
// created through the NewSession or RestoreSession factory methods.
var ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession or RestoreSession")

// eventStart is the pseudo-event name used in transition errors for Start.
const (
	eventStart    = "START"
	eventComplete = "COMPLETE"
	eventFail     = "FAIL"
)

// Session represents a shipper's active work period. It is created on the
// shipper's first scan, started explicitly with a location fix, and closed
// either when every assignment reaches a terminal outcome or by a forced
// fail (explicit or auto-close sweep).
//
// Assignments reference the session by identity only; the owning set is
// resolved through the assignment store, never embedded here.
type Session struct {
	// id is the unique identifier for the session
	id kernel.UUID

	// shipperID identifies the shipper who owns this work period
	shipperID kernel.UUID

	// status is the current state in the session lifecycle
	status Status

	// createdAt is the time of the first scan that opened the session
	createdAt time.Time

	// startedAt is set when the shipper explicitly starts the session
	startedAt *time.Time

	// endedAt is set when the session reaches a terminal status
	endedAt *time.Time

	// startLocation is the shipper's location fix at start time
	startLocation *kernel.GeoLocation

	// failReason records why the session was failed, if it was
	failReason string

	// isConstructed ensures the session was created via a factory method
	isConstructed bool
}

// NewSession creates a session in Created status for the given shipper.
func NewSession(id, shipperID kernel.UUID, now time.Time) (*Session, error) {
	s := &Session{
		status:        Created,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setShipperID(shipperID),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreSession reconstructs a session from persistence.
func RestoreSession(
	id, shipperID kernel.UUID,
	status Status,
	createdAt time.Time,
	startedAt, endedAt *time.Time,
	startLocation *kernel.GeoLocation,
	failReason string,
) (*Session, error) {
	s := &Session{
		createdAt:     createdAt,
		startedAt:     startedAt,
		endedAt:       endedAt,
		startLocation: startLocation,
		failReason:    failReason,
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setShipperID(shipperID),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	s.status = status
	return s, nil
}

// Validate ensures the Session instance was properly constructed.
func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() kernel.UUID {
	return s.id
}

// ShipperID returns the owning shipper's identifier.
func (s *Session) ShipperID() kernel.UUID {
	return s.shipperID
}

// Status returns the current status of the session.
func (s *Session) Status() Status {
	return s.status
}

// CreatedAt returns the time the session was opened.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// StartedAt returns the explicit start time, or nil if never started.
func (s *Session) StartedAt() *time.Time {
	return s.startedAt
}

// EndedAt returns the close time, or nil while the session is active.
func (s *Session) EndedAt() *time.Time {
	return s.endedAt
}

// StartLocation returns the location fix recorded at start, if any.
func (s *Session) StartLocation() *kernel.GeoLocation {
	return s.startLocation
}

// FailReason returns why the session was failed, or empty.
func (s *Session) FailReason() string {
	return s.failReason
}

// Start transitions the session from Created to InProgress, recording the
// shipper's location fix and the start time.
func (s *Session) Start(location kernel.GeoLocation, now time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}

	if s.status.IsTerminal() {
		return errs.NewAlreadyFinalizedError("session", s.status.String(), eventStart)
	}
	if s.status != Created {
		return errs.NewInvalidTransitionError("session", s.status.String(), eventStart)
	}

	s.status = InProgress
	s.startedAt = &now
	s.startLocation = &location
	return nil
}

// Complete transitions the session from InProgress to Completed. Callers
// must verify no assignment is still pending before completing.
func (s *Session) Complete(now time.Time) error {
	if s.status.IsTerminal() {
		return errs.NewAlreadyFinalizedError("session", s.status.String(), eventComplete)
	}
	if s.status != InProgress {
		return errs.NewInvalidTransitionError("session", s.status.String(), eventComplete)
	}

	s.status = Completed
	s.endedAt = &now
	return nil
}

// Fail force-transitions an active session to Failed with the given reason.
// Used by the explicit fail operation and by the auto-close sweep; the
// caller cascades cancellation to remaining pending assignments.
func (s *Session) Fail(reason string, now time.Time) error {
	if s.status.IsTerminal() {
		return errs.NewAlreadyFinalizedError("session", s.status.String(), eventFail)
	}
	if !s.status.IsActive() {
		return errs.NewInvalidTransitionError("session", s.status.String(), eventFail)
	}

	s.status = Failed
	s.failReason = reason
	s.endedAt = &now
	return nil
}

// Deadline returns the wall-clock time after which the auto-close sweep must
// fail the session. Sessions that were never started count from creation.
func (s *Session) Deadline(maxDuration time.Duration) time.Time {
	if s.startedAt != nil {
		return s.startedAt.Add(maxDuration)
	}
	return s.createdAt.Add(maxDuration)
}

func (s *Session) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Session) setShipperID(shipperID kernel.UUID) error {
	if err := shipperID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipperID", err)
	}
	s.shipperID = shipperID
	return nil
}
