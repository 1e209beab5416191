package session

import (
	"fmt"

	"shipping/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery session.
//
// State transitions:
//
//	CREATED ──start──> IN_PROGRESS ──all assignments terminal──> COMPLETED
//	CREATED/IN_PROGRESS ──explicit fail | auto-close sweep──> FAILED
//
// COMPLETED and FAILED are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Created is the initial status, set when the first parcel is scanned.
	Created

	// InProgress indicates the shipper explicitly started the session.
	InProgress

	// Completed is the terminal status of a session whose assignments all
	// reached a terminal outcome.
	Completed

	// Failed is the terminal status of a session closed by an explicit fail
	// or by the auto-close sweep.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Created:    "CREATED",
		InProgress: "IN_PROGRESS",
		Completed:  "COMPLETED",
		Failed:     "FAILED",
	}
}

// Validate checks if the Status value is one of the defined session statuses.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid session status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StatusFromString parses the wire name back into a Status. Used when
// restoring sessions from persistence.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid session status", s))
}

// IsActive reports whether the session still holds custody of its parcels.
// A shipper may have at most one active session.
func (s Status) IsActive() bool {
	return s == Created || s == InProgress
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}
