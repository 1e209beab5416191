package assignment

import (
	"fmt"

	"shipping/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery assignment. Pending is
// the only non-terminal status; every other status ends the assignment's
// custody over its parcels.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status of a newly created assignment.
	Pending

	// Success is the terminal status of an assignment whose parcels were
	// delivered.
	Success

	// Failed is the terminal status of an assignment whose delivery failed.
	Failed

	// Transferred is the terminal status on the source side of a custody
	// handoff to another session.
	Transferred

	// Cancelled is the terminal status of an assignment whose session was
	// failed before the delivery was attempted.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "UNKNOWN",
		Pending:     "PENDING",
		Success:     "SUCCESS",
		Failed:      "FAILED",
		Transferred: "TRANSFERRED",
		Cancelled:   "CANCELLED",
	}
}

// Validate checks if the Status value is one of the defined assignment statuses.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid assignment status", s))
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
// restoring assignments from persistence.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid assignment status", s))
}

// IsTerminal reports whether the assignment has released custody of its
// parcels.
func (s Status) IsTerminal() bool {
	return s == Success || s == Failed || s == Transferred || s == Cancelled
}
