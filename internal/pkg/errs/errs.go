package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as classification anchors for errors.Is checks.
var (
	ErrObjectNotFound          = errors.New("object not found")
	ErrValueIsInvalid          = errors.New("value is invalid")
	ErrValueIsOutOfRange       = errors.New("value is out of range")
	ErrValueIsRequired         = errors.New("value is required")
	ErrInvalidTransition       = errors.New("invalid transition")
	ErrDuplicateAssignment     = errors.New("parcel already assigned")
	ErrTransferConflict        = errors.New("transfer conflict")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrActiveSessionExists     = errors.New("active session already exists")
)

// sanitize collapses newlines so multi-line values cannot break log lines.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// ObjectNotFoundError indicates that an entity could not be located by its
// identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping a cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a parameter holds an invalid value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping a cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a numeric parameter is outside its
// allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping a cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %s)",
			ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a required parameter is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping a cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidTransitionError indicates that an event is not legal for the current
// status of an entity. Terminal marks transitions rejected because the entity
// is already in a final status, which callers surface as "already finalized"
// instead of a generic failure.
type InvalidTransitionError struct {
	Entity   string
	Current  string
	Event    string
	Terminal bool
	Cause    error
}

// NewInvalidTransitionError creates an InvalidTransitionError for an event
// that has no transition from the current status.
func NewInvalidTransitionError(entity, current, event string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, Current: current, Event: event}
}

// NewAlreadyFinalizedError creates an InvalidTransitionError for an event
// applied to a terminal status.
func NewAlreadyFinalizedError(entity, current, event string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, Current: current, Event: event, Terminal: true}
}

func (e *InvalidTransitionError) Error() string {
	if e.Terminal {
		return sanitize(fmt.Sprintf("%s: %s is already finalized in status %s (event %s)",
			ErrInvalidTransition, e.Entity, e.Current, e.Event))
	}
	return sanitize(fmt.Sprintf("%s: %s: event %s is not allowed in status %s",
		ErrInvalidTransition, e.Entity, e.Event, e.Current))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// DuplicateAssignmentError indicates that a parcel already belongs to an
// active assignment, so a second assignment cannot be created for it.
type DuplicateAssignmentError struct {
	ParcelID string
	Cause    error
}

// NewDuplicateAssignmentError creates a DuplicateAssignmentError without a cause.
func NewDuplicateAssignmentError(parcelID string) *DuplicateAssignmentError {
	return &DuplicateAssignmentError{ParcelID: parcelID}
}

// NewDuplicateAssignmentErrorWithCause creates a DuplicateAssignmentError wrapping a cause.
func NewDuplicateAssignmentErrorWithCause(parcelID string, cause error) *DuplicateAssignmentError {
	return &DuplicateAssignmentError{ParcelID: parcelID, Cause: cause}
}

func (e *DuplicateAssignmentError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrDuplicateAssignment, e.ParcelID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrDuplicateAssignment, e.ParcelID))
}

func (e *DuplicateAssignmentError) Unwrap() error {
	return ErrDuplicateAssignment
}

// TransferConflictError indicates that a parcel is not held by the session a
// transfer claims as its source.
type TransferConflictError struct {
	ParcelID  string
	SessionID string
	Cause     error
}

// NewTransferConflictError creates a TransferConflictError without a cause.
func NewTransferConflictError(parcelID, sessionID string) *TransferConflictError {
	return &TransferConflictError{ParcelID: parcelID, SessionID: sessionID}
}

// NewTransferConflictErrorWithCause creates a TransferConflictError wrapping a cause.
func NewTransferConflictErrorWithCause(parcelID, sessionID string, cause error) *TransferConflictError {
	return &TransferConflictError{ParcelID: parcelID, SessionID: sessionID, Cause: cause}
}

func (e *TransferConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: parcel %s is not held by session %s (cause: %s)",
			ErrTransferConflict, e.ParcelID, e.SessionID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: parcel %s is not held by session %s",
		ErrTransferConflict, e.ParcelID, e.SessionID))
}

func (e *TransferConflictError) Unwrap() error {
	return ErrTransferConflict
}

// CollaboratorUnavailableError indicates that an external collaborator
// (routing, optimizer) could not serve a request. Operations depending on a
// collaborator fail closed with this error.
type CollaboratorUnavailableError struct {
	Collaborator string
	Cause        error
}

// NewCollaboratorUnavailableError creates a CollaboratorUnavailableError wrapping a cause.
func NewCollaboratorUnavailableError(collaborator string, cause error) *CollaboratorUnavailableError {
	return &CollaboratorUnavailableError{Collaborator: collaborator, Cause: cause}
}

func (e *CollaboratorUnavailableError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrCollaboratorUnavailable, e.Collaborator, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrCollaboratorUnavailable, e.Collaborator))
}

func (e *CollaboratorUnavailableError) Unwrap() error {
	return ErrCollaboratorUnavailable
}

// ActiveSessionExistsError indicates that a shipper already has a session in
// an active status, so a second one cannot be opened.
type ActiveSessionExistsError struct {
	ShipperID string
	Cause     error
}

// NewActiveSessionExistsError creates an ActiveSessionExistsError without a cause.
func NewActiveSessionExistsError(shipperID string) *ActiveSessionExistsError {
	return &ActiveSessionExistsError{ShipperID: shipperID}
}

// NewActiveSessionExistsErrorWithCause creates an ActiveSessionExistsError wrapping a cause.
func NewActiveSessionExistsErrorWithCause(shipperID string, cause error) *ActiveSessionExistsError {
	return &ActiveSessionExistsError{ShipperID: shipperID, Cause: cause}
}

func (e *ActiveSessionExistsError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: shipper %s (cause: %s)", ErrActiveSessionExists, e.ShipperID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: shipper %s", ErrActiveSessionExists, e.ShipperID))
}

func (e *ActiveSessionExistsError) Unwrap() error {
	return ErrActiveSessionExists
}
