// Package errs provides standardized error types for the shipping application.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package covers two groups of errors:
//   - Validation errors shared by all value objects and commands
//     (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError,
//     ObjectNotFoundError)
//   - Lifecycle errors specific to the delivery session engine
//     (InvalidTransitionError, DuplicateAssignmentError, TransferConflictError,
//     CollaboratorUnavailableError, ActiveSessionExistsError)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrInvalidTransition)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
package errs
