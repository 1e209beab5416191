package errs_test

import (
	"errors"
	"testing"

	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("parcelId", "123")

		assert.Equal(t, "parcelId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("parcelId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: parcelId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("status", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: status (cause: invalid format)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 150, -90, 90)

		assert.Equal(t, "latitude", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, -90, err.Min)
		assert.Equal(t, 90, err.Max)
		assert.Equal(t, "value is invalid: 150 is latitude, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("shipperId")

	assert.Equal(t, "shipperId", err.ParamName)
	assert.Equal(t, "value is required: shipperId", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())

	cause := errors.New("missing required field")
	withCause := errs.NewValueIsRequiredErrorWithCause("shipperId", cause)
	assert.Equal(t, "value is required: shipperId (cause: missing required field)", withCause.Error())
}

func TestInvalidTransitionError(t *testing.T) {
	t.Run("NewInvalidTransitionError", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("parcel", "IN_WAREHOUSE", "POSTPONE")

		assert.Equal(t, "parcel", err.Entity)
		assert.Equal(t, "IN_WAREHOUSE", err.Current)
		assert.Equal(t, "POSTPONE", err.Event)
		assert.False(t, err.Terminal)
		assert.Equal(t,
			"invalid transition: parcel: event POSTPONE is not allowed in status IN_WAREHOUSE",
			err.Error())
		assert.Equal(t, errs.ErrInvalidTransition, err.Unwrap())
	})

	t.Run("NewAlreadyFinalizedError", func(t *testing.T) {
		err := errs.NewAlreadyFinalizedError("parcel", "SUCCEEDED", "SCAN_QR")

		assert.True(t, err.Terminal)
		assert.Equal(t,
			"invalid transition: parcel is already finalized in status SUCCEEDED (event SCAN_QR)",
			err.Error())
		assert.Equal(t, errs.ErrInvalidTransition, err.Unwrap())
	})
}

func TestDuplicateAssignmentError(t *testing.T) {
	err := errs.NewDuplicateAssignmentError("p-1")
	assert.Equal(t, "parcel already assigned: p-1", err.Error())
	assert.Equal(t, errs.ErrDuplicateAssignment, err.Unwrap())

	cause := errors.New("duplicated key")
	withCause := errs.NewDuplicateAssignmentErrorWithCause("p-1", cause)
	assert.Equal(t, "parcel already assigned: p-1 (cause: duplicated key)", withCause.Error())
}

func TestTransferConflictError(t *testing.T) {
	err := errs.NewTransferConflictError("p-1", "s-1")
	assert.Equal(t, "transfer conflict: parcel p-1 is not held by session s-1", err.Error())
	assert.Equal(t, errs.ErrTransferConflict, err.Unwrap())
}

func TestCollaboratorUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := errs.NewCollaboratorUnavailableError("routing", cause)
	assert.Equal(t, "collaborator unavailable: routing (cause: connection refused)", err.Error())
	assert.Equal(t, errs.ErrCollaboratorUnavailable, err.Unwrap())
}

func TestActiveSessionExistsError(t *testing.T) {
	err := errs.NewActiveSessionExistsError("sh-1")
	assert.Equal(t, "active session already exists: shipper sh-1", err.Error())
	assert.Equal(t, errs.ErrActiveSessionExists, err.Unwrap())
}

func TestSentinelErrors(t *testing.T) {
	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "invalid transition", errs.ErrInvalidTransition.Error())
		assert.Equal(t, "parcel already assigned", errs.ErrDuplicateAssignment.Error())
		assert.Equal(t, "transfer conflict", errs.ErrTransferConflict.Error())
		assert.Equal(t, "collaborator unavailable", errs.ErrCollaboratorUnavailable.Error())
		assert.Equal(t, "active session already exists", errs.ErrActiveSessionExists.Error())
	})

	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("parcelId", "123"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsOutOfRangeError("lat", 150, -90, 90), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, errs.NewValueIsRequiredError("shipperId"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewInvalidTransitionError("parcel", "a", "b"), errs.ErrInvalidTransition)
		require.ErrorIs(t, errs.NewDuplicateAssignmentError("p-1"), errs.ErrDuplicateAssignment)
		require.ErrorIs(t, errs.NewTransferConflictError("p-1", "s-1"), errs.ErrTransferConflict)
		require.ErrorIs(t,
			errs.NewCollaboratorUnavailableError("optimizer", errors.New("x")),
			errs.ErrCollaboratorUnavailable)
		require.ErrorIs(t, errs.NewActiveSessionExistsError("sh-1"), errs.ErrActiveSessionExists)
	})
}
