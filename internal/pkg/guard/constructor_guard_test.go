package guard_test

import (
	"errors"
	"testing"

	"shipping/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expectedError := errors.New("entity not constructed")

		err := g.Validate(expectedError)

		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// TestConstructorGuardUsage demonstrates the intended embedding pattern.
func TestConstructorGuardUsage(t *testing.T) {
	type window struct {
		hours int
		guard guard.ConstructorGuard
	}

	errWindowNotConstructed := errors.New("window must be created via newWindow")

	newWindow := func(hours int) (window, error) {
		if hours <= 0 {
			return window{}, errors.New("hours must be positive")
		}
		return window{hours: hours, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_value_passes", func(t *testing.T) {
		w, err := newWindow(48)
		require.NoError(t, err)
		require.NoError(t, w.guard.Validate(errWindowNotConstructed))
		assert.Equal(t, 48, w.hours)
	})

	t.Run("zero_value_fails", func(t *testing.T) {
		var w window
		err := w.guard.Validate(errWindowNotConstructed)
		require.Error(t, err)
		assert.Equal(t, errWindowNotConstructed, err)
	})
}

// TestConstructorGuardConcurrency verifies the guard is safe to share by value.
func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan bool)
	for range 20 {
		go func() {
			for range 100 {
				assert.NoError(t, g.Validate(validationError))
			}
			done <- true
		}()
	}
	for range 20 {
		<-done
	}
}
