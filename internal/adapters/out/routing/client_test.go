package routing_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shipping/internal/adapters/out/routing"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoints(t *testing.T) []kernel.GeoLocation {
	t.Helper()
	a, err := kernel.NewGeoLocation(52.52, 13.405)
	require.NoError(t, err)
	b, err := kernel.NewGeoLocation(52.53, 13.41)
	require.NoError(t, err)
	return []kernel.GeoLocation{a, b}
}

func TestClient_Matrix_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"durations": [[0, 600], [620, 0]],
			"distances": [[0, 4200], [4300, 0]]
		}`))
	}))
	defer server.Close()

	client := routing.NewClient(server.URL, "test-key", 5*time.Second)
	matrix, err := client.Matrix(t.Context(), testPoints(t), "driving-car")
	require.NoError(t, err)

	assert.InDelta(t, 600, matrix.Durations[0][1], 1e-9)
	assert.InDelta(t, 4300, matrix.Distances[1][0], 1e-9)
}

func TestClient_Matrix_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{
			"durations": [[0, 600], [620, 0]],
			"distances": [[0, 4200], [4300, 0]]
		}`))
	}))
	defer server.Close()

	client := routing.NewClient(server.URL, "", 5*time.Second)
	matrix, err := client.Matrix(t.Context(), testPoints(t), "driving-car")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.InDelta(t, 600, matrix.Durations[0][1], 1e-9)
}

func TestClient_Matrix_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := routing.NewClient(server.URL, "", 5*time.Second)
	_, err := client.Matrix(t.Context(), testPoints(t), "driving-car")
	require.ErrorIs(t, err, errs.ErrCollaboratorUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Matrix_UnroutableCellFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"durations": [[0, null], [620, 0]],
			"distances": [[0, 4200], [4300, 0]]
		}`))
	}))
	defer server.Close()

	client := routing.NewClient(server.URL, "", 5*time.Second)
	_, err := client.Matrix(t.Context(), testPoints(t), "driving-car")
	require.ErrorIs(t, err, errs.ErrCollaboratorUnavailable)
}

func TestClient_Matrix_EmptyPointsRejected(t *testing.T) {
	client := routing.NewClient("http://localhost:1", "", time.Second)
	_, err := client.Matrix(t.Context(), nil, "driving-car")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
