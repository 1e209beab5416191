package optimizer_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipping/internal/adapters/out/optimizer"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ProposeAssignments_Success(t *testing.T) {
	shipperID := kernel.NewUUID()
	parcelID := kernel.NewUUID()
	destination, err := kernel.NewGeoLocation(48.137, 11.575)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/proposals", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bike", body["vehicle"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"plans": [{
				"shipper_id": %q,
				"stops": [{
					"delivery_address_id": "addr-1",
					"lat": 48.137, "lon": 11.575,
					"parcel_ids": [%q]
				}]
			}],
			"unassigned_parcel_ids": [],
			"stats": {"mean_stops_per_shipper": 1, "max_stops": 1, "min_stops": 1}
		}`, shipperID, parcelID)
	}))
	defer server.Close()

	client := optimizer.NewClient(server.URL, "", 5*time.Second)
	proposal, err := client.ProposeAssignments(t.Context(), ports.ProposalRequest{
		ShipperIDs: []kernel.UUID{shipperID},
		Parcels: []ports.ProposalParcel{{
			ParcelID:          parcelID,
			DeliveryAddressID: "addr-1",
			Destination:       destination,
		}},
		Vehicle: "bike",
		Mode:    "balanced",
	})
	require.NoError(t, err)

	require.Len(t, proposal.Plans, 1)
	assert.Equal(t, shipperID, proposal.Plans[0].ShipperID)
	require.Len(t, proposal.Plans[0].Stops, 1)
	assert.Equal(t, []kernel.UUID{parcelID}, proposal.Plans[0].Stops[0].ParcelIDs)
	assert.Empty(t, proposal.UnassignedParcelIDs)
	assert.Equal(t, 1, proposal.Stats.MaxStops)
}

func TestClient_ProposeAssignments_ServerErrorFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := optimizer.NewClient(server.URL, "", 5*time.Second)
	_, err := client.ProposeAssignments(t.Context(), ports.ProposalRequest{})
	require.ErrorIs(t, err, errs.ErrCollaboratorUnavailable)
}

func TestClient_ProposeAssignments_MalformedPlanFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"plans": [{"shipper_id": "not-a-uuid", "stops": []}]}`))
	}))
	defer server.Close()

	client := optimizer.NewClient(server.URL, "", 5*time.Second)
	_, err := client.ProposeAssignments(t.Context(), ports.ProposalRequest{})
	require.ErrorIs(t, err, errs.ErrCollaboratorUnavailable)
}
