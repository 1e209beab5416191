// Package optimizer implements the OptimizerClient port against the external
// vehicle-routing optimizer. The engine sends shipper ids and parcels and
// receives per-shipper stop groupings; it never computes groupings itself.
// Failures surface as CollaboratorUnavailableError.
package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

const collaboratorName = "optimizer"

// Client calls the optimizer collaborator's proposal endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an optimizer client. Proposal runs can take a while, so
// the timeout should be generous compared to the routing client's.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type proposalRequestDTO struct {
	ShipperIDs []string            `json:"shipper_ids"`
	Parcels    []proposalParcelDTO `json:"parcels"`
	Vehicle    string              `json:"vehicle"`
	Mode       string              `json:"mode"`
}

type proposalParcelDTO struct {
	ParcelID          string  `json:"parcel_id"`
	DeliveryAddressID string  `json:"delivery_address_id"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
}

type proposalResponseDTO struct {
	Plans      []shipperPlanDTO `json:"plans"`
	Unassigned []string         `json:"unassigned_parcel_ids"`
	Stats      loadStatsDTO     `json:"stats"`
}

type shipperPlanDTO struct {
	ShipperID string            `json:"shipper_id"`
	Stops     []proposalStopDTO `json:"stops"`
}

type proposalStopDTO struct {
	DeliveryAddressID string   `json:"delivery_address_id"`
	Lat               float64  `json:"lat"`
	Lon               float64  `json:"lon"`
	ParcelIDs         []string `json:"parcel_ids"`
}

type loadStatsDTO struct {
	MeanStopsPerShipper float64 `json:"mean_stops_per_shipper"`
	MaxStops            int     `json:"max_stops"`
	MinStops            int     `json:"min_stops"`
}

// ProposeAssignments asks the optimizer for parcel-to-shipper groupings.
func (c *Client) ProposeAssignments(
	ctx context.Context,
	request ports.ProposalRequest,
) (*ports.Proposal, error) {
	payload, err := json.Marshal(fromPortRequest(request))
	if err != nil {
		return nil, fmt.Errorf("marshal proposal request: %w", err)
	}

	endpoint := c.baseURL + "/v1/proposals"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewCollaboratorUnavailableError(collaboratorName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return nil, errs.NewCollaboratorUnavailableError(collaboratorName,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))))
	}

	var dto proposalResponseDTO
	if err = json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, errs.NewCollaboratorUnavailableError(collaboratorName,
			fmt.Errorf("decode proposal response: %w", err))
	}

	proposal, err := toPortProposal(dto)
	if err != nil {
		return nil, errs.NewCollaboratorUnavailableError(collaboratorName, err)
	}

	return proposal, nil
}

func fromPortRequest(request ports.ProposalRequest) proposalRequestDTO {
	shipperIDs := make([]string, 0, len(request.ShipperIDs))
	for _, id := range request.ShipperIDs {
		shipperIDs = append(shipperIDs, id.String())
	}

	parcels := make([]proposalParcelDTO, 0, len(request.Parcels))
	for _, p := range request.Parcels {
		parcels = append(parcels, proposalParcelDTO{
			ParcelID:          p.ParcelID.String(),
			DeliveryAddressID: p.DeliveryAddressID,
			Lat:               p.Destination.Lat(),
			Lon:               p.Destination.Lon(),
		})
	}

	return proposalRequestDTO{
		ShipperIDs: shipperIDs,
		Parcels:    parcels,
		Vehicle:    request.Vehicle,
		Mode:       request.Mode,
	}
}

func toPortProposal(dto proposalResponseDTO) (*ports.Proposal, error) {
	plans := make([]ports.ShipperPlan, 0, len(dto.Plans))
	for _, planDTO := range dto.Plans {
		shipperID, err := kernel.UUIDFromString(planDTO.ShipperID)
		if err != nil {
			return nil, fmt.Errorf("plan shipper id: %w", err)
		}

		stops := make([]ports.ProposalStop, 0, len(planDTO.Stops))
		for _, stopDTO := range planDTO.Stops {
			destination, locErr := kernel.NewGeoLocation(stopDTO.Lat, stopDTO.Lon)
			if locErr != nil {
				return nil, fmt.Errorf("stop destination: %w", locErr)
			}

			parcelIDs, idErr := parseParcelIDs(stopDTO.ParcelIDs)
			if idErr != nil {
				return nil, idErr
			}

			stops = append(stops, ports.ProposalStop{
				DeliveryAddressID: stopDTO.DeliveryAddressID,
				Destination:       destination,
				ParcelIDs:         parcelIDs,
			})
		}

		plans = append(plans, ports.ShipperPlan{ShipperID: shipperID, Stops: stops})
	}

	unassigned, err := parseParcelIDs(dto.Unassigned)
	if err != nil {
		return nil, err
	}

	return &ports.Proposal{
		Plans:               plans,
		UnassignedParcelIDs: unassigned,
		Stats: ports.LoadStats{
			MeanStopsPerShipper: dto.Stats.MeanStopsPerShipper,
			MaxStops:            dto.Stats.MaxStops,
			MinStops:            dto.Stats.MinStops,
		},
	}, nil
}

func parseParcelIDs(raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, fmt.Errorf("parcel id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
