// Package routing implements the RoutingClient port against an
// OpenRouteService-compatible matrix endpoint. Transient failures are
// retried with exponential backoff; anything that survives the retries is
// surfaced as CollaboratorUnavailableError so callers fail closed.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

const collaboratorName = "routing"

// Client calls the routing collaborator's matrix endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a routing client. The baseURL must point at the service
// root; the matrix path and profile are appended per request.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
	Distances [][]*float64 `json:"distances"`
}

// Matrix computes pairwise travel durations and distances between the given
// points. Locations are sent as [lon, lat] pairs per the ORS convention.
func (c *Client) Matrix(
	ctx context.Context,
	points []kernel.GeoLocation,
	profile string,
) (*ports.RouteMatrix, error) {
	if len(points) == 0 {
		return nil, errs.NewValueIsRequiredError("points")
	}

	locations := make([][]float64, 0, len(points))
	for _, p := range points {
		locations = append(locations, []float64{p.Lon(), p.Lat()})
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"duration", "distance"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", c.baseURL, profile)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, errs.NewCollaboratorUnavailableError(collaboratorName, err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err = json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, errs.NewCollaboratorUnavailableError(collaboratorName,
			fmt.Errorf("decode matrix response: %w", err))
	}

	matrix, err := toRouteMatrix(mr, len(points))
	if err != nil {
		return nil, errs.NewCollaboratorUnavailableError(collaboratorName, err)
	}

	return matrix, nil
}

// toRouteMatrix validates shape and rejects null cells. A null cell means
// the collaborator could not route between two points; callers depending on
// the matrix must not guess.
func toRouteMatrix(mr matrixResponse, n int) (*ports.RouteMatrix, error) {
	if len(mr.Durations) != n || len(mr.Distances) != n {
		return nil, fmt.Errorf("expected %d matrix rows; got durations=%d distances=%d",
			n, len(mr.Durations), len(mr.Distances))
	}

	matrix := &ports.RouteMatrix{
		Durations: make([][]float64, n),
		Distances: make([][]float64, n),
	}

	for i := range n {
		if len(mr.Durations[i]) != n || len(mr.Distances[i]) != n {
			return nil, fmt.Errorf("matrix row %d has wrong length", i)
		}

		matrix.Durations[i] = make([]float64, n)
		matrix.Distances[i] = make([]float64, n)

		for j := range n {
			if mr.Durations[i][j] == nil || mr.Distances[i][j] == nil {
				return nil, fmt.Errorf("matrix cell [%d][%d] is unroutable", i, j)
			}
			matrix.Durations[i][j] = *mr.Durations[i][j]
			matrix.Distances[i][j] = *mr.Distances[i][j]
		}
	}

	return matrix, nil
}

func (c *Client) newRequest(ctx context.Context, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429, 5xx) with
// exponential backoff while respecting context cancellation.
func (c *Client) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

func isRetryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
