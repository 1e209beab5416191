package ports

import (
	"context"

	"shipping/internal/core/domain/model/kernel"
)

// RouteMatrix holds pairwise travel metrics for a set of points. Durations
// are seconds, distances meters; element [i][j] is the cost of travelling
// from point i to point j.
type RouteMatrix struct {
	Durations [][]float64
	Distances [][]float64
}

// RoutingClient is the contract of the external routing collaborator.
// Operations that depend on it fail closed with
// errs.CollaboratorUnavailableError when it cannot serve a request.
type RoutingClient interface {
	// Matrix computes travel durations and distances between all pairs of
	// the given points for the given vehicle profile.
	Matrix(ctx context.Context, points []kernel.GeoLocation, profile string) (*RouteMatrix, error)
}
