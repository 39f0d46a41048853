package ports

import (
	"context"
	"errors"

	"delivery-planning-service/internal/domain"
)

// ErrAddressNotFound is returned by Geocode when the service has no match.
var ErrAddressNotFound = errors.New("address not found")

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Driving route between points, with the polyline segments the service returned.
type RouteResult struct {
	DistanceResult
	Path []string
}

// Contract for the external mapping service.
type DistanceOracle interface {
	// Resolve an address to coordinates. Returns ErrAddressNotFound on a miss.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
	// Return driving distance and duration for a single leg.
	Route(ctx context.Context, from, to domain.Coordinates) (RouteResult, error)
	// Return driving distance and duration along an ordered multi-point path.
	MultiRoute(ctx context.Context, points []domain.Coordinates) (RouteResult, error)
}
