package ports

import (
	"context"

	"delivery-planning-service/internal/domain"
)

// Persistent address -> coordinates cache consulted before geocoding.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// Cache of single driving legs keyed by their "lon,lat" endpoints.
type LegCache interface {
	Get(ctx context.Context, from, to string) (RouteResult, bool, error)
	Put(ctx context.Context, from, to string, r RouteResult) error
}
