package distance

import (
	"context"
	"errors"
	"fmt"
	"math"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/geo"
	"delivery-planning-service/internal/ports"
)

// HaversineOracle answers route queries offline from great-circle distance,
// stretched by a detour factor and driven at a constant speed. It cannot
// geocode.
type HaversineOracle struct {
	speedKmh     float64
	detourFactor float64
}

func NewHaversineOracle(speedKmh, detourFactor float64) (*HaversineOracle, error) {
	if speedKmh <= 0 {
		return nil, fmt.Errorf("haversine oracle: speed must be positive, got %v", speedKmh)
	}
	if detourFactor < 1 {
		return nil, fmt.Errorf("haversine oracle: detour factor must be at least 1, got %v", detourFactor)
	}
	return &HaversineOracle{speedKmh: speedKmh, detourFactor: detourFactor}, nil
}

func (h *HaversineOracle) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, ports.ErrAddressNotFound)
}

// Route is never zero-duration for distinct points, so arrival times along a
// route strictly increase.
func (h *HaversineOracle) Route(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.RouteResult{}, err
	}

	km := geo.DistanceKm(from, to) * h.detourFactor
	return ports.RouteResult{
		DistanceResult: ports.DistanceResult{
			DistanceMeters:  int(math.Round(km * 1000)),
			DurationSeconds: int(math.Ceil(km / h.speedKmh * 3600)),
		},
		Path: []string{from.LonLat() + ";" + to.LonLat()},
	}, nil
}

func (h *HaversineOracle) MultiRoute(ctx context.Context, points []domain.Coordinates) (ports.RouteResult, error) {
	if len(points) < 2 {
		return ports.RouteResult{}, errors.New("multi route: need at least two points")
	}

	var total ports.RouteResult
	for i := 1; i < len(points); i++ {
		r, err := h.Route(ctx, points[i-1], points[i])
		if err != nil {
			return ports.RouteResult{}, err
		}
		total.DistanceMeters += r.DistanceMeters
		total.DurationSeconds += r.DurationSeconds
		total.Path = append(total.Path, r.Path...)
	}
	return total, nil
}
