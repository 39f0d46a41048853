package distance

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/platform/obs"
	"delivery-planning-service/internal/ports"
)

// The v5 driving API accepts at most this many waypoints per request.
const maxWaypoints = 16

type drivingResponse struct {
	apiStatus
	Route struct {
		Paths []struct {
			Distance string `json:"distance"`
			Cost     struct {
				Duration string `json:"duration"`
			} `json:"cost"`
			Steps []struct {
				Polyline string `json:"polyline"`
			} `json:"steps"`
		} `json:"paths"`
	} `json:"route"`
}

// Route returns the driving leg between two points, cached per
// origin/destination pair when a leg cache is configured.
func (o *AMapOracle) Route(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, error) {
	fromKey, toKey := from.LonLat(), to.LonLat()

	if o.legCache != nil {
		r, ok, err := o.legCache.Get(ctx, fromKey, toKey)
		if err != nil {
			return ports.RouteResult{}, fmt.Errorf("amap get leg cache: %w", err)
		}
		if ok {
			return r, nil
		}
	}

	r, err := o.driving(ctx, []domain.Coordinates{from, to})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("route %s -> %s: %w", fromKey, toKey, err)
	}

	if o.legCache != nil {
		if err := o.legCache.Put(ctx, fromKey, toKey, r); err != nil {
			log.Warn().Str("req_id", obs.RequestID(ctx)).Err(err).Msg("leg cache write failed")
		}
	}
	return r, nil
}

// MultiRoute returns the driving distance along an ordered point list. Long
// lists are sent in consecutive chunks sharing their boundary points and the
// results summed.
func (o *AMapOracle) MultiRoute(ctx context.Context, points []domain.Coordinates) (ports.RouteResult, error) {
	if len(points) < 2 {
		return ports.RouteResult{}, errors.New("multi route: need at least two points")
	}

	var total ports.RouteResult
	chunk := maxWaypoints + 2
	for start := 0; start < len(points)-1; start += chunk - 1 {
		end := min(start+chunk, len(points))
		r, err := o.driving(ctx, points[start:end])
		if err != nil {
			return ports.RouteResult{}, fmt.Errorf("multi route: points %d..%d: %w", start, end-1, err)
		}
		total.DistanceMeters += r.DistanceMeters
		total.DurationSeconds += r.DurationSeconds
		total.Path = append(total.Path, r.Path...)
	}
	return total, nil
}

// driving calls /v5/direction/driving for origin, waypoints and destination.
func (o *AMapOracle) driving(ctx context.Context, points []domain.Coordinates) (ports.RouteResult, error) {
	q := url.Values{}
	q.Set("origin", points[0].LonLat())
	q.Set("destination", points[len(points)-1].LonLat())
	if via := points[1 : len(points)-1]; len(via) > 0 {
		parts := make([]string, 0, len(via))
		for _, p := range via {
			parts = append(parts, p.LonLat())
		}
		q.Set("waypoints", strings.Join(parts, ";"))
	}
	q.Set("show_fields", "cost,polyline")
	q.Set("strategy", "32")

	var decoded drivingResponse
	if err := o.getJSON(ctx, "route", "/v5/direction/driving", q, &decoded); err != nil {
		return ports.RouteResult{}, err
	}

	if len(decoded.Route.Paths) == 0 {
		return ports.RouteResult{}, errors.New("driving response has no paths")
	}
	path := decoded.Route.Paths[0]

	meters, err := strconv.Atoi(path.Distance)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("invalid distance %q: %w", path.Distance, err)
	}
	seconds, err := strconv.Atoi(path.Cost.Duration)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("invalid duration %q: %w", path.Cost.Duration, err)
	}

	polylines := make([]string, 0, len(path.Steps))
	for _, s := range path.Steps {
		if s.Polyline != "" {
			polylines = append(polylines, s.Polyline)
		}
	}

	return ports.RouteResult{
		DistanceResult: ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds},
		Path:           polylines,
	}, nil
}
