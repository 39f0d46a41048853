package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/geo"
	"delivery-planning-service/internal/navigation"
	"delivery-planning-service/internal/ports"
)

// orderStops returns the visiting order for a stop set using a greedy
// nearest-neighbor walk from the depot over straight-line distance.
//
// The walk does not attempt global tour optimization. Ties go to the store
// met first in the input, which keeps the order deterministic.
func orderStops(depot domain.Coordinates, stores []domain.Store) []domain.Store {
	remaining := make([]domain.Store, len(stores))
	copy(remaining, stores)
	ordered := make([]domain.Store, 0, len(stores))

	current := depot
	for len(remaining) > 0 {
		best := 0
		bestKm := math.Inf(1)
		for i, s := range remaining {
			if d := geo.DistanceKm(current, *s.Location); d < bestKm {
				best, bestKm = i, d
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		current = *next.Location
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered
}

// buildRoute materializes one DeliveryRoute for a vehicle and its stop set.
//
// Legs are requested from the oracle in visiting order because arrival times
// accumulate. Any oracle failure aborts the route; no partial route is
// returned. The oracle-confirmed multi-point distance is reported as the
// route's total distance.
func (p *Planner) buildRoute(ctx context.Context, v domain.Vehicle, stores []domain.Store) (*domain.DeliveryRoute, error) {
	if len(stores) == 0 {
		return nil, errors.New("build route: stop list must be non-empty")
	}

	depot := navigation.Point{Name: p.params.Depot.Name, Location: p.params.Depot.Location}
	ordered := orderStops(depot.Location, stores)

	departAt := p.params.departureOn(p.now())
	clock := departAt
	dwell := p.params.Dwell

	route := &domain.DeliveryRoute{
		Vehicle:  v,
		DepartAt: departAt,
		Stops:    make([]domain.RouteStop, 0, len(ordered)),
		Steps:    make([]domain.NavigationStep, 0, len(ordered)+1),
	}

	legSeconds := 0
	trip := []navigation.Point{depot}
	prev := depot

	for _, s := range ordered {
		next := navigation.Point{Name: s.Name, Location: *s.Location}

		leg, err := p.oracle.Route(ctx, prev.Location, next.Location)
		if err != nil {
			return nil, fmt.Errorf("build route: vehicle %s: leg %q -> %q: %w", v.ID, prev.Name, next.Name, err)
		}

		// coincident stores report a zero-second leg; the clock still moves
		// so arrivals stay strictly ordered
		clock = clock.Add(max(time.Duration(leg.DurationSeconds)*time.Second, time.Second))
		legSeconds += leg.DurationSeconds

		route.Stops = append(route.Stops, domain.RouteStop{
			Store:    s,
			ArriveAt: clock,
			Dwell:    dwell,
			Leg: domain.Leg{
				DistanceMeters:  leg.DistanceMeters,
				DurationSeconds: leg.DurationSeconds,
				From:            prev.Name,
				To:              next.Name,
			},
		})
		route.Steps = append(route.Steps, navigationStep(prev, next, leg, false))

		clock = clock.Add(dwell)
		trip = append(trip, next)
		prev = next
	}

	back, err := p.oracle.Route(ctx, prev.Location, depot.Location)
	if err != nil {
		return nil, fmt.Errorf("build route: vehicle %s: return leg from %q: %w", v.ID, prev.Name, err)
	}
	legSeconds += back.DurationSeconds
	route.Steps = append(route.Steps, navigationStep(prev, depot, back, true))

	points := make([]domain.Coordinates, 0, len(trip)+1)
	for _, pt := range trip {
		points = append(points, pt.Location)
	}
	points = append(points, depot.Location)

	total, err := p.oracle.MultiRoute(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("build route: vehicle %s: total distance: %w", v.ID, err)
	}

	route.TotalDistanceMeters = total.DistanceMeters
	busy := time.Duration(legSeconds)*time.Second + time.Duration(len(ordered))*dwell
	route.TotalDurationMinutes = int(math.Ceil(busy.Minutes()))
	route.NavigationURL = navigation.TripURL(trip)

	return route, nil
}

func navigationStep(from, to navigation.Point, leg ports.RouteResult, returning bool) domain.NavigationStep {
	return domain.NavigationStep{
		Instruction:     navigation.Instruction(from, to, returning),
		From:            from.Location,
		To:              to.Location,
		DistanceMeters:  leg.DistanceMeters,
		DurationSeconds: leg.DurationSeconds,
		Path:            strings.Join(leg.Path, ";"),
		NavigationURL:   navigation.LegURL(from, to),
	}
}
