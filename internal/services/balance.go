package services

import (
	"context"
	"fmt"
	"math"
	"slices"

	"delivery-planning-service/internal/domain"
)

// balance evens out distance and stop count across built routes by swapping
// one stop for one stop between a pair of routes.
//
// Each round scans route pairs from the top and performs at most one swap;
// both affected routes are then rebuilt from scratch. A round without a swap
// ends balancing early. Candidate stops are picked with a straight-line
// proxy, so balancing is best effort. A swap is only taken when both new
// stop sets still pass the feasibility predicate for their vehicle.
func (p *Planner) balance(ctx context.Context, e estimator, routes []*domain.DeliveryRoute) (swaps int, err error) {
	if len(routes) < 2 {
		return 0, nil
	}

	for round := 0; round < p.params.BalanceRounds; round++ {
		swapped, err := p.balanceRound(ctx, e, routes)
		if err != nil {
			return swaps, fmt.Errorf("balance: round %d: %w", round+1, err)
		}
		if !swapped {
			break
		}
		swaps++
	}
	return swaps, nil
}

func (p *Planner) balanceRound(ctx context.Context, e estimator, routes []*domain.DeliveryRoute) (bool, error) {
	avgKm := 0.0
	for _, r := range routes {
		avgKm += r.TotalDistanceKm()
	}
	avgKm /= float64(len(routes))

	for i := 0; i < len(routes); i++ {
		for j := i + 1; j < len(routes); j++ {
			a, b := routes[i], routes[j]

			distanceGap := math.Abs(a.TotalDistanceKm() - b.TotalDistanceKm())
			stopGap := len(a.Stops) - len(b.Stops)
			if distanceGap <= avgKm*0.2 && stopGap <= 2 && stopGap >= -2 {
				continue
			}

			ai := e.swapCandidate(a, b, avgKm)
			bi := e.swapCandidate(b, a, avgKm)
			if ai < 0 || bi < 0 {
				continue
			}

			aStores := a.Stores()
			bStores := b.Stores()
			aStores[ai], bStores[bi] = bStores[bi], aStores[ai]
			if !e.fits(a.Vehicle, aStores) || !e.fits(b.Vehicle, bStores) {
				continue
			}

			rebuiltA, err := p.buildRoute(ctx, a.Vehicle, aStores)
			if err != nil {
				return false, err
			}
			rebuiltB, err := p.buildRoute(ctx, b.Vehicle, bStores)
			if err != nil {
				return false, err
			}
			routes[i], routes[j] = rebuiltA, rebuiltB
			return true, nil
		}
	}
	return false, nil
}

// swapCandidate picks the stop of from whose move to to best brings both
// routes toward the average distance, judged by depot distance alone.
func (e estimator) swapCandidate(from, to *domain.DeliveryRoute, avgKm float64) int {
	best := -1
	bestScore := math.Inf(1)

	for i, stop := range from.Stops {
		d := e.depotDistanceKm(stop.Store)
		score := math.Abs(from.TotalDistanceKm()-2*d-avgKm) + math.Abs(to.TotalDistanceKm()+2*d-avgKm)
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// routeStopIDs is used in logs to describe a route's membership.
func routeStopIDs(r *domain.DeliveryRoute) []string {
	ids := make([]string, 0, len(r.Stops))
	for _, s := range r.Stops {
		ids = append(ids, s.Store.ID)
	}
	return slices.Clip(ids)
}
