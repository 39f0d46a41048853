package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/platform/obs"
	"delivery-planning-service/internal/ports"
)

// Planner turns stores and a fleet into balanced delivery routes.
//
// A Planner holds no per-run state and may serve concurrent runs; each run
// works on its own copies of the inputs. Runs are not cancellable midway
// beyond what the oracle honors through ctx.
type Planner struct {
	params Params
	oracle ports.DistanceOracle
	now    func() time.Time
}

type Option func(*Planner)

// WithClock fixes the day the routes depart on. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func NewPlanner(params Params, oracle ports.DistanceOracle, opts ...Option) (*Planner, error) {
	if oracle == nil {
		return nil, errors.New("new planner: oracle must be non-nil")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("new planner: %w", err)
	}

	p := &Planner{params: params, oracle: oracle, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Plan runs one planning pass: cluster, assign, sequence, balance.
//
// The result is never nil. Stores nobody could take are reported in
// Unassigned and do not fail the run. The run fails when there is nothing to
// plan, when the oracle fails while a route is built (routes built so far are
// discarded) or when not a single route could be produced.
func (p *Planner) Plan(ctx context.Context, stores []domain.Store, vehicles []domain.Vehicle, progress ProgressFunc) (result *domain.PlanningResult, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	result = &domain.PlanningResult{}
	defer func() {
		if err != nil {
			result.Success = false
			result.Routes = nil
			result.Error = err.Error()
			obs.PlanningRuns.WithLabelValues("failed").Inc()
			return
		}
		result.Success = true
		obs.PlanningRuns.WithLabelValues("ok").Inc()
		obs.PlannedRoutes.Set(float64(len(result.Routes)))
		obs.UnassignedStores.Set(float64(len(result.Unassigned)))
	}()

	located := make([]domain.Store, 0, len(stores))
	for _, s := range stores {
		if s.Located() {
			located = append(located, s)
		} else {
			result.Unlocated = append(result.Unlocated, s)
		}
	}
	if len(result.Unlocated) > 0 {
		log.Info().Str("req_id", obs.RequestID(ctx)).Int("skipped", len(result.Unlocated)).Msg("stores without location skipped")
	}

	if len(located) == 0 {
		return result, fmt.Errorf("plan: %w", ErrNoLocatedStores)
	}
	if len(vehicles) == 0 {
		result.Unassigned = located
		return result, fmt.Errorf("plan: %w", ErrNoVehicles)
	}

	fleet := slices.Clone(vehicles)
	slices.SortStableFunc(fleet, func(a, b domain.Vehicle) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	e := estimator{params: p.params, fleet: fleet}

	clusters := e.clusterStores(located)
	log.Debug().Str("req_id", obs.RequestID(ctx)).Int("stores", len(located)).Int("clusters", len(clusters)).Msg("stores clustered")

	outcome := e.assignClusters(clusters, progress)
	result.Unassigned = outcome.unassigned

	routes := make([]*domain.DeliveryRoute, 0, len(outcome.assignments))
	for _, a := range outcome.assignments {
		route, err := p.buildRoute(ctx, a.vehicle, a.stores)
		if err != nil {
			return result, fmt.Errorf("plan: %w", err)
		}
		routes = append(routes, route)
	}

	if len(routes) == 0 {
		return result, fmt.Errorf("plan: %d stores: %w", len(located), ErrNoRoutes)
	}

	swaps, err := p.balance(ctx, e, routes)
	if err != nil {
		return result, fmt.Errorf("plan: %w", err)
	}

	for _, r := range routes {
		log.Debug().
			Str("req_id", obs.RequestID(ctx)).
			Str("vehicle", r.Vehicle.ID).
			Strs("stops", routeStopIDs(r)).
			Int("distance_m", r.TotalDistanceMeters).
			Int("duration_min", r.TotalDurationMinutes).
			Msg("route planned")
	}
	log.Info().
		Str("req_id", obs.RequestID(ctx)).
		Int("routes", len(routes)).
		Int("unassigned", len(result.Unassigned)).
		Int("swaps", swaps).
		Msg("planning finished")

	result.Routes = routes
	return result, nil
}
