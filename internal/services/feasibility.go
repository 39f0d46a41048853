package services

import (
	"slices"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/geo"
)

// cluster is a transient group of located stores. Order matters only as a
// tie-breaker; it carries no identity beyond its members.
type cluster []domain.Store

// estimator evaluates store groups against the fleet using straight-line
// distances only. Oracle calls are reserved for sequencing.
type estimator struct {
	params Params
	fleet  []domain.Vehicle // priority order, highest first
}

func (e estimator) depotDistanceKm(s domain.Store) float64 {
	return e.depotDistanceKmTo(*s.Location)
}

func (e estimator) depotDistanceKmTo(p domain.Coordinates) float64 {
	return geo.DistanceKm(e.params.Depot.Location, p)
}

// byDepotDistance returns a copy sorted nearest-first. The sort is stable so
// equidistant stores keep their input order.
func (e estimator) byDepotDistance(stores []domain.Store) []domain.Store {
	out := slices.Clone(stores)
	slices.SortStableFunc(out, func(a, b domain.Store) int {
		return compareFloat(e.depotDistanceKm(a), e.depotDistanceKm(b))
	})
	return out
}

func (e estimator) maxDepotDistanceKm(stores []domain.Store) float64 {
	maxKm := 0.0
	for _, s := range stores {
		maxKm = max(maxKm, e.depotDistanceKm(s))
	}
	return maxKm
}

// roundTripKm is the feasibility proxy for route length: twice the farthest
// member's distance from the depot.
func (e estimator) roundTripKm(stores []domain.Store) float64 {
	return 2 * e.maxDepotDistanceKm(stores)
}

// estimateMinutes walks the stores nearest-to-depot first at the assumed
// average speed, adds the dwell at each stop and the return leg.
func (e estimator) estimateMinutes(stores []domain.Store) float64 {
	if len(stores) == 0 {
		return 0
	}

	km := 0.0
	prev := e.params.Depot.Location
	for _, s := range e.byDepotDistance(stores) {
		km += geo.DistanceKm(prev, *s.Location)
		prev = *s.Location
	}
	km += geo.DistanceKm(prev, e.params.Depot.Location)

	driving := km / e.params.AverageSpeedKmh * 60
	return driving + float64(len(stores))*e.params.Dwell.Minutes()
}

// fits is the feasibility predicate: stop count, round-trip distance and
// estimated working time all within the vehicle's limits.
func (e estimator) fits(v domain.Vehicle, stores []domain.Store) bool {
	if len(stores) == 0 || len(stores) > v.MaxStores {
		return false
	}
	if e.roundTripKm(stores) > v.MaxDistance {
		return false
	}
	return e.estimateMinutes(stores) <= v.MaxWorkMinutes()
}

// fleetCanServe reports whether any vehicle, claimed or not, could take the group.
func (e estimator) fleetCanServe(stores []domain.Store) bool {
	for _, v := range e.fleet {
		if e.fits(v, stores) {
			return true
		}
	}
	return false
}

// tightestLimits returns the smallest distance and time caps across the fleet.
func (e estimator) tightestLimits() (distanceKm, minutes float64) {
	if len(e.fleet) == 0 {
		return 0, 0
	}
	distanceKm = e.fleet[0].MaxDistance
	minutes = e.fleet[0].MaxWorkMinutes()
	for _, v := range e.fleet[1:] {
		distanceKm = min(distanceKm, v.MaxDistance)
		minutes = min(minutes, v.MaxWorkMinutes())
	}
	return distanceKm, minutes
}

func (e estimator) centroid(stores []domain.Store) domain.Coordinates {
	points := make([]domain.Coordinates, 0, len(stores))
	for _, s := range stores {
		points = append(points, *s.Location)
	}
	return geo.Centroid(points)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
