package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"delivery-planning-service/internal/adapters/distance"
	"delivery-planning-service/internal/domain"
)

func TestBuildRoute(t *testing.T) {
	a, b, c := storeAt("A", 0.045, 0), storeAt("B", 0.052, 0), storeAt("C", 0.059, 0)
	d := testDepot.Location

	oracle := distance.NewStubOracle([]distance.StubLeg{
		{From: d, To: *a.Location, Meters: 5000, Seconds: 600},
		{From: *a.Location, To: *b.Location, Meters: 800, Seconds: 120},
		{From: *b.Location, To: *c.Location, Meters: 800, Seconds: 120},
		{From: *c.Location, To: d, Meters: 6600, Seconds: 780},
	})
	p := newTestPlanner(t, oracle)

	route, err := p.buildRoute(context.Background(), van("V1", 1, 30, 500, 9), []domain.Store{c, a, b})
	require.NoError(t, err)

	require.Equal(t, []string{"A", "B", "C"}, ids(route.Stores()))

	depart := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	require.Equal(t, depart, route.DepartAt)
	require.Equal(t, depart.Add(10*time.Minute), route.Stops[0].ArriveAt)
	require.Equal(t, depart.Add(42*time.Minute), route.Stops[1].ArriveAt)
	require.Equal(t, depart.Add(74*time.Minute), route.Stops[2].ArriveAt)
	require.Equal(t, 30*time.Minute, route.Stops[0].Dwell)

	require.Equal(t, "Depot", route.Stops[0].Leg.From)
	require.Equal(t, "Store A", route.Stops[0].Leg.To)
	require.Equal(t, 5000, route.Stops[0].Leg.DistanceMeters)

	// (600+120+120+780) s of driving plus three 30 min stops
	require.Equal(t, 117, route.TotalDurationMinutes)
	require.Equal(t, 13200, route.TotalDistanceMeters)

	require.Len(t, route.Steps, 4)
	last := route.Steps[3]
	require.Equal(t, d, last.To)
	require.Equal(t, "Return from Store C to Depot", last.Instruction)
	require.Equal(t, 780, last.DurationSeconds)
	require.Contains(t, last.NavigationURL, "uri.amap.com/navigation")
	require.Equal(t, "Drive from Depot to Store A", route.Steps[0].Instruction)

	require.Contains(t, route.NavigationURL, "via=")
}

func TestBuildRouteCoincidentStoresArriveInOrder(t *testing.T) {
	p := newTestPlanner(t, haversineStub(t))

	a, b, c := storeAt("A", 0.045, 0), storeAt("B", 0.045, 0), storeAt("C", 0.0495, 0)
	route, err := p.buildRoute(context.Background(), van("V1", 1, 30, 500, 9), []domain.Store{a, b, c})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, ids(route.Stores()))

	// the A -> B leg is zero seconds long
	require.Equal(t, 0, route.Stops[1].Leg.DurationSeconds)
	want := route.Stops[0].ArriveAt.Add(route.Stops[0].Dwell).Add(time.Second)
	require.Equal(t, want, route.Stops[1].ArriveAt)

	driving := 0
	for _, s := range route.Steps {
		driving += s.DurationSeconds
	}
	require.Equal(t, int(math.Ceil(float64(driving)/60+90)), route.TotalDurationMinutes)
}

func TestBuildRouteDurationRoundsUp(t *testing.T) {
	a := storeAt("A", 0.045, 0)
	d := testDepot.Location

	oracle := distance.NewStubOracle([]distance.StubLeg{
		{From: d, To: *a.Location, Meters: 5000, Seconds: 601},
		{From: *a.Location, To: d, Meters: 5000, Seconds: 600},
	})
	p := newTestPlanner(t, oracle)

	route, err := p.buildRoute(context.Background(), van("V1", 1, 30, 500, 9), []domain.Store{a})
	require.NoError(t, err)
	require.Equal(t, 51, route.TotalDurationMinutes)
}

func TestBuildRouteOracleFailureAborts(t *testing.T) {
	a, b := storeAt("A", 0.045, 0), storeAt("B", 0.052, 0)
	oracle := haversineStub(t)
	oracle.FailOn(b.Location.LonLat(), errors.New("upstream down"))
	p := newTestPlanner(t, oracle)

	route, err := p.buildRoute(context.Background(), van("V1", 1, 30, 500, 9), []domain.Store{a, b})
	require.Error(t, err)
	require.ErrorContains(t, err, "upstream down")
	require.Nil(t, route)
}

func TestBuildRouteRejectsEmptyStops(t *testing.T) {
	p := newTestPlanner(t, haversineStub(t))

	_, err := p.buildRoute(context.Background(), van("V1", 1, 30, 500, 9), nil)
	require.Error(t, err)
}

func TestBuildRouteCallsLegsInOrder(t *testing.T) {
	a, b := storeAt("A", 0.045, 0), storeAt("B", 0.052, 0)
	oracle := haversineStub(t)
	p := newTestPlanner(t, oracle)

	_, err := p.buildRoute(context.Background(), van("V1", 1, 30, 500, 9), []domain.Store{b, a})
	require.NoError(t, err)

	d := testDepot.Location.LonLat()
	calls := oracle.Calls()
	require.Equal(t, []string{
		"route " + d + "|" + a.Location.LonLat(),
		"route " + a.Location.LonLat() + "|" + b.Location.LonLat(),
		"route " + b.Location.LonLat() + "|" + d,
	}, calls[:3])
}

func TestOrderStopsNearestNeighbor(t *testing.T) {
	stores := []domain.Store{
		storeAt("FAR", 0.2, 0),
		storeAt("MID", 0.1, 0.01),
		storeAt("NEAR", 0.05, 0),
		storeAt("SIDE", 0.1, -0.05),
	}

	got := orderStops(testDepot.Location, stores)
	require.Equal(t, []string{"NEAR", "MID", "SIDE", "FAR"}, ids(got))
}

func TestOrderStopsTieGoesToFirst(t *testing.T) {
	p, q := storeAt("P", 0.05, 0), storeAt("Q", 0.05, 0)

	require.Equal(t, []string{"P", "Q"}, ids(orderStops(testDepot.Location, []domain.Store{p, q})))
	require.Equal(t, []string{"Q", "P"}, ids(orderStops(testDepot.Location, []domain.Store{q, p})))
}
