package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"delivery-planning-service/internal/adapters/distance"
	"delivery-planning-service/internal/domain"
)

var testDepot = domain.Depot{
	Name:     "Depot",
	Location: domain.Coordinates{Lat: 30.53671, Lon: 120.120171},
}

// storeAt places a store at a latitude/longitude offset from the depot.
// 0.009 degrees of latitude is roughly one kilometre.
func storeAt(id string, dLat, dLon float64) domain.Store {
	return domain.Store{
		ID:      id,
		Name:    "Store " + id,
		Address: "Address " + id,
		Location: &domain.Coordinates{
			Lat: testDepot.Location.Lat + dLat,
			Lon: testDepot.Location.Lon + dLon,
		},
	}
}

// grid lays out rows*cols stores starting dLat north of the depot, spaced
// step degrees apart.
func grid(prefix string, rows, cols int, dLat, step float64) []domain.Store {
	out := make([]domain.Store, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := fmt.Sprintf("%s%02d", prefix, r*cols+c)
			out = append(out, storeAt(id, dLat+float64(r)*step, float64(c)*step))
		}
	}
	return out
}

func van(id string, priority, maxStores int, maxKm, hours float64) domain.Vehicle {
	return domain.Vehicle{
		ID:           id,
		Name:         "Van " + id,
		Type:         domain.VehicleVan,
		MaxLoad:      1500,
		MaxDistance:  maxKm,
		MaxWorkHours: hours,
		MaxStores:    maxStores,
		Priority:     priority,
	}
}

func truck(id string, priority, maxStores int, maxKm, hours float64) domain.Vehicle {
	v := van(id, priority, maxStores, maxKm, hours)
	v.Name = "Truck " + id
	v.Type = domain.VehicleTruck
	v.MaxLoad = 8000
	return v
}

func testParams() Params {
	p := DefaultParams(testDepot)
	p.Location = time.UTC
	return p
}

func testClock() time.Time {
	return time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC)
}

func newTestPlanner(t *testing.T, oracle *distance.StubOracle) *Planner {
	t.Helper()
	p, err := NewPlanner(testParams(), oracle, WithClock(testClock))
	require.NoError(t, err)
	return p
}

// haversineStub answers every leg from straight-line distance.
func haversineStub(t *testing.T) *distance.StubOracle {
	t.Helper()
	h, err := distance.NewHaversineOracle(50, 1.2)
	require.NoError(t, err)
	return distance.NewStubOracle(nil).WithFallback(h)
}

func ids(stores []domain.Store) []string {
	out := make([]string, 0, len(stores))
	for _, s := range stores {
		out = append(out, s.ID)
	}
	return out
}

func clusterIDs(clusters []cluster) [][]string {
	out := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, ids(c))
	}
	return out
}
