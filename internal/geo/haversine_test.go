package geo

import (
	"math"
	"testing"

	"delivery-planning-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	// Beijing Tiananmen -> Shanghai People's Square, roughly 1067 km.
	beijing := domain.Coordinates{Lon: 116.397499, Lat: 39.908722}
	shanghai := domain.Coordinates{Lon: 121.473701, Lat: 31.230416}

	d := DistanceKm(beijing, shanghai)
	require.InDelta(t, 1067, d, 5)
	require.InDelta(t, d, DistanceKm(shanghai, beijing), 1e-9)
	require.Zero(t, DistanceKm(beijing, beijing))
}

func TestRadiansRoundTrip(t *testing.T) {
	require.InDelta(t, math.Pi, ToRadians(180), 1e-12)
	require.InDelta(t, 42.5, ToDegrees(ToRadians(42.5)), 1e-12)
}

func TestCentroid(t *testing.T) {
	require.Equal(t, domain.Coordinates{}, Centroid(nil))

	c := Centroid([]domain.Coordinates{
		{Lon: 120, Lat: 30},
		{Lon: 122, Lat: 32},
	})
	require.InDelta(t, 121, c.Lon, 1e-12)
	require.InDelta(t, 31, c.Lat, 1e-12)
}

func TestOffset(t *testing.T) {
	depot := domain.Coordinates{Lon: 120.120171, Lat: 30.53671}

	north := Offset(depot, 5, 0)
	require.InDelta(t, 5, DistanceKm(depot, north), 0.01)

	east := Offset(depot, 0, 12)
	require.InDelta(t, 12, DistanceKm(depot, east), 0.05)
}
