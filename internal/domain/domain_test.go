package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVehicleWorkMinutes(t *testing.T) {
	v := Vehicle{ID: "V1", MaxWorkHours: 8.5}

	require.Equal(t, 510.0, v.MaxWorkMinutes())
}

func TestStoreLocated(t *testing.T) {
	require.False(t, Store{ID: "S1"}.Located())
	require.True(t, Store{ID: "S1", Location: &Coordinates{Lon: 120.1, Lat: 30.5}}.Located())
}

func TestCoordinatesFormatting(t *testing.T) {
	c := Coordinates{Lon: 120.120171, Lat: 30.53671}

	require.Equal(t, "120.120171,30.536710", c.LonLat())
	require.Equal(t, []float64{120.120171, 30.53671}, c.CoordsToList())
	require.False(t, c.IsZero())
	require.True(t, Coordinates{}.IsZero())
}

func TestDeliveryRouteAccessors(t *testing.T) {
	r := &DeliveryRoute{
		Stops: []RouteStop{
			{Store: Store{ID: "B"}},
			{Store: Store{ID: "A"}},
		},
		TotalDistanceMeters: 12345,
	}

	stores := r.Stores()
	require.Len(t, stores, 2)
	require.Equal(t, "B", stores[0].ID)
	require.Equal(t, "A", stores[1].ID)
	require.InDelta(t, 12.345, r.TotalDistanceKm(), 1e-9)
}
