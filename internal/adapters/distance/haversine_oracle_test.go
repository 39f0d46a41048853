package distance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/ports"
)

func TestHaversineOracleRoute(t *testing.T) {
	o, err := NewHaversineOracle(60, 1.2)
	require.NoError(t, err)

	from := domain.Coordinates{Lon: 120.0, Lat: 30.0}
	to := domain.Coordinates{Lon: 120.0, Lat: 30.5}

	r, err := o.Route(context.Background(), from, to)
	require.NoError(t, err)
	// 0.5 degrees of latitude is ~55.6 km, stretched by 1.2
	require.InDelta(t, 66700, r.DistanceMeters, 300)
	require.InDelta(t, 4003, r.DurationSeconds, 20)

	multi, err := o.MultiRoute(context.Background(), []domain.Coordinates{from, to, from})
	require.NoError(t, err)
	require.Equal(t, 2*r.DistanceMeters, multi.DistanceMeters)
}

func TestHaversineOracleCannotGeocode(t *testing.T) {
	o, err := NewHaversineOracle(50, 1)
	require.NoError(t, err)

	_, err = o.Geocode(context.Background(), "anything")
	require.ErrorIs(t, err, ports.ErrAddressNotFound)
}

func TestNewHaversineOracleValidates(t *testing.T) {
	_, err := NewHaversineOracle(0, 1)
	require.Error(t, err)
	_, err = NewHaversineOracle(50, 0.5)
	require.Error(t, err)
}
