package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planning-service/internal/adapters/distance"
	"delivery-planning-service/internal/domain"
)

func TestGeocodeStoresResolvesMissingLocations(t *testing.T) {
	oracle := distance.NewStubOracle(nil)
	oracle.AddAddress("1 Wensan Rd", domain.Coordinates{Lon: 120.13, Lat: 30.27})

	located := storeAt("A", 0.045, 0)
	stores := []domain.Store{
		{ID: "S1", Name: "One", Address: "1 Wensan Rd"},
		located,
		{ID: "S2", Name: "Two", Address: "nowhere at all"},
		{ID: "S3", Name: "Three"},
	}

	res, err := GeocodeStores(context.Background(), oracle, stores, 4)
	require.NoError(t, err)
	require.Equal(t, []string{"S1", "A"}, ids(res.Stores))
	require.Equal(t, []string{"S2", "S3"}, ids(res.Unlocated))
	require.Equal(t, map[string]domain.Coordinates{"S1": {Lon: 120.13, Lat: 30.27}}, res.Resolved)

	// located stores and blank addresses never reach the oracle
	require.ElementsMatch(t, []string{"geocode 1 Wensan Rd", "geocode nowhere at all"}, oracle.Calls())
	require.Nil(t, stores[0].Location, "input must not be mutated")
}

func TestGeocodeStoresFailsOnOracleError(t *testing.T) {
	oracle := distance.NewStubOracle(nil)
	oracle.FailOn("1 Wensan Rd", errors.New("invalid key"))

	stores := []domain.Store{{ID: "S1", Name: "One", Address: "1 Wensan Rd"}}

	res, err := GeocodeStores(context.Background(), oracle, stores, 0)
	require.Error(t, err)
	require.ErrorContains(t, err, "S1")
	require.Nil(t, res)
}

func TestGeocodeStoresNothingToDo(t *testing.T) {
	oracle := distance.NewStubOracle(nil)
	stores := []domain.Store{storeAt("A", 0.045, 0), storeAt("B", 0.05, 0)}

	res, err := GeocodeStores(context.Background(), oracle, stores, 2)
	require.NoError(t, err)
	require.Len(t, res.Stores, 2)
	require.Empty(t, res.Unlocated)
	require.Empty(t, res.Resolved)
	require.Empty(t, oracle.Calls())
}
