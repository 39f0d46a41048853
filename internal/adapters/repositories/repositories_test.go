package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/platform/db"
)

func openSeeded(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(conn))
	require.NoError(t, SeedFromJSON(conn, db.SQLite, filepath.Join("testdata", "seed.json")))
	return conn
}

func TestListStores(t *testing.T) {
	conn := openSeeded(t)
	repo := NewSQLStoreRepository(conn, db.SQLite)

	stores, err := repo.ListStores(context.Background())
	require.NoError(t, err)
	require.Len(t, stores, 3)

	require.Equal(t, "S001", stores[0].ID)
	require.False(t, stores[0].Located())

	require.Equal(t, "S002", stores[1].ID)
	require.True(t, stores[1].Located())
	require.InDelta(t, 30.3192, stores[1].Location.Lat, 1e-9)
	require.InDelta(t, 120.1419, stores[1].Location.Lon, 1e-9)
}

func TestUpdateLocations(t *testing.T) {
	conn := openSeeded(t)
	repo := NewSQLStoreRepository(conn, db.SQLite)
	ctx := context.Background()

	err := repo.UpdateLocations(ctx, map[string]domain.Coordinates{
		"S001": {Lon: 120.0012, Lat: 30.4188},
	})
	require.NoError(t, err)

	stores, err := repo.ListStores(ctx)
	require.NoError(t, err)
	require.True(t, stores[0].Located())
	require.InDelta(t, 30.4188, stores[0].Location.Lat, 1e-9)
}

func TestListVehiclesByPriority(t *testing.T) {
	conn := openSeeded(t)
	repo := NewSQLVehicleRepository(conn)

	vehicles, err := repo.ListVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	require.Equal(t, "T1", vehicles[0].ID)
	require.Equal(t, domain.VehicleTruck, vehicles[0].Type)
	require.Equal(t, 30, vehicles[0].MaxStores)
	require.InDelta(t, 600, vehicles[0].MaxDistance, 1e-9)
	require.Equal(t, "V2", vehicles[1].ID)
}

func TestSeedIsIdempotent(t *testing.T) {
	conn := openSeeded(t)
	require.NoError(t, SeedFromJSON(conn, db.SQLite, filepath.Join("testdata", "seed.json")))

	stores, err := NewSQLStoreRepository(conn, db.SQLite).ListStores(context.Background())
	require.NoError(t, err)
	require.Len(t, stores, 3)
}

func TestSeedRejectsInvalidVehicle(t *testing.T) {
	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, InitSchema(conn))

	path := filepath.Join(t.TempDir(), "bad.json")
	bad := `{"vehicles":[{"id":"X","name":"X","type":"bike","max_distance_km":10,"max_work_hours":1,"max_stores":1}]}`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o600))

	err = SeedFromJSON(conn, db.SQLite, path)
	require.ErrorContains(t, err, "unknown type")
}
