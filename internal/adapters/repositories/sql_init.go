package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/platform/db"
)

// Initialize the database schema. The statements are portable between
// SQLite and Postgres.
func InitSchema(conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStoresQuery := `
	CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		lon DOUBLE PRECISION,
		lat DOUBLE PRECISION
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		max_load DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_distance_km DOUBLE PRECISION NOT NULL,
		max_work_hours DOUBLE PRECISION NOT NULL,
		max_stores INTEGER NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0
	);
	`

	createLegCacheQuery := `
	CREATE TABLE IF NOT EXISTS leg_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (origin, destination)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	statements := []string{
		createStoresQuery,
		createVehiclesQuery,
		createLegCacheQuery,
		createGeocodeCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StoreSeed struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

type VehicleSeed struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	MaxLoad      float64 `json:"max_load"`
	MaxDistance  float64 `json:"max_distance_km"`
	MaxWorkHours float64 `json:"max_work_hours"`
	MaxStores    int     `json:"max_stores"`
	Priority     int     `json:"priority"`
}

type Seed struct {
	Stores   []StoreSeed   `json:"stores"`
	Vehicles []VehicleSeed `json:"vehicles"`
}

// Populate the database with stores and vehicles from a JSON file.
// Existing rows with the same id are replaced.
func SeedFromJSON(conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data Seed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	if err := validateSeed(data); err != nil {
		return err
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	storeStmt, err := tx.Prepare(dialect.Rebind(`
	INSERT INTO stores (id, name, address, lon, lat)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		address = EXCLUDED.address,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`))
	if err != nil {
		return fmt.Errorf("seed stores: prepare insert: %w", err)
	}
	defer storeStmt.Close()

	for _, s := range data.Stores {
		if _, err := storeStmt.Exec(strings.TrimSpace(s.ID), strings.TrimSpace(s.Name), strings.TrimSpace(s.Address), s.Lon, s.Lat); err != nil {
			return fmt.Errorf("seed stores: insert id=%s: %w", s.ID, err)
		}
	}

	vehicleStmt, err := tx.Prepare(dialect.Rebind(`
	INSERT INTO vehicles (id, name, type, max_load, max_distance_km, max_work_hours, max_stores, priority)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		type = EXCLUDED.type,
		max_load = EXCLUDED.max_load,
		max_distance_km = EXCLUDED.max_distance_km,
		max_work_hours = EXCLUDED.max_work_hours,
		max_stores = EXCLUDED.max_stores,
		priority = EXCLUDED.priority;
	`))
	if err != nil {
		return fmt.Errorf("seed vehicles: prepare insert: %w", err)
	}
	defer vehicleStmt.Close()

	for _, v := range data.Vehicles {
		if _, err := vehicleStmt.Exec(v.ID, v.Name, v.Type, v.MaxLoad, v.MaxDistance, v.MaxWorkHours, v.MaxStores, v.Priority); err != nil {
			return fmt.Errorf("seed vehicles: insert id=%s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}

func validateSeed(data Seed) error {
	for i, s := range data.Stores {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("seed stores: item at index %d: id cannot be empty", i+1)
		}
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("seed stores: item %s: name cannot be empty", s.ID)
		}
		if (s.Lat == nil) != (s.Lon == nil) {
			return fmt.Errorf("seed stores: item %s: lat and lon must be set together", s.ID)
		}
	}

	for i, v := range data.Vehicles {
		if strings.TrimSpace(v.ID) == "" {
			return fmt.Errorf("seed vehicles: item at index %d: id cannot be empty", i+1)
		}
		switch domain.VehicleType(v.Type) {
		case domain.VehicleTruck, domain.VehicleVan:
		default:
			return fmt.Errorf("seed vehicles: item %s: unknown type %q", v.ID, v.Type)
		}
		if v.MaxDistance <= 0 || v.MaxWorkHours <= 0 || v.MaxStores <= 0 {
			return fmt.Errorf("seed vehicles: item %s: limits must be positive", v.ID)
		}
	}
	return nil
}
