package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/platform/obs"
)

// SQL-backed implementation of the VehicleRepository port.
type SQLVehicleRepository struct{ DB *sql.DB }

func NewSQLVehicleRepository(conn *sql.DB) *SQLVehicleRepository {
	return &SQLVehicleRepository{DB: conn}
}

// Return the fleet, highest priority first.
func (s *SQLVehicleRepository) ListVehicles(ctx context.Context) (_ []domain.Vehicle, err error) {
	defer obs.Time(ctx, "vehicles.List")(&err)

	if s.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	query := `
	SELECT id, name, type, max_load, max_distance_km, max_work_hours, max_stores, priority
	FROM vehicles
	ORDER BY priority DESC, id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, 16)
	for rows.Next() {
		var v domain.Vehicle
		var vType string
		if err := rows.Scan(&v.ID, &v.Name, &vType, &v.MaxLoad, &v.MaxDistance, &v.MaxWorkHours, &v.MaxStores, &v.Priority); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		v.Type = domain.VehicleType(vType)
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}
