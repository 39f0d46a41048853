package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/platform/db"
	"delivery-planning-service/internal/platform/obs"
)

// SQL-backed implementation of the StoreRepository port.
type SQLStoreRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLStoreRepository(conn *sql.DB, dialect db.Dialect) *SQLStoreRepository {
	return &SQLStoreRepository{DB: conn, Dialect: dialect}
}

// Return all stores ordered by id. Stores never geocoded have a nil Location.
func (s *SQLStoreRepository) ListStores(ctx context.Context) (_ []domain.Store, err error) {
	defer obs.Time(ctx, "stores.List")(&err)

	if s.DB == nil {
		return nil, errors.New("store repository: DB is nil")
	}

	query := `
	SELECT id, name, address, lon, lat
	FROM stores
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stores: query stores table: %w", err)
	}
	defer rows.Close()

	stores := make([]domain.Store, 0, 64)
	for rows.Next() {
		var st domain.Store
		var lon, lat sql.NullFloat64
		if err := rows.Scan(&st.ID, &st.Name, &st.Address, &lon, &lat); err != nil {
			return nil, fmt.Errorf("list stores: scan row: %w", err)
		}
		if lon.Valid && lat.Valid {
			st.Location = &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
		}
		stores = append(stores, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stores: row iteration: %w", err)
	}

	return stores, nil
}

// Persist geocoded positions keyed by store id.
func (s *SQLStoreRepository) UpdateLocations(ctx context.Context, locations map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "stores.UpdateLocations")(&err)

	if s.DB == nil {
		return errors.New("store repository: DB is nil")
	}
	if len(locations) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`UPDATE stores SET lon = ?, lat = ? WHERE id = ?;`))
	if err != nil {
		return fmt.Errorf("update locations: prepare: %w", err)
	}
	defer stmt.Close()

	for id, c := range locations {
		if _, err := stmt.ExecContext(ctx, c.Lon, c.Lat, id); err != nil {
			return fmt.Errorf("update locations: store %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update locations: commit tx: %w", err)
	}
	return nil
}
