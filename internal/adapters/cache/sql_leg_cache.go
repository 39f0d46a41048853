package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"delivery-planning-service/internal/platform/db"
	"delivery-planning-service/internal/platform/obs"
	"delivery-planning-service/internal/ports"
)

// SQLLegCache is a SQL-backed cache for origin->destination driving legs.
// Keys are "lon,lat" strings. Path polylines are stored joined by '|'.
type SQLLegCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLLegCache(conn *sql.DB, dialect db.Dialect) *SQLLegCache {
	return &SQLLegCache{DB: conn, Dialect: dialect}
}

func (s *SQLLegCache) Get(ctx context.Context, origin, destination string) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "leg.cache.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("leg cache: db is nil")
	}
	if origin == "" || destination == "" {
		return ports.RouteResult{}, false, errors.New("get leg cache: origin and destination must not be empty")
	}

	q := s.Dialect.Rebind(`
	SELECT distance_meters, duration_seconds, path
	FROM leg_cache
	WHERE origin = ? AND destination = ?;
	`)

	var r ports.RouteResult
	var path string
	err = s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&r.DistanceMeters, &r.DurationSeconds, &path)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get leg cache: query leg_cache table: %w", err)
	}

	if path != "" {
		r.Path = strings.Split(path, "|")
	}
	return r, true, nil
}

func (s *SQLLegCache) Put(ctx context.Context, origin, destination string, r ports.RouteResult) error {
	if s.DB == nil {
		return errors.New("leg cache: db is nil")
	}
	if origin == "" || destination == "" {
		return errors.New("insert leg cache: origin and destination must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`
	INSERT INTO leg_cache (origin, destination, distance_meters, duration_seconds, path)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		path = EXCLUDED.path;
	`), origin, destination, r.DistanceMeters, r.DurationSeconds, strings.Join(r.Path, "|"))
	if err != nil {
		return fmt.Errorf("insert leg cache %s -> %s: %w", origin, destination, err)
	}

	return nil
}
