package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"delivery-planning-service/internal/adapters/repositories"
	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/platform/db"
	"delivery-planning-service/internal/ports"
)

var (
	_ ports.GeocodeCache = (*SQLGeocodeCache)(nil)
	_ ports.LegCache     = (*SQLLegCache)(nil)
	_ ports.LegCache     = (*RedisLegCache)(nil)
)

func TestSQLGeocodeCache(t *testing.T) {
	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, repositories.InitSchema(conn))

	c := NewSQLGeocodeCache(conn, db.SQLite)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"Hangzhou West Lake": {Lon: 120.1551, Lat: 30.2741},
		"Deqing Wukang":      {Lon: 119.9598, Lat: 30.5437},
	}))
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"Deqing Wukang": {Lon: 119.96, Lat: 30.54},
	}))

	got, err := c.GetMany(ctx, []string{"Hangzhou West Lake", " Deqing Wukang ", "Hangzhou West Lake", "missing", ""})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, domain.Coordinates{Lon: 120.1551, Lat: 30.2741}, got["Hangzhou West Lake"])
	require.Equal(t, domain.Coordinates{Lon: 119.96, Lat: 30.54}, got["Deqing Wukang"])
}

func TestSQLLegCache(t *testing.T) {
	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, repositories.InitSchema(conn))

	c := NewSQLLegCache(conn, db.SQLite)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "120.1,30.5", "120.2,30.6")
	require.NoError(t, err)
	require.False(t, ok)

	leg := ports.RouteResult{
		DistanceResult: ports.DistanceResult{DistanceMeters: 15200, DurationSeconds: 1260},
		Path:           []string{"120.1,30.5;120.15,30.55", "120.15,30.55;120.2,30.6"},
	}
	require.NoError(t, c.Put(ctx, "120.1,30.5", "120.2,30.6", leg))

	got, ok, err := c.Get(ctx, "120.1,30.5", "120.2,30.6")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, leg, got)

	_, ok, err = c.Get(ctx, "120.2,30.6", "120.1,30.5")
	require.NoError(t, err)
	require.False(t, ok, "legs are directional")
}

func TestRedisLegCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisLegCache(client, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "a", "b")
	require.NoError(t, err)
	require.False(t, ok)

	leg := ports.RouteResult{DistanceResult: ports.DistanceResult{DistanceMeters: 900, DurationSeconds: 120}}
	require.NoError(t, c.Put(ctx, "a", "b", leg))

	got, ok, err := c.Get(ctx, "a", "b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, leg, got)

	mr.FastForward(2 * time.Hour)
	_, ok, err = c.Get(ctx, "a", "b")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := DialRedis(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	require.NoError(t, client.Close())
}
