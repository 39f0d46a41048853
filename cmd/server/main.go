package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"delivery-planning-service/internal/adapters/cache"
	"delivery-planning-service/internal/adapters/distance"
	"delivery-planning-service/internal/adapters/repositories"
	"delivery-planning-service/internal/api"
	"delivery-planning-service/internal/config"
	"delivery-planning-service/internal/platform/db"
	"delivery-planning-service/internal/platform/obs"
	"delivery-planning-service/internal/ports"
	"delivery-planning-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, AMap or haversine oracle, caches)
// behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	obs.Init(obs.LogConfig{Level: cfg.LogLevel, File: cfg.LogFile, Pretty: cfg.LogPretty})
	if envErr != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("database driver")
	}

	conn, err := db.Open(dialect, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer conn.Close()

	if err := initAndSeed(conn, dialect, cfg.SeedPath); err != nil {
		log.Fatal().Err(err).Msg("database")
	}

	oracle, closeOracle, err := newOracle(cfg, conn, dialect)
	if err != nil {
		log.Fatal().Err(err).Msg("distance oracle")
	}
	defer closeOracle()

	params, err := cfg.PlannerParams()
	if err != nil {
		log.Fatal().Err(err).Msg("planner")
	}
	planner, err := services.NewPlanner(params, oracle)
	if err != nil {
		log.Fatal().Err(err).Msg("planner")
	}

	router := api.NewRouter(api.Deps{
		Stores:             repositories.NewSQLStoreRepository(conn, dialect),
		Vehicles:           repositories.NewSQLVehicleRepository(conn),
		Oracle:             oracle,
		Planner:            planner,
		GeocodeConcurrency: cfg.GeocodeConcurrency,
	})

	// A cold-cache plan waits on the oracle throttle once per leg, so the
	// write deadline follows PLAN_TIMEOUT rather than a fixed value.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.PlanTimeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("oracle", cfg.OracleProvider).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// newOracle builds the configured distance oracle. The returned func
// releases whatever the oracle's caches hold open.
func newOracle(cfg config.Config, conn *sql.DB, dialect db.Dialect) (ports.DistanceOracle, func(), error) {
	noop := func() {}

	if cfg.OracleProvider == "haversine" {
		o, err := distance.NewHaversineOracle(cfg.AverageSpeedKmh, cfg.HaversineDetour)
		return o, noop, err
	}

	var (
		legCache ports.LegCache
		client   *redis.Client
	)
	switch cfg.LegCache {
	case "sql":
		legCache = cache.NewSQLLegCache(conn, dialect)
	case "redis":
		var err error
		client, err = cache.DialRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, noop, fmt.Errorf("new oracle: %w", err)
		}
		legCache = cache.NewRedisLegCache(client, cfg.LegCacheTTL)
	}

	o, err := distance.NewAMapOracle(cfg.AMap(), cache.NewSQLGeocodeCache(conn, dialect), legCache)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return nil, noop, fmt.Errorf("new oracle: %w", err)
	}

	if client == nil {
		return o, noop, nil
	}
	return o, func() { _ = client.Close() }, nil
}

func initAndSeed(conn *sql.DB, dialect db.Dialect, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if seedPath == "" {
		return nil
	}
	if err := repositories.SeedFromJSON(conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	return nil
}
