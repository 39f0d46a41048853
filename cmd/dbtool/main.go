package main

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"delivery-planning-service/internal/adapters/repositories"
	"delivery-planning-service/internal/config"
	"delivery-planning-service/internal/platform/db"
	"delivery-planning-service/internal/platform/obs"
)

// dbtool creates the schema and loads a store/vehicle seed file without
// starting the server.
func main() {
	envErr := godotenv.Load()
	obs.Init(obs.LogConfig{Level: config.Get("LOG_LEVEL", "info"), Pretty: true})
	if envErr != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	driver := flag.String("driver", config.Get("DB_DRIVER", "sqlite"), "database driver: sqlite or postgres")
	source := flag.String("source", config.Get("DB_SOURCE", "file:data/planning.db"), "database source name")
	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/seed.json"), "seed file; empty skips seeding")
	flag.Parse()

	dialect, err := db.ParseDialect(*driver)
	if err != nil {
		log.Fatal().Err(err).Msg("database driver")
	}

	conn, err := db.Open(dialect, *source)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer conn.Close()

	if err := initAndSeed(conn, dialect, *seedPath); err != nil {
		log.Fatal().Err(err).Msg("dbtool")
	}
}

func initAndSeed(conn *sql.DB, dialect db.Dialect, seedPath string) error {
	log.Info().Str("dialect", string(dialect)).Msg("initializing database schema")
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("schema ready")

	if seedPath == "" {
		return nil
	}

	log.Info().Str("path", seedPath).Msg("seeding database")
	if err := repositories.SeedFromJSON(conn, dialect, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info().Msg("seeding complete")
	return nil
}
