// Package config loads service settings from an optional app.env file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"delivery-planning-service/internal/adapters/distance"
	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/services"
)

// Config stores all configuration of the service.
// The values are read by viper from a config file or environment variable.
type Config struct {
	Port string `mapstructure:"PORT" validate:"required"`
	// Upper bound on one plan request; a throttled oracle needs one call per leg.
	PlanTimeout time.Duration `mapstructure:"PLAN_TIMEOUT" validate:"gt=0"`

	DBDriver string `mapstructure:"DB_DRIVER" validate:"oneof=sqlite postgres pgx"`
	DBSource string `mapstructure:"DB_SOURCE" validate:"required"`
	SeedPath string `mapstructure:"SEED_PATH"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	LegCacheTTL   time.Duration `mapstructure:"LEG_CACHE_TTL" validate:"gte=0"`
	// Caching legs across runs is opt-in: "none", "sql" or "redis".
	LegCache string `mapstructure:"LEG_CACHE" validate:"oneof=none sql redis"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFile   string `mapstructure:"LOG_FILE"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	OracleProvider      string        `mapstructure:"ORACLE_PROVIDER" validate:"oneof=amap haversine"`
	OracleThrottle      time.Duration `mapstructure:"ORACLE_THROTTLE" validate:"gte=0"`
	OracleBurst         int           `mapstructure:"ORACLE_BURST" validate:"gte=1"`
	OracleTimeout       time.Duration `mapstructure:"ORACLE_TIMEOUT" validate:"gt=0"`
	GeocodeConcurrency  int           `mapstructure:"GEOCODE_CONCURRENCY" validate:"gte=1"`
	HaversineDetour     float64       `mapstructure:"HAVERSINE_DETOUR" validate:"gte=1"`
	AMapKey             string        `mapstructure:"AMAP_KEY" validate:"required_if=OracleProvider amap"`
	AMapBaseURL         string        `mapstructure:"AMAP_BASE_URL" validate:"omitempty,url"`
	AMapCity            string        `mapstructure:"AMAP_CITY"`
	BreakerMinRequests  uint32        `mapstructure:"BREAKER_MIN_REQUESTS"`
	BreakerFailureRatio float64       `mapstructure:"BREAKER_FAILURE_RATIO" validate:"gte=0,lte=1"`
	BreakerOpenTimeout  time.Duration `mapstructure:"BREAKER_OPEN_TIMEOUT" validate:"gte=0"`

	DepotName       string        `mapstructure:"DEPOT_NAME" validate:"required"`
	DepotLat        float64       `mapstructure:"DEPOT_LAT" validate:"gte=-90,lte=90"`
	DepotLon        float64       `mapstructure:"DEPOT_LON" validate:"gte=-180,lte=180"`
	ClusterRadiusKm float64       `mapstructure:"CLUSTER_RADIUS_KM" validate:"gt=0"`
	MinClusterSize  int           `mapstructure:"MIN_CLUSTER_SIZE" validate:"gte=1"`
	MergeDistanceKm float64       `mapstructure:"MERGE_DISTANCE_KM" validate:"gte=0"`
	AverageSpeedKmh float64       `mapstructure:"AVERAGE_SPEED_KMH" validate:"gt=0"`
	DwellTime       time.Duration `mapstructure:"DWELL_TIME" validate:"gte=0"`
	DepartureTime   string        `mapstructure:"DEPARTURE_TIME" validate:"required"`
	Timezone        string        `mapstructure:"TIMEZONE" validate:"required"`
	BalanceRounds   int           `mapstructure:"BALANCE_ROUNDS" validate:"gte=0"`
	LongHaulKm      float64       `mapstructure:"LONG_HAUL_KM" validate:"gte=0"`
}

var defaults = map[string]any{
	"PORT":         "8080",
	"PLAN_TIMEOUT": 15 * time.Minute,
	"DB_DRIVER":    "sqlite",
	"DB_SOURCE":    "file:data/planning.db?_pragma=busy_timeout(5000)",
	"SEED_PATH":    "",

	"REDIS_ADDR":     "",
	"REDIS_PASSWORD": "",
	"LEG_CACHE_TTL":  24 * time.Hour,
	"LEG_CACHE":      "none",

	"LOG_LEVEL":  "info",
	"LOG_FILE":   "",
	"LOG_PRETTY": false,

	"ORACLE_PROVIDER":       "amap",
	"ORACLE_THROTTLE":       500 * time.Millisecond,
	"ORACLE_BURST":          1,
	"ORACLE_TIMEOUT":        10 * time.Second,
	"GEOCODE_CONCURRENCY":   4,
	"HAVERSINE_DETOUR":      1.3,
	"AMAP_KEY":              "",
	"AMAP_BASE_URL":         "https://restapi.amap.com",
	"AMAP_CITY":             "",
	"BREAKER_MIN_REQUESTS":  5,
	"BREAKER_FAILURE_RATIO": 0.5,
	"BREAKER_OPEN_TIMEOUT":  30 * time.Second,

	"DEPOT_NAME":        "Depot",
	"DEPOT_LAT":         30.53671,
	"DEPOT_LON":         120.120171,
	"CLUSTER_RADIUS_KM": 15.0,
	"MIN_CLUSTER_SIZE":  3,
	"MERGE_DISTANCE_KM": 20.0,
	"AVERAGE_SPEED_KMH": 50.0,
	"DWELL_TIME":        30 * time.Minute,
	"DEPARTURE_TIME":    "08:30",
	"TIMEZONE":          "Asia/Shanghai",
	"BALANCE_ROUNDS":    5,
	"LONG_HAUL_KM":      200.0,
}

// Load reads configuration from path/app.env if present, overridden by
// environment variables. Every key has a default.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: decode: %w", err)
	}

	cfg.AMapKey = trimOptionalQuotes(cfg.AMapKey)
	cfg.RedisPassword = trimOptionalQuotes(cfg.RedisPassword)
	cfg.OracleProvider = strings.ToLower(cfg.OracleProvider)
	cfg.LegCache = strings.ToLower(cfg.LegCache)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("load config: validate: %w", err)
	}
	if cfg.LegCache == "redis" && cfg.RedisAddr == "" {
		return Config{}, errors.New("load config: LEG_CACHE=redis needs REDIS_ADDR")
	}

	return cfg, nil
}

// PlannerParams maps the planning keys onto services.Params.
func (c Config) PlannerParams() (services.Params, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return services.Params{}, fmt.Errorf("planner params: timezone: %w", err)
	}
	hour, minute, err := services.ParseClock(c.DepartureTime)
	if err != nil {
		return services.Params{}, fmt.Errorf("planner params: %w", err)
	}

	p := services.DefaultParams(domain.Depot{
		Name:     c.DepotName,
		Location: domain.Coordinates{Lon: c.DepotLon, Lat: c.DepotLat},
	})
	p.ClusterRadiusKm = c.ClusterRadiusKm
	p.MinClusterSize = c.MinClusterSize
	p.MergeDistanceKm = c.MergeDistanceKm
	p.AverageSpeedKmh = c.AverageSpeedKmh
	p.Dwell = c.DwellTime
	p.DepartHour, p.DepartMinute = hour, minute
	p.Location = loc
	p.BalanceRounds = c.BalanceRounds
	p.LongHaulKm = c.LongHaulKm

	if err := p.Validate(); err != nil {
		return services.Params{}, fmt.Errorf("planner params: %w", err)
	}
	return p, nil
}

func (c Config) AMap() distance.AMapConfig {
	return distance.AMapConfig{
		APIKey:   c.AMapKey,
		BaseURL:  c.AMapBaseURL,
		City:     c.AMapCity,
		Timeout:  c.OracleTimeout,
		Throttle: c.OracleThrottle,
		Burst:    c.OracleBurst,
		Breaker: distance.BreakerConfig{
			MinRequests:  c.BreakerMinRequests,
			FailureRatio: c.BreakerFailureRatio,
			OpenTimeout:  c.BreakerOpenTimeout,
		},
	}
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func trimOptionalQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return s
}
