package distance

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"delivery-planning-service/internal/ports"
)

const defaultAMapBaseURL = "https://restapi.amap.com"

// ErrOracleUnavailable is returned while the circuit breaker is open.
var ErrOracleUnavailable = errors.New("amap: service unavailable")

type BreakerConfig struct {
	MinRequests  uint32
	FailureRatio float64
	OpenTimeout  time.Duration // how long the breaker stays open
	Interval     time.Duration // closed-state counter reset period, 0 never resets
}

type AMapConfig struct {
	APIKey  string
	BaseURL string
	City    string // geocoding hint, optional
	Timeout time.Duration
	// Minimum spacing between calls; 0 disables throttling.
	Throttle time.Duration
	Burst    int
	Breaker  BreakerConfig
}

// AMapOracle implements ports.DistanceOracle on the AMap web service API.
//
// It coordinates:
//   - Address normalization
//   - Optional geocode and leg caching
//   - Call throttling through a token bucket
//   - Circuit breaking and retry/backoff on transient failures
//
// The oracle is safe for concurrent use.
type AMapOracle struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	city         string
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker
	geocodeCache ports.GeocodeCache
	legCache     ports.LegCache
}

// NewAMapOracle builds the AMap client. Either cache may be nil.
func NewAMapOracle(cfg AMapConfig, geocodeCache ports.GeocodeCache, legCache ports.LegCache) (*AMapOracle, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("amap api key is empty")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAMapBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.Throttle > 0 {
		limit = rate.Every(cfg.Throttle)
	}
	burst := max(cfg.Burst, 1)

	return &AMapOracle{
		session:      &http.Client{Timeout: timeout},
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		city:         cfg.City,
		limiter:      rate.NewLimiter(limit, burst),
		breaker:      newBreaker("amap", cfg.Breaker),
		geocodeCache: geocodeCache,
		legCache:     legCache,
	}, nil
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	failureRatio := cfg.FailureRatio
	if failureRatio <= 0 {
		failureRatio = 0.5
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: cfg.Interval,
		Timeout:  cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && ratio >= failureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
