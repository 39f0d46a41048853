package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_requests_total",
		Help: "Distance oracle calls by operation and outcome.",
	}, []string{"op", "outcome"})

	OracleLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oracle_request_duration_seconds",
		Help:    "Distance oracle latency, including throttling and retries.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"op"})

	PlanningRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planning_runs_total",
		Help: "Planning runs by outcome.",
	}, []string{"outcome"})

	PlannedRoutes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "planning_last_routes",
		Help: "Routes produced by the most recent successful run.",
	})

	UnassignedStores = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "planning_last_unassigned_stores",
		Help: "Located stores no vehicle could take in the most recent run.",
	})
)

// ObserveOracle records one oracle call. Use with defer and a named error.
func ObserveOracle(op string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	OracleCalls.WithLabelValues(op, outcome).Inc()
	OracleLatency.WithLabelValues(op).Observe(seconds)
}
