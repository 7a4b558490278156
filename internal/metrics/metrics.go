// Package metrics provides the centralized Prometheus metrics registry for
// the accumulator engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	DominanceRefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acca_engine",
		Name:      "dominance_refreshes_total",
		Help:      "Total number of dominance classification runs",
	})
	PicksGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acca_engine",
		Name:      "picks_generated_total",
		Help:      "Total number of accumulator picks persisted",
	})
	CombosBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acca_engine",
		Name:      "combos_built_total",
		Help:      "Total number of accumulator combos persisted",
	})
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acca_engine",
		Name:      "pipeline_runs_total",
		Help:      "Total pipeline stage runs by stage and outcome",
	}, []string{"stage", "status"})
	FeedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acca_engine",
		Name:      "feed_requests_total",
		Help:      "Total upstream feed requests by feed and outcome",
	}, []string{"feed", "status"})
	OddsStreamUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acca_engine",
		Name:      "odds_stream_updates_total",
		Help:      "Total price movements received on the odds stream",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acca_engine",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of upstream circuit breaker trips",
	})
)

// Gauge metrics
var (
	BettableTeams = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acca_engine",
		Name:      "bettable_teams",
		Help:      "Number of ultra/strong dominant teams per league",
	}, []string{"league"})
	DailyPickCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "acca_engine",
		Name:      "daily_pick_count",
		Help:      "Number of picks on the current day's slate",
	})
	BestComboExpectedValue = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acca_engine",
		Name:      "best_combo_expected_value",
		Help:      "Expected value of the top-ranked combo per risk tier",
	}, []string{"risk_level"})
)

// Histogram metrics
var (
	PickGenerationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "acca_engine",
		Name:      "pick_generation_duration_seconds",
		Help:      "Duration of daily pick generation runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ComboBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "acca_engine",
		Name:      "combo_build_duration_seconds",
		Help:      "Duration of combination search runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	FeedRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "acca_engine",
		Name:      "feed_request_duration_seconds",
		Help:      "Latency of upstream feed requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"feed"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(DominanceRefreshesTotal)
		registry.MustRegister(PicksGeneratedTotal)
		registry.MustRegister(CombosBuiltTotal)
		registry.MustRegister(PipelineRunsTotal)
		registry.MustRegister(FeedRequestsTotal)
		registry.MustRegister(OddsStreamUpdatesTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(BettableTeams)
		registry.MustRegister(DailyPickCount)
		registry.MustRegister(BestComboExpectedValue)

		// Register histogram metrics
		registry.MustRegister(PickGenerationDuration)
		registry.MustRegister(ComboBuildDuration)
		registry.MustRegister(FeedRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPipelineRun records a pipeline stage run outcome.
func RecordPipelineRun(stage string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	PipelineRunsTotal.WithLabelValues(stage, status).Inc()
}

// RecordFeedRequest records an upstream feed request outcome.
func RecordFeedRequest(feed string, durationSeconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	FeedRequestsTotal.WithLabelValues(feed, status).Inc()
	FeedRequestDuration.WithLabelValues(feed).Observe(durationSeconds)
}

// RecordStreamUpdate records a received odds stream price movement.
func RecordStreamUpdate() {
	OddsStreamUpdatesTotal.Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
