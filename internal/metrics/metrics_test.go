package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()

	assert.Same(t, first, second)
}

func TestRecordPipelineRun(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPipelineRun("pick_generation", nil)
		RecordPipelineRun("pick_generation", errors.New("boom"))
	})
}

func TestRecordFeedRequest(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		feed     string
		duration float64
		err      error
	}{
		{
			name:     "successful request",
			feed:     "odds_feed",
			duration: 0.12,
			err:      nil,
		},
		{
			name:     "failed request",
			feed:     "prediction_feed",
			duration: 2.5,
			err:      errors.New("timeout"),
		},
		{
			name:     "zero duration",
			feed:     "odds_feed",
			duration: 0,
			err:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFeedRequest(tt.feed, tt.duration, tt.err)
			})
		})
	}
}

func TestBettableTeamsGauge(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		BettableTeams.WithLabelValues("premier-league").Set(4)
		BettableTeams.WithLabelValues("premier-league").Set(0)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordStreamUpdate()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "acca_engine_odds_stream_updates_total")
}
