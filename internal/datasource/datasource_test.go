package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.RateBurst = 100
	return NewRateLimitedHTTPClient(cfg, nil)
}

// TestOddsFeedParsesDecimalPrices tests decimal string parsing per market
func TestOddsFeedParsesDecimalPrices(t *testing.T) {
	fixtureID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, fixtureID.String()) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"fixture_id": "` + fixtureID.String() + `",
			"markets": {
				"home_win": "1.85",
				"double_chance_home_draw": "1.22",
				"over_15": "1.30",
				"away_win": "not-a-price"
			},
			"recorded_at": "2026-03-07T09:00:00Z"
		}`))
	}))
	defer server.Close()

	client := NewOddsFeedClient(testHTTPClient(), server.URL, "test-key", time.Minute, true, nil)

	odds, err := client.FetchMatchOdds(context.Background(), fixtureID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if odds.BestHomeOdds != 1.85 {
		t.Errorf("expected home odds 1.85, got %f", odds.BestHomeOdds)
	}
	if odds.DoubleChanceHomeDraw != 1.22 {
		t.Errorf("expected double chance odds 1.22, got %f", odds.DoubleChanceHomeDraw)
	}
	if odds.Over15Odds != 1.30 {
		t.Errorf("expected over 1.5 odds 1.30, got %f", odds.Over15Odds)
	}
	// Unparseable and absent markets stay at zero.
	if odds.BestAwayOdds != 0 {
		t.Errorf("expected away odds 0 for invalid price, got %f", odds.BestAwayOdds)
	}
	if odds.Over05Odds != 0 {
		t.Errorf("expected over 0.5 odds 0 when unquoted, got %f", odds.Over05Odds)
	}
}

// TestOddsFeedCachesResponses tests that repeated fetches hit the cache
func TestOddsFeedCachesResponses(t *testing.T) {
	fixtureID := uuid.New()
	var hits int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"fixture_id": "` + fixtureID.String() + `", "markets": {"home_win": "1.50"}, "recorded_at": "2026-03-07T09:00:00Z"}`))
	}))
	defer server.Close()

	client := NewOddsFeedClient(testHTTPClient(), server.URL, "test-key", time.Minute, true, nil)

	for i := 0; i < 3; i++ {
		if _, err := client.FetchMatchOdds(context.Background(), fixtureID); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}

	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("expected 1 upstream hit, got %d", got)
	}
}

// TestOddsFeedNotFound tests the not-found error path
func TestOddsFeedNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOddsFeedClient(testHTTPClient(), server.URL, "test-key", time.Minute, true, nil)

	_, err := client.FetchMatchOdds(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for missing fixture")
	}

	dsErr, ok := err.(DataSourceError)
	if !ok {
		t.Fatalf("expected DataSourceError, got %T", err)
	}
	if dsErr.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, dsErr.Code)
	}
}

// TestOddsFeedDisabled tests that a disabled feed refuses requests
func TestOddsFeedDisabled(t *testing.T) {
	client := NewOddsFeedClient(testHTTPClient(), "http://localhost:0", "key", time.Minute, false, nil)

	_, err := client.FetchMatchOdds(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error from disabled feed")
	}
}

// TestPredictionFeedRoundTrip tests prediction payload mapping
func TestPredictionFeedRoundTrip(t *testing.T) {
	fixtureID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"fixture_id": "` + fixtureID.String() + `",
			"home_win_prob": 72.5,
			"away_win_prob": 12.0,
			"draw_prob": 15.5,
			"confidence_score": 81.0
		}`))
	}))
	defer server.Close()

	client := NewPredictionFeedClient(testHTTPClient(), server.URL, "test-key", time.Minute, true, nil)

	prediction, err := client.FetchPrediction(context.Background(), fixtureID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if prediction.HomeWinProb != 72.5 {
		t.Errorf("expected home win prob 72.5, got %f", prediction.HomeWinProb)
	}
	if prediction.ConfidenceScore != 81.0 {
		t.Errorf("expected confidence 81.0, got %f", prediction.ConfidenceScore)
	}
	if prediction.FixtureID != fixtureID {
		t.Errorf("expected fixture ID to be set from request")
	}
}

// TestHTTPClientRateLimit tests rate limiting functionality
func TestHTTPClientRateLimit(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 10
	cfg.RateBurst = 20
	client := NewRateLimitedHTTPClient(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Burst allowance covers the first requests without waiting.
	for i := 0; i < 20; i++ {
		if err := client.limiter.Wait(ctx); err != nil {
			t.Errorf("Request %d failed: %v", i, err)
		}
	}

	// Sequential requests beyond the burst pace out at the configured rate.
	start := time.Now()
	for i := 0; i < 10; i++ {
		_ = client.limiter.Wait(ctx)
	}
	elapsed := time.Since(start)

	expectedMin := 800 * time.Millisecond
	expectedMax := 2 * time.Second
	if elapsed < expectedMin || elapsed > expectedMax {
		t.Errorf("Expected duration ~1s, got %v", elapsed)
	}
}

// TestHTTPClientCircuitBreaker tests circuit breaker opening on failures
func TestHTTPClientCircuitBreaker(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.RateBurst = 100
	cfg.CircuitBreakerMax = 2
	cfg.Timeout = 500 * time.Millisecond
	client := NewRateLimitedHTTPClient(cfg, nil)

	ctx := context.Background()
	// Unroutable address forces network errors.
	badURL := "http://127.0.0.1:1"

	for i := 0; i < 2; i++ {
		if _, err := client.Get(ctx, badURL); err == nil {
			t.Fatal("expected network error")
		}
	}

	_, err := client.Get(ctx, badURL)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker open") {
		t.Errorf("expected circuit breaker open error, got %v", err)
	}
}

// TestStreamMessageParsing tests odds stream frame decoding
func TestStreamMessageParsing(t *testing.T) {
	fixtureID := uuid.New()

	update, err := unmarshalStreamMessage([]byte(`{"fixture_id": "` + fixtureID.String() + `", "market": "home_win", "odds": "1.92"}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if update.FixtureID != fixtureID || update.Market != "home_win" || update.Odds != 1.92 {
		t.Errorf("unexpected update: %+v", update)
	}

	if _, err := unmarshalStreamMessage([]byte(`{"fixture_id": "nope", "market": "home_win", "odds": "1.92"}`)); err == nil {
		t.Error("expected error for invalid fixture ID")
	}
	if _, err := unmarshalStreamMessage([]byte(`{"fixture_id": "` + fixtureID.String() + `", "market": "home_win", "odds": "evens"}`)); err == nil {
		t.Error("expected error for invalid odds")
	}
}
