package datasource

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/acca-engine/internal/config"
)

// Feeds bundles the external data sources the engine consumes
type Feeds struct {
	Odds       OddsFeed
	Prediction PredictionFeed
	Stream     *OddsStream
}

// NewFeeds creates all configured data feeds
func NewFeeds(cfg *config.Config, logger *log.Logger) (*Feeds, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	oddsHTTP := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           time.Duration(cfg.OddsFeed.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.OddsFeed.RetryAttempts,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         cfg.OddsFeed.RateLimitPerSecond,
		RateBurst:         cfg.OddsFeed.RateLimitBurst,
		CircuitBreakerMax: 5,
	}, logger)

	predictionHTTP := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           time.Duration(cfg.PredictionFeed.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.PredictionFeed.RetryAttempts,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         5.0,
		RateBurst:         1,
		CircuitBreakerMax: 5,
	}, logger)

	feeds := &Feeds{
		Odds: NewOddsFeedClient(
			oddsHTTP,
			cfg.OddsFeed.BaseURL,
			cfg.OddsFeed.APIKey,
			time.Duration(cfg.OddsFeed.CacheTTLSeconds)*time.Second,
			true,
			logger,
		),
		Prediction: NewPredictionFeedClient(
			predictionHTTP,
			cfg.PredictionFeed.BaseURL,
			cfg.PredictionFeed.APIKey,
			time.Duration(cfg.PredictionFeed.CacheTTLSeconds)*time.Second,
			true,
			logger,
		),
	}

	if cfg.OddsFeed.StreamEnabled {
		if cfg.OddsFeed.StreamURL == "" {
			return nil, fmt.Errorf("odds stream enabled but no stream URL configured")
		}
		feeds.Stream = NewOddsStream(cfg.OddsFeed.StreamURL, cfg.OddsFeed.APIKey, logger)
	}

	return feeds, nil
}
