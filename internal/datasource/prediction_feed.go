package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/google/uuid"
	"github.com/yourusername/acca-engine/internal/metrics"
	"github.com/yourusername/acca-engine/internal/models"
)

const predictionFeedName = "prediction_feed"

// PredictionFeedClient implements PredictionFeed against the prediction engine API
type PredictionFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	cache      *gocache.Cache
	logger     *log.Logger
}

// predictionPayload is the wire format of the prediction API. Probabilities
// and confidence arrive on a 0-100 scale.
type predictionPayload struct {
	FixtureID       string  `json:"fixture_id"`
	HomeWinProb     float64 `json:"home_win_prob"`
	AwayWinProb     float64 `json:"away_win_prob"`
	DrawProb        float64 `json:"draw_prob"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// NewPredictionFeedClient creates a new prediction feed client
func NewPredictionFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, cacheTTL time.Duration, enabled bool, logger *log.Logger) *PredictionFeedClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &PredictionFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
		logger:     logger,
	}
}

// FetchPrediction retrieves the prediction engine's estimate for a fixture.
// Results are cached for the configured TTL.
func (c *PredictionFeedClient) FetchPrediction(ctx context.Context, fixtureID uuid.UUID) (*models.MatchPrediction, error) {
	if !c.enabled {
		return nil, NewDataSourceError(predictionFeedName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	cacheKey := fixtureID.String()
	if cached, found := c.cache.Get(cacheKey); found {
		prediction := cached.(models.MatchPrediction)
		return &prediction, nil
	}

	url := fmt.Sprintf("%s/v1/predictions/%s", c.baseURL, fixtureID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(predictionFeedName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	metrics.RecordFeedRequest(predictionFeedName, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, NewDataSourceError(predictionFeedName, ErrCodeNetworkError, "failed to fetch prediction", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, NewDataSourceError(predictionFeedName, ErrCodeNotFound, "no prediction for fixture", nil)
	case http.StatusUnauthorized:
		return nil, NewDataSourceError(predictionFeedName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(predictionFeedName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(predictionFeedName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload predictionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(predictionFeedName, ErrCodeInvalidData, "failed to parse response", err)
	}

	prediction := &models.MatchPrediction{
		FixtureID:       fixtureID,
		HomeWinProb:     payload.HomeWinProb,
		AwayWinProb:     payload.AwayWinProb,
		DrawProb:        payload.DrawProb,
		ConfidenceScore: payload.ConfidenceScore,
	}
	c.cache.Set(cacheKey, *prediction, gocache.DefaultExpiration)

	return prediction, nil
}

// Name returns the data source name
func (c *PredictionFeedClient) Name() string {
	return predictionFeedName
}

// IsEnabled returns whether this data source is enabled
func (c *PredictionFeedClient) IsEnabled() bool {
	return c.enabled
}
