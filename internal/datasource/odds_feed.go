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
	"github.com/shopspring/decimal"
	"github.com/yourusername/acca-engine/internal/metrics"
	"github.com/yourusername/acca-engine/internal/models"
)

const oddsFeedName = "odds_feed"

// OddsFeedClient implements OddsFeed against the bookmaker aggregation API
type OddsFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	cache      *gocache.Cache
	logger     *log.Logger
}

// oddsPayload is the wire format of the odds API. Prices arrive as decimal
// strings; markets the bookmaker does not quote are absent.
type oddsPayload struct {
	FixtureID string            `json:"fixture_id"`
	Markets   map[string]string `json:"markets"`
	Recorded  string            `json:"recorded_at"`
}

// NewOddsFeedClient creates a new odds feed client
func NewOddsFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, cacheTTL time.Duration, enabled bool, logger *log.Logger) *OddsFeedClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &OddsFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
		logger:     logger,
	}
}

// FetchMatchOdds retrieves the best available odds per market for a fixture.
// Results are cached for the configured TTL.
func (c *OddsFeedClient) FetchMatchOdds(ctx context.Context, fixtureID uuid.UUID) (*models.MatchOdds, error) {
	if !c.enabled {
		return nil, NewDataSourceError(oddsFeedName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	cacheKey := fixtureID.String()
	if cached, found := c.cache.Get(cacheKey); found {
		odds := cached.(models.MatchOdds)
		return &odds, nil
	}

	url := fmt.Sprintf("%s/v1/odds/%s", c.baseURL, fixtureID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(oddsFeedName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	metrics.RecordFeedRequest(oddsFeedName, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, NewDataSourceError(oddsFeedName, ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, NewDataSourceError(oddsFeedName, ErrCodeNotFound, "no odds for fixture", nil)
	case http.StatusUnauthorized:
		return nil, NewDataSourceError(oddsFeedName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(oddsFeedName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(oddsFeedName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload oddsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(oddsFeedName, ErrCodeInvalidData, "failed to parse response", err)
	}

	odds := c.convertOdds(fixtureID, &payload)
	c.cache.Set(cacheKey, *odds, gocache.DefaultExpiration)

	return odds, nil
}

// Name returns the data source name
func (c *OddsFeedClient) Name() string {
	return oddsFeedName
}

// IsEnabled returns whether this data source is enabled
func (c *OddsFeedClient) IsEnabled() bool {
	return c.enabled
}

// convertOdds maps the wire payload onto MatchOdds. Unquoted or unparseable
// markets stay at zero, which downstream code treats as absent.
func (c *OddsFeedClient) convertOdds(fixtureID uuid.UUID, payload *oddsPayload) *models.MatchOdds {
	odds := &models.MatchOdds{FixtureID: fixtureID}

	recordedAt, err := time.Parse(time.RFC3339, payload.Recorded)
	if err != nil {
		recordedAt = time.Now().UTC()
	}
	odds.RecordedAt = recordedAt

	for market, priceStr := range payload.Markets {
		price := c.parsePrice(market, priceStr)
		switch market {
		case "home_win":
			odds.BestHomeOdds = price
		case "away_win":
			odds.BestAwayOdds = price
		case "double_chance_home_draw":
			odds.DoubleChanceHomeDraw = price
		case "double_chance_away_draw":
			odds.DoubleChanceAwayDraw = price
		case "over_05":
			odds.Over05Odds = price
		case "over_15":
			odds.Over15Odds = price
		}
	}

	return odds
}

// parsePrice parses a decimal price string, returning 0 for invalid input
func (c *OddsFeedClient) parsePrice(market, priceStr string) float64 {
	d, err := decimal.NewFromString(priceStr)
	if err != nil {
		c.logger.Printf("Failed to parse %s price %q: %v", market, priceStr, err)
		return 0
	}
	return d.InexactFloat64()
}
