package datasource

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/acca-engine/internal/models"
)

// OddsFeed defines the interface for fetching bookmaker odds
type OddsFeed interface {
	// FetchMatchOdds retrieves the best available odds per market for a fixture
	FetchMatchOdds(ctx context.Context, fixtureID uuid.UUID) (*models.MatchOdds, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// PredictionFeed defines the interface for fetching external match predictions
type PredictionFeed interface {
	// FetchPrediction retrieves the prediction engine's estimate for a fixture
	FetchPrediction(ctx context.Context, fixtureID uuid.UUID) (*models.MatchPrediction, error)

	Name() string
	IsEnabled() bool
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

const dataSourceDisabledMsg = "data source is disabled"
