// Package logger provides data feed logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// FeedLogger provides dedicated logging for external data feed calls.
type FeedLogger struct {
	*logrus.Entry
}

// NewFeedLogger creates a new feed logger.
func NewFeedLogger(baseLogger *logrus.Logger) *FeedLogger {
	return &FeedLogger{
		Entry: baseLogger.WithField("component", "feed"),
	}
}

// LogFeedRequest logs a feed round trip.
func (fl *FeedLogger) LogFeedRequest(feed, endpoint string, cacheHit bool, durationMs float64) {
	fl.WithFields(logrus.Fields{
		"feed":        feed,
		"endpoint":    endpoint,
		"cache_hit":   cacheHit,
		"duration_ms": durationMs,
	}).Debug("Feed request completed")
}

// LogFeedFailure logs a failed feed call after retries were exhausted.
func (fl *FeedLogger) LogFeedFailure(feed, endpoint string, attempts int, err error) {
	fl.WithFields(logrus.Fields{
		"feed":     feed,
		"endpoint": endpoint,
		"attempts": attempts,
		"error":    err.Error(),
	}).Error("Feed request failed")
}

// LogOddsStreamEvent logs a price update from the odds stream.
func (fl *FeedLogger) LogOddsStreamEvent(fixtureID, market string, oldOdds, newOdds float64) {
	fl.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
		"market":     market,
		"old_odds":   oldOdds,
		"new_odds":   newOdds,
	}).Debug("Odds movement received")
}
