// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for persisted output.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPickPersisted logs an accumulator pick written to storage.
func (al *AuditLogger) LogPickPersisted(pickID, teamName, market string, safetyScore int, minOddsThreshold float64, matchDate time.Time) {
	al.WithFields(logrus.Fields{
		"pick_id":            pickID,
		"team_name":          teamName,
		"market":             market,
		"safety_score":       safetyScore,
		"min_odds_threshold": minOddsThreshold,
		"match_date":         matchDate.Unix(),
	}).Info("Pick persisted")
}

// LogComboPersisted logs an accumulator combination written to storage.
func (al *AuditLogger) LogComboPersisted(comboID string, legs int, totalOdds, expectedValue, stakePct float64, riskLevel string) {
	al.WithFields(logrus.Fields{
		"combo_id":       comboID,
		"legs":           legs,
		"total_odds":     totalOdds,
		"expected_value": expectedValue,
		"stake_pct":      stakePct,
		"risk_level":     riskLevel,
	}).Info("Combo persisted")
}

// LogProfileChange logs a dominance level transition for a team.
func (al *AuditLogger) LogProfileChange(teamID, teamName, oldLevel, newLevel string) {
	al.WithFields(logrus.Fields{
		"team_id":   teamID,
		"team_name": teamName,
		"old_level": oldLevel,
		"new_level": newLevel,
	}).Info("Dominance level changed")
}

// LogPipelineFailure logs a pipeline stage failure with its state snapshot.
func (al *AuditLogger) LogPipelineFailure(stage, reason string, stateSnapshot map[string]interface{}) {
	al.WithFields(logrus.Fields{
		"stage":          stage,
		"reason":         reason,
		"state_snapshot": stateSnapshot,
	}).Error("Pipeline stage failed")
}
