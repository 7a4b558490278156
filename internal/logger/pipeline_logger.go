// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for the daily analysis pipeline.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogDominanceRefresh logs a completed dominance classification run.
func (pl *PipelineLogger) LogDominanceRefresh(league, season string, standingsScanned, profilesRanked, bettable int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"league":            league,
		"season":            season,
		"standings_scanned": standingsScanned,
		"profiles_ranked":   profilesRanked,
		"bettable":          bettable,
		"duration_ms":       durationMs,
	}).Info("Dominance refresh completed")
}

// LogPickGeneration logs a completed pick generation run.
func (pl *PipelineLogger) LogPickGeneration(league string, horizonDays, fixturesScanned, picksKept, picksDropped int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"league":           league,
		"horizon_days":     horizonDays,
		"fixtures_scanned": fixturesScanned,
		"picks_kept":       picksKept,
		"picks_dropped":    picksDropped,
		"duration_ms":      durationMs,
	}).Info("Pick generation completed")
}

// LogPickAssessment logs a single fixture safety assessment.
func (pl *PipelineLogger) LogPickAssessment(teamName, market string, safetyScore int, confidence string, riskFactorCount int) {
	pl.WithFields(logrus.Fields{
		"team_name":    teamName,
		"market":       market,
		"safety_score": safetyScore,
		"confidence":   confidence,
		"risk_factors": riskFactorCount,
	}).Debug("Pick assessed")
}

// LogComboBuild logs a completed combination search for one risk tier.
func (pl *PipelineLogger) LogComboBuild(tier string, poolSize, combosBuilt int, bestEV float64, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"tier":         tier,
		"pool_size":    poolSize,
		"combos_built": combosBuilt,
		"best_ev":      bestEV,
		"duration_ms":  durationMs,
	}).Info("Combination search completed")
}

// LogSeasonProjection logs a season simulation attached to a combo.
func (pl *PipelineLogger) LogSeasonProjection(comboID string, expectedWins, projectedROI float64, maxConsecutiveLosses int) {
	pl.WithFields(logrus.Fields{
		"combo_id":               comboID,
		"expected_wins":          expectedWins,
		"projected_roi":          projectedROI,
		"max_consecutive_losses": maxConsecutiveLosses,
	}).Debug("Season projection computed")
}
