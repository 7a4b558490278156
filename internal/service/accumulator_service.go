// Package service orchestrates the daily accumulator pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/acca-engine/internal/analyzer"
	"github.com/yourusername/acca-engine/internal/config"
	"github.com/yourusername/acca-engine/internal/datasource"
	"github.com/yourusername/acca-engine/internal/logger"
	"github.com/yourusername/acca-engine/internal/metrics"
	"github.com/yourusername/acca-engine/internal/models"
	"github.com/yourusername/acca-engine/internal/repository"
)

// AccumulatorService runs the three pipeline stages: dominance
// classification, daily pick generation and combination building.
type AccumulatorService struct {
	repos          *repository.Repositories
	oddsFeed       datasource.OddsFeed
	predictionFeed datasource.PredictionFeed
	engineCfg      config.EngineConfig
	tunables       analyzer.Tunables
	logger         *logrus.Logger
	pipelineLog    *logger.PipelineLogger
	audit          *logger.AuditLogger
}

// NewAccumulatorService creates a new accumulator pipeline service
func NewAccumulatorService(
	repos *repository.Repositories,
	oddsFeed datasource.OddsFeed,
	predictionFeed datasource.PredictionFeed,
	engineCfg config.EngineConfig,
	tunables analyzer.Tunables,
	log *logrus.Logger,
) *AccumulatorService {
	return &AccumulatorService{
		repos:          repos,
		oddsFeed:       oddsFeed,
		predictionFeed: predictionFeed,
		engineCfg:      engineCfg,
		tunables:       tunables,
		logger:         log,
		pipelineLog:    logger.NewPipelineLogger(log),
		audit:          logger.NewAuditLogger(log),
	}
}

// RefreshResult summarizes one dominance classification run.
type RefreshResult struct {
	Season           string
	LeaguesProcessed int
	LeaguesFailed    int
	ProfilesRanked   int
	BettableTeams    int
}

// PickRunResult summarizes one daily pick generation run.
type PickRunResult struct {
	PickDate        time.Time
	TeamsScanned    int
	FixturesScanned int
	PicksKept       int
	PicksDropped    int
}

// ComboRunResult summarizes one combination build run.
type ComboRunResult struct {
	ComboDate   time.Time
	PoolSize    int
	CombosBuilt int
	ByRisk      map[models.RiskLevel]int
}

// comboTier is one rung of the risk ladder walked by BuildDailyCombos.
type comboTier struct {
	risk      models.RiskLevel
	minLegs   int
	maxLegs   int
	minSafety int
}

// The tier ladder. Safer tiers demand fewer legs and a higher safety floor.
var comboTiers = []comboTier{
	{risk: models.RiskConservative, minLegs: 2, maxLegs: 3, minSafety: 80},
	{risk: models.RiskModerate, minLegs: 3, maxLegs: 4, minSafety: 70},
	{risk: models.RiskAggressive, minLegs: 3, maxLegs: 6, minSafety: 60},
}

// RefreshDominantTeams reclassifies every configured league for the given
// season and replaces the stored profiles wholesale. A league that fails to
// load is logged and skipped; the run only fails when no league succeeds.
func (s *AccumulatorService) RefreshDominantTeams(ctx context.Context, season string) (*RefreshResult, error) {
	if season == "" {
		return nil, models.ErrSeasonRequired
	}

	s.logger.WithFields(logrus.Fields{
		"season":  season,
		"leagues": len(s.engineCfg.Leagues),
	}).Info("Refreshing dominant team profiles")

	result := &RefreshResult{Season: season}

	for _, leagueRef := range s.engineCfg.Leagues {
		leagueID, err := uuid.Parse(leagueRef)
		if err != nil {
			s.logger.WithError(err).WithField("league", leagueRef).Error("Invalid league ID in configuration")
			result.LeaguesFailed++
			continue
		}

		start := time.Now()
		standings, err := s.repos.Standing.GetByLeagueSeason(ctx, leagueID, season)
		if err != nil {
			s.logger.WithError(err).WithField("league_id", leagueID).Error("Failed to load standings")
			result.LeaguesFailed++
			continue
		}

		rows := make([]models.Standing, len(standings))
		for i, st := range standings {
			rows[i] = *st
		}

		profiles := analyzer.ClassifyDominantTeams(rows, s.tunables)
		s.auditProfileChanges(ctx, season, profiles)

		if err := s.repos.DominantTeam.ReplaceForLeagueSeason(ctx, leagueID, season, profiles); err != nil {
			s.audit.LogPipelineFailure("dominance_refresh", err.Error(), map[string]interface{}{
				"league_id": leagueID.String(),
				"season":    season,
			})
			result.LeaguesFailed++
			continue
		}

		bettable := 0
		for i := range profiles {
			if profiles[i].IsBettable() {
				bettable++
			}
		}

		leagueName := leagueID.String()
		if len(profiles) > 0 && profiles[0].LeagueName != "" {
			leagueName = profiles[0].LeagueName
		}
		s.pipelineLog.LogDominanceRefresh(leagueName, season, len(standings), len(profiles), bettable,
			float64(time.Since(start).Milliseconds()))
		metrics.DominanceRefreshesTotal.Inc()
		metrics.BettableTeams.WithLabelValues(leagueName).Set(float64(bettable))

		result.LeaguesProcessed++
		result.ProfilesRanked += len(profiles)
		result.BettableTeams += bettable
	}

	if result.LeaguesProcessed == 0 && len(s.engineCfg.Leagues) > 0 {
		return nil, fmt.Errorf("dominance refresh failed for all %d leagues", len(s.engineCfg.Leagues))
	}

	s.logger.WithFields(logrus.Fields{
		"season":          season,
		"profiles_ranked": result.ProfilesRanked,
		"bettable_teams":  result.BettableTeams,
	}).Info("Dominance refresh complete")

	return result, nil
}

// auditProfileChanges records tier movements against the previously stored
// profiles. Lookup failures are silent: the audit trail is best-effort.
func (s *AccumulatorService) auditProfileChanges(ctx context.Context, season string, profiles []models.DominanceProfile) {
	for i := range profiles {
		p := &profiles[i]
		previous, err := s.repos.DominantTeam.GetByTeamSeason(ctx, p.TeamID, season)
		oldLevel := string(models.DominanceNone)
		if err == nil {
			oldLevel = string(previous.DominanceLevel)
		} else if !errors.Is(err, models.ErrNotFound) {
			continue
		}
		if oldLevel != string(p.DominanceLevel) {
			s.audit.LogProfileChange(p.TeamID.String(), p.TeamName, oldLevel, string(p.DominanceLevel))
		}
	}
}

// GenerateDailyPicks scores every upcoming fixture of every bettable team
// inside the pick horizon and replaces the day's pick slate with those at
// or above the persistence floor. Missing contextual data (odds,
// predictions, weather, injuries, opponent standing) never fails a pick;
// scoring degrades to neutral contributions.
func (s *AccumulatorService) GenerateDailyPicks(ctx context.Context, now time.Time) (*PickRunResult, error) {
	season := SeasonKey(now)
	start := time.Now()

	s.logger.WithFields(logrus.Fields{
		"season":       season,
		"horizon_days": s.engineCfg.PickHorizonDays,
	}).Info("Generating daily picks")

	profiles, err := s.repos.DominantTeam.GetBettable(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load bettable teams: %w", err)
	}

	from := now
	to := now.AddDate(0, 0, s.engineCfg.PickHorizonDays)

	result := &PickRunResult{PickDate: now, TeamsScanned: len(profiles)}
	kept := make([]models.AccumulatorPick, 0, len(profiles))

	for _, team := range profiles {
		fixtures, err := s.repos.Fixture.GetUpcomingByTeam(ctx, team.TeamID, from, to)
		if err != nil {
			s.logger.WithError(err).WithField("team", team.TeamName).Error("Failed to load fixtures")
			continue
		}

		for _, fixture := range fixtures {
			result.FixturesScanned++

			fctx := s.collectFixtureContext(ctx, fixture, team, season)
			pick := analyzer.AssessPick(fixture, team, fctx, s.tunables)

			s.pipelineLog.LogPickAssessment(pick.TeamName, string(pick.RecommendedMarket),
				pick.SafetyScore, string(pick.Confidence), len(pick.RiskFactors))

			if pick.SafetyScore < s.engineCfg.MinSafetyToPersist {
				result.PicksDropped++
				continue
			}
			kept = append(kept, pick)
		}
	}

	// Deterministic slate ordering: safety descending, fixture ID tie-break.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].SafetyScore != kept[j].SafetyScore {
			return kept[i].SafetyScore > kept[j].SafetyScore
		}
		return kept[i].FixtureID.String() < kept[j].FixtureID.String()
	})

	if err := s.repos.Pick.ReplaceForDate(ctx, now, kept); err != nil {
		s.audit.LogPipelineFailure("pick_generation", err.Error(), map[string]interface{}{
			"pick_date":  now.Format("2006-01-02"),
			"picks_kept": len(kept),
		})
		return nil, fmt.Errorf("failed to persist picks: %w", err)
	}

	for i := range kept {
		p := &kept[i]
		s.audit.LogPickPersisted(p.FixtureID.String(), p.TeamName, string(p.RecommendedMarket),
			p.SafetyScore, p.MinOddsThreshold, p.MatchDate)
	}

	result.PicksKept = len(kept)
	s.pipelineLog.LogPickGeneration("all", s.engineCfg.PickHorizonDays,
		result.FixturesScanned, result.PicksKept, result.PicksDropped,
		float64(time.Since(start).Milliseconds()))
	metrics.PicksGeneratedTotal.Add(float64(result.PicksKept))
	metrics.DailyPickCount.Set(float64(result.PicksKept))
	metrics.PickGenerationDuration.Observe(time.Since(start).Seconds())

	return result, nil
}

// collectFixtureContext gathers the optional signals for one fixture. Every
// lookup failure is tolerated and leaves the corresponding field nil.
func (s *AccumulatorService) collectFixtureContext(ctx context.Context, fixture *models.Fixture, team *models.DominanceProfile, season string) models.FixtureContext {
	var fctx models.FixtureContext

	opponentID := fixture.OpponentOf(team.TeamID)
	if opponent, err := s.repos.Standing.GetByTeamSeason(ctx, opponentID, season); err == nil {
		fctx.Opponent = opponent
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.WithError(err).WithField("fixture_id", fixture.ID).Debug("Opponent standing lookup failed")
	}

	if s.oddsFeed != nil && s.oddsFeed.IsEnabled() {
		if odds, err := s.oddsFeed.FetchMatchOdds(ctx, fixture.ID); err == nil {
			fctx.Odds = odds
		} else {
			s.logger.WithError(err).WithField("fixture_id", fixture.ID).Debug("Odds lookup failed")
		}
	}

	if s.predictionFeed != nil && s.predictionFeed.IsEnabled() {
		if prediction, err := s.predictionFeed.FetchPrediction(ctx, fixture.ID); err == nil {
			fctx.Prediction = prediction
		} else {
			s.logger.WithError(err).WithField("fixture_id", fixture.ID).Debug("Prediction lookup failed")
		}
	}

	if weather, err := s.repos.Fixture.GetWeather(ctx, fixture.ID); err == nil {
		fctx.Weather = weather
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.WithError(err).WithField("fixture_id", fixture.ID).Debug("Weather lookup failed")
	}

	if injuries, err := s.repos.Fixture.GetInjuries(ctx, fixture.ID, team.TeamID); err == nil {
		fctx.Injuries = injuries
	} else {
		s.logger.WithError(err).WithField("fixture_id", fixture.ID).Debug("Injury lookup failed")
	}

	return fctx
}

// BuildDailyCombos walks the tier ladder over the day's pick slate, keeps
// the top combos per tier and replaces the day's stored combos. Tiers run
// concurrently; results merge in ladder order so output is deterministic.
func (s *AccumulatorService) BuildDailyCombos(ctx context.Context, day time.Time) (*ComboRunResult, error) {
	start := time.Now()

	picks, err := s.repos.Pick.GetByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"combo_date": day.Format("2006-01-02"),
		"pool_size":  len(picks),
	}).Info("Building daily combos")

	tierResults := make([][]models.AccumulatorCombo, len(comboTiers))
	var wg sync.WaitGroup
	for i, tier := range comboTiers {
		wg.Add(1)
		go func(i int, tier comboTier) {
			defer wg.Done()
			tierStart := time.Now()

			combos := analyzer.BuildCombos(picks, analyzer.SearchOptions{
				MinLegs:   tier.minLegs,
				MaxLegs:   tier.maxLegs,
				MinSafety: tier.minSafety,
				MaxRisk:   tier.risk,
				ComboDate: day,
			}, s.tunables)
			if len(combos) > s.engineCfg.MaxCombosPerTier {
				combos = combos[:s.engineCfg.MaxCombosPerTier]
			}
			tierResults[i] = combos

			bestEV := 0.0
			if len(combos) > 0 {
				bestEV = combos[0].ExpectedValue
			}
			metrics.BestComboExpectedValue.WithLabelValues(string(tier.risk)).Set(bestEV)
			s.pipelineLog.LogComboBuild(string(tier.risk), len(picks), len(combos), bestEV,
				float64(time.Since(tierStart).Milliseconds()))
		}(i, tier)
	}
	wg.Wait()

	result := &ComboRunResult{
		ComboDate: day,
		PoolSize:  len(picks),
		ByRisk:    make(map[models.RiskLevel]int, len(comboTiers)),
	}

	merged := make([]models.AccumulatorCombo, 0, len(comboTiers)*s.engineCfg.MaxCombosPerTier)
	for i, tier := range comboTiers {
		merged = append(merged, tierResults[i]...)
		result.ByRisk[tier.risk] = len(tierResults[i])
	}
	result.CombosBuilt = len(merged)

	if err := s.repos.Combo.ReplaceForDate(ctx, day, merged); err != nil {
		s.audit.LogPipelineFailure("combo_build", err.Error(), map[string]interface{}{
			"combo_date":   day.Format("2006-01-02"),
			"combos_built": len(merged),
		})
		return nil, fmt.Errorf("failed to persist combos: %w", err)
	}

	for i := range merged {
		c := &merged[i]
		s.audit.LogComboPersisted(c.ID, c.Legs, c.TotalOdds, c.ExpectedValue,
			c.SuggestedStakePct, string(c.RiskLevel))
		s.pipelineLog.LogSeasonProjection(c.ID, c.SeasonSimulation.ExpectedWins,
			c.SeasonSimulation.ProjectedROI, c.SeasonSimulation.MaxConsecutiveLosses)
	}

	metrics.CombosBuiltTotal.Add(float64(result.CombosBuilt))
	metrics.ComboBuildDuration.Observe(time.Since(start).Seconds())

	s.logger.WithFields(logrus.Fields{
		"combo_date":   day.Format("2006-01-02"),
		"combos_built": result.CombosBuilt,
	}).Info("Combo build complete")

	return result, nil
}

// RunDailyPipeline executes all three stages in order for the given day.
// Used by the one-shot CLI; the scheduler triggers the stages separately.
func (s *AccumulatorService) RunDailyPipeline(ctx context.Context, now time.Time) error {
	if _, err := s.RefreshDominantTeams(ctx, SeasonKey(now)); err != nil {
		return fmt.Errorf("dominance refresh: %w", err)
	}
	if _, err := s.GenerateDailyPicks(ctx, now); err != nil {
		return fmt.Errorf("pick generation: %w", err)
	}
	if _, err := s.BuildDailyCombos(ctx, now); err != nil {
		return fmt.Errorf("combo build: %w", err)
	}
	return nil
}
