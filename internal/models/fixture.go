package models

import (
	"time"

	"github.com/google/uuid"
)

// Fixture statuses
const (
	FixtureScheduled = "scheduled"
	FixtureLive      = "live"
	FixtureFinished  = "finished"
	FixturePostponed = "postponed"
)

// Fixture represents an upcoming or completed match.
type Fixture struct {
	ID                 uuid.UUID `db:"id" json:"id" validate:"required"`
	LeagueID           uuid.UUID `db:"league_id" json:"league_id"`
	HomeTeamID         uuid.UUID `db:"home_team_id" json:"home_team_id" validate:"required"`
	AwayTeamID         uuid.UUID `db:"away_team_id" json:"away_team_id" validate:"required"`
	HomeTeamName       string    `db:"home_team_name" json:"home_team_name"`
	AwayTeamName       string    `db:"away_team_name" json:"away_team_name"`
	MatchDate          time.Time `db:"match_date" json:"match_date" validate:"required"`
	Status             string    `db:"status" json:"status"`
	FixtureCongestion  int       `db:"fixture_congestion_7d" json:"fixture_congestion_7d"`
	HasMidweekEuropean bool      `db:"has_midweek_european" json:"has_midweek_european"`
	DaysSinceLastMatch int       `db:"days_since_last_match" json:"days_since_last_match"`
}

// Involves reports whether the given team plays in this fixture.
func (f *Fixture) Involves(teamID uuid.UUID) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}

// OpponentOf returns the opposing team's ID for the given team.
func (f *Fixture) OpponentOf(teamID uuid.UUID) uuid.UUID {
	if f.HomeTeamID == teamID {
		return f.AwayTeamID
	}
	return f.HomeTeamID
}

// MatchOdds holds the best available decimal odds per market for a fixture.
// A zero value means the market is not quoted.
type MatchOdds struct {
	FixtureID            uuid.UUID `db:"fixture_id" json:"fixture_id"`
	BestHomeOdds         float64   `db:"best_home_odds" json:"best_home_odds"`
	BestAwayOdds         float64   `db:"best_away_odds" json:"best_away_odds"`
	DoubleChanceHomeDraw float64   `db:"double_chance_home_draw" json:"double_chance_home_draw"`
	DoubleChanceAwayDraw float64   `db:"double_chance_away_draw" json:"double_chance_away_draw"`
	Over05Odds           float64   `db:"over_05_odds" json:"over_05_odds"`
	Over15Odds           float64   `db:"over_15_odds" json:"over_15_odds"`
	RecordedAt           time.Time `db:"recorded_at" json:"recorded_at"`
}

// MatchPrediction is the independent win-probability estimate produced by
// the external prediction engine. Probabilities and confidence are 0-100.
type MatchPrediction struct {
	FixtureID       uuid.UUID `db:"fixture_id" json:"fixture_id"`
	HomeWinProb     float64   `db:"home_win_prob" json:"home_win_prob"`
	AwayWinProb     float64   `db:"away_win_prob" json:"away_win_prob"`
	DrawProb        float64   `db:"draw_prob" json:"draw_prob"`
	ConfidenceScore float64   `db:"confidence_score" json:"confidence_score"`
}

// MatchWeather holds pre-match weather readings for a fixture venue.
type MatchWeather struct {
	FixtureID   uuid.UUID `db:"fixture_id" json:"fixture_id"`
	ImpactScore float64   `db:"weather_impact_score" json:"weather_impact_score"`
	RainMM      float64   `db:"pre_rain_mm" json:"pre_rain_mm"`
	WindSpeed   float64   `db:"pre_wind_speed" json:"pre_wind_speed"`
}

// Player availability statuses
const (
	AvailabilityOut      = "out"
	AvailabilityDoubtful = "doubtful"
	AvailabilityFit      = "fit"
)

// PlayerAvailability flags an injured or suspended player ahead of a fixture.
type PlayerAvailability struct {
	FixtureID   uuid.UUID `db:"fixture_id" json:"fixture_id"`
	TeamID      uuid.UUID `db:"team_id" json:"team_id"`
	PlayerName  string    `db:"player_name" json:"player_name"`
	IsKeyPlayer bool      `db:"is_key_player" json:"is_key_player"`
	Status      string    `db:"status" json:"status"`
}

// RulesOut reports whether this record removes the player from selection.
func (p *PlayerAvailability) RulesOut() bool {
	return p.Status == AvailabilityOut || p.Status == AvailabilityDoubtful
}

// FixtureContext bundles the optional contextual signals for one fixture.
// Any of the pointers may be nil; scoring degrades to neutral contributions.
type FixtureContext struct {
	Opponent   *Standing
	Odds       *MatchOdds
	Prediction *MatchPrediction
	Weather    *MatchWeather
	Injuries   []PlayerAvailability
}
