package models

import (
	"time"

	"github.com/google/uuid"
)

// Market identifies the betting market recommended for a pick.
type Market string

// Recommended markets.
const (
	MarketHomeWin      Market = "home_win"
	MarketAwayWin      Market = "away_win"
	MarketDoubleChance Market = "double_chance"
	MarketOver05       Market = "over_05"
	MarketOver15       Market = "over_15"
)

// PickConfidence grades how confident the scorer is in a pick.
type PickConfidence string

// Pick confidence grades.
const (
	ConfidenceVeryHigh PickConfidence = "very_high"
	ConfidenceHigh     PickConfidence = "high"
	ConfidenceMedium   PickConfidence = "medium"
)

// AccumulatorPick is one dominant team's assessment for one upcoming
// fixture. CurrentOdds is nil when no usable odds were available.
type AccumulatorPick struct {
	FixtureID         uuid.UUID      `db:"fixture_id" json:"fixture_id"`
	TeamID            uuid.UUID      `db:"team_id" json:"team_id"`
	TeamName          string         `db:"team_name" json:"team_name"`
	OpponentName      string         `db:"opponent_name" json:"opponent_name"`
	LeagueID          uuid.UUID      `db:"league_id" json:"league_id"`
	LeagueName        string         `db:"league_name" json:"league_name"`
	MatchDate         time.Time      `db:"match_date" json:"match_date"`
	IsHome            bool           `db:"is_home" json:"is_home"`
	DominanceScore    float64        `db:"dominance_score" json:"dominance_score"`
	OpponentPosition  int            `db:"opponent_position" json:"opponent_position"`
	OpponentZone      string         `db:"opponent_zone" json:"opponent_zone,omitempty"`
	SafetyScore       int            `db:"safety_score" json:"safety_score" validate:"gte=0,lte=100"`
	RiskFactors       []string       `db:"risk_factors" json:"risk_factors"`
	RecommendedMarket Market         `db:"recommended_market" json:"recommended_market"`
	MinOddsThreshold  float64        `db:"min_odds_threshold" json:"min_odds_threshold" validate:"gt=1"`
	CurrentOdds       *float64       `db:"current_odds" json:"current_odds,omitempty"`
	IsValue           bool           `db:"is_value" json:"is_value"`
	Confidence        PickConfidence `db:"confidence" json:"confidence"`
}

// HasOdds reports whether a usable market price (>1) was recorded.
func (p *AccumulatorPick) HasOdds() bool {
	return p.CurrentOdds != nil && *p.CurrentOdds > 1
}
