package models

import (
	"time"

	"github.com/google/uuid"
)

// DominanceLevel classifies how statistically one-sided a team's season is.
type DominanceLevel string

// Dominance levels, ordered strongest first. DominanceNone marks teams that
// fall below every threshold; they are excluded from classifier output.
const (
	DominanceUltra    DominanceLevel = "ultra"
	DominanceStrong   DominanceLevel = "strong"
	DominanceModerate DominanceLevel = "moderate"
	DominanceNone     DominanceLevel = "none"
)

// DominanceProfile is one team's dominance assessment for one season.
// Profiles are immutable value objects, recomputed per classification run
// and superseded (never mutated) by the next run.
type DominanceProfile struct {
	TeamID           uuid.UUID      `db:"team_id" json:"team_id"`
	TeamName         string         `db:"team_name" json:"team_name"`
	LeagueID         uuid.UUID      `db:"league_id" json:"league_id"`
	LeagueName       string         `db:"league_name" json:"league_name"`
	Season           string         `db:"season" json:"season"`
	DominanceLevel   DominanceLevel `db:"dominance_level" json:"dominance_level"`
	DominanceScore   float64        `db:"dominance_score" json:"dominance_score" validate:"gte=0,lte=100"`
	WinRate          float64        `db:"win_rate" json:"win_rate" validate:"gte=0,lte=1"`
	HomeWinRate      float64        `db:"home_win_rate" json:"home_win_rate" validate:"gte=0,lte=1"`
	AwayWinRate      float64        `db:"away_win_rate" json:"away_win_rate" validate:"gte=0,lte=1"`
	LossRate         float64        `db:"loss_rate" json:"loss_rate" validate:"gte=0,lte=1"`
	DrawRate         float64        `db:"draw_rate" json:"draw_rate" validate:"gte=0,lte=1"`
	PPG              float64        `db:"ppg" json:"ppg" validate:"gte=0,lte=3"`
	GoalDifference   int            `db:"goal_difference" json:"goal_difference"`
	FormLast5        string         `db:"form_last5" json:"form_last5"`
	FormScore        float64        `db:"form_score" json:"form_score" validate:"gte=0,lte=1"`
	AvgGoalsScored   float64        `db:"avg_goals_scored" json:"avg_goals_scored" validate:"gte=0"`
	AvgGoalsConceded float64        `db:"avg_goals_conceded" json:"avg_goals_conceded" validate:"gte=0"`
	CleanSheetPct    float64        `db:"clean_sheet_pct" json:"clean_sheet_pct" validate:"gte=0,lte=1"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// IsBettable reports whether the profile is strong enough to seed
// accumulator picks (ultra and strong tiers only).
func (p *DominanceProfile) IsBettable() bool {
	return p.DominanceLevel == DominanceUltra || p.DominanceLevel == DominanceStrong
}
