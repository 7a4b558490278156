package models

import (
	"time"

	"github.com/google/uuid"
)

// Standing represents one team's league-table row for a season snapshot.
// Optional fields (averages, splits, zone) default to zero values; consumers
// must treat zero as "not provided" and fall back to derived figures.
type Standing struct {
	ID               uuid.UUID `db:"id" json:"id"`
	TeamID           uuid.UUID `db:"team_id" json:"team_id" validate:"required"`
	TeamName         string    `db:"team_name" json:"team_name"`
	LeagueID         uuid.UUID `db:"league_id" json:"league_id" validate:"required"`
	LeagueName       string    `db:"league_name" json:"league_name"`
	Season           string    `db:"season" json:"season" validate:"required"`
	Position         int       `db:"position" json:"position"`
	LeagueSize       int       `db:"league_size" json:"league_size"`
	Zone             string    `db:"zone" json:"zone,omitempty"`
	Played           int       `db:"played" json:"played" validate:"gte=0"`
	Won              int       `db:"won" json:"won" validate:"gte=0"`
	Drawn            int       `db:"drawn" json:"drawn" validate:"gte=0"`
	Lost             int       `db:"lost" json:"lost" validate:"gte=0"`
	GoalsFor         int       `db:"goals_for" json:"goals_for"`
	GoalsAgainst     int       `db:"goals_against" json:"goals_against"`
	PPG              float64   `db:"ppg" json:"ppg"`
	FormLast5        string    `db:"form_last5" json:"form_last5"`
	HomePlayed       int       `db:"home_played" json:"home_played"`
	HomeWon          int       `db:"home_won" json:"home_won"`
	AwayPlayed       int       `db:"away_played" json:"away_played"`
	AwayWon          int       `db:"away_won" json:"away_won"`
	CleanSheets      int       `db:"clean_sheets" json:"clean_sheets"`
	AvgGoalsScored   float64   `db:"avg_goals_scored" json:"avg_goals_scored"`
	AvgGoalsConceded float64   `db:"avg_goals_conceded" json:"avg_goals_conceded"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// WinRate returns the overall win rate, 0 when no matches have been played.
func (s *Standing) WinRate() float64 {
	if s.Played <= 0 {
		return 0
	}
	return float64(s.Won) / float64(s.Played)
}

// HomeWinRate returns the home win rate, falling back to the overall rate
// when no home split is available.
func (s *Standing) HomeWinRate() float64 {
	if s.HomePlayed <= 0 {
		return s.WinRate()
	}
	return float64(s.HomeWon) / float64(s.HomePlayed)
}

// AwayWinRate returns the away win rate, falling back to the overall rate
// when no away split is available.
func (s *Standing) AwayWinRate() float64 {
	if s.AwayPlayed <= 0 {
		return s.WinRate()
	}
	return float64(s.AwayWon) / float64(s.AwayPlayed)
}

// PointsPerGame returns the recorded PPG, deriving it from results when the
// snapshot did not carry one.
func (s *Standing) PointsPerGame() float64 {
	if s.PPG > 0 {
		return s.PPG
	}
	if s.Played <= 0 {
		return 0
	}
	return float64(s.Won*3+s.Drawn) / float64(s.Played)
}
