package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/acca-engine/internal/database"
	"github.com/yourusername/acca-engine/internal/models"
)

// PostgresDominantTeamRepository implements DominantTeamRepository for PostgreSQL
type PostgresDominantTeamRepository struct {
	db *database.DB
}

// NewPostgresDominantTeamRepository creates a new dominant team repository
func NewPostgresDominantTeamRepository(db *database.DB) DominantTeamRepository {
	return &PostgresDominantTeamRepository{db: db}
}

const dominantTeamColumns = `
	team_id, team_name, league_id, league_name, season, dominance_level, dominance_score,
	win_rate, home_win_rate, away_win_rate, loss_rate, draw_rate, ppg, goal_difference,
	form_last5, form_score, avg_goals_scored, avg_goals_conceded, clean_sheet_pct, updated_at
`

func scanDominanceProfile(row pgx.Row) (*models.DominanceProfile, error) {
	p := &models.DominanceProfile{}
	err := row.Scan(
		&p.TeamID, &p.TeamName, &p.LeagueID, &p.LeagueName, &p.Season, &p.DominanceLevel, &p.DominanceScore,
		&p.WinRate, &p.HomeWinRate, &p.AwayWinRate, &p.LossRate, &p.DrawRate, &p.PPG, &p.GoalDifference,
		&p.FormLast5, &p.FormScore, &p.AvgGoalsScored, &p.AvgGoalsConceded, &p.CleanSheetPct, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ReplaceForLeagueSeason atomically replaces a league's profiles for a season.
// A classification run supersedes the previous one wholesale, so stale
// profiles from teams that dropped below the thresholds never survive.
func (r *PostgresDominantTeamRepository) ReplaceForLeagueSeason(ctx context.Context, leagueID uuid.UUID, season string, profiles []models.DominanceProfile) error {
	insertQuery := `
		INSERT INTO dominant_teams (team_id, team_name, league_id, league_name, season, dominance_level, dominance_score,
		                            win_rate, home_win_rate, away_win_rate, loss_rate, draw_rate, ppg, goal_difference,
		                            form_last5, form_score, avg_goals_scored, avg_goals_conceded, clean_sheet_pct, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW())
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM dominant_teams WHERE league_id = $1 AND season = $2`, leagueID, season); err != nil {
			return fmt.Errorf("failed to clear previous profiles: %w", err)
		}

		for _, p := range profiles {
			_, err := tx.Exec(ctx, insertQuery,
				p.TeamID, p.TeamName, p.LeagueID, p.LeagueName, p.Season, p.DominanceLevel, p.DominanceScore,
				p.WinRate, p.HomeWinRate, p.AwayWinRate, p.LossRate, p.DrawRate, p.PPG, p.GoalDifference,
				p.FormLast5, p.FormScore, p.AvgGoalsScored, p.AvgGoalsConceded, p.CleanSheetPct,
			)
			if err != nil {
				return fmt.Errorf("failed to insert profile for team %s: %w", p.TeamID, err)
			}
		}
		return nil
	})
}

// GetBettable retrieves all ultra and strong profiles for a season, best first
func (r *PostgresDominantTeamRepository) GetBettable(ctx context.Context, season string) ([]*models.DominanceProfile, error) {
	query := `
		SELECT ` + dominantTeamColumns + `
		FROM dominant_teams
		WHERE season = $1 AND dominance_level IN ('ultra', 'strong')
		ORDER BY dominance_score DESC, team_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query bettable profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.DominanceProfile
	for rows.Next() {
		p, err := scanDominanceProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dominance profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// GetByTeamSeason retrieves one team's dominance profile for a season
func (r *PostgresDominantTeamRepository) GetByTeamSeason(ctx context.Context, teamID uuid.UUID, season string) (*models.DominanceProfile, error) {
	query := `SELECT ` + dominantTeamColumns + ` FROM dominant_teams WHERE team_id = $1 AND season = $2`

	p, err := scanDominanceProfile(r.db.GetPool().QueryRow(ctx, query, teamID, season))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dominance profile: %w", err)
	}

	return p, nil
}
