package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/acca-engine/internal/database"
	"github.com/yourusername/acca-engine/internal/models"
)

// PostgresStandingRepository implements StandingRepository for PostgreSQL
type PostgresStandingRepository struct {
	db *database.DB
}

// NewPostgresStandingRepository creates a new standing repository
func NewPostgresStandingRepository(db *database.DB) StandingRepository {
	return &PostgresStandingRepository{db: db}
}

const standingColumns = `
	id, team_id, team_name, league_id, league_name, season, position, league_size, zone,
	played, won, drawn, lost, goals_for, goals_against, ppg, form_last5,
	home_played, home_won, away_played, away_won, clean_sheets,
	avg_goals_scored, avg_goals_conceded, updated_at
`

const upsertStandingQuery = `
	INSERT INTO standings (id, team_id, team_name, league_id, league_name, season, position, league_size, zone,
	                       played, won, drawn, lost, goals_for, goals_against, ppg, form_last5,
	                       home_played, home_won, away_played, away_won, clean_sheets,
	                       avg_goals_scored, avg_goals_conceded, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
	        $18, $19, $20, $21, $22, $23, $24, NOW())
	ON CONFLICT (team_id, season) DO UPDATE SET
		team_name = EXCLUDED.team_name, league_name = EXCLUDED.league_name,
		position = EXCLUDED.position, league_size = EXCLUDED.league_size, zone = EXCLUDED.zone,
		played = EXCLUDED.played, won = EXCLUDED.won, drawn = EXCLUDED.drawn, lost = EXCLUDED.lost,
		goals_for = EXCLUDED.goals_for, goals_against = EXCLUDED.goals_against,
		ppg = EXCLUDED.ppg, form_last5 = EXCLUDED.form_last5,
		home_played = EXCLUDED.home_played, home_won = EXCLUDED.home_won,
		away_played = EXCLUDED.away_played, away_won = EXCLUDED.away_won,
		clean_sheets = EXCLUDED.clean_sheets,
		avg_goals_scored = EXCLUDED.avg_goals_scored, avg_goals_conceded = EXCLUDED.avg_goals_conceded,
		updated_at = NOW()
`

func standingArgs(s *models.Standing) []interface{} {
	return []interface{}{
		s.ID, s.TeamID, s.TeamName, s.LeagueID, s.LeagueName, s.Season, s.Position, s.LeagueSize, s.Zone,
		s.Played, s.Won, s.Drawn, s.Lost, s.GoalsFor, s.GoalsAgainst, s.PPG, s.FormLast5,
		s.HomePlayed, s.HomeWon, s.AwayPlayed, s.AwayWon, s.CleanSheets,
		s.AvgGoalsScored, s.AvgGoalsConceded,
	}
}

func scanStanding(row pgx.Row) (*models.Standing, error) {
	s := &models.Standing{}
	err := row.Scan(
		&s.ID, &s.TeamID, &s.TeamName, &s.LeagueID, &s.LeagueName, &s.Season, &s.Position, &s.LeagueSize, &s.Zone,
		&s.Played, &s.Won, &s.Drawn, &s.Lost, &s.GoalsFor, &s.GoalsAgainst, &s.PPG, &s.FormLast5,
		&s.HomePlayed, &s.HomeWon, &s.AwayPlayed, &s.AwayWon, &s.CleanSheets,
		&s.AvgGoalsScored, &s.AvgGoalsConceded, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert inserts or updates a standing snapshot keyed by team and season
func (r *PostgresStandingRepository) Upsert(ctx context.Context, standing *models.Standing) error {
	if standing.ID == uuid.Nil {
		standing.ID = uuid.New()
	}

	_, err := r.db.GetPool().Exec(ctx, upsertStandingQuery, standingArgs(standing)...)
	if err != nil {
		return fmt.Errorf("failed to upsert standing: %w", err)
	}

	return nil
}

// UpsertBatch inserts or updates standings in a single transaction
func (r *PostgresStandingRepository) UpsertBatch(ctx context.Context, standings []*models.Standing) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, standing := range standings {
			if standing.ID == uuid.Nil {
				standing.ID = uuid.New()
			}
			if _, err := tx.Exec(ctx, upsertStandingQuery, standingArgs(standing)...); err != nil {
				return fmt.Errorf("failed to upsert standing for team %s: %w", standing.TeamID, err)
			}
		}
		return nil
	})
}

// GetByLeagueSeason retrieves all standings for a league season ordered by position
func (r *PostgresStandingRepository) GetByLeagueSeason(ctx context.Context, leagueID uuid.UUID, season string) ([]*models.Standing, error) {
	query := `SELECT ` + standingColumns + ` FROM standings WHERE league_id = $1 AND season = $2 ORDER BY position ASC`

	rows, err := r.db.GetPool().Query(ctx, query, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings by league: %w", err)
	}
	defer rows.Close()

	var standings []*models.Standing
	for rows.Next() {
		s, err := scanStanding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, s)
	}

	return standings, rows.Err()
}

// GetByTeamSeason retrieves one team's standing snapshot for a season
func (r *PostgresStandingRepository) GetByTeamSeason(ctx context.Context, teamID uuid.UUID, season string) (*models.Standing, error) {
	query := `SELECT ` + standingColumns + ` FROM standings WHERE team_id = $1 AND season = $2`

	s, err := scanStanding(r.db.GetPool().QueryRow(ctx, query, teamID, season))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get standing: %w", err)
	}

	return s, nil
}
