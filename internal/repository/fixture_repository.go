package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/acca-engine/internal/database"
	"github.com/yourusername/acca-engine/internal/models"
)

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

const fixtureColumns = `
	id, league_id, home_team_id, away_team_id, home_team_name, away_team_name,
	match_date, status, fixture_congestion_7d, has_midweek_european, days_since_last_match
`

func scanFixture(row pgx.Row) (*models.Fixture, error) {
	f := &models.Fixture{}
	err := row.Scan(
		&f.ID, &f.LeagueID, &f.HomeTeamID, &f.AwayTeamID, &f.HomeTeamName, &f.AwayTeamName,
		&f.MatchDate, &f.Status, &f.FixtureCongestion, &f.HasMidweekEuropean, &f.DaysSinceLastMatch,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Upsert inserts or updates a fixture
func (r *PostgresFixtureRepository) Upsert(ctx context.Context, fixture *models.Fixture) error {
	query := `
		INSERT INTO fixtures (id, league_id, home_team_id, away_team_id, home_team_name, away_team_name,
		                      match_date, status, fixture_congestion_7d, has_midweek_european, days_since_last_match)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			match_date = EXCLUDED.match_date, status = EXCLUDED.status,
			fixture_congestion_7d = EXCLUDED.fixture_congestion_7d,
			has_midweek_european = EXCLUDED.has_midweek_european,
			days_since_last_match = EXCLUDED.days_since_last_match
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		fixture.ID, fixture.LeagueID, fixture.HomeTeamID, fixture.AwayTeamID,
		fixture.HomeTeamName, fixture.AwayTeamName, fixture.MatchDate, fixture.Status,
		fixture.FixtureCongestion, fixture.HasMidweekEuropean, fixture.DaysSinceLastMatch,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fixture: %w", err)
	}

	return nil
}

// GetByID retrieves a fixture by ID
func (r *PostgresFixtureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE id = $1`

	f, err := scanFixture(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}

	return f, nil
}

// GetUpcomingByTeam retrieves scheduled fixtures involving a team within a window
func (r *PostgresFixtureRepository) GetUpcomingByTeam(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]*models.Fixture, error) {
	query := `
		SELECT ` + fixtureColumns + `
		FROM fixtures
		WHERE (home_team_id = $1 OR away_team_id = $1)
		  AND status = 'scheduled'
		  AND match_date >= $2 AND match_date <= $3
		ORDER BY match_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []*models.Fixture
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		fixtures = append(fixtures, f)
	}

	return fixtures, rows.Err()
}

// GetInjuries retrieves availability flags for one team ahead of a fixture
func (r *PostgresFixtureRepository) GetInjuries(ctx context.Context, fixtureID, teamID uuid.UUID) ([]models.PlayerAvailability, error) {
	query := `
		SELECT fixture_id, team_id, player_name, is_key_player, status
		FROM player_availability
		WHERE fixture_id = $1 AND team_id = $2
		ORDER BY player_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, fixtureID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player availability: %w", err)
	}
	defer rows.Close()

	var injuries []models.PlayerAvailability
	for rows.Next() {
		var p models.PlayerAvailability
		if err := rows.Scan(&p.FixtureID, &p.TeamID, &p.PlayerName, &p.IsKeyPlayer, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan player availability: %w", err)
		}
		injuries = append(injuries, p)
	}

	return injuries, rows.Err()
}

// GetWeather retrieves the latest weather reading for a fixture venue
func (r *PostgresFixtureRepository) GetWeather(ctx context.Context, fixtureID uuid.UUID) (*models.MatchWeather, error) {
	query := `
		SELECT fixture_id, weather_impact_score, pre_rain_mm, pre_wind_speed
		FROM match_weather
		WHERE fixture_id = $1
	`

	w := &models.MatchWeather{}
	err := r.db.GetPool().QueryRow(ctx, query, fixtureID).Scan(
		&w.FixtureID, &w.ImpactScore, &w.RainMM, &w.WindSpeed,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match weather: %w", err)
	}

	return w, nil
}
