package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/acca-engine/internal/database"
	"github.com/yourusername/acca-engine/internal/models"
)

// PostgresPickRepository implements PickRepository for PostgreSQL
type PostgresPickRepository struct {
	db *database.DB
}

// NewPostgresPickRepository creates a new pick repository
func NewPostgresPickRepository(db *database.DB) PickRepository {
	return &PostgresPickRepository{db: db}
}

const pickColumns = `
	fixture_id, team_id, team_name, opponent_name, league_id, league_name, match_date, is_home,
	dominance_score, opponent_position, opponent_zone, safety_score, risk_factors,
	recommended_market, min_odds_threshold, current_odds, is_value, confidence
`

func scanPick(row pgx.Row) (models.AccumulatorPick, error) {
	var p models.AccumulatorPick
	err := row.Scan(
		&p.FixtureID, &p.TeamID, &p.TeamName, &p.OpponentName, &p.LeagueID, &p.LeagueName, &p.MatchDate, &p.IsHome,
		&p.DominanceScore, &p.OpponentPosition, &p.OpponentZone, &p.SafetyScore, &p.RiskFactors,
		&p.RecommendedMarket, &p.MinOddsThreshold, &p.CurrentOdds, &p.IsValue, &p.Confidence,
	)
	return p, err
}

// ReplaceForDate atomically replaces the persisted picks for one pick date.
// The daily pipeline regenerates the full slate, so partial updates are
// never meaningful.
func (r *PostgresPickRepository) ReplaceForDate(ctx context.Context, day time.Time, picks []models.AccumulatorPick) error {
	insertQuery := `
		INSERT INTO accumulator_picks (pick_date, fixture_id, team_id, team_name, opponent_name, league_id, league_name,
		                               match_date, is_home, dominance_score, opponent_position, opponent_zone,
		                               safety_score, risk_factors, recommended_market, min_odds_threshold,
		                               current_odds, is_value, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW())
	`

	pickDate := day.Format("2006-01-02")

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM accumulator_picks WHERE pick_date = $1`, pickDate); err != nil {
			return fmt.Errorf("failed to clear previous picks: %w", err)
		}

		for _, p := range picks {
			_, err := tx.Exec(ctx, insertQuery,
				pickDate, p.FixtureID, p.TeamID, p.TeamName, p.OpponentName, p.LeagueID, p.LeagueName,
				p.MatchDate, p.IsHome, p.DominanceScore, p.OpponentPosition, p.OpponentZone,
				p.SafetyScore, p.RiskFactors, p.RecommendedMarket, p.MinOddsThreshold,
				p.CurrentOdds, p.IsValue, p.Confidence,
			)
			if err != nil {
				return fmt.Errorf("failed to insert pick for fixture %s: %w", p.FixtureID, err)
			}
		}
		return nil
	})
}

// GetByDate retrieves persisted picks for a pick date, safest first
func (r *PostgresPickRepository) GetByDate(ctx context.Context, day time.Time) ([]models.AccumulatorPick, error) {
	return r.queryPicks(ctx, day, 0)
}

// GetByDateMinSafety retrieves picks for a pick date at or above a safety floor
func (r *PostgresPickRepository) GetByDateMinSafety(ctx context.Context, day time.Time, minSafety int) ([]models.AccumulatorPick, error) {
	return r.queryPicks(ctx, day, minSafety)
}

func (r *PostgresPickRepository) queryPicks(ctx context.Context, day time.Time, minSafety int) ([]models.AccumulatorPick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM accumulator_picks
		WHERE pick_date = $1 AND safety_score >= $2
		ORDER BY safety_score DESC, fixture_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, day.Format("2006-01-02"), minSafety)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	var picks []models.AccumulatorPick
	for rows.Next() {
		p, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, p)
	}

	return picks, rows.Err()
}
