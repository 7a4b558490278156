package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/acca-engine/internal/database"
	"github.com/yourusername/acca-engine/internal/models"
)

// PostgresComboRepository implements ComboRepository for PostgreSQL
type PostgresComboRepository struct {
	db *database.DB
}

// NewPostgresComboRepository creates a new combo repository
func NewPostgresComboRepository(db *database.DB) ComboRepository {
	return &PostgresComboRepository{db: db}
}

const comboColumns = `
	id, combo_date, picks, total_odds, expected_win_rate, expected_value, legs, risk_level,
	suggested_stake_pct, expected_wins, expected_losses, break_even_rate, projected_roi,
	max_consecutive_losses, recovery_bets_after_loss
`

func scanCombo(row pgx.Row) (models.AccumulatorCombo, error) {
	var c models.AccumulatorCombo
	var picksJSON []byte
	err := row.Scan(
		&c.ID, &c.ComboDate, &picksJSON, &c.TotalOdds, &c.ExpectedWinRate, &c.ExpectedValue, &c.Legs, &c.RiskLevel,
		&c.SuggestedStakePct, &c.SeasonSimulation.ExpectedWins, &c.SeasonSimulation.ExpectedLosses,
		&c.SeasonSimulation.BreakEvenRate, &c.SeasonSimulation.ProjectedROI,
		&c.SeasonSimulation.MaxConsecutiveLosses, &c.SeasonSimulation.RecoveryBetsAfterLoss,
	)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(picksJSON, &c.Picks); err != nil {
		return c, fmt.Errorf("failed to decode combo picks: %w", err)
	}
	return c, nil
}

// ReplaceForDate atomically replaces the persisted combos for one combo date
func (r *PostgresComboRepository) ReplaceForDate(ctx context.Context, day time.Time, combos []models.AccumulatorCombo) error {
	insertQuery := `
		INSERT INTO accumulator_combos (id, combo_date, picks, total_odds, expected_win_rate, expected_value,
		                                legs, risk_level, suggested_stake_pct, expected_wins, expected_losses,
		                                break_even_rate, projected_roi, max_consecutive_losses,
		                                recovery_bets_after_loss, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
	`

	comboDate := day.Format("2006-01-02")

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM accumulator_combos WHERE combo_date = $1`, comboDate); err != nil {
			return fmt.Errorf("failed to clear previous combos: %w", err)
		}

		for _, c := range combos {
			picksJSON, err := json.Marshal(c.Picks)
			if err != nil {
				return fmt.Errorf("failed to encode combo picks: %w", err)
			}

			_, err = tx.Exec(ctx, insertQuery,
				c.ID, comboDate, picksJSON, c.TotalOdds, c.ExpectedWinRate, c.ExpectedValue,
				c.Legs, c.RiskLevel, c.SuggestedStakePct,
				c.SeasonSimulation.ExpectedWins, c.SeasonSimulation.ExpectedLosses,
				c.SeasonSimulation.BreakEvenRate, c.SeasonSimulation.ProjectedROI,
				c.SeasonSimulation.MaxConsecutiveLosses, c.SeasonSimulation.RecoveryBetsAfterLoss,
			)
			if err != nil {
				return fmt.Errorf("failed to insert combo %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// GetByDate retrieves persisted combos for a combo date, best value first
func (r *PostgresComboRepository) GetByDate(ctx context.Context, day time.Time) ([]models.AccumulatorCombo, error) {
	query := `
		SELECT ` + comboColumns + `
		FROM accumulator_combos
		WHERE combo_date = $1
		ORDER BY expected_value DESC, id ASC
	`
	return r.queryCombos(ctx, query, day.Format("2006-01-02"))
}

// GetByDateAndRisk retrieves persisted combos for a combo date in one risk tier
func (r *PostgresComboRepository) GetByDateAndRisk(ctx context.Context, day time.Time, risk models.RiskLevel) ([]models.AccumulatorCombo, error) {
	if !risk.Valid() {
		return nil, models.ErrInvalidRiskTier
	}

	query := `
		SELECT ` + comboColumns + `
		FROM accumulator_combos
		WHERE combo_date = $1 AND risk_level = $2
		ORDER BY expected_value DESC, id ASC
	`
	return r.queryCombos(ctx, query, day.Format("2006-01-02"), string(risk))
}

func (r *PostgresComboRepository) queryCombos(ctx context.Context, query string, args ...interface{}) ([]models.AccumulatorCombo, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query combos: %w", err)
	}
	defer rows.Close()

	var combos []models.AccumulatorCombo
	for rows.Next() {
		c, err := scanCombo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan combo: %w", err)
		}
		combos = append(combos, c)
	}

	return combos, rows.Err()
}
