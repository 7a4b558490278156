package models

import "time"

// RiskLevel classifies an accumulator combo by leg count and win probability.
type RiskLevel string

// Risk levels, ordered safest first.
const (
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
)

// riskOrder maps risk levels to their ordering for ceiling comparisons.
var riskOrder = map[RiskLevel]int{
	RiskConservative: 0,
	RiskModerate:     1,
	RiskAggressive:   2,
}

// Rank returns the ordinal rank of the risk level (conservative lowest).
// Unknown levels rank above aggressive.
func (r RiskLevel) Rank() int {
	if rank, ok := riskOrder[r]; ok {
		return rank
	}
	return len(riskOrder)
}

// Exceeds reports whether this level is riskier than the given ceiling.
func (r RiskLevel) Exceeds(ceiling RiskLevel) bool {
	return r.Rank() > ceiling.Rank()
}

// Valid reports whether the value is a known risk level.
func (r RiskLevel) Valid() bool {
	_, ok := riskOrder[r]
	return ok
}

// SeasonSimulation is a closed-form projection of combo-betting outcomes
// over a season at one combo's parameters.
type SeasonSimulation struct {
	ExpectedWins          float64 `db:"expected_wins" json:"expected_wins"`
	ExpectedLosses        float64 `db:"expected_losses" json:"expected_losses"`
	BreakEvenRate         float64 `db:"break_even_rate" json:"break_even_rate" validate:"gte=0,lte=1"`
	ProjectedROI          float64 `db:"projected_roi" json:"projected_roi"`
	MaxConsecutiveLosses  int     `db:"max_consecutive_losses" json:"max_consecutive_losses" validate:"gte=0"`
	RecoveryBetsAfterLoss int     `db:"recovery_bets_after_loss" json:"recovery_bets_after_loss" validate:"gte=1"`
}

// AccumulatorCombo is one candidate multi-leg bet. Combos are ephemeral:
// generated, scored, ranked and optionally persisted, never mutated.
type AccumulatorCombo struct {
	ID                string            `db:"id" json:"id"`
	ComboDate         time.Time         `db:"combo_date" json:"combo_date"`
	Picks             []AccumulatorPick `db:"picks" json:"picks"`
	TotalOdds         float64           `db:"total_odds" json:"total_odds"`
	ExpectedWinRate   float64           `db:"expected_win_rate" json:"expected_win_rate" validate:"gte=0,lte=1"`
	ExpectedValue     float64           `db:"expected_value" json:"expected_value"`
	Legs              int               `db:"legs" json:"legs" validate:"gte=2,lte=6"`
	RiskLevel         RiskLevel         `db:"risk_level" json:"risk_level"`
	SuggestedStakePct float64           `db:"suggested_stake_pct" json:"suggested_stake_pct"`
	SeasonSimulation  SeasonSimulation  `db:"season_simulation" json:"season_simulation"`
}
