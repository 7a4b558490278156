package analyzer

import (
	"math"

	"github.com/yourusername/acca-engine/internal/models"
)

// SimulateSeason projects combo-betting outcomes over a season in closed
// form — no sampling. One unit is staked per combo: a win returns
// totalOdds, a loss forfeits the stake.
func SimulateSeason(avgWinProbPerLeg, avgLegsPerCombo, avgTotalOdds, combosPerWeek float64, weeksInSeason int, tun SeasonTunables) models.SeasonSimulation {
	comboWinProb := math.Pow(clamp(avgWinProbPerLeg, tun.MinLegProb, tun.MaxLegProb), avgLegsPerCombo)

	totalCombos := combosPerWeek * float64(weeksInSeason)
	expectedWins := comboWinProb * totalCombos
	expectedLosses := totalCombos - expectedWins

	// The fraction of combos that must win to break even: a win gains
	// (odds-1), a loss costs 1, so breakEven*odds = 1.
	breakEvenRate := 1.0
	if avgTotalOdds > 0 {
		breakEvenRate = 1 / avgTotalOdds
	}

	projectedROI := 0.0
	if totalCombos > 0 {
		totalReturn := expectedWins * avgTotalOdds
		projectedROI = (totalReturn - totalCombos) / totalCombos * 100
	}

	// Expected longest losing streak, geometric estimate:
	// ceil(ln(totalCombos) / ln(1/loseProb)). Saturates to the full season
	// when every combo loses.
	loseProb := 1 - comboWinProb
	var maxConsecLosses int
	switch {
	case loseProb >= 1:
		maxConsecLosses = int(totalCombos)
	case loseProb <= 0:
		maxConsecLosses = 0
	default:
		maxConsecLosses = int(math.Ceil(math.Log(totalCombos) / math.Log(1/loseProb)))
	}
	if maxConsecLosses < 0 {
		maxConsecLosses = 0
	}
	if maxConsecLosses > int(totalCombos) {
		maxConsecLosses = int(totalCombos)
	}

	// Wins needed to recover one lost unit. Saturates to the sentinel when
	// odds at or below evens make recovery impossible.
	recoveryBets := tun.RecoverySentinel
	if netGainPerWin := avgTotalOdds - 1; netGainPerWin > 0 {
		recoveryBets = int(math.Ceil(1 / netGainPerWin))
	}

	return models.SeasonSimulation{
		ExpectedWins:          math.Round(expectedWins*100) / 100,
		ExpectedLosses:        math.Round(expectedLosses*100) / 100,
		BreakEvenRate:         math.Round(breakEvenRate*10000) / 10000,
		ProjectedROI:          math.Round(projectedROI*100) / 100,
		MaxConsecutiveLosses:  maxConsecLosses,
		RecoveryBetsAfterLoss: recoveryBets,
	}
}
