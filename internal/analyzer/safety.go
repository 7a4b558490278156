package analyzer

import (
	"fmt"
	"math"

	"github.com/yourusername/acca-engine/internal/models"
)

// Opponent table zones inferred from relative league position.
const (
	ZoneChampion          = "champion"
	ZoneCLQualify         = "cl_qualify"
	ZoneELQualify         = "el_qualify"
	ZoneMidTable          = "mid_table"
	ZoneRelegationPlayoff = "relegation_playoff"
	ZoneRelegation        = "relegation"
)

// Fallbacks when the opponent's standing row is missing.
const (
	defaultOpponentPosition = 10
	defaultLeagueSize       = 20
)

// AssessPick scores one fixture for how safe a bet on the dominant team is.
// Every optional contextual input (opponent standing, odds, prediction,
// weather, injuries) degrades to a neutral contribution when absent; the
// function has no failure mode.
func AssessPick(fixture *models.Fixture, team *models.DominanceProfile, ctx models.FixtureContext, tun Tunables) models.AccumulatorPick {
	isHome := fixture.HomeTeamID == team.TeamID

	opponentName := fixture.HomeTeamName
	if isHome {
		opponentName = fixture.AwayTeamName
	}

	opponentPosition := defaultOpponentPosition
	leagueSize := defaultLeagueSize
	opponentZone := ""
	if ctx.Opponent != nil {
		if ctx.Opponent.Position > 0 {
			opponentPosition = ctx.Opponent.Position
		}
		leagueSize = ctx.Opponent.LeagueSize
		opponentZone = ctx.Opponent.Zone
	}
	if opponentZone == "" {
		opponentZone = inferOpponentZone(opponentPosition, leagueSize)
	}

	safety := tun.Safety.Base
	riskFactors := []string{}

	// Home advantage.
	if isHome {
		safety += tun.Safety.HomeAdvantage
	}

	// Recent form: a loss and a draw in the last 3 results penalize
	// independently, so both can apply.
	if len(team.FormLast5) > 0 {
		recent := team.FormLast5
		if len(recent) > 3 {
			recent = recent[:3]
		}
		if containsResult(recent, 'L') {
			safety += tun.Safety.FormLossPenalty
			riskFactors = append(riskFactors, "Loss in last 3 matches")
		}
		if containsResult(recent, 'D') {
			safety += tun.Safety.FormDrawPenalty
			riskFactors = append(riskFactors, "Draw in last 3 matches")
		}
	}

	// Opponent strength tiering by relative league position: lower ratio
	// means a stronger opponent.
	if leagueSize > 0 {
		relative := float64(opponentPosition) / float64(leagueSize)
		switch {
		case relative <= 0.15:
			safety += tun.Safety.OpponentTop3
			riskFactors = append(riskFactors, fmt.Sprintf("Opponent in top 3 (pos %d)", opponentPosition))
		case relative <= 0.3:
			safety += tun.Safety.OpponentTop6
			riskFactors = append(riskFactors, fmt.Sprintf("Opponent in top 6 (pos %d)", opponentPosition))
		case relative <= 0.5:
			// upper mid-table, neutral
		case relative <= 0.7:
			safety += tun.Safety.OpponentBottomHalf
		case relative <= 0.85:
			safety += tun.Safety.OpponentBottom3
		default:
			safety += tun.Safety.OpponentRelegation
		}
	}

	// Fixture congestion / midweek European commitments.
	if fixture.FixtureCongestion >= 3 || fixture.HasMidweekEuropean ||
		(fixture.DaysSinceLastMatch > 0 && fixture.DaysSinceLastMatch < 3) {
		safety += tun.Safety.CongestionPenalty
		riskFactors = append(riskFactors, "Fixture congestion or midweek European match")
	}

	// Key player availability, capped penalty.
	keyOut := 0
	for i := range ctx.Injuries {
		inj := &ctx.Injuries[i]
		if inj.IsKeyPlayer && inj.RulesOut() {
			keyOut++
		}
	}
	if keyOut > 0 {
		counted := keyOut
		if counted > tun.Safety.MaxKeyInjuries {
			counted = tun.Safety.MaxKeyInjuries
		}
		safety += counted * tun.Safety.KeyInjuryPenalty
		riskFactors = append(riskFactors, fmt.Sprintf("%d key player(s) injured/doubtful", keyOut))
	}

	// Adverse weather.
	if w := ctx.Weather; w != nil {
		if w.ImpactScore > tun.Safety.WeatherImpactLimit || w.RainMM > tun.Safety.RainLimitMM || w.WindSpeed > tun.Safety.WindSpeedLimit {
			safety += tun.Safety.BadWeatherPenalty
			riskFactors = append(riskFactors, "Adverse weather conditions")
		}
	}

	// Independent prediction agreement.
	if p := ctx.Prediction; p != nil {
		relevantProb := p.AwayWinProb
		if isHome {
			relevantProb = p.HomeWinProb
		}
		switch {
		case relevantProb > 70 && p.ConfidenceScore > 60:
			safety += tun.Safety.PredictionHighConf
		case relevantProb > 55 && p.ConfidenceScore > 40:
			safety += tun.Safety.PredictionMedConf
		}
	}

	// Dominance tier bonus.
	switch team.DominanceLevel {
	case models.DominanceUltra:
		safety += tun.Safety.UltraDominanceBonus
	case models.DominanceStrong:
		safety += tun.Safety.StrongDominanceBonus
	}

	// Clean sheet track record.
	if team.CleanSheetPct > tun.Safety.CleanSheetFloor {
		safety += tun.Safety.CleanSheetBonus
	}

	// Opponent weakness in the relevant venue.
	if ctx.Opponent != nil {
		oppVenueRate := ctx.Opponent.HomeWinRate()
		if isHome {
			oppVenueRate = ctx.Opponent.AwayWinRate()
		}
		if oppVenueRate < tun.Safety.VenueWeaknessFloor {
			safety += tun.Safety.VenueWeaknessBonus
		}
	}

	if safety < 0 {
		safety = 0
	}
	if safety > 100 {
		safety = 100
	}

	market := recommendMarket(safety, isHome, team, tun.Safety)
	minOdds := minOddsThreshold(market, team, isHome, opponentPosition, leagueSize, ctx.Prediction, tun.Threshold)
	currentOdds := marketOdds(ctx.Odds, market, isHome)
	isValue := currentOdds != nil && *currentOdds > minOdds

	confidence := models.ConfidenceMedium
	switch {
	case safety >= tun.Safety.VeryHighFloor && team.DominanceLevel == models.DominanceUltra:
		confidence = models.ConfidenceVeryHigh
	case safety >= tun.Safety.HighFloor:
		confidence = models.ConfidenceHigh
	}

	return models.AccumulatorPick{
		FixtureID:         fixture.ID,
		TeamID:            team.TeamID,
		TeamName:          team.TeamName,
		OpponentName:      opponentName,
		LeagueID:          team.LeagueID,
		LeagueName:        team.LeagueName,
		MatchDate:         fixture.MatchDate,
		IsHome:            isHome,
		DominanceScore:    team.DominanceScore,
		OpponentPosition:  opponentPosition,
		OpponentZone:      opponentZone,
		SafetyScore:       safety,
		RiskFactors:       riskFactors,
		RecommendedMarket: market,
		MinOddsThreshold:  minOdds,
		CurrentOdds:       currentOdds,
		IsValue:           isValue,
		Confidence:        confidence,
	}
}

func containsResult(form string, result byte) bool {
	for i := 0; i < len(form); i++ {
		if form[i] == result || form[i] == result+('a'-'A') {
			return true
		}
	}
	return false
}

func recommendMarket(safety int, isHome bool, team *models.DominanceProfile, tun SafetyTunables) models.Market {
	switch {
	case safety >= tun.OutrightWinFloor:
		if isHome {
			return models.MarketHomeWin
		}
		return models.MarketAwayWin
	case safety >= tun.DoubleChanceFloor:
		return models.MarketDoubleChance
	case team.AvgGoalsScored > tun.OverGoalsRate:
		return models.MarketOver15
	default:
		return models.MarketOver05
	}
}

// estimateMatchWinProb estimates the dominant team's single-leg win
// probability for this match: venue-blended win rate, an opponent-strength
// multiplier from relative league position, and a weighted blend toward the
// external prediction confidence when one exists.
func estimateMatchWinProb(team *models.DominanceProfile, isHome bool, opponentPosition, leagueSize int, prediction *models.MatchPrediction, tun ThresholdTunables) float64 {
	venueRate := team.AwayWinRate
	if isHome {
		venueRate = team.HomeWinRate
	}
	prob := team.WinRate*(1-tun.VenueWeight) + venueRate*tun.VenueWeight

	if leagueSize > 0 {
		strength := float64(opponentPosition) / float64(leagueSize)
		switch {
		case strength > 0.7:
			prob = math.Min(1, prob*tun.WeakOpponentBoost)
		case strength > 0.5:
			// mid-table, no adjustment
		case strength > 0.2:
			prob *= tun.UpperTablePenalty
		default:
			prob *= tun.TopThreePenalty
		}
	}

	if prediction != nil && prediction.ConfidenceScore > 0 {
		predProb := prediction.ConfidenceScore / 100
		prob = prob*(1-tun.PredictionWeight) + predProb*tun.PredictionWeight
	}

	return clamp(prob, tun.MinWinProb, tun.MaxWinProb)
}

// minOddsThreshold derives the per-leg decimal odds that make a reference
// accumulator profitable with a margin above pure break-even:
//
//	combined = p^legs
//	minOdds  = ((1/combined) * (1+margin))^(1/legs)
//
// The reference leg count is fixed (normally 4) regardless of the combo a
// pick eventually joins.
func minOddsThreshold(market models.Market, team *models.DominanceProfile, isHome bool, opponentPosition, leagueSize int, prediction *models.MatchPrediction, tun ThresholdTunables) float64 {
	matchProb := estimateMatchWinProb(team, isHome, opponentPosition, leagueSize, prediction, tun)

	marketProb := matchProb
	switch market {
	case models.MarketDoubleChance:
		marketProb = math.Min(0.99, matchProb+team.DrawRate*0.8)
	case models.MarketOver15:
		marketProb = math.Min(0.99, 0.8+team.AvgGoalsScored*0.05)
	case models.MarketOver05:
		marketProb = math.Min(0.99, 0.92+team.AvgGoalsScored*0.02)
	}
	// Keep the exponent base strictly inside (0,1) so the threshold is
	// always finite and >1.
	marketProb = clamp(marketProb, tun.MinWinProb, tun.MaxWinProb)

	legs := float64(tun.ReferenceLegs)
	combined := math.Pow(marketProb, legs)
	target := (1 / combined) * (1 + tun.Margin)
	return math.Round(math.Pow(target, 1/legs)*1000) / 1000
}

// marketOdds selects the quoted price for the recommended market. Prices
// at or below 1.0 are invalid decimal odds and are treated as absent.
func marketOdds(odds *models.MatchOdds, market models.Market, isHome bool) *float64 {
	if odds == nil {
		return nil
	}

	var price float64
	switch market {
	case models.MarketHomeWin:
		price = odds.BestHomeOdds
	case models.MarketAwayWin:
		price = odds.BestAwayOdds
	case models.MarketDoubleChance:
		if isHome {
			price = odds.DoubleChanceHomeDraw
		} else {
			price = odds.DoubleChanceAwayDraw
		}
	case models.MarketOver15:
		price = odds.Over15Odds
	case models.MarketOver05:
		price = odds.Over05Odds
	}

	if price <= 1 {
		return nil
	}
	return &price
}

// inferOpponentZone maps a league position onto a table zone. A league
// size of zero yields no zone.
func inferOpponentZone(position, leagueSize int) string {
	if leagueSize <= 0 {
		return ""
	}
	relative := float64(position) / float64(leagueSize)
	switch {
	case relative <= 0.15:
		return ZoneChampion
	case relative <= 0.25:
		return ZoneCLQualify
	case relative <= 0.35:
		return ZoneELQualify
	case relative <= 0.65:
		return ZoneMidTable
	case relative <= 0.80:
		return ZoneRelegationPlayoff
	default:
		return ZoneRelegation
	}
}
