package analyzer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/acca-engine/internal/models"
)

func cleanProfile(teamID uuid.UUID) *models.DominanceProfile {
	return &models.DominanceProfile{
		TeamID:         teamID,
		TeamName:       "Dominators",
		LeagueID:       uuid.New(),
		LeagueName:     "Premier League",
		Season:         "2025",
		DominanceLevel: models.DominanceModerate,
		DominanceScore: 75,
		WinRate:        0.78,
		HomeWinRate:    0.8,
		AwayWinRate:    0.75,
		DrawRate:       0.12,
		LossRate:       0.10,
		PPG:            2.4,
		FormLast5:      "WWWWW",
		FormScore:      1.0,
		AvgGoalsScored: 2.1,
		CleanSheetPct:  0.4,
	}
}

// Mid-table opponent that triggers no positional or venue modifiers.
func neutralOpponent() *models.Standing {
	return &models.Standing{
		TeamID:     uuid.New(),
		Position:   10,
		LeagueSize: 20,
		Played:     20,
		Won:        8,
		Drawn:      6,
		Lost:       6,
		HomePlayed: 10,
		HomeWon:    5,
		AwayPlayed: 10,
		AwayWon:    4,
	}
}

func fixtureFor(teamID uuid.UUID, isHome bool) *models.Fixture {
	f := &models.Fixture{
		ID:           uuid.New(),
		LeagueID:     uuid.New(),
		HomeTeamID:   uuid.New(),
		AwayTeamID:   uuid.New(),
		HomeTeamName: "Home FC",
		AwayTeamName: "Away FC",
		MatchDate:    time.Now().Add(48 * time.Hour),
		Status:       models.FixtureScheduled,
	}
	if isHome {
		f.HomeTeamID = teamID
	} else {
		f.AwayTeamID = teamID
	}
	return f
}

// Modifiers are additive: two otherwise-identical picks differing only in
// venue must differ by exactly the home-advantage bonus.
func TestAssessPick_HomeAdvantageAdditivity(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()
	team := cleanProfile(teamID)
	ctx := models.FixtureContext{Opponent: neutralOpponent()}

	home := AssessPick(fixtureFor(teamID, true), team, ctx, tun)
	away := AssessPick(fixtureFor(teamID, false), team, ctx, tun)

	assert.True(t, home.IsHome)
	assert.False(t, away.IsHome)
	assert.Equal(t, tun.Safety.Base+tun.Safety.HomeAdvantage, home.SafetyScore)
	assert.Equal(t, tun.Safety.Base, away.SafetyScore)
	assert.Equal(t, tun.Safety.HomeAdvantage, home.SafetyScore-away.SafetyScore)
	assert.Empty(t, home.RiskFactors)
}

func TestAssessPick_FormPenaltiesStack(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()
	team := cleanProfile(teamID)
	team.FormLast5 = "LDWWW" // loss and draw both inside the last 3
	ctx := models.FixtureContext{Opponent: neutralOpponent()}

	pick := AssessPick(fixtureFor(teamID, false), team, ctx, tun)

	want := tun.Safety.Base + tun.Safety.FormLossPenalty + tun.Safety.FormDrawPenalty
	assert.Equal(t, want, pick.SafetyScore)
	assert.Contains(t, pick.RiskFactors, "Loss in last 3 matches")
	assert.Contains(t, pick.RiskFactors, "Draw in last 3 matches")
}

func TestAssessPick_OpponentTiering(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	tests := []struct {
		name     string
		position int
		modifier int
	}{
		{"top 3", 2, tun.Safety.OpponentTop3},
		{"top 6", 5, tun.Safety.OpponentTop6},
		{"upper mid-table", 10, 0},
		{"bottom half", 13, tun.Safety.OpponentBottomHalf},
		{"near relegation", 16, tun.Safety.OpponentBottom3},
		{"relegation zone", 19, tun.Safety.OpponentRelegation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp := neutralOpponent()
			opp.Position = tt.position
			ctx := models.FixtureContext{Opponent: opp}

			pick := AssessPick(fixtureFor(teamID, false), cleanProfile(teamID), ctx, tun)
			assert.Equal(t, tun.Safety.Base+tt.modifier, pick.SafetyScore)
		})
	}
}

func TestAssessPick_KeyInjuryPenaltyCapped(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	injuries := func(n int) []models.PlayerAvailability {
		out := make([]models.PlayerAvailability, n)
		for i := range out {
			out[i] = models.PlayerAvailability{IsKeyPlayer: true, Status: models.AvailabilityOut}
		}
		return out
	}

	three := AssessPick(fixtureFor(teamID, false), cleanProfile(teamID),
		models.FixtureContext{Opponent: neutralOpponent(), Injuries: injuries(3)}, tun)
	five := AssessPick(fixtureFor(teamID, false), cleanProfile(teamID),
		models.FixtureContext{Opponent: neutralOpponent(), Injuries: injuries(5)}, tun)

	assert.Equal(t, tun.Safety.Base+3*tun.Safety.KeyInjuryPenalty, three.SafetyScore)
	assert.Equal(t, three.SafetyScore, five.SafetyScore, "penalty must cap at 3 key players")

	fit := AssessPick(fixtureFor(teamID, false), cleanProfile(teamID),
		models.FixtureContext{Opponent: neutralOpponent(), Injuries: []models.PlayerAvailability{
			{IsKeyPlayer: true, Status: models.AvailabilityFit},
			{IsKeyPlayer: false, Status: models.AvailabilityOut},
		}}, tun)
	assert.Equal(t, tun.Safety.Base, fit.SafetyScore, "fit or non-key players carry no penalty")
}

func TestAssessPick_WeatherAndCongestion(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	fixture := fixtureFor(teamID, false)
	fixture.HasMidweekEuropean = true
	ctx := models.FixtureContext{
		Opponent: neutralOpponent(),
		Weather:  &models.MatchWeather{RainMM: 8},
	}

	pick := AssessPick(fixture, cleanProfile(teamID), ctx, tun)
	want := tun.Safety.Base + tun.Safety.CongestionPenalty + tun.Safety.BadWeatherPenalty
	assert.Equal(t, want, pick.SafetyScore)
	assert.Contains(t, pick.RiskFactors, "Fixture congestion or midweek European match")
	assert.Contains(t, pick.RiskFactors, "Adverse weather conditions")
}

func TestAssessPick_PredictionAgreementBonus(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	high := AssessPick(fixtureFor(teamID, true), cleanProfile(teamID), models.FixtureContext{
		Opponent:   neutralOpponent(),
		Prediction: &models.MatchPrediction{HomeWinProb: 78, ConfidenceScore: 70},
	}, tun)
	med := AssessPick(fixtureFor(teamID, true), cleanProfile(teamID), models.FixtureContext{
		Opponent:   neutralOpponent(),
		Prediction: &models.MatchPrediction{HomeWinProb: 60, ConfidenceScore: 50},
	}, tun)
	none := AssessPick(fixtureFor(teamID, true), cleanProfile(teamID), models.FixtureContext{
		Opponent: neutralOpponent(),
	}, tun)

	assert.Equal(t, tun.Safety.PredictionHighConf, high.SafetyScore-none.SafetyScore)
	assert.Equal(t, tun.Safety.PredictionMedConf, med.SafetyScore-none.SafetyScore)
}

func TestAssessPick_SafetyClampedToRange(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	// Pile on every bonus.
	team := cleanProfile(teamID)
	team.DominanceLevel = models.DominanceUltra
	team.CleanSheetPct = 0.7
	opp := neutralOpponent()
	opp.Position = 20
	opp.AwayWon = 0
	best := AssessPick(fixtureFor(teamID, true), team, models.FixtureContext{
		Opponent:   opp,
		Prediction: &models.MatchPrediction{HomeWinProb: 90, ConfidenceScore: 90},
	}, tun)
	require.LessOrEqual(t, best.SafetyScore, 100)

	// Pile on every penalty.
	worst := cleanProfile(teamID)
	worst.FormLast5 = "LDLLL"
	wfixture := fixtureFor(teamID, false)
	wfixture.FixtureCongestion = 4
	oppTop := neutralOpponent()
	oppTop.Position = 1
	pick := AssessPick(wfixture, worst, models.FixtureContext{
		Opponent: oppTop,
		Weather:  &models.MatchWeather{ImpactScore: 0.9},
		Injuries: []models.PlayerAvailability{
			{IsKeyPlayer: true, Status: models.AvailabilityOut},
			{IsKeyPlayer: true, Status: models.AvailabilityOut},
			{IsKeyPlayer: true, Status: models.AvailabilityDoubtful},
		},
	}, tun)
	require.GreaterOrEqual(t, pick.SafetyScore, 0)
}

func TestAssessPick_MarketRecommendation(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	// Safe home favorite: outright win.
	safe := AssessPick(fixtureFor(teamID, true), cleanProfile(teamID),
		models.FixtureContext{Opponent: neutralOpponent()}, tun)
	assert.Equal(t, models.MarketHomeWin, safe.RecommendedMarket)

	// Moderately safe away side: double chance.
	team := cleanProfile(teamID)
	team.FormLast5 = "DWWWW"
	dc := AssessPick(fixtureFor(teamID, false), team,
		models.FixtureContext{Opponent: neutralOpponent()}, tun)
	assert.Equal(t, models.MarketDoubleChance, dc.RecommendedMarket)

	// Heavily penalized pick with a scoring side: over-goals fallback.
	shaky := cleanProfile(teamID)
	shaky.FormLast5 = "LDWWW"
	oppTop := neutralOpponent()
	oppTop.Position = 2
	over := AssessPick(fixtureFor(teamID, false), shaky,
		models.FixtureContext{Opponent: oppTop}, tun)
	assert.Equal(t, models.MarketOver15, over.RecommendedMarket)

	shaky.AvgGoalsScored = 1.1
	under := AssessPick(fixtureFor(teamID, false), shaky,
		models.FixtureContext{Opponent: oppTop}, tun)
	assert.Equal(t, models.MarketOver05, under.RecommendedMarket)
}

func TestAssessPick_MinOddsThresholdFiniteAboveOne(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	profiles := []*models.DominanceProfile{cleanProfile(teamID)}
	weak := cleanProfile(teamID)
	weak.WinRate, weak.HomeWinRate, weak.AwayWinRate = 0.05, 0, 0.1
	strong := cleanProfile(teamID)
	strong.WinRate, strong.HomeWinRate, strong.AwayWinRate = 0.99, 1.0, 0.98
	profiles = append(profiles, weak, strong)

	for _, team := range profiles {
		for _, isHome := range []bool{true, false} {
			pick := AssessPick(fixtureFor(teamID, isHome), team,
				models.FixtureContext{Opponent: neutralOpponent()}, tun)
			require.Greater(t, pick.MinOddsThreshold, 1.0)
			require.False(t, pick.MinOddsThreshold > 1e6, "threshold must stay finite")
		}
	}
}

// Quoted odds at or below 1.0 are invalid decimal prices and must be
// treated as absent rather than used verbatim.
func TestAssessPick_RejectsOddsAtOrBelowEvens(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	pick := AssessPick(fixtureFor(teamID, true), cleanProfile(teamID), models.FixtureContext{
		Opponent: neutralOpponent(),
		Odds:     &models.MatchOdds{BestHomeOdds: 1.0},
	}, tun)

	assert.Nil(t, pick.CurrentOdds)
	assert.False(t, pick.IsValue)

	valued := AssessPick(fixtureFor(teamID, true), cleanProfile(teamID), models.FixtureContext{
		Opponent: neutralOpponent(),
		Odds:     &models.MatchOdds{BestHomeOdds: 5.0},
	}, tun)
	require.NotNil(t, valued.CurrentOdds)
	assert.Equal(t, 5.0, *valued.CurrentOdds)
	assert.True(t, valued.IsValue)
}

func TestAssessPick_OpponentZone(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	opp := neutralOpponent()
	opp.Position = 19
	pick := AssessPick(fixtureFor(teamID, true), cleanProfile(teamID),
		models.FixtureContext{Opponent: opp}, tun)
	assert.Equal(t, ZoneRelegation, pick.OpponentZone)

	// League size of zero yields no zone.
	unknown := neutralOpponent()
	unknown.LeagueSize = 0
	pick = AssessPick(fixtureFor(teamID, true), cleanProfile(teamID),
		models.FixtureContext{Opponent: unknown}, tun)
	assert.Empty(t, pick.OpponentZone)
}

func TestAssessPick_ConfidenceGrading(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	ultra := cleanProfile(teamID)
	ultra.DominanceLevel = models.DominanceUltra
	ultra.CleanSheetPct = 0.6
	opp := neutralOpponent()
	opp.Position = 18
	veryHigh := AssessPick(fixtureFor(teamID, true), ultra,
		models.FixtureContext{Opponent: opp}, tun)
	assert.Equal(t, models.ConfidenceVeryHigh, veryHigh.Confidence)

	high := AssessPick(fixtureFor(teamID, true), cleanProfile(teamID),
		models.FixtureContext{Opponent: neutralOpponent()}, tun)
	assert.Equal(t, models.ConfidenceHigh, high.Confidence)

	medium := AssessPick(fixtureFor(teamID, false), cleanProfile(teamID),
		models.FixtureContext{Opponent: neutralOpponent()}, tun)
	assert.Equal(t, models.ConfidenceMedium, medium.Confidence)
}

// Missing optional context must degrade to neutral, never fail.
func TestAssessPick_NoContextAtAll(t *testing.T) {
	tun := DefaultTunables()
	teamID := uuid.New()

	pick := AssessPick(fixtureFor(teamID, true), cleanProfile(teamID), models.FixtureContext{}, tun)
	assert.Equal(t, tun.Safety.Base+tun.Safety.HomeAdvantage, pick.SafetyScore)
	assert.Equal(t, defaultOpponentPosition, pick.OpponentPosition)
	assert.Nil(t, pick.CurrentOdds)
	assert.Greater(t, pick.MinOddsThreshold, 1.0)
}
