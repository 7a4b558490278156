// Package analyzer implements the scoring and combination-search core of
// the accumulator engine: dominance classification, fixture safety scoring,
// combo search and season projection. Every function is a pure transform of
// its inputs and is safe to call concurrently.
package analyzer

// Tunables collects every weight and threshold used by the scoring
// functions. A single immutable value is created at startup (usually
// DefaultTunables) and passed in, so the scorers stay pure and testable
// with alternate tunings.
type Tunables struct {
	Dominance DominanceTunables
	Form      FormTunables
	Safety    SafetyTunables
	Threshold ThresholdTunables
	Search    SearchTunables
	Season    SeasonTunables
}

// DominanceTunables controls classification thresholds and the composite
// score weights.
type DominanceTunables struct {
	UltraWinRate     float64
	StrongWinRate    float64
	ModerateWinRate  float64
	MinMatchesPlayed int

	// Composite score weights, must sum to 1.
	WinRateWeight    float64
	PPGWeight        float64
	GoalDiffWeight   float64
	FormWeight       float64
	CleanSheetWeight float64
}

// FormTunables maps recent results to a recency-weighted 0-1 score.
type FormTunables struct {
	// Weights for the last five results, most recent first.
	Weights   [5]float64
	WinValue  float64
	DrawValue float64
	LossValue float64
	// NeutralScore is returned when no form history exists.
	NeutralScore float64
}

// SafetyTunables holds the base safety value and every additive modifier
// applied by the fixture scorer.
type SafetyTunables struct {
	Base int

	HomeAdvantage   int
	FormLossPenalty int
	FormDrawPenalty int

	OpponentTop3       int
	OpponentTop6       int
	OpponentBottomHalf int
	OpponentBottom3    int
	OpponentRelegation int

	CongestionPenalty int

	KeyInjuryPenalty int
	MaxKeyInjuries   int

	BadWeatherPenalty  int
	WeatherImpactLimit float64
	RainLimitMM        float64
	WindSpeedLimit     float64

	PredictionHighConf int
	PredictionMedConf  int

	UltraDominanceBonus  int
	StrongDominanceBonus int

	CleanSheetBonus int
	CleanSheetFloor float64

	VenueWeaknessBonus int
	VenueWeaknessFloor float64

	// Market recommendation tiers.
	OutrightWinFloor  int
	DoubleChanceFloor int
	OverGoalsRate     float64

	// Confidence grading tiers.
	VeryHighFloor int
	HighFloor     int
}

// ThresholdTunables controls the minimum break-even odds derivation.
// ReferenceLegs is fixed at 4 by design: it standardizes "value" across
// picks regardless of how many legs they eventually join.
type ThresholdTunables struct {
	ReferenceLegs int
	Margin        float64
	MinWinProb    float64
	MaxWinProb    float64

	// Venue blend: winRate*(1-VenueWeight) + venueRate*VenueWeight.
	VenueWeight float64

	// Opponent strength multipliers on the estimated win probability.
	WeakOpponentBoost  float64
	UpperTablePenalty  float64
	TopThreePenalty    float64

	// Prediction confidence blend weight when an external prediction exists.
	PredictionWeight float64
}

// SearchTunables bounds the combination search and controls combo scoring.
type SearchTunables struct {
	PoolSizeConservative int
	PoolSizeModerate     int
	PoolSizeAggressive   int

	// ExhaustiveLimit is the binomial-coefficient ceiling above which the
	// search falls back to the bounded greedy neighborhood.
	ExhaustiveLimit  int
	GreedyMaxResults int
	MaxCombos        int

	// Safety-to-probability calibration: p = Base + Slope*safety/100,
	// clamped to [Floor, Cap].
	CalibrationBase  float64
	CalibrationSlope float64
	CalibrationFloor float64
	CalibrationCap   float64

	// BookmakerMargin discounts the fair price when estimating leg odds.
	BookmakerMargin float64

	ModerateEVFloor float64
	EVTieEpsilon    float64

	// Risk classification bounds.
	ConservativeMaxLegs int
	ConservativeMinProb float64
	ModerateMaxLegs     int
	ModerateMinProb     float64

	// Stake sizing (percent of bankroll).
	StakeConservative float64
	StakeModerate     float64
	StakeAggressive   float64
	StrongEVBoost     float64
	StrongEVFloor     float64
	ModestEVBoost     float64
	ModestEVFloor     float64
	StakeMinPct       float64
	StakeMaxPct       float64
}

// SeasonTunables controls the season projection defaults.
type SeasonTunables struct {
	CombosPerWeek    float64
	WeeksInSeason    int
	MinLegProb       float64
	MaxLegProb       float64
	RecoverySentinel int
}

// DefaultTunables returns the production tuning.
func DefaultTunables() Tunables {
	return Tunables{
		Dominance: DominanceTunables{
			UltraWinRate:     0.92,
			StrongWinRate:    0.85,
			ModerateWinRate:  0.75,
			MinMatchesPlayed: 5,
			WinRateWeight:    0.40,
			PPGWeight:        0.20,
			GoalDiffWeight:   0.15,
			FormWeight:       0.15,
			CleanSheetWeight: 0.10,
		},
		Form: FormTunables{
			Weights:      [5]float64{1.0, 0.85, 0.70, 0.55, 0.40},
			WinValue:     1.0,
			DrawValue:    0.35,
			LossValue:    0.0,
			NeutralScore: 0.5,
		},
		Safety: SafetyTunables{
			Base:                 60,
			HomeAdvantage:        10,
			FormLossPenalty:      -20,
			FormDrawPenalty:      -8,
			OpponentTop3:         -18,
			OpponentTop6:         -10,
			OpponentBottomHalf:   6,
			OpponentBottom3:      12,
			OpponentRelegation:   15,
			CongestionPenalty:    -15,
			KeyInjuryPenalty:     -10,
			MaxKeyInjuries:       3,
			BadWeatherPenalty:    -5,
			WeatherImpactLimit:   0.5,
			RainLimitMM:          5,
			WindSpeedLimit:       12,
			PredictionHighConf:   8,
			PredictionMedConf:    4,
			UltraDominanceBonus:  8,
			StrongDominanceBonus: 4,
			CleanSheetBonus:      5,
			CleanSheetFloor:      0.5,
			VenueWeaknessBonus:   6,
			VenueWeaknessFloor:   0.25,
			OutrightWinFloor:     65,
			DoubleChanceFloor:    50,
			OverGoalsRate:        1.5,
			VeryHighFloor:        80,
			HighFloor:            70,
		},
		Threshold: ThresholdTunables{
			ReferenceLegs:     4,
			Margin:            0.05,
			MinWinProb:        0.30,
			MaxWinProb:        0.99,
			VenueWeight:       0.6,
			WeakOpponentBoost: 1.05,
			UpperTablePenalty: 0.95,
			TopThreePenalty:   0.88,
			PredictionWeight:  0.30,
		},
		Search: SearchTunables{
			PoolSizeConservative: 8,
			PoolSizeModerate:     10,
			PoolSizeAggressive:   15,
			ExhaustiveLimit:      5000,
			GreedyMaxResults:     100,
			MaxCombos:            20,
			CalibrationBase:      0.5,
			CalibrationSlope:     0.45,
			CalibrationFloor:     0.5,
			CalibrationCap:       0.97,
			BookmakerMargin:      0.95,
			ModerateEVFloor:      -0.10,
			EVTieEpsilon:         0.01,
			ConservativeMaxLegs:  3,
			ConservativeMinProb:  0.6,
			ModerateMaxLegs:      4,
			ModerateMinProb:      0.4,
			StakeConservative:    2.0,
			StakeModerate:        1.0,
			StakeAggressive:      0.5,
			StrongEVBoost:        1.3,
			StrongEVFloor:        0.15,
			ModestEVBoost:        1.1,
			ModestEVFloor:        0.05,
			StakeMinPct:          0.25,
			StakeMaxPct:          3.0,
		},
		Season: SeasonTunables{
			CombosPerWeek:    2,
			WeeksInSeason:    38,
			MinLegProb:       0.01,
			MaxLegProb:       0.99,
			RecoverySentinel: 999,
		},
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
