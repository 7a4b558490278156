package analyzer

import (
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/acca-engine/internal/models"
)

// SearchOptions bounds one combination search. Zero values fall back to
// the defaults below.
type SearchOptions struct {
	MinLegs    int
	MaxLegs    int
	MinSafety  int
	MaxRisk    models.RiskLevel
	TargetOdds float64
	ComboDate  time.Time
}

// Search defaults, matching the moderate tier.
const (
	defaultMinLegs   = 3
	defaultMaxLegs   = 5
	defaultMinSafety = 70
)

// BuildCombos enumerates or samples valid multi-leg combinations from a
// pool of scored picks and returns them scored and ranked by expected
// value. The search is deterministic for identical inputs: the pool is an
// explicitly ordered slice and neither subset generation nor the greedy
// fallback depends on map iteration order.
func BuildCombos(picks []models.AccumulatorPick, opts SearchOptions, tun Tunables) []models.AccumulatorCombo {
	if opts.MinLegs <= 0 {
		opts.MinLegs = defaultMinLegs
	}
	if opts.MaxLegs <= 0 {
		opts.MaxLegs = defaultMaxLegs
	}
	if opts.MinSafety <= 0 {
		opts.MinSafety = defaultMinSafety
	}
	if !opts.MaxRisk.Valid() {
		opts.MaxRisk = models.RiskModerate
	}

	eligible := make([]models.AccumulatorPick, 0, len(picks))
	for i := range picks {
		if picks[i].SafetyScore >= opts.MinSafety {
			eligible = append(eligible, picks[i])
		}
	}
	sortPool(eligible)

	if len(eligible) < opts.MinLegs {
		return nil
	}

	// Cap the candidate pool to keep combinatorial growth tractable.
	poolSize := tun.Search.PoolSizeModerate
	switch opts.MaxRisk {
	case models.RiskConservative:
		poolSize = tun.Search.PoolSizeConservative
	case models.RiskAggressive:
		poolSize = tun.Search.PoolSizeAggressive
	}
	if len(eligible) > poolSize {
		eligible = eligible[:poolSize]
	}

	// Cross-league diversification: outside aggressive mode, keep only the
	// highest-safety pick per league so correlated same-league outcomes
	// never share a combo.
	pool := eligible
	if opts.MaxRisk != models.RiskAggressive {
		pool = dedupeByLeague(eligible)
	}

	var combos []models.AccumulatorCombo
	maxLegs := opts.MaxLegs
	if maxLegs > len(pool) {
		maxLegs = len(pool)
	}
	for legs := opts.MinLegs; legs <= maxLegs; legs++ {
		for _, candidate := range generateCombinations(pool, legs, tun.Search) {
			if combo, ok := scoreCombo(candidate, opts, tun); ok {
				combos = append(combos, combo)
			}
		}
	}

	// Rank by expected value descending; near-ties resolve to the safer
	// tier, then to the deterministic combo ID.
	sort.SliceStable(combos, func(i, j int) bool {
		if math.Abs(combos[i].ExpectedValue-combos[j].ExpectedValue) > tun.Search.EVTieEpsilon {
			return combos[i].ExpectedValue > combos[j].ExpectedValue
		}
		if combos[i].RiskLevel != combos[j].RiskLevel {
			return combos[i].RiskLevel.Rank() < combos[j].RiskLevel.Rank()
		}
		return combos[i].ID < combos[j].ID
	})

	if len(combos) > tun.Search.MaxCombos {
		combos = combos[:tun.Search.MaxCombos]
	}
	return combos
}

// sortPool orders picks by safety descending with a fixture-ID tie-break
// so repeat runs produce bit-identical output.
func sortPool(picks []models.AccumulatorPick) {
	sort.SliceStable(picks, func(i, j int) bool {
		if picks[i].SafetyScore != picks[j].SafetyScore {
			return picks[i].SafetyScore > picks[j].SafetyScore
		}
		return picks[i].FixtureID.String() < picks[j].FixtureID.String()
	})
}

// dedupeByLeague keeps the first (highest-safety) pick per league,
// preserving pool order.
func dedupeByLeague(pool []models.AccumulatorPick) []models.AccumulatorPick {
	seen := make(map[string]struct{}, len(pool))
	out := make([]models.AccumulatorPick, 0, len(pool))
	for i := range pool {
		key := pool[i].LeagueID.String()
		if pool[i].LeagueID == uuid.Nil {
			key = pool[i].LeagueName
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, pool[i])
	}
	return out
}

// generateCombinations returns all k-subsets of the pool while the
// binomial coefficient stays within the exhaustive limit, then falls back
// to a bounded greedy neighborhood search. Both paths emit candidates in a
// deterministic order.
func generateCombinations(pool []models.AccumulatorPick, k int, tun SearchTunables) [][]models.AccumulatorPick {
	if k <= 0 || k > len(pool) {
		return nil
	}
	if binomial(len(pool), k) > tun.ExhaustiveLimit {
		return greedyCombinations(pool, k, tun.GreedyMaxResults)
	}

	var results [][]models.AccumulatorPick
	current := make([]models.AccumulatorPick, 0, k)

	var backtrack func(start int)
	backtrack = func(start int) {
		if len(current) == k {
			results = append(results, append([]models.AccumulatorPick(nil), current...))
			return
		}
		for i := start; i < len(pool); i++ {
			current = append(current, pool[i])
			backtrack(i + 1)
			current = current[:len(current)-1]
		}
	}
	backtrack(0)

	return results
}

// binomial computes C(n, k), saturating well above the exhaustive limit.
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k == 0 || k == n {
		return 1
	}
	result := 1.0
	for i := 0; i < k; i++ {
		result = result * float64(n-i) / float64(i+1)
	}
	return int(math.Round(result))
}

// greedyCombinations samples a bounded neighborhood around the top-k seed:
// the seed itself, leave-one-out slides, and swap-one-element variants with
// the next-best picks. The pool is already sorted by safety descending.
func greedyCombinations(pool []models.AccumulatorPick, k, maxResults int) [][]models.AccumulatorPick {
	var results [][]models.AccumulatorPick
	seenKeys := make(map[string]struct{})

	add := func(combo []models.AccumulatorPick) {
		key := comboKey(combo)
		if _, ok := seenKeys[key]; ok {
			return
		}
		seenKeys[key] = struct{}{}
		results = append(results, combo)
	}

	if len(pool) >= k {
		add(append([]models.AccumulatorPick(nil), pool[:k]...))
	}

	// Leave-one-out: drop each leading pick and refill from the remainder.
	slideLimit := k + 5
	if slideLimit > len(pool) {
		slideLimit = len(pool)
	}
	for exclude := 0; exclude < slideLimit && len(results) < maxResults; exclude++ {
		combo := make([]models.AccumulatorPick, 0, k)
		for i := 0; i < len(pool) && len(combo) < k; i++ {
			if i == exclude {
				continue
			}
			combo = append(combo, pool[i])
		}
		if len(combo) == k {
			add(combo)
		}
	}

	// Swap each seed position with the next-best picks outside the seed.
	swapLimit := len(pool) - k
	if swapLimit > 10 {
		swapLimit = 10
	}
	for i := 0; i < swapLimit && len(results) < maxResults; i++ {
		for j := 0; j < k && len(results) < maxResults; j++ {
			combo := append([]models.AccumulatorPick(nil), pool[:k]...)
			combo[j] = pool[k+i]
			sortPool(combo)
			add(combo)
		}
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func comboKey(picks []models.AccumulatorPick) string {
	ids := make([]string, len(picks))
	for i := range picks {
		ids[i] = picks[i].FixtureID.String()
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// comboID derives a short deterministic identifier from the fixture set.
func comboID(picks []models.AccumulatorPick) string {
	h := fnv.New64a()
	h.Write([]byte(comboKey(picks)))
	return "acca_" + strconv.FormatUint(h.Sum64(), 36)
}

// scoreCombo turns a candidate leg set into a scored AccumulatorCombo.
// Returns false when the combo violates the fixture-uniqueness invariant,
// misses the EV floor for the requested tier, or classifies above the risk
// ceiling.
func scoreCombo(picks []models.AccumulatorPick, opts SearchOptions, tun Tunables) (models.AccumulatorCombo, bool) {
	legs := len(picks)

	// No two legs may ride on the same fixture.
	fixtures := make(map[string]struct{}, legs)
	for i := range picks {
		id := picks[i].FixtureID.String()
		if _, dup := fixtures[id]; dup {
			return models.AccumulatorCombo{}, false
		}
		fixtures[id] = struct{}{}
	}

	// Legs are treated as independent: the combined win probability is the
	// plain product of the calibrated per-leg probabilities.
	expectedWinRate := 1.0
	totalOdds := 1.0
	legProbSum := 0.0
	for i := range picks {
		p := LegWinProbability(picks[i].SafetyScore, tun.Search)
		legProbSum += p
		expectedWinRate *= p

		odds := 1 / (p * tun.Search.BookmakerMargin)
		if picks[i].HasOdds() {
			odds = *picks[i].CurrentOdds
		}
		totalOdds *= odds
	}
	totalOdds = math.Round(totalOdds*1000) / 1000

	expectedValue := math.Round((expectedWinRate*totalOdds-1)*10000) / 10000

	// EV floors per requested tier.
	if opts.MaxRisk == models.RiskConservative && expectedValue < 0 {
		return models.AccumulatorCombo{}, false
	}
	if opts.MaxRisk == models.RiskModerate && expectedValue < tun.Search.ModerateEVFloor {
		return models.AccumulatorCombo{}, false
	}

	if opts.TargetOdds > 0 {
		deviation := math.Abs(totalOdds-opts.TargetOdds) / opts.TargetOdds
		if deviation > 0.5 {
			return models.AccumulatorCombo{}, false
		}
	}

	riskLevel := classifyRisk(legs, expectedWinRate, tun.Search)
	if riskLevel.Exceeds(opts.MaxRisk) {
		return models.AccumulatorCombo{}, false
	}

	sim := SimulateSeason(legProbSum/float64(legs), float64(legs), totalOdds,
		tun.Season.CombosPerWeek, tun.Season.WeeksInSeason, tun.Season)

	return models.AccumulatorCombo{
		ID:                comboID(picks),
		ComboDate:         opts.ComboDate,
		Picks:             append([]models.AccumulatorPick(nil), picks...),
		TotalOdds:         totalOdds,
		ExpectedWinRate:   math.Round(expectedWinRate*10000) / 10000,
		ExpectedValue:     expectedValue,
		Legs:              legs,
		RiskLevel:         riskLevel,
		SuggestedStakePct: suggestStake(riskLevel, expectedValue, tun.Search),
		SeasonSimulation:  sim,
	}, true
}

// LegWinProbability maps a safety score to an implied per-leg win
// probability via the calibration p = base + slope*(safety/100), clamped.
// The mapping is monotonic: a higher safety score never yields a lower
// probability.
func LegWinProbability(safety int, tun SearchTunables) float64 {
	p := tun.CalibrationBase + tun.CalibrationSlope*float64(safety)/100
	return clamp(p, tun.CalibrationFloor, tun.CalibrationCap)
}

func classifyRisk(legs int, winProb float64, tun SearchTunables) models.RiskLevel {
	switch {
	case legs <= tun.ConservativeMaxLegs && winProb > tun.ConservativeMinProb:
		return models.RiskConservative
	case legs <= tun.ModerateMaxLegs && winProb > tun.ModerateMinProb:
		return models.RiskModerate
	default:
		return models.RiskAggressive
	}
}

// suggestStake sizes the bankroll fraction from a tier baseline scaled by
// expected value. Kelly-adjacent, not full Kelly.
func suggestStake(risk models.RiskLevel, expectedValue float64, tun SearchTunables) float64 {
	var stake float64
	switch risk {
	case models.RiskConservative:
		stake = tun.StakeConservative
	case models.RiskModerate:
		stake = tun.StakeModerate
	default:
		stake = tun.StakeAggressive
	}

	if expectedValue > tun.StrongEVFloor {
		stake *= tun.StrongEVBoost
	} else if expectedValue > tun.ModestEVFloor {
		stake *= tun.ModestEVBoost
	}

	return math.Round(clamp(stake, tun.StakeMinPct, tun.StakeMaxPct)*100) / 100
}
