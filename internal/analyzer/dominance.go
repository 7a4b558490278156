package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/yourusername/acca-engine/internal/models"
)

// ClassifyDominantTeams analyzes one league's standings and returns a
// profile for every team that reaches at least moderate dominance, sorted
// by dominance score descending. Teams with fewer than the minimum matches
// played are excluded as insufficient sample; missing optional fields
// default to derived or zero values rather than excluding the team.
func ClassifyDominantTeams(standings []models.Standing, tun Tunables) []models.DominanceProfile {
	profiles := make([]models.DominanceProfile, 0, len(standings))

	for i := range standings {
		row := &standings[i]
		if row.Played < tun.Dominance.MinMatchesPlayed {
			continue
		}

		winRate := row.WinRate()
		level := classifyDominance(winRate, tun.Dominance)
		if level == models.DominanceNone {
			continue
		}

		played := float64(row.Played)
		drawRate := float64(row.Drawn) / played
		lossRate := float64(row.Lost) / played
		goalDiff := row.GoalsFor - row.GoalsAgainst
		ppg := row.PointsPerGame()
		formScore := FormScore(row.FormLast5, tun.Form)
		cleanSheetPct := float64(row.CleanSheets) / played

		avgScored := row.AvgGoalsScored
		if avgScored == 0 {
			avgScored = float64(row.GoalsFor) / played
		}
		avgConceded := row.AvgGoalsConceded
		if avgConceded == 0 {
			avgConceded = float64(row.GoalsAgainst) / played
		}

		profiles = append(profiles, models.DominanceProfile{
			TeamID:           row.TeamID,
			TeamName:         row.TeamName,
			LeagueID:         row.LeagueID,
			LeagueName:       row.LeagueName,
			Season:           row.Season,
			DominanceLevel:   level,
			DominanceScore:   dominanceScore(winRate, ppg, goalDiff, played, formScore, cleanSheetPct, tun.Dominance),
			WinRate:          winRate,
			HomeWinRate:      row.HomeWinRate(),
			AwayWinRate:      row.AwayWinRate(),
			LossRate:         lossRate,
			DrawRate:         drawRate,
			PPG:              ppg,
			GoalDifference:   goalDiff,
			FormLast5:        row.FormLast5,
			FormScore:        formScore,
			AvgGoalsScored:   avgScored,
			AvgGoalsConceded: avgConceded,
			CleanSheetPct:    cleanSheetPct,
			UpdatedAt:        time.Now().UTC(),
		})
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].DominanceScore > profiles[j].DominanceScore
	})

	return profiles
}

// FormScore converts a form string ("WWDWL", most recent first) into a
// recency-weighted 0-1 score. Short histories are normalized by the weight
// actually used; an empty history scores neutral.
func FormScore(form string, tun FormTunables) float64 {
	if len(form) == 0 {
		return tun.NeutralScore
	}

	totalWeight := 0.0
	totalScore := 0.0
	for i := 0; i < len(form) && i < len(tun.Weights); i++ {
		w := tun.Weights[i]
		var pts float64
		switch form[i] {
		case 'W', 'w':
			pts = tun.WinValue
		case 'D', 'd':
			pts = tun.DrawValue
		default:
			pts = tun.LossValue
		}
		totalScore += pts * w
		totalWeight += w
	}

	if totalWeight <= 0 {
		return tun.NeutralScore
	}
	return totalScore / totalWeight
}

func classifyDominance(winRate float64, tun DominanceTunables) models.DominanceLevel {
	switch {
	case winRate >= tun.UltraWinRate:
		return models.DominanceUltra
	case winRate >= tun.StrongWinRate:
		return models.DominanceStrong
	case winRate >= tun.ModerateWinRate:
		return models.DominanceModerate
	default:
		return models.DominanceNone
	}
}

// dominanceScore computes the 0-100 composite rating. Goal differential per
// game in [-1,+3] maps onto [0,1]; PPG is normalized against the 3-point
// maximum. Both are clamped before weighting, the result after.
func dominanceScore(winRate, ppg float64, goalDiff int, played, formScore, cleanSheetPct float64, tun DominanceTunables) float64 {
	ppgNorm := clamp(ppg/3.0, 0, 1)

	gdPerGame := 0.0
	if played > 0 {
		gdPerGame = float64(goalDiff) / played
	}
	gdNorm := clamp((gdPerGame+1)/4, 0, 1)

	raw := winRate*tun.WinRateWeight +
		ppgNorm*tun.PPGWeight +
		gdNorm*tun.GoalDiffWeight +
		formScore*tun.FormWeight +
		cleanSheetPct*tun.CleanSheetWeight

	return clamp(math.Round(raw*1000)/10, 0, 100)
}
