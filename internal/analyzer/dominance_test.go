package analyzer

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/yourusername/acca-engine/internal/models"
)

func standingRow(won, drawn, lost int, form string) models.Standing {
	played := won + drawn + lost
	return models.Standing{
		ID:           uuid.New(),
		TeamID:       uuid.New(),
		TeamName:     "Team",
		LeagueID:     uuid.New(),
		LeagueName:   "League",
		Season:       "2025",
		Position:     1,
		LeagueSize:   20,
		Played:       played,
		Won:          won,
		Drawn:        drawn,
		Lost:         lost,
		GoalsFor:     won * 3,
		GoalsAgainst: lost,
		FormLast5:    form,
		HomePlayed:   played / 2,
		HomeWon:      won / 2,
		AwayPlayed:   played - played/2,
		AwayWon:      won - won/2,
		CleanSheets:  played / 2,
	}
}

func TestClassifyDominance_ThresholdBoundaries(t *testing.T) {
	tun := DefaultTunables()

	tests := []struct {
		name      string
		won       int
		drawn     int
		lost      int
		wantLevel models.DominanceLevel
		excluded  bool
	}{
		{"ultra at exact threshold", 23, 2, 0, models.DominanceUltra, false}, // 23/25 = 0.92
		{"strong below ultra", 9, 1, 0, models.DominanceStrong, false},      // 0.90 < 0.92
		{"strong at exact threshold", 17, 3, 0, models.DominanceStrong, false}, // 17/20 = 0.85
		{"moderate at exact threshold", 15, 5, 0, models.DominanceModerate, false}, // 0.75
		{"below moderate excluded", 14, 6, 0, models.DominanceNone, true}, // 0.70
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := standingRow(tt.won, tt.drawn, tt.lost, "WWWWW")
			profiles := ClassifyDominantTeams([]models.Standing{row}, tun)
			if tt.excluded {
				if len(profiles) != 0 {
					t.Fatalf("expected exclusion, got %d profiles", len(profiles))
				}
				return
			}
			if len(profiles) != 1 {
				t.Fatalf("expected 1 profile, got %d", len(profiles))
			}
			if profiles[0].DominanceLevel != tt.wantLevel {
				t.Fatalf("expected level %s, got %s", tt.wantLevel, profiles[0].DominanceLevel)
			}
		})
	}
}

// A team winning 9 of 10 sits at a 0.90 win rate, below the 0.92 ultra
// threshold, and must classify as strong.
func TestClassifyDominance_NineOfTenIsStrong(t *testing.T) {
	row := standingRow(9, 1, 0, "WWWWW")
	row.PPG = 2.9

	profiles := ClassifyDominantTeams([]models.Standing{row}, DefaultTunables())
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	p := profiles[0]
	if p.DominanceLevel != models.DominanceStrong {
		t.Fatalf("expected strong, got %s", p.DominanceLevel)
	}
	if math.Abs(p.WinRate-0.9) > 1e-9 {
		t.Fatalf("expected win rate 0.9, got %f", p.WinRate)
	}
	if math.Abs(p.WinRate+p.DrawRate+p.LossRate-1) > 1e-9 {
		t.Fatalf("rates should sum to 1, got %f", p.WinRate+p.DrawRate+p.LossRate)
	}
}

func TestClassifyDominance_MinimumSample(t *testing.T) {
	row := standingRow(4, 0, 0, "WWWW")
	profiles := ClassifyDominantTeams([]models.Standing{row}, DefaultTunables())
	if len(profiles) != 0 {
		t.Fatalf("teams with fewer than 5 matches must be excluded, got %d", len(profiles))
	}
}

func TestClassifyDominance_ScoreRangeAndOrder(t *testing.T) {
	rows := []models.Standing{
		standingRow(15, 5, 0, "WDWWD"),
		standingRow(23, 2, 0, "WWWWW"),
		standingRow(17, 3, 0, "WWDWW"),
	}

	profiles := ClassifyDominantTeams(rows, DefaultTunables())
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
	for i, p := range profiles {
		if p.DominanceScore < 0 || p.DominanceScore > 100 {
			t.Fatalf("dominance score out of range: %f", p.DominanceScore)
		}
		if i > 0 && profiles[i-1].DominanceScore < p.DominanceScore {
			t.Fatalf("profiles not sorted descending at index %d", i)
		}
	}
}

func TestClassifyDominance_MissingOptionalFieldsDefault(t *testing.T) {
	row := standingRow(9, 1, 0, "")
	row.PPG = 0
	row.CleanSheets = 0
	row.AvgGoalsScored = 0
	row.AvgGoalsConceded = 0
	row.HomePlayed = 0
	row.AwayPlayed = 0

	profiles := ClassifyDominantTeams([]models.Standing{row}, DefaultTunables())
	if len(profiles) != 1 {
		t.Fatalf("missing optional fields must not exclude the team")
	}
	p := profiles[0]
	// Splits fall back to the overall win rate, averages derive from goals.
	if p.HomeWinRate != p.WinRate || p.AwayWinRate != p.WinRate {
		t.Fatalf("expected venue rates to fall back to overall win rate")
	}
	if p.AvgGoalsScored != 2.7 {
		t.Fatalf("expected derived avg goals scored 2.7, got %f", p.AvgGoalsScored)
	}
}

func TestFormScore(t *testing.T) {
	tun := DefaultTunables().Form

	tests := []struct {
		form string
		want float64
	}{
		{"", 0.5},
		{"WWWWW", 1.0},
		{"LLLLL", 0.0},
		{"W", 1.0},
		{"DDDDD", 0.35},
		{"WD", (1.0*1.0 + 0.35*0.85) / 1.85},
	}

	for _, tt := range tests {
		got := FormScore(tt.form, tun)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("FormScore(%q) = %f, want %f", tt.form, got, tt.want)
		}
	}
}

// A recent win must weigh roughly 2.5x the fifth-most-recent result.
func TestFormScore_RecencyWeighting(t *testing.T) {
	tun := DefaultTunables().Form
	recentWin := FormScore("WLLLL", tun)
	oldWin := FormScore("LLLLW", tun)
	if recentWin <= oldWin {
		t.Fatalf("recent win (%f) should outweigh old win (%f)", recentWin, oldWin)
	}
	if math.Abs(recentWin/oldWin-2.5) > 0.01 {
		t.Fatalf("expected ~2.5x recency ratio, got %f", recentWin/oldWin)
	}
}
