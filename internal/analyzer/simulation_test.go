package analyzer

import (
	"math"
	"testing"
)

func TestSimulateSeason_BaselineProjection(t *testing.T) {
	tun := DefaultTunables().Season

	sim := SimulateSeason(0.8, 3, 2.0, 2, 38, tun)

	// comboWinProb = 0.8^3 = 0.512 over 76 combos.
	if math.Abs(sim.ExpectedWins-38.91) > 0.01 {
		t.Fatalf("expected wins ~38.91, got %f", sim.ExpectedWins)
	}
	if math.Abs(sim.ExpectedLosses-37.09) > 0.01 {
		t.Fatalf("expected losses ~37.09, got %f", sim.ExpectedLosses)
	}
	if math.Abs(sim.ExpectedWins+sim.ExpectedLosses-76) > 0.01 {
		t.Fatalf("wins+losses must equal total combos, got %f", sim.ExpectedWins+sim.ExpectedLosses)
	}
	if sim.BreakEvenRate != 0.5 {
		t.Fatalf("break-even rate must be 1/odds, got %f", sim.BreakEvenRate)
	}
	// ROI = (0.512*76*2 - 76)/76 * 100 = 2.4%
	if math.Abs(sim.ProjectedROI-2.4) > 0.01 {
		t.Fatalf("expected ROI 2.4, got %f", sim.ProjectedROI)
	}
	// Streak: ceil(ln(76)/ln(1/0.488)) = 7.
	if sim.MaxConsecutiveLosses != 7 {
		t.Fatalf("expected max streak 7, got %d", sim.MaxConsecutiveLosses)
	}
	// One win at 2.0 odds recovers one lost unit.
	if sim.RecoveryBetsAfterLoss != 1 {
		t.Fatalf("expected 1 recovery bet, got %d", sim.RecoveryBetsAfterLoss)
	}
}

func TestSimulateSeason_LegProbabilityClamped(t *testing.T) {
	tun := DefaultTunables().Season

	high := SimulateSeason(1.5, 4, 3.0, 2, 38, tun)
	capped := SimulateSeason(tun.MaxLegProb, 4, 3.0, 2, 38, tun)
	if high.ExpectedWins != capped.ExpectedWins {
		t.Fatalf("per-leg probability above 1 must clamp to %f", tun.MaxLegProb)
	}

	low := SimulateSeason(-0.2, 4, 3.0, 2, 38, tun)
	floored := SimulateSeason(tun.MinLegProb, 4, 3.0, 2, 38, tun)
	if low.ExpectedWins != floored.ExpectedWins {
		t.Fatalf("negative per-leg probability must clamp to %f", tun.MinLegProb)
	}
}

func TestSimulateSeason_RecoverySaturation(t *testing.T) {
	tun := DefaultTunables().Season

	// At or below evens there is no finite recovery.
	evens := SimulateSeason(0.8, 3, 1.0, 2, 38, tun)
	if evens.RecoveryBetsAfterLoss != tun.RecoverySentinel {
		t.Fatalf("expected sentinel %d, got %d", tun.RecoverySentinel, evens.RecoveryBetsAfterLoss)
	}

	sub := SimulateSeason(0.8, 3, 0.5, 2, 38, tun)
	if sub.RecoveryBetsAfterLoss != tun.RecoverySentinel {
		t.Fatalf("expected sentinel below evens, got %d", sub.RecoveryBetsAfterLoss)
	}

	// Long odds recover in a single win.
	long := SimulateSeason(0.8, 3, 5.0, 2, 38, tun)
	if long.RecoveryBetsAfterLoss != 1 {
		t.Fatalf("expected 1 recovery bet at 5.0 odds, got %d", long.RecoveryBetsAfterLoss)
	}
}

func TestSimulateSeason_StreakBounds(t *testing.T) {
	tun := DefaultTunables().Season

	// Near-certain legs: losing streak collapses toward zero.
	sure := SimulateSeason(0.99, 1, 1.5, 2, 38, tun)
	if sure.MaxConsecutiveLosses < 0 {
		t.Fatalf("streak must be non-negative, got %d", sure.MaxConsecutiveLosses)
	}

	// Hopeless legs: streak approaches the full season.
	hopeless := SimulateSeason(0.01, 6, 10.0, 2, 38, tun)
	if hopeless.MaxConsecutiveLosses <= 0 || hopeless.MaxConsecutiveLosses > 76 {
		t.Fatalf("streak out of bounds: %d", hopeless.MaxConsecutiveLosses)
	}
}

func TestSimulateSeason_ZeroOdds(t *testing.T) {
	tun := DefaultTunables().Season
	sim := SimulateSeason(0.8, 3, 0, 2, 38, tun)
	if sim.BreakEvenRate != 1 {
		t.Fatalf("zero odds must saturate break-even rate to 1, got %f", sim.BreakEvenRate)
	}
}
