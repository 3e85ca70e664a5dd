package stats

import (
	"math"
	"testing"

	"blackjack-trainer/internal/game"
)

func fullComp(decks int) [11]int {
	var comp [11]int
	comp[1] = 4 * decks
	for v := 2; v <= 9; v++ {
		comp[v] = 4 * decks
	}
	comp[10] = 16 * decks
	return comp
}

func removeValue(comp [11]int, v int) [11]int {
	comp[v]--
	return comp
}

func TestDealerDistributionSumsToOne(t *testing.T) {
	for _, hitSoft17 := range []bool{false, true} {
		for up := 2; up <= 11; up++ {
			comp := fullComp(1)
			if up == 11 {
				comp = removeValue(comp, 1)
			} else {
				comp = removeValue(comp, up)
			}
			dist, err := DealerDistribution(up, comp, hitSoft17)
			if err != nil {
				t.Fatalf("upcard %d: %v", up, err)
			}
			if math.Abs(dist.Sum()-1) > 1e-9 {
				t.Fatalf("upcard %d h17=%v: sum = %.12f", up, hitSoft17, dist.Sum())
			}
		}
	}
}

func TestDealerDistributionMatchesInfiniteDeck(t *testing.T) {
	// A full six-deck shoe should land within a few tenths of a percent of
	// the infinite-deck tables. Only the two-through-nine rows are
	// compared here.
	for up := 2; up <= 9; up++ {
		comp := fullComp(6)
		if up == 11 {
			comp = removeValue(comp, 1)
		} else {
			comp = removeValue(comp, up)
		}
		exact, err := DealerDistribution(up, comp, false)
		if err != nil {
			t.Fatalf("exact: %v", err)
		}
		approx, err := InfiniteDeckDistribution(up, false)
		if err != nil {
			t.Fatalf("table: %v", err)
		}
		pairs := []struct {
			name string
			a, b float64
		}{
			{"bust", exact.Bust, approx.Bust},
			{"17", exact.Seventeen, approx.Seventeen},
			{"18", exact.Eighteen, approx.Eighteen},
			{"19", exact.Nineteen, approx.Nineteen},
			{"20", exact.Twenty, approx.Twenty},
			{"21", exact.TwentyOne, approx.TwentyOne},
			{"bj", exact.Blackjack, approx.Blackjack},
		}
		for _, p := range pairs {
			if math.Abs(p.a-p.b) > 0.004 {
				t.Fatalf("upcard %d %s: exact %.4f vs table %.4f", up, p.name, p.a, p.b)
			}
		}
	}
}

func TestInfiniteTablesNormalized(t *testing.T) {
	for up := 2; up <= 11; up++ {
		for _, h17 := range []bool{false, true} {
			d, err := InfiniteDeckDistribution(up, h17)
			if err != nil {
				t.Fatalf("upcard %d: %v", up, err)
			}
			if math.Abs(d.Sum()-1) > 0.002 {
				t.Fatalf("upcard %d h17=%v: table sums to %.4f", up, h17, d.Sum())
			}
		}
	}
}

func TestDealerBustRankOrder(t *testing.T) {
	// Bust probability should peak against a six and bottom out against
	// an ace.
	comp5 := removeValue(fullComp(6), 5)
	comp6 := removeValue(fullComp(6), 6)
	compA := removeValue(fullComp(6), 1)
	d5, _ := DealerDistribution(5, comp5, false)
	d6, _ := DealerDistribution(6, comp6, false)
	dA, _ := DealerDistribution(11, compA, false)
	if d6.Bust <= d5.Bust-0.01 {
		t.Fatalf("bust(6)=%.4f should be at least bust(5)=%.4f", d6.Bust, d5.Bust)
	}
	if dA.Bust >= d6.Bust {
		t.Fatalf("bust(A)=%.4f should be below bust(6)=%.4f", dA.Bust, d6.Bust)
	}
}

func TestEVStandOrdering(t *testing.T) {
	comp := removeValue(fullComp(6), 10)
	e, err := newEvaluator(10, comp, false)
	if err != nil {
		t.Fatalf("newEvaluator: %v", err)
	}
	twenty := e.stand(20)
	sixteen := e.stand(16)
	if twenty <= sixteen {
		t.Fatalf("EV(stand 20)=%.4f should beat EV(stand 16)=%.4f", twenty, sixteen)
	}
	if sixteen > -0.4 || sixteen < -0.7 {
		t.Fatalf("EV(stand 16 vs 10) = %.4f, expected deep negative", sixteen)
	}
}

func TestEVHitBeatsStandOnLowTotals(t *testing.T) {
	comp := removeValue(fullComp(6), 10)
	e, err := newEvaluator(10, comp, false)
	if err != nil {
		t.Fatalf("newEvaluator: %v", err)
	}
	hit := e.hit(11, false)
	stand := e.stand(11)
	if hit <= stand {
		t.Fatalf("hitting 11 (%.4f) must beat standing (%.4f)", hit, stand)
	}
}

func TestEVForHandSurrenderConstant(t *testing.T) {
	h := &game.Hand{}
	for _, s := range []string{"Ts", "6d"} {
		c, _ := game.ParseCard(s)
		h.Add(c)
	}
	comp := removeValue(fullComp(1), 10)
	comp = removeValue(comp, 10)
	comp = removeValue(comp, 6)
	evs, err := EVForHand(h, 10, comp, game.VegasStrip(), true, false, true)
	if err != nil {
		t.Fatalf("EVForHand: %v", err)
	}
	if evs.Surrender == nil || *evs.Surrender != -0.5 {
		t.Fatalf("surrender EV = %v, want -0.5", evs.Surrender)
	}
	if evs.Split != nil {
		t.Fatal("split EV offered for a non-pair")
	}
	// 16 vs 10: both options are bad, surrender is the least bad.
	if evs.Stand > *evs.Surrender && evs.Hit > *evs.Surrender {
		t.Fatalf("16 vs 10 stand %.4f hit %.4f should not both beat surrender", evs.Stand, evs.Hit)
	}
}

func TestHouseEdgeBaselines(t *testing.T) {
	// Six-deck S17 DAS with late surrender is the 0.42% reference game.
	if got := HouseEdge(game.VegasStrip()); math.Abs(got-0.0042) > 1e-9 {
		t.Fatalf("VegasStrip edge = %.4f%%, want 0.42%%", got*100)
	}
	// H17 costs 0.22%.
	if got := HouseEdge(game.DowntownVegas()); math.Abs(got-0.0064) > 1e-9 {
		t.Fatalf("DowntownVegas edge = %.4f%%, want 0.64%%", got*100)
	}
	// 6:5 blackjack is the big one.
	r := game.VegasStrip()
	r.BlackjackPayout = game.PayoutSixToFive
	if got := HouseEdge(r); math.Abs(got-0.0181) > 1e-9 {
		t.Fatalf("6:5 edge = %.4f%%, want 1.81%%", got*100)
	}
}

func TestHouseEdgeWithinBounds(t *testing.T) {
	decks := []int{1, 2, 4, 6, 8}
	for _, d := range decks {
		for _, h17 := range []bool{false, true} {
			for _, das := range []bool{false, true} {
				for _, sur := range []game.SurrenderRule{game.SurrenderNone, game.SurrenderLate, game.SurrenderEarly} {
					for _, payout := range []game.BlackjackPayout{game.PayoutThreeToTwo, game.PayoutSixToFive, game.PayoutEvenMoney} {
						r := game.VegasStrip()
						r.NumDecks = d
						r.DealerHitsSoft17 = h17
						r.DoubleAfterSplit = das
						r.Surrender = sur
						r.BlackjackPayout = payout
						edge := HouseEdge(r)
						if edge < -0.02 || edge > 0.05 {
							t.Fatalf("edge %.4f out of bounds for %+v", edge, r)
						}
					}
				}
			}
		}
	}
}

func TestKellyScenario(t *testing.T) {
	// edge 1%, bankroll 10,000, half Kelly: about 37.81.
	got := Kelly(0.01, 10000, 0.5)
	if math.Abs(got-37.8072) > 0.01 {
		t.Fatalf("Kelly = %.4f, want about 37.81", got)
	}
	if Kelly(-0.01, 10000, 0.5) != 0 {
		t.Fatal("negative edge must recommend nothing")
	}
}

func TestRiskOfRuin(t *testing.T) {
	want := math.Exp(-2 * 0.01 * 1000 / Variance)
	if got := RiskOfRuin(0.01, 1000); math.Abs(got-want) > 1e-12 {
		t.Fatalf("RoR = %v, want %v", got, want)
	}
	if RiskOfRuin(0, 1000) != 1 {
		t.Fatal("no edge means certain ruin")
	}
	if RiskOfRuin(0.01, 5000) >= RiskOfRuin(0.01, 500) {
		t.Fatal("bigger bankroll must lower the risk")
	}
}

func TestAnalyzeBankroll(t *testing.T) {
	rep := AnalyzeBankroll(1000000, 1000, 0.01)
	want := math.Exp(-2 * 0.01 * 1000 / Variance)
	if math.Abs(rep.Probability-want) > 1e-12 {
		t.Fatalf("probability = %v, want %v", rep.Probability, want)
	}
	if rep.HandsToDouble != 100000 {
		t.Fatalf("hands to double = %d, want 100000", rep.HandsToDouble)
	}
	if unit := RecommendedUnit(1000000, 8, 400); unit != 312 {
		t.Fatalf("unit = %d, want 312", unit)
	}
	if sl := SessionStopLoss(1000000, 0.1); sl != 100000 {
		t.Fatalf("stop loss = %d, want 100000", sl)
	}
}

func TestNZero(t *testing.T) {
	if got := NZero(0.01); math.Abs(got-13225) > 1e-6 {
		t.Fatalf("N0 = %v, want 13225", got)
	}
}

func TestBetSpread(t *testing.T) {
	cases := []struct {
		tc   float64
		want int64
	}{
		{-1, 1000},
		{0.5, 1000},
		{1, 1000},
		{2, 2000},
		{3, 3000},
		{12, 8000}, // capped at the spread
	}
	for _, tc := range cases {
		if got := BetSpread(tc.tc, 1000, 8, 1); got != tc.want {
			t.Fatalf("BetSpread(TC %v) = %d, want %d", tc.tc, got, tc.want)
		}
	}
}

func TestPlayerBustProbability(t *testing.T) {
	if got := PlayerBustProbability(11); got != 0 {
		t.Fatalf("11 can never bust, got %v", got)
	}
	if got := PlayerBustProbability(12); math.Abs(got-4.0/13) > 1e-12 {
		t.Fatalf("bust(12) = %v, want 4/13", got)
	}
	if got := PlayerBustProbability(16); math.Abs(got-8.0/13) > 1e-12 {
		t.Fatalf("bust(16) = %v, want 8/13", got)
	}
	if got := PlayerBustProbability(21); got != 1 {
		t.Fatalf("bust(21) = %v, want 1", got)
	}
}
