package stats

import "math"

// RuinReport bundles the bankroll risk figures the trainer displays.
type RuinReport struct {
	Probability          float64 `json:"probability"`
	HandsToDouble        int     `json:"hands_to_double"`
	NZero                float64 `json:"n_zero"`
	RecommendedUnitCents int64   `json:"recommended_unit_cents,omitempty"`
}

// AnalyzeBankroll summarizes risk for a bankroll (cents) played at an
// average bet (cents) with the given edge.
func AnalyzeBankroll(bankrollCents, avgBetCents int64, edge float64) RuinReport {
	if avgBetCents <= 0 {
		avgBetCents = 1
	}
	units := float64(bankrollCents) / float64(avgBetCents)
	rep := RuinReport{
		Probability: RiskOfRuin(edge, units),
		NZero:       NZero(edge),
	}
	if edge > 0 {
		rep.HandsToDouble = int(units / edge)
	}
	return rep
}

// RecommendedUnit sizes the betting unit so the bankroll holds
// bankrollUnits top bets at the given spread.
func RecommendedUnit(bankrollCents int64, maxSpread int, bankrollUnits int) int64 {
	if maxSpread < 1 || bankrollUnits < 1 {
		return 0
	}
	unit := float64(bankrollCents) / float64(bankrollUnits) / float64(maxSpread)
	return int64(math.Floor(unit))
}

// SessionStopLoss is the conventional fraction of bankroll risked in one
// sitting.
func SessionStopLoss(bankrollCents int64, fraction float64) int64 {
	if fraction <= 0 || fraction >= 1 {
		fraction = 0.1
	}
	return int64(float64(bankrollCents) * fraction)
}
