package stats

import "blackjack-trainer/internal/game"

// Rule effects on house edge, in percentage points. Positive raises the
// edge. The baseline is six decks, S17, 3:2, DAS, no surrender.
const (
	baselineEdgePct = 0.50

	effectSingleDeck = -0.48
	effectDoubleDeck = -0.19
	effectFourDeck   = -0.06
	effectEightDeck  = 0.02

	effectH17 = 0.22

	effectBJ65 = 1.39
	effectBJ11 = 2.27

	effectNoDAS        = 0.14
	effectDouble1011   = 0.18
	effectDouble911    = 0.09
	effectResplitAces  = -0.08
	effectHitSplitAces = -0.19

	effectLateSurrender  = -0.08
	effectEarlySurrender = -0.39

	effectNoPeek = 0.11
)

// HouseEdge returns the house advantage for a rule set as a fraction
// (0.0042 is 0.42%). Negative means the bare rules favor the player.
func HouseEdge(rules game.RuleSet) float64 {
	edge := baselineEdgePct

	switch rules.NumDecks {
	case 1:
		edge += effectSingleDeck
	case 2:
		edge += effectDoubleDeck
	case 4:
		edge += effectFourDeck
	case 8:
		edge += effectEightDeck
	}

	if rules.DealerHitsSoft17 {
		edge += effectH17
	}

	switch rules.BlackjackPayout {
	case game.PayoutSixToFive:
		edge += effectBJ65
	case game.PayoutEvenMoney:
		edge += effectBJ11
	}

	if !rules.DoubleAfterSplit {
		edge += effectNoDAS
	}
	switch rules.DoubleOn {
	case game.DoubleTenEleven:
		edge += effectDouble1011
	case game.DoubleNineToEleven:
		edge += effectDouble911
	}

	if rules.ResplitAces {
		edge += effectResplitAces
	}
	if rules.HitSplitAces {
		edge += effectHitSplitAces
	}

	switch rules.Surrender {
	case game.SurrenderLate:
		edge += effectLateSurrender
	case game.SurrenderEarly:
		edge += effectEarlySurrender
	}

	if !rules.DealerPeeks {
		edge += effectNoPeek
	}

	return edge / 100
}

// PlayerEdge is the player's advantage at a true count: each point is
// worth about half a percent against the base house edge.
func PlayerEdge(rules game.RuleSet, trueCount float64) float64 {
	const perTC = 0.005
	return trueCount*perTC - HouseEdge(rules)
}
