// Package strategy holds the basic-strategy charts and the count-indexed
// deviations layered on top of them.
package strategy

import "blackjack-trainer/internal/game"

type Action string

const (
	Hit       Action = "hit"
	Stand     Action = "stand"
	Double    Action = "double"
	Split     Action = "split"
	Surrender Action = "surrender"
)

// entry is one chart cell: a concrete action or a conditional that resolves
// against what the rules and the hand currently permit.
type entry int

const (
	aH  entry = iota // hit
	aS               // stand
	aD               // double, else hit
	aDs              // double, else stand
	aP               // split
	aPd              // split only with DAS, else hit
	aRh              // surrender, else hit
	aRs              // surrender, else stand
	aRp              // surrender, else split
)

type key struct{ total, up int }

// Chart is one resolved rule variant. Both variants are materialized once
// at init and shared read-only across sessions.
type Chart struct {
	hits17 bool
	hard   map[key]entry
	soft   map[key]entry
	pair   map[key]entry
}

var (
	s17Chart = buildChart(false)
	h17Chart = buildChart(true)
)

// ChartFor selects the variant for the rule set's dealer behavior.
func ChartFor(rules game.RuleSet) *Chart {
	if rules.DealerHitsSoft17 {
		return h17Chart
	}
	return s17Chart
}

// Situation classifies a hand for lookup. Upcard uses 11 for the ace.
type Situation struct {
	Total     int
	Soft      bool
	Pair      bool
	PairValue int // pair rank value, 11 for aces
	Upcard    int
}

func FromHand(h *game.Hand, upcard int) Situation {
	sit := Situation{
		Total:  h.Total(),
		Soft:   h.IsSoft(),
		Pair:   h.IsPair(),
		Upcard: upcard,
	}
	if sit.Pair {
		sit.PairValue = h.Cards[0].Value()
	}
	return sit
}

// Allowed captures what the current hand may legally do; conditionals in
// the chart resolve against it.
type Allowed struct {
	Double    bool
	Split     bool
	Surrender bool
	DAS       bool
}

// Action looks up the basic-strategy play. Pairs are consulted first when
// splitting is possible, then soft totals, then hard totals.
func (c *Chart) Action(sit Situation, al Allowed) Action {
	if sit.Pair && al.Split {
		if e, ok := c.pair[key{sit.PairValue, sit.Upcard}]; ok {
			return resolve(e, al)
		}
	}
	if sit.Soft {
		if e, ok := c.soft[key{sit.Total, sit.Upcard}]; ok {
			return resolve(e, al)
		}
	}
	if e, ok := c.hard[key{sit.Total, sit.Upcard}]; ok {
		return resolve(e, al)
	}
	if sit.Total >= 17 {
		return Stand
	}
	return Hit
}

func resolve(e entry, al Allowed) Action {
	switch e {
	case aS:
		return Stand
	case aD:
		if al.Double {
			return Double
		}
		return Hit
	case aDs:
		if al.Double {
			return Double
		}
		return Stand
	case aP:
		if al.Split {
			return Split
		}
		return Hit
	case aPd:
		if al.Split && al.DAS {
			return Split
		}
		return Hit
	case aRh:
		if al.Surrender {
			return Surrender
		}
		return Hit
	case aRs:
		if al.Surrender {
			return Surrender
		}
		return Stand
	case aRp:
		if al.Surrender {
			return Surrender
		}
		if al.Split {
			return Split
		}
		return Hit
	default:
		return Hit
	}
}

func fill(m map[key]entry, total int, e entry, ups ...int) {
	for _, up := range ups {
		m[key{total, up}] = e
	}
}

func allUps() []int { return []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11} }

// buildChart materializes the 4-8 deck chart for one dealer variant.
// Conditional cells stay conditional; DAS and surrender availability are
// resolved per hand at lookup time.
func buildChart(hitsSoft17 bool) *Chart {
	hard := map[key]entry{}
	soft := map[key]entry{}
	pair := map[key]entry{}

	// Hard totals.
	for t := 5; t <= 8; t++ {
		fill(hard, t, aH, allUps()...)
	}
	fill(hard, 9, aH, 2, 7, 8, 9, 10, 11)
	fill(hard, 9, aD, 3, 4, 5, 6)
	fill(hard, 10, aD, 2, 3, 4, 5, 6, 7, 8, 9)
	fill(hard, 10, aH, 10, 11)
	fill(hard, 11, aD, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	if hitsSoft17 {
		fill(hard, 11, aD, 11)
	} else {
		fill(hard, 11, aH, 11)
	}
	fill(hard, 12, aH, 2, 3, 7, 8, 9, 10, 11)
	fill(hard, 12, aS, 4, 5, 6)
	for t := 13; t <= 16; t++ {
		fill(hard, t, aS, 2, 3, 4, 5, 6)
		fill(hard, t, aH, 7, 8, 9, 10, 11)
	}
	// Late-surrender cells; they fall back to the hit/stand above when
	// surrender is off the table.
	fill(hard, 15, aRh, 10)
	fill(hard, 16, aRh, 9, 10, 11)
	if hitsSoft17 {
		fill(hard, 15, aRh, 11)
		fill(hard, 17, aRs, 11)
	}
	for t := 17; t <= 21; t++ {
		for _, up := range allUps() {
			if _, ok := hard[key{t, up}]; !ok {
				fill(hard, t, aS, up)
			}
		}
	}

	// Soft totals.
	for t := 13; t <= 14; t++ {
		fill(soft, t, aH, 2, 3, 4, 7, 8, 9, 10, 11)
		fill(soft, t, aD, 5, 6)
	}
	for t := 15; t <= 16; t++ {
		fill(soft, t, aH, 2, 3, 7, 8, 9, 10, 11)
		fill(soft, t, aD, 4, 5, 6)
	}
	fill(soft, 17, aH, 2, 7, 8, 9, 10, 11)
	fill(soft, 17, aD, 3, 4, 5, 6)
	fill(soft, 18, aDs, 2, 3, 4, 5, 6)
	fill(soft, 18, aS, 7, 8)
	fill(soft, 18, aH, 9, 10, 11)
	fill(soft, 19, aS, allUps()...)
	if hitsSoft17 {
		fill(soft, 19, aDs, 6)
	}
	fill(soft, 20, aS, allUps()...)
	fill(soft, 21, aS, allUps()...)

	// Pairs, keyed by the pair card value (11 for aces).
	fill(pair, 2, aPd, 2, 3)
	fill(pair, 2, aP, 4, 5, 6, 7)
	fill(pair, 2, aH, 8, 9, 10, 11)
	fill(pair, 3, aPd, 2, 3)
	fill(pair, 3, aP, 4, 5, 6, 7)
	fill(pair, 3, aH, 8, 9, 10, 11)
	fill(pair, 4, aH, 2, 3, 4, 7, 8, 9, 10, 11)
	fill(pair, 4, aPd, 5, 6)
	fill(pair, 5, aD, 2, 3, 4, 5, 6, 7, 8, 9)
	fill(pair, 5, aH, 10, 11)
	fill(pair, 6, aPd, 2)
	fill(pair, 6, aP, 3, 4, 5, 6)
	fill(pair, 6, aH, 7, 8, 9, 10, 11)
	fill(pair, 7, aP, 2, 3, 4, 5, 6, 7)
	fill(pair, 7, aH, 8, 9, 10, 11)
	fill(pair, 8, aP, 2, 3, 4, 5, 6, 7, 8, 9)
	if hitsSoft17 {
		fill(pair, 8, aRp, 10, 11)
	} else {
		fill(pair, 8, aP, 10, 11)
	}
	fill(pair, 9, aP, 2, 3, 4, 5, 6, 8, 9)
	fill(pair, 9, aS, 7, 10, 11)
	fill(pair, 10, aS, allUps()...)
	fill(pair, 11, aP, allUps()...)

	return &Chart{hits17: hitsSoft17, hard: hard, soft: soft, pair: pair}
}
