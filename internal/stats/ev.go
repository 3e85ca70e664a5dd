package stats

import (
	"fmt"

	"blackjack-trainer/internal/game"
)

// ActionEVs is the per-unit expectation of each legal action from a
// decision point.
type ActionEVs struct {
	Stand     float64  `json:"stand"`
	Hit       float64  `json:"hit"`
	Double    *float64 `json:"double,omitempty"`
	Split     *float64 `json:"split,omitempty"`
	Surrender *float64 `json:"surrender,omitempty"`
}

// evaluator fixes the dealer distribution and the draw probabilities at
// the decision point. Re-enumerating the dealer after every hypothetical
// player draw would blow the tree up for a change below the fast-path
// accuracy threshold, so the composition is sampled once and the player
// recursion is memoized over (total, soft).
type evaluator struct {
	dist  DealerDist
	pdraw [11]float64
	memo  map[evKey]float64
}

type evKey struct {
	total int
	soft  bool
}

func newEvaluator(upcard int, comp [11]int, hitSoft17 bool) (*evaluator, error) {
	dist, err := DealerDistribution(upcard, comp, hitSoft17)
	if err != nil {
		return nil, err
	}
	total := 0
	for v := 1; v <= 10; v++ {
		total += comp[v]
	}
	if total == 0 {
		return nil, game.ErrShoeExhausted
	}
	e := &evaluator{dist: dist, memo: map[evKey]float64{}}
	for v := 1; v <= 10; v++ {
		e.pdraw[v] = float64(comp[v]) / float64(total)
	}
	return e, nil
}

func (e *evaluator) stand(total int) float64 {
	if total > 21 {
		return -1
	}
	ev := e.dist.Bust
	for _, o := range []struct {
		total int
		p     float64
	}{
		{17, e.dist.Seventeen}, {18, e.dist.Eighteen}, {19, e.dist.Nineteen},
		{20, e.dist.Twenty}, {21, e.dist.TwentyOne},
	} {
		switch {
		case total > o.total:
			ev += o.p
		case total < o.total:
			ev -= o.p
		}
	}
	// A dealer natural beats any non-natural total.
	ev -= e.dist.Blackjack
	return ev
}

// hit draws every possible card and plays on optimally, taking the better
// of standing and hitting again at each descendant.
func (e *evaluator) hit(total int, soft bool) float64 {
	key := evKey{total, soft}
	if v, ok := e.memo[key]; ok {
		return v
	}
	ev := 0.0
	for v := 1; v <= 10; v++ {
		if e.pdraw[v] == 0 {
			continue
		}
		t, s := advanceTotal(total, soft, v)
		if t > 21 {
			ev += e.pdraw[v] * -1
			continue
		}
		best := e.stand(t)
		if t < 21 {
			if again := e.hit(t, s); again > best {
				best = again
			}
		}
		ev += e.pdraw[v] * best
	}
	e.memo[key] = ev
	return ev
}

// double draws exactly one card and stands, at double stakes.
func (e *evaluator) double(total int, soft bool) float64 {
	ev := 0.0
	for v := 1; v <= 10; v++ {
		if e.pdraw[v] == 0 {
			continue
		}
		t, _ := advanceTotal(total, soft, v)
		if t > 21 {
			ev += e.pdraw[v] * -2
			continue
		}
		ev += e.pdraw[v] * 2 * e.stand(t)
	}
	return ev
}

// split values the pair as two independent one-card hands sharing the
// decision-point composition; resplits fold into the same approximation.
func (e *evaluator) split(card game.Card, rules game.RuleSet) float64 {
	start := card.Value()
	soft := card.IsAce()

	one := 0.0
	for v := 1; v <= 10; v++ {
		if e.pdraw[v] == 0 {
			continue
		}
		t, s := advanceTotal(start, soft, v)
		if soft && !rules.HitSplitAces {
			// Split aces take one card and stand.
			one += e.pdraw[v] * e.stand(t)
			continue
		}
		best := e.stand(t)
		if t < 21 {
			if again := e.hit(t, s); again > best {
				best = again
			}
		}
		one += e.pdraw[v] * best
	}
	return 2 * one
}

func advanceTotal(total int, soft bool, v int) (int, bool) {
	t, s := total, soft
	if v == 1 {
		if t+11 <= 21 {
			return t + 11, true
		}
		t++
	} else {
		t += v
	}
	if t > 21 && s {
		t -= 10
		s = false
	}
	return t, s
}

// EVForHand evaluates every action currently open to the hand. comp is the
// remaining shoe with the table cards (including the upcard) removed.
func EVForHand(h *game.Hand, upcard int, comp [11]int, rules game.RuleSet, canDouble, canSplit, canSurrender bool) (ActionEVs, error) {
	if upcard < 2 || upcard > 11 {
		return ActionEVs{}, fmt.Errorf("%w: upcard %d", game.ErrConfiguration, upcard)
	}
	e, err := newEvaluator(upcard, comp, rules.DealerHitsSoft17)
	if err != nil {
		return ActionEVs{}, err
	}

	total := h.Total()
	soft := h.IsSoft()
	evs := ActionEVs{
		Stand: e.stand(total),
		Hit:   e.hit(total, soft),
	}
	if canDouble {
		d := e.double(total, soft)
		evs.Double = &d
	}
	if canSplit && h.IsPair() {
		s := e.split(h.Cards[0], rules)
		evs.Split = &s
	}
	if canSurrender {
		s := -0.5
		evs.Surrender = &s
	}
	return evs, nil
}
