// Package counting implements the four supported card-counting systems.
// A system is a value, not a type: the capability record below carries the
// tag table and the handful of properties that differ between systems.
package counting

import (
	"fmt"

	"blackjack-trainer/internal/game"
)

// System describes one counting scheme. Tag values are stored doubled so
// Wong Halves stays in exact integer arithmetic: +0.5 is 1 unit, +1 is 2.
type System struct {
	ID       string
	Name     string
	Balanced bool

	// tags is indexed by game.Rank (2..14), in doubled units.
	tags [15]int

	// SideCountsAces is set for systems that track aces outside the
	// running count (Omega II).
	SideCountsAces bool

	// Published efficiency figures, for display only.
	BettingCorrelation float64
	PlayingEfficiency  float64
}

// Tag returns the doubled-unit tag for a card.
func (s System) Tag(c game.Card) int { return s.tags[c.Rank] }

// IRC is the initial running count in doubled units. Balanced systems
// start at zero; KO starts at 4 - 4*decks so the pivot lands on +4.
func (s System) IRC(numDecks int) int {
	if s.Balanced {
		return 0
	}
	return 2 * (4 - 4*numDecks)
}

func tagTable(vals map[game.Rank]int) [15]int {
	var t [15]int
	for r, v := range vals {
		t[r] = v
	}
	return t
}

var HiLo = System{
	ID:       "hilo",
	Name:     "Hi-Lo",
	Balanced: true,
	tags: tagTable(map[game.Rank]int{
		game.Two: 2, game.Three: 2, game.Four: 2, game.Five: 2, game.Six: 2,
		game.Seven: 0, game.Eight: 0, game.Nine: 0,
		game.Ten: -2, game.Jack: -2, game.Queen: -2, game.King: -2, game.Ace: -2,
	}),
	BettingCorrelation: 0.97,
	PlayingEfficiency:  0.51,
}

// KO counts sevens as low, which unbalances the full-deck sum to +4.
var KO = System{
	ID:       "ko",
	Name:     "Knock-Out",
	Balanced: false,
	tags: tagTable(map[game.Rank]int{
		game.Two: 2, game.Three: 2, game.Four: 2, game.Five: 2, game.Six: 2, game.Seven: 2,
		game.Eight: 0, game.Nine: 0,
		game.Ten: -2, game.Jack: -2, game.Queen: -2, game.King: -2, game.Ace: -2,
	}),
	BettingCorrelation: 0.98,
	PlayingEfficiency:  0.55,
}

// OmegaII is a level-two count; aces are neutral in the running count and
// tracked by a side count instead.
var OmegaII = System{
	ID:       "omega2",
	Name:     "Omega II",
	Balanced: true,
	tags: tagTable(map[game.Rank]int{
		game.Two: 2, game.Three: 2, game.Four: 4, game.Five: 4, game.Six: 4, game.Seven: 2,
		game.Eight: 0, game.Nine: -2,
		game.Ten: -4, game.Jack: -4, game.Queen: -4, game.King: -4, game.Ace: 0,
	}),
	SideCountsAces:     true,
	BettingCorrelation: 0.92,
	PlayingEfficiency:  0.67,
}

// WongHalves uses half-point tags; the doubled representation keeps them
// integral.
var WongHalves = System{
	ID:       "wong_halves",
	Name:     "Wong Halves",
	Balanced: true,
	tags: tagTable(map[game.Rank]int{
		game.Two: 1, game.Three: 2, game.Four: 2, game.Five: 3, game.Six: 2, game.Seven: 1,
		game.Eight: 0, game.Nine: -1,
		game.Ten: -2, game.Jack: -2, game.Queen: -2, game.King: -2, game.Ace: -2,
	}),
	BettingCorrelation: 0.99,
	PlayingEfficiency:  0.56,
}

// KO action points, in conventional units. At the pivot the running count
// carries the same weight regardless of depth; the key count is the
// raise-your-bet signal.
const (
	KOPivot = 4
	KOKey   = 3
)

var registry = map[string]System{
	HiLo.ID:       HiLo,
	KO.ID:         KO,
	OmegaII.ID:    OmegaII,
	WongHalves.ID: WongHalves,
}

func Lookup(id string) (System, error) {
	s, ok := registry[id]
	if !ok {
		return System{}, fmt.Errorf("%w: counting system %q", game.ErrConfiguration, id)
	}
	return s, nil
}

func Systems() []System {
	return []System{HiLo, KO, OmegaII, WongHalves}
}
