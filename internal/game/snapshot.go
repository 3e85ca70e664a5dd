package game

type HandSnapshot struct {
	Cards       []string `json:"cards"`
	Total       int      `json:"total"`
	IsSoft      bool     `json:"is_soft"`
	IsPair      bool     `json:"is_pair"`
	IsBusted    bool     `json:"is_busted"`
	IsBlackjack bool     `json:"is_blackjack"`
	Bet         int64    `json:"bet"`
	FromSplit   bool     `json:"from_split"`
}

type DealerSnapshot struct {
	Cards        []string `json:"cards"` // "??" while the hole card is hidden
	VisibleTotal int      `json:"visible_total,omitempty"`
	HoleHidden   bool     `json:"hole_hidden"`
}

type ShoeSnapshot struct {
	CardsRemaining int     `json:"cards_remaining"`
	DecksRemaining float64 `json:"decks_remaining"`
	NeedsShuffle   bool    `json:"needs_shuffle"`
}

// Snapshot is the engine's externally visible state. The session layer
// wraps it with counting information before it crosses the transport.
type Snapshot struct {
	State            string         `json:"state"`
	PlayerHands      []HandSnapshot `json:"player_hands"`
	CurrentHandIndex int            `json:"current_hand_index"`
	DealerHand       DealerSnapshot `json:"dealer_hand"`
	Bankroll         int64          `json:"bankroll"`
	Shoe             ShoeSnapshot   `json:"shoe"`
	CanHit           bool           `json:"can_hit"`
	CanStand         bool           `json:"can_stand"`
	CanDouble        bool           `json:"can_double"`
	CanSplit         bool           `json:"can_split"`
	CanSurrender     bool           `json:"can_surrender"`
	CanInsure        bool           `json:"can_insure"`
	LastResult       *int64         `json:"last_result,omitempty"`
}

func (e *Engine) Snapshot() Snapshot {
	hands := make([]HandSnapshot, 0, len(e.hands))
	for _, h := range e.hands {
		cards := make([]string, 0, len(h.Cards))
		for _, c := range h.Cards {
			cards = append(cards, c.String())
		}
		hands = append(hands, HandSnapshot{
			Cards:       cards,
			Total:       h.Total(),
			IsSoft:      h.IsSoft(),
			IsPair:      h.IsPair(),
			IsBusted:    h.IsBust(),
			IsBlackjack: h.IsNatural(),
			Bet:         h.Bet,
			FromSplit:   h.FromSplit,
		})
	}

	dealer := DealerSnapshot{HoleHidden: e.holeHidden}
	for i, c := range e.dealer.Cards {
		if e.holeHidden && i == 1 {
			dealer.Cards = append(dealer.Cards, "??")
			continue
		}
		dealer.Cards = append(dealer.Cards, c.String())
	}
	if len(e.dealer.Cards) > 0 {
		if e.holeHidden {
			dealer.VisibleTotal = e.dealer.Cards[0].Value()
		} else {
			dealer.VisibleTotal = e.dealer.Total()
		}
	}

	snap := Snapshot{
		State:            e.state.String(),
		PlayerHands:      hands,
		CurrentHandIndex: e.current,
		DealerHand:       dealer,
		Bankroll:         e.bankroll,
		Shoe: ShoeSnapshot{
			CardsRemaining: e.Shoe.CardsRemaining(),
			DecksRemaining: e.Shoe.DecksRemaining(),
			NeedsShuffle:   e.Shoe.NeedsShuffle(),
		},
		CanHit:       e.canHit(),
		CanStand:     e.state == PlayerTurn,
		CanDouble:    e.canDouble(),
		CanSplit:     e.canSplit(),
		CanSurrender: e.canSurrender(),
		CanInsure:    e.canInsure(),
	}
	if e.roundsPlayed > 0 {
		last := e.lastResult
		snap.LastResult = &last
	}
	return snap
}
