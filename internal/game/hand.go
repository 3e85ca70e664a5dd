package game

import (
	"fmt"
	"strings"
)

// Hand holds a seat's cards plus the wager flags the payout math needs.
// Bets are integer cents.
type Hand struct {
	Cards       []Card
	Bet         int64
	Doubled     bool
	FromSplit   bool
	Surrendered bool

	// stood marks hands finished by rule rather than by command, e.g.
	// split aces when the table deals them a single card.
	stood bool
}

func (h *Hand) Add(c Card) { h.Cards = append(h.Cards, c) }

// Total returns the best value: each ace counts 11 unless that busts, in
// which case aces drop to 1 one at a time.
func (h *Hand) Total() int {
	total, aces := 0, 0
	for _, c := range h.Cards {
		if c.IsAce() {
			aces++
		}
		total += c.Value()
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsSoft reports whether an ace is currently counted as 11.
func (h *Hand) IsSoft() bool {
	hard, hasAce := 0, false
	for _, c := range h.Cards {
		if c.IsAce() {
			hasAce = true
			hard++
		} else {
			hard += c.Value()
		}
	}
	return hasAce && hard+10 <= 21
}

// IsPair compares by blackjack value, so K,T splits like T,T.
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].SameValue(h.Cards[1])
}

func (h *Hand) IsBust() bool { return h.Total() > 21 }

// IsNatural is a two-card 21 on a hand that was not created by a split.
func (h *Hand) IsNatural() bool {
	return len(h.Cards) == 2 && h.Total() == 21 && !h.FromSplit
}

func (h *Hand) NumCards() int { return len(h.Cards) }

func (h *Hand) String() string {
	parts := make([]string, 0, len(h.Cards))
	for _, c := range h.Cards {
		parts = append(parts, c.String())
	}
	switch {
	case h.IsNatural():
		return fmt.Sprintf("%s (blackjack)", strings.Join(parts, " "))
	case h.IsBust():
		return fmt.Sprintf("%s (bust %d)", strings.Join(parts, " "), h.Total())
	case h.IsSoft():
		return fmt.Sprintf("%s (soft %d)", strings.Join(parts, " "), h.Total())
	default:
		return fmt.Sprintf("%s (%d)", strings.Join(parts, " "), h.Total())
	}
}

// CompareHands returns +1 when player beats dealer, -1 when dealer wins and
// 0 on a push. Bust and surrender are settled before value comparison.
func CompareHands(player, dealer *Hand) int {
	if player.Surrendered || player.IsBust() {
		return -1
	}
	if dealer.IsBust() {
		return 1
	}
	pBJ, dBJ := player.IsNatural(), dealer.IsNatural()
	switch {
	case pBJ && dBJ:
		return 0
	case pBJ:
		return 1
	case dBJ:
		return -1
	}
	pv, dv := player.Total(), dealer.Total()
	switch {
	case pv > dv:
		return 1
	case dv > pv:
		return -1
	default:
		return 0
	}
}
