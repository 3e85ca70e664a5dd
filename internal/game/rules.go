package game

import "fmt"

type SurrenderRule string

const (
	SurrenderNone  SurrenderRule = "none"
	SurrenderLate  SurrenderRule = "late"
	SurrenderEarly SurrenderRule = "early"
)

type DoubleRule string

const (
	DoubleAny          DoubleRule = "any"
	DoubleNineToEleven DoubleRule = "9-11"
	DoubleTenEleven    DoubleRule = "10-11"
)

type BlackjackPayout string

const (
	PayoutThreeToTwo BlackjackPayout = "3:2"
	PayoutSixToFive  BlackjackPayout = "6:5"
	PayoutEvenMoney  BlackjackPayout = "1:1"
)

// Win returns the winnings in cents for a natural at the given stake.
func (p BlackjackPayout) Win(bet int64) int64 {
	switch p {
	case PayoutSixToFive:
		return bet * 6 / 5
	case PayoutEvenMoney:
		return bet
	default:
		return bet * 3 / 2
	}
}

// RuleSet is the full table configuration. It is an enumerated record:
// every field is validated up front and unknown values are rejected at
// session creation.
type RuleSet struct {
	NumDecks    int     `json:"num_decks"`
	Penetration float64 `json:"penetration"`

	MinBet int64 `json:"min_bet"` // cents
	MaxBet int64 `json:"max_bet"` // cents

	DealerHitsSoft17 bool            `json:"dealer_hits_soft_17"`
	BlackjackPayout  BlackjackPayout `json:"blackjack_payout"`

	DoubleAfterSplit bool       `json:"double_after_split"`
	DoubleOn         DoubleRule `json:"double_on"`

	ResplitAces  bool `json:"resplit_aces"`
	HitSplitAces bool `json:"hit_split_aces"`
	MaxSplits    int  `json:"max_splits"`

	Surrender        SurrenderRule `json:"surrender"`
	InsuranceAllowed bool          `json:"insurance_allowed"`
	DealerPeeks      bool          `json:"dealer_peeks"`
}

func (r RuleSet) Validate() error {
	if !validDeckCounts[r.NumDecks] {
		return fmt.Errorf("%w: num_decks %d", ErrConfiguration, r.NumDecks)
	}
	if r.Penetration <= 0 || r.Penetration > 1 {
		return fmt.Errorf("%w: penetration %v", ErrConfiguration, r.Penetration)
	}
	if r.MinBet <= 0 || r.MaxBet < r.MinBet {
		return fmt.Errorf("%w: bet_limits %d..%d", ErrConfiguration, r.MinBet, r.MaxBet)
	}
	if r.MaxSplits < 1 {
		return fmt.Errorf("%w: max_splits %d", ErrConfiguration, r.MaxSplits)
	}
	switch r.Surrender {
	case SurrenderNone, SurrenderLate, SurrenderEarly:
	default:
		return fmt.Errorf("%w: surrender %q", ErrConfiguration, r.Surrender)
	}
	switch r.DoubleOn {
	case DoubleAny, DoubleNineToEleven, DoubleTenEleven:
	default:
		return fmt.Errorf("%w: double_on %q", ErrConfiguration, r.DoubleOn)
	}
	switch r.BlackjackPayout {
	case PayoutThreeToTwo, PayoutSixToFive, PayoutEvenMoney:
	default:
		return fmt.Errorf("%w: blackjack_payout %q", ErrConfiguration, r.BlackjackPayout)
	}
	return nil
}

// DoubleAllowedOn checks the table's double restriction against a hand
// total. Soft totals are restricted by the same bounds.
func (r RuleSet) DoubleAllowedOn(total int) bool {
	switch r.DoubleOn {
	case DoubleNineToEleven:
		return total >= 9 && total <= 11
	case DoubleTenEleven:
		return total >= 10 && total <= 11
	default:
		return true
	}
}

// VegasStrip is the default: six decks, S17, DAS, late surrender, 3:2.
func VegasStrip() RuleSet {
	return RuleSet{
		NumDecks:         6,
		Penetration:      0.75,
		MinBet:           1000,
		MaxBet:           100000,
		DealerHitsSoft17: false,
		BlackjackPayout:  PayoutThreeToTwo,
		DoubleAfterSplit: true,
		DoubleOn:         DoubleAny,
		ResplitAces:      false,
		HitSplitAces:     false,
		MaxSplits:        4,
		Surrender:        SurrenderLate,
		InsuranceAllowed: true,
		DealerPeeks:      true,
	}
}

func DowntownVegas() RuleSet {
	r := VegasStrip()
	r.DealerHitsSoft17 = true
	return r
}

func SingleDeck() RuleSet {
	r := VegasStrip()
	r.NumDecks = 1
	r.DealerHitsSoft17 = true
	r.DoubleAfterSplit = false
	r.Surrender = SurrenderNone
	return r
}

func AtlanticCity() RuleSet {
	r := VegasStrip()
	r.NumDecks = 8
	return r
}

func DefaultRules() RuleSet { return VegasStrip() }
