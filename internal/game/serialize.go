package game

import (
	"encoding/json"
	"fmt"
)

// serialVersion guards the persisted layout; bump on incompatible change.
const serialVersion = 1

type handRecord struct {
	Cards       []string `json:"cards"`
	Bet         int64    `json:"bet"`
	Doubled     bool     `json:"doubled,omitempty"`
	FromSplit   bool     `json:"from_split,omitempty"`
	Surrendered bool     `json:"surrendered,omitempty"`
	Stood       bool     `json:"stood,omitempty"`
}

type engineRecord struct {
	Version          int          `json:"version"`
	Rules            RuleSet      `json:"rules"`
	ShoeSeed         int64        `json:"shoe_seed"`
	CardsDrawn       int          `json:"cards_drawn"`
	State            string       `json:"state"`
	Hands            []handRecord `json:"hands"`
	Dealer           handRecord   `json:"dealer"`
	CurrentHand      int          `json:"current_hand"`
	HoleHidden       bool         `json:"hole_hidden"`
	Bankroll         int64        `json:"bankroll"`
	StartingBankroll int64        `json:"starting_bankroll"`
	InsuranceBet     int64        `json:"insurance_bet"`
	LastResult       int64        `json:"last_result"`
	RoundsPlayed     int          `json:"rounds_played"`
}

func handToRecord(h *Hand) handRecord {
	cards := make([]string, 0, len(h.Cards))
	for _, c := range h.Cards {
		cards = append(cards, c.String())
	}
	return handRecord{
		Cards:       cards,
		Bet:         h.Bet,
		Doubled:     h.Doubled,
		FromSplit:   h.FromSplit,
		Surrendered: h.Surrendered,
		Stood:       h.stood,
	}
}

func recordToHand(r handRecord) (*Hand, error) {
	h := &Hand{
		Bet:         r.Bet,
		Doubled:     r.Doubled,
		FromSplit:   r.FromSplit,
		Surrendered: r.Surrendered,
		stood:       r.Stood,
	}
	for _, s := range r.Cards {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		h.Add(c)
	}
	return h, nil
}

// MarshalState captures the engine mid-round. The shoe is stored as seed
// plus draw count; restoring replays the deterministic shuffle and redraws,
// which keeps the persisted form small and forward-compatible.
func (e *Engine) MarshalState() ([]byte, error) {
	rec := engineRecord{
		Version:          serialVersion,
		Rules:            e.Rules,
		ShoeSeed:         e.Shoe.Seed(),
		CardsDrawn:       e.Shoe.CardsDealt(),
		State:            e.state.String(),
		Dealer:           handToRecord(e.dealer),
		CurrentHand:      e.current,
		HoleHidden:       e.holeHidden,
		Bankroll:         e.bankroll,
		StartingBankroll: e.startingBankroll,
		InsuranceBet:     e.insuranceBet,
		LastResult:       e.lastResult,
		RoundsPlayed:     e.roundsPlayed,
	}
	for _, h := range e.hands {
		rec.Hands = append(rec.Hands, handToRecord(h))
	}
	return json.Marshal(rec)
}

func UnmarshalState(data []byte) (*Engine, error) {
	var rec engineRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if rec.Version != serialVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrConfiguration, rec.Version)
	}
	if err := rec.Rules.Validate(); err != nil {
		return nil, err
	}

	shoe, err := NewShoeSeeded(rec.Rules.NumDecks, rec.Rules.Penetration, rec.ShoeSeed)
	if err != nil {
		return nil, err
	}
	// A reshuffle inside the persisted round would have changed the order;
	// draw counts past one full shoe are rejected rather than guessed at.
	if rec.CardsDrawn < 0 || rec.CardsDrawn > shoe.CardsRemaining() {
		return nil, fmt.Errorf("%w: cards_drawn %d", ErrConfiguration, rec.CardsDrawn)
	}
	for i := 0; i < rec.CardsDrawn; i++ {
		if _, err := shoe.Deal(); err != nil {
			return nil, err
		}
	}

	var state GameState
	found := false
	for s, name := range stateNames {
		if name == rec.State {
			state, found = s, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: state %q", ErrConfiguration, rec.State)
	}

	e := &Engine{
		Rules:            rec.Rules,
		Shoe:             shoe,
		state:            state,
		current:          rec.CurrentHand,
		holeHidden:       rec.HoleHidden,
		bankroll:         rec.Bankroll,
		startingBankroll: rec.StartingBankroll,
		insuranceBet:     rec.InsuranceBet,
		lastResult:       rec.LastResult,
		roundsPlayed:     rec.RoundsPlayed,
	}
	e.dealer, err = recordToHand(rec.Dealer)
	if err != nil {
		return nil, err
	}
	for _, hr := range rec.Hands {
		h, err := recordToHand(hr)
		if err != nil {
			return nil, err
		}
		e.hands = append(e.hands, h)
	}
	return e, nil
}
