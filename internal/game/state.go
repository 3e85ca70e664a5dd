package game

import "time"

// GameState is a sealed enum; every transition happens inside a single
// guarded dispatch in the engine, so an illegal move is a ValidationError
// rather than a reachable state.
type GameState int

const (
	WaitingForBet GameState = iota
	Dealing
	OfferingInsurance
	PlayerTurn
	Splitting
	DealerTurn
	Resolving
	RoundComplete
	GameOver
)

var stateNames = map[GameState]string{
	WaitingForBet:     "waiting_for_bet",
	Dealing:           "dealing",
	OfferingInsurance: "offering_insurance",
	PlayerTurn:        "player_turn",
	Splitting:         "splitting",
	DealerTurn:        "dealer_turn",
	Resolving:         "resolving",
	RoundComplete:     "round_complete",
	GameOver:          "game_over",
}

func (s GameState) String() string { return stateNames[s] }

type ActionKind string

const (
	ActionPlaceBet  ActionKind = "place_bet"
	ActionInsurance ActionKind = "insurance"
	ActionHit       ActionKind = "hit"
	ActionStand     ActionKind = "stand"
	ActionDouble    ActionKind = "double"
	ActionSplit     ActionKind = "split"
	ActionSurrender ActionKind = "surrender"
	ActionNewRound  ActionKind = "new_round"
)

type EventKind string

const (
	EventCardDealt        EventKind = "card_dealt"
	EventCardRevealed     EventKind = "card_revealed"
	EventShoeShuffled     EventKind = "shoe_shuffled"
	EventHandSplit        EventKind = "hand_split"
	EventDoubled          EventKind = "doubled"
	EventSurrendered      EventKind = "surrendered"
	EventInsuranceOffered EventKind = "insurance_offered"
	EventInsuranceTaken   EventKind = "insurance_taken"
	EventPlayerBlackjack  EventKind = "player_blackjack"
	EventDealerBlackjack  EventKind = "dealer_blackjack"
	EventBust             EventKind = "bust"
	EventHandResult       EventKind = "hand_result"
	EventRoundEnded       EventKind = "round_ended"
	EventBankrollChanged  EventKind = "bankroll_changed"
	EventShoeExhausted    EventKind = "shoe_exhausted"
)

// Event is one entry of the per-command log. Consumers pull the returned
// slice; the engine never calls out. A hidden card carries no identity
// until the matching card_revealed event.
type Event struct {
	Kind      EventKind `json:"kind"`
	Seat      string    `json:"seat,omitempty"` // "player" or "dealer"
	HandIndex int       `json:"hand_index,omitempty"`
	Card      string    `json:"card,omitempty"`
	Hidden    bool      `json:"hidden,omitempty"`
	Total     int       `json:"total,omitempty"`
	Amount    int64     `json:"amount,omitempty"` // cents
	Bankroll  int64     `json:"bankroll,omitempty"`
	Outcome   string    `json:"outcome,omitempty"` // win/lose/push/blackjack/surrender
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}
