package game

import (
	"fmt"
	"time"
)

// Engine drives one seat against the dealer. It is single-threaded
// cooperative: every command runs to completion, mutates nothing on
// validation failure, and returns the events it emitted in order. Money is
// integer cents throughout; bets stay committed (not debited) until the
// round resolves, so the bankroll moves exactly once per round.
type Engine struct {
	Rules RuleSet
	Shoe  *Shoe

	state            GameState
	hands            []*Hand
	current          int
	dealer           *Hand
	holeHidden       bool
	bankroll         int64
	startingBankroll int64
	insuranceBet     int64
	lastResult       int64
	roundsPlayed     int

	events []Event
}

func NewEngine(rules RuleSet, startingBankroll int64, seed *int64) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if startingBankroll < rules.MinBet {
		return nil, fmt.Errorf("%w: starting_bankroll %d", ErrConfiguration, startingBankroll)
	}
	var (
		shoe *Shoe
		err  error
	)
	if seed != nil {
		shoe, err = NewShoeSeeded(rules.NumDecks, rules.Penetration, *seed)
	} else {
		shoe, err = NewShoe(rules.NumDecks, rules.Penetration)
	}
	if err != nil {
		return nil, err
	}
	return &Engine{
		Rules:            rules,
		Shoe:             shoe,
		state:            WaitingForBet,
		dealer:           &Hand{},
		bankroll:         startingBankroll,
		startingBankroll: startingBankroll,
	}, nil
}

func (e *Engine) State() GameState { return e.state }

func (e *Engine) Bankroll() int64 { return e.bankroll }

func (e *Engine) Hands() []*Hand { return e.hands }

func (e *Engine) Dealer() *Hand { return e.dealer }

func (e *Engine) CurrentHandIndex() int { return e.current }

func (e *Engine) LastResult() int64 { return e.lastResult }

func (e *Engine) RoundsPlayed() int { return e.roundsPlayed }

// Upcard returns the dealer's visible card value (ace as 11), or 0 before
// any deal.
func (e *Engine) Upcard() int {
	if len(e.dealer.Cards) == 0 {
		return 0
	}
	return e.dealer.Cards[0].Value()
}

func (e *Engine) emit(ev Event) {
	ev.At = time.Now()
	e.events = append(e.events, ev)
}

func (e *Engine) drain() []Event {
	out := e.events
	e.events = nil
	return out
}

// committed is the total liability of the round so far: all hand bets plus
// the insurance side wager. Guards keep it within the bankroll.
func (e *Engine) committed() int64 {
	total := e.insuranceBet
	for _, h := range e.hands {
		total += h.Bet
	}
	return total
}

func (e *Engine) currentHand() *Hand {
	if e.current < 0 || e.current >= len(e.hands) {
		return nil
	}
	return e.hands[e.current]
}

// PlaceBet starts a round. The shoe is reshuffled here, never mid-round,
// when the cut card was reached during the previous round.
func (e *Engine) PlaceBet(amount int64) ([]Event, error) {
	if e.state != WaitingForBet {
		return nil, ErrWrongState
	}
	if amount < e.Rules.MinBet || amount > e.Rules.MaxBet {
		return nil, ErrBetOutOfRange
	}
	if amount > e.bankroll {
		return nil, ErrInsufficientFunds
	}

	if e.Shoe.NeedsShuffle() {
		e.Shoe.Reshuffle()
		e.emit(Event{Kind: EventShoeShuffled})
	}

	e.hands = []*Hand{{Bet: amount}}
	e.current = 0
	e.dealer = &Hand{}
	e.holeHidden = true
	e.insuranceBet = 0
	e.state = Dealing

	// Deal order: player, dealer up, player, dealer hole.
	if !e.dealTo(e.hands[0], "player", 0, false) ||
		!e.dealTo(e.dealer, "dealer", 0, false) ||
		!e.dealTo(e.hands[0], "player", 0, false) ||
		!e.dealTo(e.dealer, "dealer", 0, true) {
		return e.drain(), nil
	}

	playerBJ := e.hands[0].IsNatural()
	if playerBJ {
		e.emit(Event{Kind: EventPlayerBlackjack, Seat: "player", Total: 21})
	}

	up := e.dealer.Cards[0]
	if up.IsAce() && e.Rules.InsuranceAllowed && !playerBJ {
		e.state = OfferingInsurance
		e.emit(Event{Kind: EventInsuranceOffered})
		return e.drain(), nil
	}

	if e.Rules.DealerPeeks && (up.IsAce() || up.Rank.IsTenValue()) && e.dealer.IsNatural() {
		e.emit(Event{Kind: EventDealerBlackjack, Seat: "dealer"})
		err := e.resolveRound()
		return e.drain(), err
	}

	if playerBJ {
		err := e.resolveRound()
		return e.drain(), err
	}

	e.state = PlayerTurn
	return e.drain(), nil
}

// dealTo deals one card, emitting the event. On exhaustion it voids the
// round as a push and reports false so callers stop dealing.
func (e *Engine) dealTo(h *Hand, seat string, handIndex int, hidden bool) bool {
	c, err := e.Shoe.Deal()
	if err != nil {
		e.voidRound()
		return false
	}
	h.Add(c)
	ev := Event{Kind: EventCardDealt, Seat: seat, HandIndex: handIndex, Hidden: hidden}
	if !hidden {
		ev.Card = c.String()
		ev.Total = h.Total()
	}
	e.emit(ev)
	return true
}

// voidRound ends a round that cannot continue because the shoe ran dry.
// All wagers are returned; the result is a push with a diagnostic event.
func (e *Engine) voidRound() {
	e.emit(Event{Kind: EventShoeExhausted, Message: "shoe exhausted mid-round, round voided"})
	if e.holeHidden && len(e.dealer.Cards) > 1 {
		e.revealHole()
	}
	e.lastResult = 0
	e.roundsPlayed++
	e.emit(Event{Kind: EventRoundEnded, Amount: 0, Message: "push"})
	e.emit(Event{Kind: EventBankrollChanged, Bankroll: e.bankroll})
	e.state = RoundComplete
}

// Insurance settles the side-wager decision while the dealer shows an ace.
func (e *Engine) Insurance(take bool) ([]Event, error) {
	if e.state != OfferingInsurance {
		return nil, ErrCannotInsure
	}
	if take {
		cost := e.hands[0].Bet / 2
		if e.committed()+cost > e.bankroll {
			return nil, ErrInsufficientFunds
		}
		e.insuranceBet = cost
		e.emit(Event{Kind: EventInsuranceTaken, Amount: cost})
	}

	if e.Rules.DealerPeeks && e.dealer.IsNatural() {
		e.emit(Event{Kind: EventDealerBlackjack, Seat: "dealer"})
		err := e.resolveRound()
		return e.drain(), err
	}
	e.state = PlayerTurn
	return e.drain(), nil
}

func (e *Engine) Hit() ([]Event, error) {
	if !e.canHit() {
		return nil, ErrCannotHit
	}
	h := e.currentHand()
	if !e.dealTo(h, "player", e.current, false) {
		return e.drain(), nil
	}
	if h.IsBust() {
		e.emit(Event{Kind: EventBust, Seat: "player", HandIndex: e.current, Total: h.Total()})
		err := e.advance()
		return e.drain(), err
	}
	return e.drain(), nil
}

func (e *Engine) Stand() ([]Event, error) {
	if e.state != PlayerTurn {
		return nil, ErrWrongState
	}
	err := e.advance()
	return e.drain(), err
}

func (e *Engine) Double() ([]Event, error) {
	if !e.canDouble() {
		return nil, ErrCannotDouble
	}
	h := e.currentHand()
	h.Bet *= 2
	h.Doubled = true
	e.emit(Event{Kind: EventDoubled, Seat: "player", HandIndex: e.current, Amount: h.Bet})
	if !e.dealTo(h, "player", e.current, false) {
		return e.drain(), nil
	}
	if h.IsBust() {
		e.emit(Event{Kind: EventBust, Seat: "player", HandIndex: e.current, Total: h.Total()})
	}
	err := e.advance()
	return e.drain(), err
}

func (e *Engine) Split() ([]Event, error) {
	if !e.canSplit() {
		return nil, ErrCannotSplit
	}
	e.state = Splitting

	h := e.currentHand()
	moved := h.Cards[1]
	h.Cards = h.Cards[:1]
	h.FromSplit = true
	child := &Hand{Cards: []Card{moved}, Bet: h.Bet, FromSplit: true}

	// Children play left to right, so the new hand slots in right after
	// the current one.
	e.hands = append(e.hands, nil)
	copy(e.hands[e.current+2:], e.hands[e.current+1:])
	e.hands[e.current+1] = child

	e.emit(Event{Kind: EventHandSplit, Seat: "player", HandIndex: e.current})

	if !e.dealTo(h, "player", e.current, false) {
		return e.drain(), nil
	}
	if !e.dealTo(child, "player", e.current+1, false) {
		return e.drain(), nil
	}

	// Split aces receive one card each and stand unless the rules say
	// otherwise.
	if moved.IsAce() && !e.Rules.HitSplitAces {
		h.stood = true
		child.stood = true
		e.state = PlayerTurn
		err := e.advance()
		return e.drain(), err
	}

	e.state = PlayerTurn
	return e.drain(), nil
}

func (e *Engine) Surrender() ([]Event, error) {
	if !e.canSurrender() {
		return nil, ErrCannotSurrender
	}
	h := e.currentHand()
	h.Surrendered = true
	e.emit(Event{Kind: EventSurrendered, Seat: "player", HandIndex: e.current, Amount: h.Bet / 2})
	err := e.advance()
	return e.drain(), err
}

// advance moves to the next playable hand, or runs the dealer and resolves
// once every hand is done. Hands stood by rule (split aces) are skipped.
func (e *Engine) advance() error {
	e.current++
	for e.current < len(e.hands) && e.hands[e.current].stood {
		e.current++
	}
	if e.current < len(e.hands) {
		e.state = PlayerTurn
		return nil
	}

	live := false
	for _, h := range e.hands {
		if !h.IsBust() && !h.Surrendered {
			live = true
			break
		}
	}
	if !live {
		return e.resolveRound()
	}

	e.state = DealerTurn
	return e.playDealer()
}

func (e *Engine) revealHole() {
	e.holeHidden = false
	hole := e.dealer.Cards[1]
	e.emit(Event{Kind: EventCardRevealed, Seat: "dealer", Card: hole.String(), Total: e.dealer.Total()})
}

func (e *Engine) playDealer() error {
	if e.holeHidden {
		e.revealHole()
	}
	for e.dealerShouldHit() {
		if !e.dealTo(e.dealer, "dealer", 0, false) {
			return nil
		}
	}
	if e.dealer.IsBust() {
		e.emit(Event{Kind: EventBust, Seat: "dealer", Total: e.dealer.Total()})
	}
	return e.resolveRound()
}

func (e *Engine) dealerShouldHit() bool {
	t := e.dealer.Total()
	if t < 17 {
		return true
	}
	return t == 17 && e.dealer.IsSoft() && e.Rules.DealerHitsSoft17
}

// resolveRound settles every wager and moves the bankroll exactly once.
// The payout law holds by construction: the round delta is the sum of
// per-hand results plus the insurance result.
func (e *Engine) resolveRound() error {
	e.state = Resolving
	if e.holeHidden && len(e.dealer.Cards) > 1 {
		e.revealHole()
	}

	var net int64

	if e.insuranceBet > 0 {
		if e.dealer.IsNatural() {
			net += e.insuranceBet * 2
			e.emit(Event{Kind: EventHandResult, Outcome: "insurance_win", Amount: e.insuranceBet * 2})
		} else {
			net -= e.insuranceBet
			e.emit(Event{Kind: EventHandResult, Outcome: "insurance_lose", Amount: -e.insuranceBet})
		}
	}

	for i, h := range e.hands {
		var result int64
		var outcome string
		switch {
		case h.Surrendered:
			result = -h.Bet / 2
			outcome = "surrender"
		case h.IsBust():
			result = -h.Bet
			outcome = "lose"
		default:
			switch CompareHands(h, e.dealer) {
			case 1:
				if h.IsNatural() {
					result = e.Rules.BlackjackPayout.Win(h.Bet)
					outcome = "blackjack"
				} else {
					result = h.Bet
					outcome = "win"
				}
			case -1:
				result = -h.Bet
				outcome = "lose"
			default:
				result = 0
				outcome = "push"
			}
		}
		net += result
		e.emit(Event{Kind: EventHandResult, Seat: "player", HandIndex: i, Outcome: outcome, Amount: result})
	}

	e.bankroll += net
	e.lastResult = net
	e.roundsPlayed++
	e.emit(Event{Kind: EventRoundEnded, Amount: net})
	e.emit(Event{Kind: EventBankrollChanged, Bankroll: e.bankroll})

	if e.bankroll < 0 {
		e.state = GameOver
		return fmt.Errorf("%w: negative bankroll %d", ErrInvariant, e.bankroll)
	}

	if e.bankroll < e.Rules.MinBet {
		e.state = GameOver
		return nil
	}
	e.state = RoundComplete
	return nil
}

// NewRound returns to the betting state; the shoe is reshuffled here when
// the cut card was passed.
func (e *Engine) NewRound() ([]Event, error) {
	if e.state != RoundComplete {
		return nil, ErrWrongState
	}
	if e.Shoe.NeedsShuffle() {
		e.Shoe.Reshuffle()
		e.emit(Event{Kind: EventShoeShuffled})
	}
	e.state = WaitingForBet
	return e.drain(), nil
}

// ResetGame restores the starting bankroll and a fresh shoe. Legal in any
// state, including GameOver.
func (e *Engine) ResetGame() ([]Event, error) {
	e.bankroll = e.startingBankroll
	e.hands = nil
	e.current = 0
	e.dealer = &Hand{}
	e.insuranceBet = 0
	e.lastResult = 0
	e.roundsPlayed = 0
	e.holeHidden = false
	e.Shoe.Reshuffle()
	e.emit(Event{Kind: EventShoeShuffled})
	e.emit(Event{Kind: EventBankrollChanged, Bankroll: e.bankroll})
	e.state = WaitingForBet
	return e.drain(), nil
}

func (e *Engine) canHit() bool {
	if e.state != PlayerTurn {
		return false
	}
	h := e.currentHand()
	return h != nil && !h.IsBust()
}

func (e *Engine) canDouble() bool {
	if e.state != PlayerTurn {
		return false
	}
	h := e.currentHand()
	if h == nil || len(h.Cards) != 2 || h.Doubled {
		return false
	}
	if !e.Rules.DoubleAllowedOn(h.Total()) {
		return false
	}
	if h.FromSplit && !e.Rules.DoubleAfterSplit {
		return false
	}
	return e.committed()+h.Bet <= e.bankroll
}

func (e *Engine) canSplit() bool {
	if e.state != PlayerTurn {
		return false
	}
	h := e.currentHand()
	if h == nil || !h.IsPair() {
		return false
	}
	if len(e.hands) >= e.Rules.MaxSplits {
		return false
	}
	if h.Cards[0].IsAce() && h.FromSplit && !e.Rules.ResplitAces {
		return false
	}
	return e.committed()+h.Bet <= e.bankroll
}

func (e *Engine) canSurrender() bool {
	if e.state != PlayerTurn {
		return false
	}
	if e.Rules.Surrender == SurrenderNone {
		return false
	}
	h := e.currentHand()
	return h != nil && len(h.Cards) == 2 && !h.FromSplit && !h.Doubled
}

func (e *Engine) canInsure() bool { return e.state == OfferingInsurance }

// AvailableActions mirrors the command guards exactly: an action is listed
// iff the matching command would not fail validation.
func (e *Engine) AvailableActions() []ActionKind {
	var out []ActionKind
	switch e.state {
	case WaitingForBet:
		if e.bankroll >= e.Rules.MinBet {
			out = append(out, ActionPlaceBet)
		}
	case OfferingInsurance:
		out = append(out, ActionInsurance)
	case PlayerTurn:
		if e.canHit() {
			out = append(out, ActionHit)
		}
		out = append(out, ActionStand)
		if e.canDouble() {
			out = append(out, ActionDouble)
		}
		if e.canSplit() {
			out = append(out, ActionSplit)
		}
		if e.canSurrender() {
			out = append(out, ActionSurrender)
		}
	case RoundComplete:
		out = append(out, ActionNewRound)
	}
	return out
}
