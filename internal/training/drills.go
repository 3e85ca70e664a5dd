// Package training builds the drill oracles: counting, speed, strategy and
// deviation practice, plus the shared high-score board.
package training

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/quartz"

	"blackjack-trainer/internal/counting"
	"blackjack-trainer/internal/game"
	"blackjack-trainer/internal/store"
	"blackjack-trainer/internal/strategy"
)

var ErrDrillProtocol = errors.New("drill_protocol_error")

const maxDrillCards = 52

// Drills issues and verifies counting drills. Active drills live until
// verified once; verification against an unknown or already-consumed id is
// a protocol error and the drill is discarded either way.
type Drills struct {
	clock quartz.Clock

	mu     sync.Mutex
	active map[string]*activeDrill
}

type activeDrill struct {
	systemID  string
	numCards  int
	expected  float64
	startedAt time.Time
}

func NewDrills(clock quartz.Clock) *Drills {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Drills{clock: clock, active: map[string]*activeDrill{}}
}

type CountingDrill struct {
	ID            string   `json:"id"`
	System        string   `json:"system"`
	Cards         []string `json:"cards"`
	ExpectedCount float64  `json:"expected_count"`
}

// Counting deals numCards from a fresh single deck and records the drill
// for later verification. The expected count is included so a local UI can
// reveal the answer after the attempt.
func (d *Drills) Counting(numCards int, systemID string, seed *int64) (CountingDrill, error) {
	if numCards < 1 || numCards > maxDrillCards {
		return CountingDrill{}, fmt.Errorf("%w: num_cards %d", game.ErrValidation, numCards)
	}
	sys, err := counting.Lookup(systemID)
	if err != nil {
		return CountingDrill{}, err
	}

	shoe, err := newDrillShoe(seed)
	if err != nil {
		return CountingDrill{}, err
	}
	state := counting.NewState(sys, 1)
	cards := make([]string, 0, numCards)
	for i := 0; i < numCards; i++ {
		c, err := shoe.Deal()
		if err != nil {
			return CountingDrill{}, err
		}
		state.Count(c)
		cards = append(cards, c.String())
	}

	id := store.NewID()
	d.mu.Lock()
	d.active[id] = &activeDrill{
		systemID:  systemID,
		numCards:  numCards,
		expected:  state.RunningCount(),
		startedAt: d.clock.Now(),
	}
	d.mu.Unlock()

	return CountingDrill{ID: id, System: systemID, Cards: cards, ExpectedCount: state.RunningCount()}, nil
}

type VerifyResult struct {
	Correct   bool    `json:"correct"`
	Expected  float64 `json:"expected"`
	ElapsedMS int64   `json:"elapsed_ms"`
	Score     int     `json:"score"`
}

// Verify checks the user's count with zero tolerance. When the caller does
// not supply a wall-clock time the drill clock measures it, which makes
// the speed drill the counting drill plus timing.
func (d *Drills) Verify(id string, userCount float64, elapsedMS *int64) (VerifyResult, error) {
	d.mu.Lock()
	drill, ok := d.active[id]
	delete(d.active, id)
	d.mu.Unlock()
	if !ok {
		return VerifyResult{}, fmt.Errorf("%w: unknown drill %q", ErrDrillProtocol, id)
	}

	elapsed := d.clock.Now().Sub(drill.startedAt).Milliseconds()
	if elapsedMS != nil {
		elapsed = *elapsedMS
	}
	correct := userCount == drill.expected
	return VerifyResult{
		Correct:   correct,
		Expected:  drill.expected,
		ElapsedMS: elapsed,
		Score:     Score(drill.numCards, elapsed, correct),
	}, nil
}

type StrategyDrill struct {
	PlayerCards []string        `json:"player_cards"`
	Total       int             `json:"total"`
	IsSoft      bool            `json:"is_soft"`
	IsPair      bool            `json:"is_pair"`
	Upcard      string          `json:"upcard"`
	Correct     strategy.Action `json:"correct"`
}

// Strategy deals a random two-card hand and upcard; the oracle is basic
// strategy under the drill's rule set with every option on the table.
func (d *Drills) Strategy(rules game.RuleSet, seed *int64) (StrategyDrill, error) {
	shoe, err := newDrillShoe(seed)
	if err != nil {
		return StrategyDrill{}, err
	}
	h := &game.Hand{}
	c1, _ := shoe.Deal()
	c2, _ := shoe.Deal()
	up, _ := shoe.Deal()
	h.Add(c1)
	h.Add(c2)

	sit := strategy.FromHand(h, up.Value())
	al := strategy.Allowed{
		Double:    true,
		Split:     sit.Pair,
		Surrender: rules.Surrender != game.SurrenderNone,
		DAS:       rules.DoubleAfterSplit,
	}
	return StrategyDrill{
		PlayerCards: []string{c1.String(), c2.String()},
		Total:       sit.Total,
		IsSoft:      sit.Soft,
		IsPair:      sit.Pair,
		Upcard:      up.String(),
		Correct:     strategy.ChartFor(rules).Action(sit, al),
	}, nil
}

type DeviationDrill struct {
	Total       int             `json:"total"`
	IsSoft      bool            `json:"is_soft"`
	IsPair      bool            `json:"is_pair"`
	Upcard      int             `json:"upcard"`
	TrueCount   float64         `json:"true_count"`
	Correct     strategy.Action `json:"correct"`
	Basic       strategy.Action `json:"basic"`
	IsDeviation bool            `json:"is_deviation"`
	Description string          `json:"description"`
}

// Deviation samples an index play and a true count from the configured
// range, biased three-to-one toward plays whose threshold the range can
// actually cross so most questions have a live decision in them.
func (d *Drills) Deviation(rules game.RuleSet, tcMin, tcMax float64, seed *int64) (DeviationDrill, error) {
	if tcMin > tcMax {
		return DeviationDrill{}, fmt.Errorf("%w: true count range %v..%v", game.ErrValidation, tcMin, tcMax)
	}
	rng := newDrillRand(seed)

	plays := strategy.Illustrious18
	if rules.Surrender != game.SurrenderNone {
		plays = strategy.AllDeviations()
	}

	pool := make([]strategy.IndexPlay, 0, len(plays)*3)
	for _, p := range plays {
		pool = append(pool, p)
		if p.Index >= tcMin && p.Index <= tcMax {
			pool = append(pool, p, p)
		}
	}
	play := pool[rng.Intn(len(pool))]
	tc := tcMin + rng.Float64()*(tcMax-tcMin)

	correct := play.Basic
	if play.Triggered(tc) {
		correct = play.Deviation
	}
	return DeviationDrill{
		Total:       play.Total,
		IsSoft:      play.Soft,
		IsPair:      play.Pair,
		Upcard:      play.Upcard,
		TrueCount:   tc,
		Correct:     correct,
		Basic:       play.Basic,
		IsDeviation: correct != play.Basic,
		Description: play.Description,
	}, nil
}

func newDrillShoe(seed *int64) (*game.Shoe, error) {
	if seed != nil {
		return game.NewShoeSeeded(1, 1.0, *seed)
	}
	return game.NewShoe(1, 1.0)
}

func newDrillRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
