package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"blackjack-trainer/internal/counting"
	"blackjack-trainer/internal/game"
	"blackjack-trainer/internal/stats"
	"blackjack-trainer/internal/store"
	"blackjack-trainer/internal/strategy"
)

// Session owns one seat: an engine, the counting state bound to its shoe,
// and the stats aggregator. All engine access goes through the command
// methods below, which absorb the returned event log into the counting
// state and the aggregator before handing it to the caller.
type Session struct {
	ID string

	engine *game.Engine
	count  *counting.State
	agg    *Aggregator
	logger zerolog.Logger
}

func New(rules game.RuleSet, systemID string, startingBankroll int64, seed *int64) (*Session, error) {
	sys, err := counting.Lookup(systemID)
	if err != nil {
		return nil, err
	}
	engine, err := game.NewEngine(rules, startingBankroll, seed)
	if err != nil {
		return nil, err
	}
	id := store.NewID()
	return &Session{
		ID:     id,
		engine: engine,
		count:  counting.NewState(sys, rules.NumDecks),
		agg:    NewAggregator(),
		logger: log.With().Str("session_id", id).Logger(),
	}, nil
}

func (s *Session) Engine() *game.Engine { return s.engine }

func (s *Session) Stats() *Aggregator { return s.agg }

func (s *Session) Counting() *counting.State { return s.count }

// absorb routes a command's event log to the counting state and the
// aggregator. Only face-up cards are counted; the hole card joins the
// count when its card_revealed event arrives.
func (s *Session) absorb(events []game.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case game.EventCardDealt, game.EventCardRevealed:
			if ev.Hidden || ev.Card == "" {
				continue
			}
			if c, err := game.ParseCard(ev.Card); err == nil {
				s.count.Count(c)
			}
		case game.EventShoeShuffled:
			s.count.Reset()
		}
		s.agg.Observe(ev)
	}
}

func (s *Session) run(name string, fn func() ([]game.Event, error)) ([]game.Event, error) {
	events, err := fn()
	s.absorb(events)
	if err != nil {
		s.logger.Debug().Str("command", name).Err(err).Msg("command rejected")
		return events, err
	}
	s.logger.Debug().Str("command", name).Int("events", len(events)).Msg("command applied")
	return events, nil
}

func (s *Session) PlaceBet(amount int64) ([]game.Event, error) {
	return s.run("place_bet", func() ([]game.Event, error) { return s.engine.PlaceBet(amount) })
}

func (s *Session) Insurance(take bool) ([]game.Event, error) {
	return s.run("insurance", func() ([]game.Event, error) { return s.engine.Insurance(take) })
}

func (s *Session) Hit() ([]game.Event, error) {
	return s.run("hit", s.engine.Hit)
}

func (s *Session) Stand() ([]game.Event, error) {
	return s.run("stand", s.engine.Stand)
}

func (s *Session) Double() ([]game.Event, error) {
	return s.run("double", s.engine.Double)
}

func (s *Session) Split() ([]game.Event, error) {
	return s.run("split", s.engine.Split)
}

func (s *Session) Surrender() ([]game.Event, error) {
	return s.run("surrender", s.engine.Surrender)
}

func (s *Session) NewRound() ([]game.Event, error) {
	return s.run("new_round", s.engine.NewRound)
}

func (s *Session) ResetGame() ([]game.Event, error) {
	return s.run("reset_game", s.engine.ResetGame)
}

func (s *Session) TrueCount() float64 {
	return s.count.TrueCount(s.engine.Shoe.DecksRemaining())
}

type CountingSnapshot struct {
	System       string  `json:"system"`
	RunningCount float64 `json:"running_count"`
	TrueCount    float64 `json:"true_count"`
	CardsSeen    int     `json:"cards_seen"`
	AceSideCount *int    `json:"ace_side_count,omitempty"`
}

// Snapshot is the engine snapshot plus the counting view.
type Snapshot struct {
	game.Snapshot
	Counting CountingSnapshot `json:"counting"`
}

func (s *Session) Snapshot() Snapshot {
	cs := CountingSnapshot{
		System:       s.count.System().ID,
		RunningCount: s.count.RunningCount(),
		TrueCount:    s.TrueCount(),
		CardsSeen:    s.count.CardsSeen(),
	}
	if s.count.System().SideCountsAces {
		aces := s.count.AcesSeen()
		cs.AceSideCount = &aces
	}
	return Snapshot{Snapshot: s.engine.Snapshot(), Counting: cs}
}

func (s *Session) AvailableActions() []game.ActionKind {
	return s.engine.AvailableActions()
}

// InsuranceAdvised reports whether the count justifies the side wager
// while the offer is open.
func (s *Session) InsuranceAdvised() (bool, error) {
	if s.engine.State() != game.OfferingInsurance {
		return false, game.ErrWrongState
	}
	return strategy.TakeInsurance(s.TrueCount()), nil
}

// Hint resolves basic strategy plus any index play at the live true count
// for the hand currently being played.
func (s *Session) Hint() (strategy.Hint, error) {
	snap := s.engine.Snapshot()
	tc := s.TrueCount()

	if s.engine.State() != game.PlayerTurn {
		return strategy.Hint{}, game.ErrWrongState
	}

	hands := s.engine.Hands()
	h := hands[s.engine.CurrentHandIndex()]
	sit := strategy.FromHand(h, s.engine.Upcard())
	al := strategy.Allowed{
		Double:    snap.CanDouble,
		Split:     snap.CanSplit,
		Surrender: snap.CanSurrender,
		DAS:       s.engine.Rules.DoubleAfterSplit,
	}
	return strategy.Advise(strategy.ChartFor(s.engine.Rules), sit, al, tc), nil
}

// DealerOutlook is the dealer's final-outcome distribution for the shown
// upcard against the live shoe, exact when the shoe is short and table-based
// otherwise.
func (s *Session) DealerOutlook() (stats.DealerDist, error) {
	up := s.engine.Upcard()
	if up == 0 {
		return stats.DealerDist{}, game.ErrWrongState
	}
	return stats.DealerDistributionFor(up, s.engine.Shoe, s.engine.Rules.DealerHitsSoft17)
}

// EV reports the per-action expectations for the current hand against the
// live shoe composition.
func (s *Session) EV() (stats.ActionEVs, error) {
	if s.engine.State() != game.PlayerTurn {
		return stats.ActionEVs{}, game.ErrWrongState
	}
	snap := s.engine.Snapshot()
	h := s.engine.Hands()[s.engine.CurrentHandIndex()]
	comp := s.engine.Shoe.CompositionByValue()
	return stats.EVForHand(h, s.engine.Upcard(), comp, s.engine.Rules,
		snap.CanDouble, snap.CanSplit, snap.CanSurrender)
}

type sessionRecord struct {
	Version  int             `json:"version"`
	ID       string          `json:"id"`
	Engine   json.RawMessage `json:"engine"`
	Counting counting.Record `json:"counting"`
	Stats    *Aggregator     `json:"stats"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	eng, err := s.engine.MarshalState()
	if err != nil {
		return nil, err
	}
	return json.Marshal(sessionRecord{
		Version:  1,
		ID:       s.ID,
		Engine:   eng,
		Counting: s.count.MarshalRecord(),
		Stats:    s.agg,
	})
}

func Restore(data []byte) (*Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrConfiguration, err)
	}
	if rec.Version != 1 {
		return nil, fmt.Errorf("%w: unsupported session version %d", game.ErrConfiguration, rec.Version)
	}
	engine, err := game.UnmarshalState(rec.Engine)
	if err != nil {
		return nil, err
	}
	count, err := counting.RestoreState(rec.Counting)
	if err != nil {
		return nil, err
	}
	agg := rec.Stats
	if agg == nil {
		agg = NewAggregator()
	}
	if agg.Drills == nil {
		agg.Drills = map[string]*DrillTally{}
	}
	return &Session{
		ID:     rec.ID,
		engine: engine,
		count:  count,
		agg:    agg,
		logger: log.With().Str("session_id", rec.ID).Logger(),
	}, nil
}

// Manager is the process-wide session registry. Sessions themselves are
// single-threaded; the manager only guards the map.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: map[string]*Session{}}
}

func (m *Manager) Create(rules game.RuleSet, systemID string, startingBankroll int64, seed *int64) (*Session, error) {
	s, err := New(rules, systemID, startingBankroll, seed)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	log.Info().Str("session_id", s.ID).Str("system", systemID).Msg("session created")
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
