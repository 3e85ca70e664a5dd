package counting

import "blackjack-trainer/internal/game"

// State tracks one system against one shoe. Arithmetic stays in doubled
// integer units; callers see conventional halves through RunningCount.
type State struct {
	sys      System
	numDecks int
	running  int // doubled units
	seen     int
	acesSeen int
}

func NewState(sys System, numDecks int) *State {
	s := &State{sys: sys, numDecks: numDecks}
	s.Reset()
	return s
}

func (s *State) System() System { return s.sys }

// Count feeds one visible card into the running count.
func (s *State) Count(c game.Card) {
	s.running += s.sys.Tag(c)
	s.seen++
	if c.IsAce() {
		s.acesSeen++
	}
}

// Reset returns to the system's IRC; called whenever the bound shoe
// reshuffles.
func (s *State) Reset() {
	s.running = s.sys.IRC(s.numDecks)
	s.seen = 0
	s.acesSeen = 0
}

// RunningCount is in conventional units (halves for Wong Halves).
func (s *State) RunningCount() float64 { return float64(s.running) / 2 }

func (s *State) CardsSeen() int { return s.seen }

func (s *State) AcesSeen() int { return s.acesSeen }

// TrueCount converts for betting and index decisions. Balanced systems
// divide the running count by decks remaining. For unbalanced systems the
// IRC is removed first, which is the same comparison as rescaling each
// index by decks_remaining plus IRC.
func (s *State) TrueCount(decksRemaining float64) float64 {
	if decksRemaining < 0.5 {
		decksRemaining = 0.5
	}
	rc := float64(s.running)
	if !s.sys.Balanced {
		rc -= float64(s.sys.IRC(s.numDecks))
	}
	return rc / 2 / decksRemaining
}

// AceRichness is the surplus of aces seen over the pro-rata expectation of
// four per deck. Positive means the remaining shoe is ace-poor.
func (s *State) AceRichness() float64 {
	return float64(s.acesSeen) - float64(s.seen)/52*4
}

// Record is the persisted form of a count. Running stays in doubled units
// so the round trip is exact.
type Record struct {
	SystemID string `json:"system"`
	NumDecks int    `json:"num_decks"`
	Running  int    `json:"running"`
	Seen     int    `json:"cards_seen"`
	Aces     int    `json:"aces_seen"`
}

func (s *State) MarshalRecord() Record {
	return Record{
		SystemID: s.sys.ID,
		NumDecks: s.numDecks,
		Running:  s.running,
		Seen:     s.seen,
		Aces:     s.acesSeen,
	}
}

func RestoreState(rec Record) (*State, error) {
	sys, err := Lookup(rec.SystemID)
	if err != nil {
		return nil, err
	}
	return &State{
		sys:      sys,
		numDecks: rec.NumDecks,
		running:  rec.Running,
		seen:     rec.Seen,
		acesSeen: rec.Aces,
	}, nil
}
