package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"blackjack-trainer/internal/game"
)

// GameConfig carries the default table rules for new sessions. Values are
// validated through game.RuleSet, so a bad combination fails at startup
// rather than at the first session.
type GameConfig struct {
	NumDecks         int     `env:"GAME_NUM_DECKS" envDefault:"6"`
	Penetration      float64 `env:"GAME_PENETRATION" envDefault:"0.75"`
	MinBetCents      int64   `env:"GAME_MIN_BET_CENTS" envDefault:"1000"`
	MaxBetCents      int64   `env:"GAME_MAX_BET_CENTS" envDefault:"100000"`
	DealerHitsSoft17 bool    `env:"GAME_DEALER_HITS_SOFT_17" envDefault:"false"`
	BlackjackPayout  string  `env:"GAME_BLACKJACK_PAYOUT" envDefault:"3:2"`
	DoubleAfterSplit bool    `env:"GAME_DOUBLE_AFTER_SPLIT" envDefault:"true"`
	DoubleOn         string  `env:"GAME_DOUBLE_ON" envDefault:"any"`
	ResplitAces      bool    `env:"GAME_RESPLIT_ACES" envDefault:"false"`
	HitSplitAces     bool    `env:"GAME_HIT_SPLIT_ACES" envDefault:"false"`
	MaxSplits        int     `env:"GAME_MAX_SPLITS" envDefault:"4"`
	Surrender        string  `env:"GAME_SURRENDER" envDefault:"late"`
	InsuranceAllowed bool    `env:"GAME_INSURANCE_ALLOWED" envDefault:"true"`
	DealerPeeks      bool    `env:"GAME_DEALER_PEEKS" envDefault:"true"`

	StartingBankrollCents int64 `env:"GAME_STARTING_BANKROLL_CENTS" envDefault:"100000"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	if err := env.Parse(&cfg); err != nil {
		return GameConfig{}, err
	}
	if _, err := cfg.Rules(); err != nil {
		return GameConfig{}, fmt.Errorf("game config: %w", err)
	}
	return cfg, nil
}

func (c GameConfig) Rules() (game.RuleSet, error) {
	r := game.RuleSet{
		NumDecks:         c.NumDecks,
		Penetration:      c.Penetration,
		MinBet:           c.MinBetCents,
		MaxBet:           c.MaxBetCents,
		DealerHitsSoft17: c.DealerHitsSoft17,
		BlackjackPayout:  game.BlackjackPayout(c.BlackjackPayout),
		DoubleAfterSplit: c.DoubleAfterSplit,
		DoubleOn:         game.DoubleRule(c.DoubleOn),
		ResplitAces:      c.ResplitAces,
		HitSplitAces:     c.HitSplitAces,
		MaxSplits:        c.MaxSplits,
		Surrender:        game.SurrenderRule(c.Surrender),
		InsuranceAllowed: c.InsuranceAllowed,
		DealerPeeks:      c.DealerPeeks,
	}
	if err := r.Validate(); err != nil {
		return game.RuleSet{}, err
	}
	return r, nil
}
