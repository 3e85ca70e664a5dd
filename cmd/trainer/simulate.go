package main

import (
	"blackjack-trainer/internal/game"
	"blackjack-trainer/internal/session"
	"blackjack-trainer/internal/strategy"
)

type simResult struct {
	Rounds     int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	NetCents   int64
}

// runSimulation flat-bets through rounds playing the trainer's recommended
// line: basic strategy plus whatever index plays the true count triggers.
func runSimulation(rules game.RuleSet, bankroll, bet int64, rounds int, seed int64) (simResult, error) {
	s, err := session.New(rules, "hilo", bankroll, &seed)
	if err != nil {
		return simResult{}, err
	}

	for i := 0; i < rounds; i++ {
		if _, err := s.PlaceBet(bet); err != nil {
			break
		}
		if s.Engine().State() == game.OfferingInsurance {
			take, _ := s.InsuranceAdvised()
			if _, err := s.Insurance(take); err != nil {
				return simResult{}, err
			}
		}
		if err := playRound(s); err != nil {
			return simResult{}, err
		}
		if s.Engine().State() == game.GameOver {
			break
		}
		if _, err := s.NewRound(); err != nil {
			break
		}
	}

	agg := s.Stats()
	return simResult{
		Rounds:     s.Engine().RoundsPlayed(),
		Wins:       agg.Wins,
		Losses:     agg.Losses,
		Pushes:     agg.Pushes,
		Blackjacks: agg.Blackjacks,
		NetCents:   agg.NetResult,
	}, nil
}

func playRound(s *session.Session) error {
	for s.Engine().State() == game.PlayerTurn {
		hint, err := s.Hint()
		if err != nil {
			return err
		}
		switch hint.Recommended {
		case strategy.Stand:
			_, err = s.Stand()
		case strategy.Double:
			_, err = s.Double()
		case strategy.Split:
			_, err = s.Split()
		case strategy.Surrender:
			_, err = s.Surrender()
		default:
			_, err = s.Hit()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
