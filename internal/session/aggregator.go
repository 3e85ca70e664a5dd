package session

import "blackjack-trainer/internal/game"

type DrillTally struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
}

// Aggregator keeps per-session tallies. It is fed exclusively by engine
// events and drill results and never reaches back into the engine.
type Aggregator struct {
	HandsPlayed     int                    `json:"hands_played"`
	Wins            int                    `json:"wins"`
	Losses          int                    `json:"losses"`
	Pushes          int                    `json:"pushes"`
	Blackjacks      int                    `json:"blackjacks"`
	NetResult       int64                  `json:"net_result"` // cents
	BankrollHistory []int64                `json:"bankroll_history"`
	Drills          map[string]*DrillTally `json:"drills"`
	SpeedBestScore  int                    `json:"speed_best_score"`
}

func NewAggregator() *Aggregator {
	return &Aggregator{Drills: map[string]*DrillTally{}}
}

func (a *Aggregator) Observe(ev game.Event) {
	switch ev.Kind {
	case game.EventHandResult:
		if ev.Seat != "player" {
			return
		}
		a.HandsPlayed++
		switch ev.Outcome {
		case "win":
			a.Wins++
		case "blackjack":
			a.Wins++
			a.Blackjacks++
		case "lose", "surrender":
			a.Losses++
		case "push":
			a.Pushes++
		}
	case game.EventRoundEnded:
		a.NetResult += ev.Amount
	case game.EventBankrollChanged:
		a.BankrollHistory = append(a.BankrollHistory, ev.Bankroll)
	}
}

func (a *Aggregator) RecordDrill(kind string, correct bool) {
	t := a.Drills[kind]
	if t == nil {
		t = &DrillTally{}
		a.Drills[kind] = t
	}
	t.Attempted++
	if correct {
		t.Correct++
	}
}

func (a *Aggregator) RecordSpeedScore(score int) {
	if score > a.SpeedBestScore {
		a.SpeedBestScore = score
	}
}
