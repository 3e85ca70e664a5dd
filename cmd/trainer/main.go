package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"

	"blackjack-trainer/internal/game"
	"blackjack-trainer/internal/stats"
	"blackjack-trainer/internal/training"
)

type CLI struct {
	Count    CountCmd    `cmd:"" help:"Run a card-counting drill in the terminal."`
	Strategy StrategyCmd `cmd:"" help:"Quiz basic strategy decisions."`
	Edge     EdgeCmd     `cmd:"" help:"Show the house edge for a rule set."`
	Kelly    KellyCmd    `cmd:"" help:"Kelly bet sizing for an edge and bankroll."`
	Bankroll BankrollCmd `cmd:"" help:"Risk-of-ruin and unit sizing for a bankroll."`
	Simulate SimulateCmd `cmd:"" help:"Auto-play rounds with basic strategy and report results."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("trainer"),
		kong.Description("Blackjack card-counting trainer drills and calculators."),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

type CountCmd struct {
	Cards  int    `short:"n" default:"20" help:"Number of cards to deal."`
	System string `short:"s" default:"hilo" enum:"hilo,ko,omega2,wong_halves" help:"Counting system."`
	Seed   *int64 `help:"Seed for a reproducible drill."`
}

func (c *CountCmd) Run() error {
	drills := training.NewDrills(quartz.NewReal())
	drill, err := drills.Counting(c.Cards, c.System, c.Seed)
	if err != nil {
		return err
	}

	fmt.Printf("Count these %d cards (%s):\n\n", c.Cards, c.System)
	for _, card := range drill.Cards {
		fmt.Printf("  %s", card)
	}
	fmt.Print("\n\nYour running count: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	user, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", strings.TrimSpace(line))
	}

	result, err := drills.Verify(drill.ID, user, nil)
	if err != nil {
		return err
	}
	if result.Correct {
		fmt.Printf("Correct! %.1f in %.1fs, score %d\n",
			result.Expected, float64(result.ElapsedMS)/1000, result.Score)
	} else {
		fmt.Printf("Miss: expected %.1f, you said %.1f\n", result.Expected, user)
	}
	return nil
}

type StrategyCmd struct {
	Questions int    `short:"n" default:"10" help:"Number of questions."`
	H17       bool   `help:"Dealer hits soft 17."`
	Seed      *int64 `help:"Seed for a reproducible quiz."`
}

func (c *StrategyCmd) Run() error {
	rules := game.VegasStrip()
	if c.H17 {
		rules = game.DowntownVegas()
	}
	drills := training.NewDrills(quartz.NewReal())
	reader := bufio.NewReader(os.Stdin)
	correct := 0

	for i := 0; i < c.Questions; i++ {
		var seed *int64
		if c.Seed != nil {
			s := *c.Seed + int64(i)
			seed = &s
		}
		q, err := drills.Strategy(rules, seed)
		if err != nil {
			return err
		}
		fmt.Printf("\n[%d/%d] You: %s (total %d)  Dealer: %s\n",
			i+1, c.Questions, strings.Join(q.PlayerCards, " "), q.Total, q.Upcard)
		fmt.Print("hit/stand/double/split/surrender? ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer == string(q.Correct) {
			correct++
			fmt.Println("correct")
		} else {
			fmt.Printf("wrong, basic strategy says %s\n", q.Correct)
		}
	}
	fmt.Printf("\nScore: %d/%d\n", correct, c.Questions)
	return nil
}

type EdgeCmd struct {
	Decks int  `default:"6" help:"Number of decks (1, 2, 4, 6, 8)."`
	H17   bool `help:"Dealer hits soft 17."`
	NoDAS bool `help:"Double after split not allowed."`
	BJ65  bool `help:"Blackjack pays 6:5."`
}

func (c *EdgeCmd) Run() error {
	rules := game.VegasStrip()
	rules.NumDecks = c.Decks
	rules.DealerHitsSoft17 = c.H17
	rules.DoubleAfterSplit = !c.NoDAS
	if c.BJ65 {
		rules.BlackjackPayout = game.PayoutSixToFive
	}
	if err := rules.Validate(); err != nil {
		return err
	}
	fmt.Printf("House edge: %.3f%%\n", stats.HouseEdge(rules)*100)
	return nil
}

type KellyCmd struct {
	Edge     float64 `required:"" help:"Player edge as a fraction, e.g. 0.01."`
	Bankroll float64 `required:"" help:"Bankroll in dollars."`
	Fraction float64 `default:"0.5" help:"Kelly fraction (0.5 = half Kelly)."`
}

func (c *KellyCmd) Run() error {
	bet := stats.Kelly(c.Edge, c.Bankroll, c.Fraction)
	fmt.Printf("Recommended bet: $%.2f\n", bet)
	fmt.Printf("Risk of ruin:    %.4f\n", stats.RiskOfRuin(c.Edge, c.Bankroll/bet))
	fmt.Printf("N0:              %.0f hands\n", stats.NZero(c.Edge))
	return nil
}

type BankrollCmd struct {
	Bankroll float64 `required:"" help:"Bankroll in dollars."`
	Edge     float64 `default:"0.01" help:"Expected player edge as a fraction."`
	AvgBet   float64 `default:"25" help:"Average bet in dollars."`
	Spread   int     `default:"8" help:"Maximum bet spread in units."`
}

func (c *BankrollCmd) Run() error {
	bankrollCents := int64(c.Bankroll * 100)
	avgBetCents := int64(c.AvgBet * 100)
	rep := stats.AnalyzeBankroll(bankrollCents, avgBetCents, c.Edge)

	fmt.Printf("Risk of ruin:     %.4f\n", rep.Probability)
	fmt.Printf("Hands to double:  %d\n", rep.HandsToDouble)
	fmt.Printf("N0:               %.0f hands\n", rep.NZero)
	fmt.Printf("Suggested unit:   $%.2f\n", float64(stats.RecommendedUnit(bankrollCents, c.Spread, 400))/100)
	fmt.Printf("Session stop:     $%.2f\n", float64(stats.SessionStopLoss(bankrollCents, 0.1))/100)
	return nil
}

type SimulateCmd struct {
	Rounds   int    `short:"n" default:"1000" help:"Rounds to play."`
	BetCents int64  `default:"1000" help:"Flat bet per round in cents."`
	Seed     *int64 `help:"Seed for a reproducible run."`
	H17      bool   `help:"Dealer hits soft 17."`
}

func (c *SimulateCmd) Run() error {
	rules := game.VegasStrip()
	if c.H17 {
		rules = game.DowntownVegas()
	}
	bankroll := c.BetCents * int64(c.Rounds)

	seed := c.Seed
	if seed == nil {
		s := time.Now().UnixNano()
		seed = &s
	}
	result, err := runSimulation(rules, bankroll, c.BetCents, c.Rounds, *seed)
	if err != nil {
		return err
	}

	fmt.Printf("Rounds:     %d\n", result.Rounds)
	fmt.Printf("Won/Lost:   %d/%d (%d pushes, %d blackjacks)\n",
		result.Wins, result.Losses, result.Pushes, result.Blackjacks)
	fmt.Printf("Net:        $%.2f\n", float64(result.NetCents)/100)
	fmt.Printf("Per round:  %.3f%% of the bet\n",
		100*float64(result.NetCents)/float64(c.BetCents)/float64(result.Rounds))
	return nil
}
