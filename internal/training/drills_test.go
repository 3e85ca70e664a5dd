package training

import (
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"

	"blackjack-trainer/internal/counting"
	"blackjack-trainer/internal/game"
	"blackjack-trainer/internal/strategy"
)

func TestCountingDrillDeterministicWithSeed(t *testing.T) {
	d := NewDrills(quartz.NewMock(t))
	seed := int64(42)

	a, err := d.Counting(20, "hilo", &seed)
	if err != nil {
		t.Fatalf("Counting: %v", err)
	}
	b, err := d.Counting(20, "hilo", &seed)
	if err != nil {
		t.Fatalf("Counting: %v", err)
	}
	if len(a.Cards) != 20 || len(b.Cards) != 20 {
		t.Fatalf("card counts: %d, %d", len(a.Cards), len(b.Cards))
	}
	for i := range a.Cards {
		if a.Cards[i] != b.Cards[i] {
			t.Fatalf("card %d differs: %s vs %s", i, a.Cards[i], b.Cards[i])
		}
	}
	if a.ExpectedCount != b.ExpectedCount {
		t.Fatalf("expected counts differ: %v vs %v", a.ExpectedCount, b.ExpectedCount)
	}
}

func TestCountingDrillExpectedMatchesTags(t *testing.T) {
	d := NewDrills(quartz.NewMock(t))
	seed := int64(7)
	drill, err := d.Counting(15, "wong_halves", &seed)
	if err != nil {
		t.Fatalf("Counting: %v", err)
	}
	state := counting.NewState(counting.WongHalves, 1)
	for _, s := range drill.Cards {
		c, err := game.ParseCard(s)
		if err != nil {
			t.Fatalf("ParseCard(%s): %v", s, err)
		}
		state.Count(c)
	}
	if state.RunningCount() != drill.ExpectedCount {
		t.Fatalf("recount = %v, drill says %v", state.RunningCount(), drill.ExpectedCount)
	}
}

func TestVerifyExactTolerance(t *testing.T) {
	d := NewDrills(quartz.NewMock(t))
	seed := int64(9)
	drill, _ := d.Counting(10, "hilo", &seed)

	res, err := d.Verify(drill.ID, drill.ExpectedCount, nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Correct {
		t.Fatal("exact answer judged wrong")
	}

	drill, _ = d.Counting(10, "hilo", &seed)
	res, err = d.Verify(drill.ID, drill.ExpectedCount+0.5, nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Correct {
		t.Fatal("half a point off judged correct; tolerance must be zero")
	}
	if res.Score != 0 {
		t.Fatalf("score on a miss = %d, want 0", res.Score)
	}
}

func TestVerifyConsumesDrill(t *testing.T) {
	d := NewDrills(quartz.NewMock(t))
	seed := int64(10)
	drill, _ := d.Counting(5, "ko", &seed)
	if _, err := d.Verify(drill.ID, drill.ExpectedCount, nil); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if _, err := d.Verify(drill.ID, drill.ExpectedCount, nil); !errors.Is(err, ErrDrillProtocol) {
		t.Fatalf("second verify: %v, want ErrDrillProtocol", err)
	}
	if _, err := d.Verify("01J000UNKNOWN", 0, nil); !errors.Is(err, ErrDrillProtocol) {
		t.Fatalf("unknown id: %v, want ErrDrillProtocol", err)
	}
}

func TestSpeedScoreSchedule(t *testing.T) {
	cases := []struct {
		cards   int
		elapsed time.Duration
		want    int
	}{
		{20, 8 * time.Second, 700},  // 400ms/card: fast tier
		{20, 15 * time.Second, 450}, // 750ms/card: middle tier
		{20, 30 * time.Second, 300}, // 1.5s/card: slow tier
		{20, 60 * time.Second, 200}, // base only
	}
	for _, tc := range cases {
		mock := quartz.NewMock(t)
		d := NewDrills(mock)
		seed := int64(3)
		drill, err := d.Counting(tc.cards, "hilo", &seed)
		if err != nil {
			t.Fatalf("Counting: %v", err)
		}
		mock.Advance(tc.elapsed)
		res, err := d.Verify(drill.ID, drill.ExpectedCount, nil)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if res.Score != tc.want {
			t.Fatalf("%v for %d cards: score = %d, want %d", tc.elapsed, tc.cards, res.Score, tc.want)
		}
		if res.ElapsedMS != tc.elapsed.Milliseconds() {
			t.Fatalf("elapsed = %dms, want %dms", res.ElapsedMS, tc.elapsed.Milliseconds())
		}
	}
}

func TestVerifyPrefersReportedElapsed(t *testing.T) {
	mock := quartz.NewMock(t)
	d := NewDrills(mock)
	seed := int64(4)
	drill, _ := d.Counting(10, "hilo", &seed)
	mock.Advance(time.Hour)

	reported := int64(4000)
	res, err := d.Verify(drill.ID, drill.ExpectedCount, &reported)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.ElapsedMS != 4000 {
		t.Fatalf("elapsed = %d, want the reported 4000", res.ElapsedMS)
	}
	if res.Score != 10*10+500 {
		t.Fatalf("score = %d, want %d", res.Score, 10*10+500)
	}
}

func TestCountingDrillValidation(t *testing.T) {
	d := NewDrills(quartz.NewMock(t))
	if _, err := d.Counting(0, "hilo", nil); !errors.Is(err, game.ErrValidation) {
		t.Fatalf("zero cards: %v", err)
	}
	if _, err := d.Counting(53, "hilo", nil); !errors.Is(err, game.ErrValidation) {
		t.Fatalf("53 cards: %v", err)
	}
	if _, err := d.Counting(10, "zen", nil); !errors.Is(err, game.ErrConfiguration) {
		t.Fatalf("unknown system: %v", err)
	}
}

func TestStrategyDrillOracle(t *testing.T) {
	d := NewDrills(quartz.NewMock(t))
	rules := game.VegasStrip()
	for seed := int64(0); seed < 50; seed++ {
		s := seed
		q, err := d.Strategy(rules, &s)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(q.PlayerCards) != 2 || q.Upcard == "" {
			t.Fatalf("seed %d: malformed drill %+v", seed, q)
		}
		switch q.Correct {
		case strategy.Hit, strategy.Stand, strategy.Double, strategy.Split, strategy.Surrender:
		default:
			t.Fatalf("seed %d: oracle returned %q", seed, q.Correct)
		}
		if q.Correct == strategy.Split && !q.IsPair {
			t.Fatalf("seed %d: split advised on a non-pair", seed)
		}
	}
}

func TestDeviationDrillOracle(t *testing.T) {
	d := NewDrills(quartz.NewMock(t))
	rules := game.VegasStrip()
	sawDeviation := false
	for seed := int64(0); seed < 100; seed++ {
		s := seed
		q, err := d.Deviation(rules, -3, 6, &s)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if q.TrueCount < -3 || q.TrueCount > 6 {
			t.Fatalf("seed %d: TC %v out of range", seed, q.TrueCount)
		}
		if q.IsDeviation {
			sawDeviation = true
			if q.Correct == q.Basic {
				t.Fatalf("seed %d: deviation flagged but actions equal", seed)
			}
		} else if q.Correct != q.Basic {
			t.Fatalf("seed %d: no deviation but %s != %s", seed, q.Correct, q.Basic)
		}
	}
	if !sawDeviation {
		t.Fatal("bias never produced a triggered deviation in 100 samples")
	}
}

func TestDeviationDrillExcludesSurrenderWhenDisallowed(t *testing.T) {
	d := NewDrills(quartz.NewMock(t))
	rules := game.VegasStrip()
	rules.Surrender = game.SurrenderNone
	for seed := int64(0); seed < 100; seed++ {
		s := seed
		q, err := d.Deviation(rules, -3, 6, &s)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if q.Correct == strategy.Surrender {
			t.Fatalf("seed %d: surrender oracle with surrender disabled", seed)
		}
	}
}

func TestHighScoresAtomicReplace(t *testing.T) {
	h := NewHighScores(3)
	for _, s := range []int64{100, 500, 300, 200, 400} {
		h.Submit(ScoreEntry{Player: "p", DrillKind: "speed", Score: s})
	}
	top := h.Top()
	if len(top) != 3 {
		t.Fatalf("board size = %d, want 3", len(top))
	}
	want := []int64{500, 400, 300}
	for i, e := range top {
		if e.Score != want[i] {
			t.Fatalf("slot %d = %d, want %d", i, e.Score, want[i])
		}
	}
}
