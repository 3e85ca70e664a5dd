package game

import (
	"errors"
	"testing"
)

func TestShoeCompositionInvariant(t *testing.T) {
	shoe, err := NewShoeSeeded(6, 0.75, 42)
	if err != nil {
		t.Fatalf("NewShoeSeeded: %v", err)
	}

	for i := 0; i < 100; i++ {
		if _, err := shoe.Deal(); err != nil {
			t.Fatalf("deal %d: %v", i, err)
		}
	}

	counts := map[Card]int{}
	for _, c := range shoe.cards {
		counts[c]++
	}
	for _, c := range shoe.dealt {
		counts[c]++
	}
	if len(counts) != 52 {
		t.Fatalf("distinct cards = %d, want 52", len(counts))
	}
	for c, n := range counts {
		if n != 6 {
			t.Fatalf("card %s appears %d times, want 6", c, n)
		}
	}
}

func TestShoeSeedReproducible(t *testing.T) {
	a, _ := NewShoeSeeded(2, 0.5, 7)
	b, _ := NewShoeSeeded(2, 0.5, 7)
	for i := 0; i < 104; i++ {
		ca, _ := a.Deal()
		cb, _ := b.Deal()
		if ca != cb {
			t.Fatalf("draw %d: %s != %s", i, ca, cb)
		}
	}
}

func TestShoeExhausted(t *testing.T) {
	shoe, _ := NewShoeSeeded(1, 1.0, 1)
	for i := 0; i < 52; i++ {
		if _, err := shoe.Deal(); err != nil {
			t.Fatalf("deal %d: %v", i, err)
		}
	}
	if _, err := shoe.Deal(); !errors.Is(err, ErrShoeExhausted) {
		t.Fatalf("err = %v, want ErrShoeExhausted", err)
	}
}

func TestShoeNeedsShuffle(t *testing.T) {
	shoe, _ := NewShoeSeeded(1, 0.5, 3)
	if shoe.NeedsShuffle() {
		t.Fatal("fresh shoe should not need a shuffle")
	}
	for i := 0; i < 26; i++ {
		_, _ = shoe.Deal()
	}
	if !shoe.NeedsShuffle() {
		t.Fatal("shoe past the cut card should need a shuffle")
	}
	shoe.Reshuffle()
	if shoe.NeedsShuffle() || shoe.CardsRemaining() != 52 {
		t.Fatalf("reshuffle did not restore the shoe: remaining=%d", shoe.CardsRemaining())
	}
}

func TestShoePeekDoesNotDeal(t *testing.T) {
	shoe, _ := NewShoeSeeded(1, 1.0, 9)
	p, err := shoe.Peek()
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	c, _ := shoe.Deal()
	if p != c {
		t.Fatalf("peek %s != deal %s", p, c)
	}
	if shoe.CardsDealt() != 1 {
		t.Fatalf("cards dealt = %d, want 1", shoe.CardsDealt())
	}
}

func TestDecksRemainingFloor(t *testing.T) {
	shoe, _ := NewShoeSeeded(1, 1.0, 11)
	for i := 0; i < 40; i++ {
		_, _ = shoe.Deal()
	}
	if got := shoe.DecksRemaining(); got != 0.5 {
		t.Fatalf("DecksRemaining = %v, want floor of 0.5", got)
	}
}

func TestShoeConfigRejected(t *testing.T) {
	if _, err := NewShoeSeeded(3, 0.75, 1); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("3 decks: err = %v, want ErrConfiguration", err)
	}
	if _, err := NewShoeSeeded(6, 0, 1); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("zero penetration: err = %v, want ErrConfiguration", err)
	}
}

func TestParseCardRoundTrip(t *testing.T) {
	for suit := Spades; suit <= Clubs; suit++ {
		for r := Two; r <= Ace; r++ {
			c := Card{Rank: r, Suit: suit}
			parsed, err := ParseCard(c.String())
			if err != nil {
				t.Fatalf("ParseCard(%q): %v", c.String(), err)
			}
			if parsed != c {
				t.Fatalf("round trip %s -> %s", c, parsed)
			}
		}
	}
	if _, err := ParseCard("1x"); err == nil {
		t.Fatal("expected error for bad card")
	}
}

func TestCardValues(t *testing.T) {
	cases := []struct {
		rank Rank
		want int
	}{
		{Two, 2}, {Nine, 9}, {Ten, 10}, {Jack, 10}, {Queen, 10}, {King, 10}, {Ace, 11},
	}
	for _, tc := range cases {
		if got := tc.rank.Value(); got != tc.want {
			t.Fatalf("Value(%d) = %d, want %d", tc.rank, got, tc.want)
		}
	}
	if !(Card{Rank: King, Suit: Hearts}).SameValue(Card{Rank: Ten, Suit: Spades}) {
		t.Fatal("K and T should match by value")
	}
}
