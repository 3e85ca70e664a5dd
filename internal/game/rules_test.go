package game

import (
	"errors"
	"testing"
)

func TestRuleSetValidate(t *testing.T) {
	if err := VegasStrip().Validate(); err != nil {
		t.Fatalf("VegasStrip should validate: %v", err)
	}

	bad := []func(*RuleSet){
		func(r *RuleSet) { r.NumDecks = 3 },
		func(r *RuleSet) { r.Penetration = 1.5 },
		func(r *RuleSet) { r.MinBet = 0 },
		func(r *RuleSet) { r.MaxBet = 1 },
		func(r *RuleSet) { r.MaxSplits = 0 },
		func(r *RuleSet) { r.Surrender = "sometimes" },
		func(r *RuleSet) { r.DoubleOn = "12" },
		func(r *RuleSet) { r.BlackjackPayout = "2:1" },
	}
	for i, mutate := range bad {
		r := VegasStrip()
		mutate(&r)
		if err := r.Validate(); !errors.Is(err, ErrConfiguration) {
			t.Fatalf("case %d: err = %v, want ErrConfiguration", i, err)
		}
	}
}

func TestBlackjackPayoutWin(t *testing.T) {
	cases := []struct {
		payout BlackjackPayout
		bet    int64
		want   int64
	}{
		{PayoutThreeToTwo, 10000, 15000},
		{PayoutSixToFive, 10000, 12000},
		{PayoutEvenMoney, 10000, 10000},
	}
	for _, tc := range cases {
		if got := tc.payout.Win(tc.bet); got != tc.want {
			t.Fatalf("%s on %d = %d, want %d", tc.payout, tc.bet, got, tc.want)
		}
	}
}

func TestDoubleAllowedOn(t *testing.T) {
	r := VegasStrip()
	if !r.DoubleAllowedOn(5) {
		t.Fatal("any: 5 should be doubleable")
	}
	r.DoubleOn = DoubleNineToEleven
	if r.DoubleAllowedOn(8) || !r.DoubleAllowedOn(9) || !r.DoubleAllowedOn(11) || r.DoubleAllowedOn(12) {
		t.Fatal("9-11 bounds wrong")
	}
	r.DoubleOn = DoubleTenEleven
	if r.DoubleAllowedOn(9) || !r.DoubleAllowedOn(10) {
		t.Fatal("10-11 bounds wrong")
	}
}
