package game

import (
	"reflect"
	"testing"
)

func TestSerializeRoundTripMidRound(t *testing.T) {
	e := testEngine(t, VegasStrip(), 100000, 777)
	if _, err := e.PlaceBet(2000); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if e.State() == PlayerTurn {
		if _, err := e.Hit(); err != nil {
			t.Fatalf("Hit: %v", err)
		}
	}

	data, err := e.MarshalState()
	if err != nil {
		t.Fatalf("MarshalState: %v", err)
	}
	restored, err := UnmarshalState(data)
	if err != nil {
		t.Fatalf("UnmarshalState: %v", err)
	}

	if !reflect.DeepEqual(e.Snapshot(), restored.Snapshot()) {
		t.Fatalf("snapshots differ:\n%+v\n%+v", e.Snapshot(), restored.Snapshot())
	}
	if !reflect.DeepEqual(e.AvailableActions(), restored.AvailableActions()) {
		t.Fatalf("actions differ: %v vs %v", e.AvailableActions(), restored.AvailableActions())
	}

	// Both copies must deal the same future cards.
	a, errA := e.Shoe.Deal()
	b, errB := restored.Shoe.Deal()
	if errA != nil || errB != nil {
		t.Fatalf("deal: %v %v", errA, errB)
	}
	if a != b {
		t.Fatalf("restored shoe diverged: %s vs %s", a, b)
	}
}

func TestSerializeSurvivesReshuffle(t *testing.T) {
	e := testEngine(t, VegasStrip(), 1000000, 31)
	for i := 0; i < 40; i++ {
		if _, err := e.PlaceBet(1000); err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		playOutRound(t, e)
		if e.State() == GameOver {
			t.Fatal("unexpected bustout")
		}
		if _, err := e.NewRound(); err != nil {
			t.Fatalf("NewRound: %v", err)
		}
	}

	data, err := e.MarshalState()
	if err != nil {
		t.Fatalf("MarshalState: %v", err)
	}
	restored, err := UnmarshalState(data)
	if err != nil {
		t.Fatalf("UnmarshalState: %v", err)
	}
	a, _ := e.Shoe.Deal()
	b, _ := restored.Shoe.Deal()
	if a != b {
		t.Fatalf("post-reshuffle shoe diverged: %s vs %s", a, b)
	}
}

func TestUnmarshalRejectsBadRecords(t *testing.T) {
	if _, err := UnmarshalState([]byte(`{"version": 99}`)); err == nil {
		t.Fatal("unknown version accepted")
	}
	if _, err := UnmarshalState([]byte(`not json`)); err == nil {
		t.Fatal("garbage accepted")
	}
}
