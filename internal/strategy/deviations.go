package strategy

import "fmt"

// IndexPlay is one count-indexed deviation from basic strategy. The play
// fires when the true count crosses Index in the stated direction.
type IndexPlay struct {
	Total       int
	Soft        bool
	Pair        bool
	Upcard      int // 11 for ace
	Basic       Action
	Deviation   Action
	Index       float64
	AtOrBelow   bool
	Description string
}

func (p IndexPlay) Triggered(trueCount float64) bool {
	if p.AtOrBelow {
		return trueCount <= p.Index
	}
	return trueCount >= p.Index
}

// InsuranceIndex is the true count at or above which insurance is a
// positive-expectation wager.
const InsuranceIndex = 3.0

func TakeInsurance(trueCount float64) bool { return trueCount >= InsuranceIndex }

// Illustrious18 lists the playing deviations in Schlesinger's value order.
// Insurance, the most valuable member of the eighteen, is handled by
// TakeInsurance since it is not a hand action. The 10-vs-ace double at +4
// appears once.
var Illustrious18 = []IndexPlay{
	{Total: 16, Upcard: 10, Basic: Hit, Deviation: Stand, Index: 0, Description: "stand 16 vs 10 at TC 0 or higher"},
	{Total: 15, Upcard: 10, Basic: Hit, Deviation: Stand, Index: 4, Description: "stand 15 vs 10 at TC +4 or higher"},
	{Total: 20, Pair: true, Upcard: 5, Basic: Stand, Deviation: Split, Index: 5, Description: "split 10s vs 5 at TC +5 or higher"},
	{Total: 20, Pair: true, Upcard: 6, Basic: Stand, Deviation: Split, Index: 4, Description: "split 10s vs 6 at TC +4 or higher"},
	{Total: 10, Upcard: 10, Basic: Hit, Deviation: Double, Index: 4, Description: "double 10 vs 10 at TC +4 or higher"},
	{Total: 12, Upcard: 3, Basic: Hit, Deviation: Stand, Index: 2, Description: "stand 12 vs 3 at TC +2 or higher"},
	{Total: 12, Upcard: 2, Basic: Hit, Deviation: Stand, Index: 3, Description: "stand 12 vs 2 at TC +3 or higher"},
	{Total: 11, Upcard: 11, Basic: Hit, Deviation: Double, Index: 1, Description: "double 11 vs A at TC +1 or higher"},
	{Total: 9, Upcard: 2, Basic: Hit, Deviation: Double, Index: 1, Description: "double 9 vs 2 at TC +1 or higher"},
	{Total: 10, Upcard: 11, Basic: Hit, Deviation: Double, Index: 4, Description: "double 10 vs A at TC +4 or higher"},
	{Total: 9, Upcard: 7, Basic: Hit, Deviation: Double, Index: 3, Description: "double 9 vs 7 at TC +3 or higher"},
	{Total: 16, Upcard: 9, Basic: Hit, Deviation: Stand, Index: 5, Description: "stand 16 vs 9 at TC +5 or higher"},
	{Total: 13, Upcard: 2, Basic: Stand, Deviation: Hit, Index: -1, AtOrBelow: true, Description: "hit 13 vs 2 at TC -1 or lower"},
	{Total: 12, Upcard: 4, Basic: Stand, Deviation: Hit, Index: 0, AtOrBelow: true, Description: "hit 12 vs 4 at TC 0 or lower"},
	{Total: 12, Upcard: 5, Basic: Stand, Deviation: Hit, Index: -2, AtOrBelow: true, Description: "hit 12 vs 5 at TC -2 or lower"},
	{Total: 12, Upcard: 6, Basic: Stand, Deviation: Hit, Index: -1, AtOrBelow: true, Description: "hit 12 vs 6 at TC -1 or lower"},
	{Total: 13, Upcard: 3, Basic: Stand, Deviation: Hit, Index: -2, AtOrBelow: true, Description: "hit 13 vs 3 at TC -2 or lower"},
}

// Fab4 are the late-surrender indices.
var Fab4 = []IndexPlay{
	{Total: 14, Upcard: 10, Basic: Hit, Deviation: Surrender, Index: 3, Description: "surrender 14 vs 10 at TC +3 or higher"},
	{Total: 15, Upcard: 9, Basic: Hit, Deviation: Surrender, Index: 2, Description: "surrender 15 vs 9 at TC +2 or higher"},
	{Total: 15, Upcard: 11, Basic: Hit, Deviation: Surrender, Index: 1, Description: "surrender 15 vs A at TC +1 or higher"},
	{Total: 14, Upcard: 11, Basic: Hit, Deviation: Surrender, Index: 3, Description: "surrender 14 vs A at TC +3 or higher"},
}

// AllDeviations returns the Illustrious 18 followed by the Fab 4.
func AllDeviations() []IndexPlay {
	out := make([]IndexPlay, 0, len(Illustrious18)+len(Fab4))
	out = append(out, Illustrious18...)
	out = append(out, Fab4...)
	return out
}

// FindDeviation returns the triggered play for a situation, or nil. Fab 4
// plays are only consulted when surrender is available.
func FindDeviation(sit Situation, trueCount float64, includeSurrender bool) *IndexPlay {
	plays := Illustrious18
	if includeSurrender {
		plays = AllDeviations()
	}
	for i := range plays {
		p := plays[i]
		if p.Total == sit.Total && p.Soft == sit.Soft && p.Pair == sit.Pair &&
			p.Upcard == sit.Upcard && p.Triggered(trueCount) {
			return &p
		}
	}
	return nil
}

// Hint is the combined recommendation the trainer shows.
type Hint struct {
	Basic       Action `json:"basic"`
	Recommended Action `json:"recommended"`
	IsDeviation bool   `json:"is_deviation"`
	Rationale   string `json:"rationale,omitempty"`
}

// Advise resolves basic strategy, then overlays any triggered index play.
// A deviation never enables an action the rules forbid, and it never talks
// the player out of an available surrender unless it is itself a surrender
// play: at low counts surrendering a 16 against a ten beats the stand
// index.
func Advise(chart *Chart, sit Situation, al Allowed, trueCount float64) Hint {
	basic := chart.Action(sit, al)
	hint := Hint{Basic: basic, Recommended: basic}

	dev := FindDeviation(sit, trueCount, al.Surrender)
	if dev == nil {
		return hint
	}
	if basic == Surrender && dev.Deviation != Surrender {
		return hint
	}
	if !actionAllowed(dev.Deviation, al) {
		return hint
	}
	if dev.Deviation == basic {
		return hint
	}
	hint.Recommended = dev.Deviation
	hint.IsDeviation = true
	hint.Rationale = fmt.Sprintf("index play: %s", dev.Description)
	return hint
}

func actionAllowed(a Action, al Allowed) bool {
	switch a {
	case Double:
		return al.Double
	case Split:
		return al.Split
	case Surrender:
		return al.Surrender
	default:
		return true
	}
}
