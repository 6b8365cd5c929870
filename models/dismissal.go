package models

import "fmt"

// DismissalKind enumerates the eight ways a batter's innings can end.
type DismissalKind int

const (
	DismissalBowled DismissalKind = iota
	DismissalCaught
	DismissalCaughtAndBowled
	DismissalLBW
	DismissalRunOut
	DismissalStumped
	DismissalHitWicket
	DismissalRetired
)

// Dismissal is the structured form of one upstream dismissal line. It is
// built once at parse time and never mutated. Bowler and Fielder are set
// only for the kinds that name them.
type Dismissal struct {
	Kind    DismissalKind `json:"kind"`
	Batter  string        `json:"batter"`
	Bowler  string        `json:"bowler,omitempty"`
	Fielder string        `json:"fielder,omitempty"`

	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	Minutes    int     `json:"minutes,omitempty"`
	StrikeRate float64 `json:"strike_rate"`
}

// String renders the short scorecard form, e.g. "Smith c Jones b Brown".
func (d Dismissal) String() string {
	var how string
	switch d.Kind {
	case DismissalBowled:
		how = "b " + d.Bowler
	case DismissalCaught:
		how = fmt.Sprintf("c %s b %s", d.Fielder, d.Bowler)
	case DismissalCaughtAndBowled:
		how = "c and b " + d.Bowler
	case DismissalLBW:
		how = "lbw b " + d.Bowler
	case DismissalRunOut:
		how = fmt.Sprintf("run out (%s)", d.Fielder)
	case DismissalStumped:
		how = fmt.Sprintf("st %s b %s", d.Fielder, d.Bowler)
	case DismissalHitWicket:
		how = "hit wicket b " + d.Bowler
	case DismissalRetired:
		how = "retired"
	}
	return d.Batter + " " + how
}
