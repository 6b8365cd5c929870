package models

import (
	"fmt"
	"strconv"
	"time"
)

// Extra identifies runs not credited to the batter.
type Extra int

const (
	ExtraNone Extra = iota
	ExtraNoBall
	ExtraWide
	ExtraBye
	ExtraLegBye
	ExtraPenalty
)

// ExtraFromCode maps the scoreboard extras code to an Extra. Unrecognized
// codes map to ExtraNone rather than failing the delivery.
func ExtraFromCode(code string) Extra {
	switch code {
	case "nb":
		return ExtraNoBall
	case "wd":
		return ExtraWide
	case "b":
		return ExtraBye
	case "lb":
		return ExtraLegBye
	case "pen":
		return ExtraPenalty
	default:
		return ExtraNone
	}
}

// Indicator returns the compact scoreboard suffix for an extra.
func (e Extra) Indicator() string {
	switch e {
	case ExtraNoBall:
		return "nb"
	case ExtraWide:
		return "w"
	case ExtraBye:
		return "b"
	case ExtraLegBye:
		return "lb"
	case ExtraPenalty:
		return "pen"
	default:
		return ""
	}
}

// Name returns the singular spoken name of an extra.
func (e Extra) Name() string {
	switch e {
	case ExtraNoBall:
		return "no ball"
	case ExtraWide:
		return "wide"
	case ExtraBye:
		return "bye"
	case ExtraLegBye:
		return "leg bye"
	case ExtraPenalty:
		return "penalty run"
	default:
		return ""
	}
}

// Boundary classifies a boundary-scoring delivery.
type Boundary int

const (
	BoundaryNone Boundary = iota
	BoundaryFour
	BoundarySix
)

// Name returns the commentary keyword for a boundary.
func (b Boundary) Name() string {
	switch b {
	case BoundaryFour:
		return "FOUR"
	case BoundarySix:
		return "SIX"
	default:
		return ""
	}
}

// Ball is one normalized delivery. Balls are ordered newest first inside a
// Match; UniqueDeliveryNo is the monotonic ordering key and must be compared
// numerically ("12.10" sorts after "12.9").
type Ball struct {
	DeliveryNo       string     `json:"delivery_no"`
	UniqueDeliveryNo string     `json:"unique_delivery_no"`
	Batter           string     `json:"batter"`
	Bowler           string     `json:"bowler"`
	Runs             int        `json:"runs"`
	Boundary         Boundary   `json:"boundary,omitempty"`
	Extra            Extra      `json:"extra,omitempty"`
	Dismissal        *Dismissal `json:"dismissal,omitempty"`
}

// UniqueNo parses the unique delivery number as a real number. Malformed
// values sort before every genuine delivery.
func (b Ball) UniqueNo() float64 {
	n, err := strconv.ParseFloat(b.UniqueDeliveryNo, 64)
	if err != nil {
		return -1
	}
	return n
}

// Indicator renders the single-ball scoreboard cell: "W" for a wicket,
// "•" for a dot ball, otherwise the runs with any extras suffix.
func (b Ball) Indicator() string {
	if b.Dismissal != nil {
		return "W"
	}
	if b.Runs == 0 {
		return "•" + b.Extra.Indicator()
	}
	return fmt.Sprintf("%d%s", b.Runs, b.Extra.Indicator())
}

// DeliveryText names the bowler/batter pairing for a delivery.
func (b Ball) DeliveryText() string {
	return fmt.Sprintf("%s to %s", b.Bowler, b.Batter)
}

// RunsText describes the outcome of the delivery in commentary form,
// e.g. "FOUR runs", "2 leg byes", "1 run", "no run".
func (b Ball) RunsText() string {
	var text string
	switch {
	case b.Boundary != BoundaryNone:
		text = b.Boundary.Name() + " run"
	case b.Extra != ExtraNone:
		text = fmt.Sprintf("%d %s", b.Runs, b.Extra.Name())
	case b.Runs == 0:
		return "no run"
	default:
		text = fmt.Sprintf("%d run", b.Runs)
	}
	if b.Runs > 1 {
		text += "s"
	}
	return text
}

// RawMatchMessage wraps one fetched match document on its way from the
// reader to the snapshot processor.
type RawMatchMessage struct {
	MatchID   string
	CycleID   string
	Data      []byte
	Timestamp time.Time
}
