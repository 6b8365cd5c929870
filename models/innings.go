package models

// InningsStatus enumerates the states of one batting innings. Transitions
// observed within a polling session only ever move forward.
type InningsStatus int

const (
	InningsUpcoming InningsStatus = iota
	InningsOngoing
	InningsAllOut
	InningsDeclared
	InningsComplete
	InningsResult
)

// Innings is one team's batting effort. Batting and Bowling are upstream
// team identifiers, not indexes into Match.Teams.
type Innings struct {
	Batting int           `json:"batting"`
	Bowling int           `json:"bowling"`
	Runs    int           `json:"runs"`
	Wickets int           `json:"wickets"`
	Status  InningsStatus `json:"status"`
}
