package models

import "time"

// Status enumerates match-level states derived from the feed's raw signal
// fields.
type Status int

const (
	StatusUpcoming Status = iota
	StatusLive
	StatusDrinks
	StatusLunch
	StatusTea
	StatusStumps
	StatusResult
	StatusAbandoned
	StatusDelayed
	StatusBreak
	StatusTimeout
	StatusOther
)

// Text returns the display form of a match status.
func (s Status) Text() string {
	switch s {
	case StatusUpcoming:
		return "Upcoming"
	case StatusLive:
		return "Live"
	case StatusDrinks:
		return "Drinks"
	case StatusLunch:
		return "Lunch"
	case StatusTea:
		return "Tea"
	case StatusStumps:
		return "Stumps"
	case StatusResult:
		return "Result"
	case StatusAbandoned:
		return "Abandoned"
	case StatusDelayed:
		return "Delayed"
	case StatusBreak:
		return "Break"
	case StatusTimeout:
		return "Timeout"
	default:
		return ""
	}
}

// Team identifies one side of a fixture.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// Batter is one of the batters currently at the crease, with their running
// score for the live innings.
type Batter struct {
	Name string `json:"name"`
	Runs int    `json:"runs"`
}

// Partnership is the current unbroken stand between the two batters at the
// crease.
type Partnership struct {
	FirstBatter  string `json:"first_batter"`
	SecondBatter string `json:"second_batter"`
	Runs         int    `json:"runs"`
}

// Match is one immutable snapshot of a fixture, rebuilt from scratch on
// every poll. Balls are ordered newest first as supplied upstream.
// CurrentInnings and CurrentBatting are -1 when no innings is live.
type Match struct {
	ID             string       `json:"id"`
	Teams          [2]Team      `json:"teams"`
	Innings        []Innings    `json:"innings"`
	Balls          []Ball       `json:"balls"`
	CurrentInnings int          `json:"current_innings"`
	CurrentBatting int          `json:"current_batting"`
	Status         Status       `json:"status"`
	StatusString   string       `json:"status_string"`
	Batters        []Batter     `json:"batters,omitempty"`
	Partnership    *Partnership `json:"partnership,omitempty"`
	FetchedAt      time.Time    `json:"fetched_at"`
}

// LiveInnings returns the innings currently in progress, or nil.
func (m *Match) LiveInnings() *Innings {
	if m.CurrentInnings < 0 || m.CurrentInnings >= len(m.Innings) {
		return nil
	}
	return &m.Innings[m.CurrentInnings]
}

// BattingTeam returns the team currently batting, or nil.
func (m *Match) BattingTeam() *Team {
	if m.CurrentBatting != 0 && m.CurrentBatting != 1 {
		return nil
	}
	return &m.Teams[m.CurrentBatting]
}
