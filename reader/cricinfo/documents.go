package cricinfo

import (
	"bytes"
	"fmt"
	"strconv"
)

// The feed serves most numeric fields inconsistently: sometimes bare JSON
// numbers, sometimes quoted strings ("content_id":"6"). FlexInt and
// FlexString absorb both forms at the boundary so nothing downstream has to
// care.

type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid numeric field %q: %w", s, err)
	}
	*n = FlexInt(v)
	return nil
}

type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = FlexString(bytes.Trim(data, `"`))
	if string(*s) == "null" {
		*s = ""
	}
	return nil
}

// MatchDocument is the raw per-match JSON document. Only the fields the
// snapshot builder reads are modelled; everything else in the (very large)
// upstream payload is ignored.
type MatchDocument struct {
	Match   *MatchRecord    `json:"match"`
	Team    []TeamRecord    `json:"team"`
	Innings []InningsRecord `json:"innings"`
	Live    *LiveRecord     `json:"live"`
	Comms   []OverComms     `json:"comms"`
}

// MatchRecord carries the raw match-level state signals.
type MatchRecord struct {
	Result          FlexString `json:"result"`
	MatchStatus     string     `json:"match_status"`
	LiveState       string     `json:"live_state"`
	ResultShortName string     `json:"result_short_name"`
}

type TeamRecord struct {
	TeamName         string  `json:"team_name"`
	TeamAbbreviation string  `json:"team_abbreviation"`
	ContentID        FlexInt `json:"content_id"`
}

type InningsRecord struct {
	BattingTeamID   FlexInt `json:"batting_team_id"`
	BowlingTeamID   FlexInt `json:"bowling_team_id"`
	Runs            FlexInt `json:"runs"`
	Wickets         FlexInt `json:"wickets"`
	EventName       string  `json:"event_name"`
	LiveCurrent     FlexInt `json:"live_current"`
	LiveCurrentName string  `json:"live_current_name"`
}

// LiveRecord holds the live section: free-text status, the recent overs
// grid, and the batters currently at the crease.
type LiveRecord struct {
	Status      string             `json:"status"`
	RecentOvers [][]DeliveryRecord `json:"recent_overs"`
	Batting     []BatterRecord     `json:"batting"`
	Partnership *PartnershipRecord `json:"partnership"`
}

// DeliveryRecord is one cell of the recent-overs grid: the scoreboard
// symbol ("4", "6", "•", "W", "1"), an extras code and a dismissal marker.
type DeliveryRecord struct {
	Ball      FlexString `json:"ball"`
	Extras    string     `json:"extras"`
	Dismissal string     `json:"dismissal"`
}

type BatterRecord struct {
	KnownAs string  `json:"known_as"`
	Runs    FlexInt `json:"runs"`
}

type PartnershipRecord struct {
	Runs FlexInt `json:"runs"`
}

// OverComms is the commentary for one over, parallel to a row of the
// recent-overs grid.
type OverComms struct {
	Ball []BallComms `json:"ball"`
}

// BallComms is the commentary entry for one delivery.
type BallComms struct {
	Event       string     `json:"event"`
	Players     string     `json:"players"`
	Dismissal   string     `json:"dismissal"`
	OversActual FlexString `json:"overs_actual"`
	OversUnique FlexString `json:"overs_unique"`
}
