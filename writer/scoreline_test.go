package writer

import (
	"strings"
	"testing"

	"cricketflow/models"
)

func testMatch() *models.Match {
	return &models.Match{
		ID: "101",
		Teams: [2]models.Team{
			{ID: 1, Name: "England", ShortName: "ENG"},
			{ID: 2, Name: "Australia", ShortName: "AUS"},
		},
		Innings: []models.Innings{
			{Batting: 1, Bowling: 2, Runs: 241, Wickets: 10, Status: models.InningsAllOut},
			{Batting: 2, Bowling: 1, Runs: 145, Wickets: 3, Status: models.InningsOngoing},
		},
		Balls: []models.Ball{
			{DeliveryNo: "32.4", UniqueDeliveryNo: "32.4", Runs: 4, Boundary: models.BoundaryFour},
			{DeliveryNo: "32.3", UniqueDeliveryNo: "32.3", Runs: 0},
		},
		CurrentInnings: 1,
		CurrentBatting: 1,
		Status:         models.StatusLive,
	}
}

func TestInningsScore(t *testing.T) {
	m := testMatch()

	tests := []struct {
		name      string
		innings   models.Innings
		showOvers bool
		want      string
	}{
		{"all out", models.Innings{Runs: 87, Wickets: 10, Status: models.InningsAllOut}, true, "87"},
		{"declared", models.Innings{Runs: 321, Wickets: 7, Status: models.InningsDeclared}, true, "321d"},
		{"complete", models.Innings{Runs: 123, Wickets: 4, Status: models.InningsComplete}, true, "123/4"},
		{"ongoing with overs", models.Innings{Runs: 145, Wickets: 3, Status: models.InningsOngoing}, true, "145/3* (32.4)"},
		{"ongoing without overs", models.Innings{Runs: 145, Wickets: 3, Status: models.InningsOngoing}, false, "145/3*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InningsScore(m, tt.innings, tt.showOvers)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTeamScore(t *testing.T) {
	m := testMatch()
	m.Innings = append(m.Innings, models.Innings{Batting: 1, Bowling: 2, Runs: 98, Wickets: 2, Status: models.InningsOngoing})

	got := TeamScore(m, m.Teams[0])
	want := "241 & 98/2* (32.4)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestScorelineLiveTicker(t *testing.T) {
	m := testMatch()
	got := Scoreline(m)
	want := "ENG 241 vs AUS 145/3* (32.4) | Live | 4 | • |"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestScorelineResultHasNoTicker(t *testing.T) {
	m := testMatch()
	m.Status = models.StatusResult
	m.StatusString = "Australia won by 7 wickets"
	m.Innings[1].Status = models.InningsResult

	got := Scoreline(m)
	if strings.Contains(got, "| 4 |") {
		t.Fatalf("result scoreline should not carry the ball ticker: %q", got)
	}
	if !strings.Contains(got, "Result (Australia won by 7 wickets)") {
		t.Fatalf("result scoreline missing status string: %q", got)
	}
}

func TestScorelineTickerCapped(t *testing.T) {
	m := testMatch()
	m.Balls = nil
	for i := 0; i < 10; i++ {
		m.Balls = append(m.Balls, models.Ball{DeliveryNo: "30.1", UniqueDeliveryNo: "30.1", Runs: 1})
	}

	got := Scoreline(m)
	if count := strings.Count(got, "1"); count < recentBallsShown {
		t.Fatalf("unexpected scoreline %q", got)
	}
	if strings.Count(got, "|") != recentBallsShown+2 {
		t.Fatalf("ticker not capped at %d balls: %q", recentBallsShown, got)
	}
}

func TestBallSummary(t *testing.T) {
	m := testMatch()
	ball := models.Ball{
		DeliveryNo: "32.4",
		Batter:     "Head",
		Bowler:     "Anderson",
		Runs:       4,
		Boundary:   models.BoundaryFour,
	}

	got := BallSummary(ball, m)
	want := "(32.4) Anderson to Head (FOUR runs). AUS are 145/3*."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEventText(t *testing.T) {
	m := testMatch()

	tests := []struct {
		name  string
		event models.Event
		want  string
	}{
		{
			"boundary",
			models.Event{Type: models.EventBoundary, Boundary: models.BoundaryFour, Batter: "Head"},
			"FOUR! (Head) AUS 145/3*",
		},
		{
			"wicket",
			models.Event{Type: models.EventWicket, Dismissal: &models.Dismissal{
				Kind: models.DismissalCaught, Batter: "Head", Fielder: "Root", Bowler: "Anderson",
			}},
			"OUT! Head c Root b Anderson AUS 145/3*",
		},
		{
			"batter milestone",
			models.Event{Type: models.EventBatterMilestone, Batter: "Khawaja", Milestone: 50},
			"50 up for Khawaja! AUS 145/3*",
		},
		{
			"team milestone",
			models.Event{Type: models.EventTeamMilestone, Team: m.Teams[1], Milestone: 150},
			"AUS reach 150!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EventText(tt.event, m)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
