package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricketflow/models"
	"cricketflow/reader/cricinfo"
)

func sampleDocument() *cricinfo.MatchDocument {
	return &cricinfo.MatchDocument{
		Match: &cricinfo.MatchRecord{Result: "0", MatchStatus: "current"},
		Team: []cricinfo.TeamRecord{
			{TeamName: "England", TeamAbbreviation: "ENG", ContentID: 1},
			{TeamName: "Australia", TeamAbbreviation: "AUS", ContentID: 2},
		},
		Innings: []cricinfo.InningsRecord{
			{BattingTeamID: 2, BowlingTeamID: 1, Runs: 145, Wickets: 3, LiveCurrent: 1, LiveCurrentName: "current innings"},
		},
		Live: &cricinfo.LiveRecord{
			Status: "Australia need 200 runs to win",
			RecentOvers: [][]cricinfo.DeliveryRecord{
				{{Ball: "1"}, {Ball: "4"}},
			},
			Batting: []cricinfo.BatterRecord{
				{KnownAs: "Khawaja", Runs: 61},
				{KnownAs: "Head", Runs: 34},
			},
			Partnership: &cricinfo.PartnershipRecord{Runs: 48},
		},
		Comms: []cricinfo.OverComms{
			{Ball: []cricinfo.BallComms{
				{Event: "FOUR", Players: "Anderson to Head", OversActual: "32.2", OversUnique: "32.2"},
				{Event: "1", Players: "Anderson to Khawaja", OversActual: "32.1", OversUnique: "32.1"},
			}},
		},
	}
}

func TestBuildMatch(t *testing.T) {
	fetchedAt := time.Now().UTC()
	match, ballErrs, err := BuildMatch("101", sampleDocument(), fetchedAt)
	require.NoError(t, err)
	assert.Empty(t, ballErrs)

	assert.Equal(t, "101", match.ID)
	assert.Equal(t, models.StatusLive, match.Status)
	assert.Equal(t, "ENG", match.Teams[0].ShortName)
	assert.Equal(t, 2, match.Teams[1].ID)
	assert.Equal(t, 0, match.CurrentInnings)
	assert.Equal(t, 1, match.CurrentBatting, "away team is batting")
	assert.Equal(t, fetchedAt, match.FetchedAt)

	require.Len(t, match.Balls, 2)
	// Newest first: the boundary off 32.2 leads.
	assert.Equal(t, "32.2", match.Balls[0].DeliveryNo)
	assert.Equal(t, models.BoundaryFour, match.Balls[0].Boundary)
	assert.Equal(t, "32.1", match.Balls[1].DeliveryNo)

	require.Len(t, match.Batters, 2)
	assert.Equal(t, "Khawaja", match.Batters[0].Name)
	require.NotNil(t, match.Partnership)
	assert.Equal(t, 48, match.Partnership.Runs)
	assert.Equal(t, "Khawaja", match.Partnership.FirstBatter)
}

func TestBuildMatchMissingFieldsFails(t *testing.T) {
	doc := sampleDocument()
	doc.Match = nil
	_, _, err := BuildMatch("101", doc, time.Now())
	assert.ErrorIs(t, err, ErrMalformedDocument)

	doc = sampleDocument()
	doc.Team = doc.Team[:1]
	_, _, err = BuildMatch("101", doc, time.Now())
	assert.ErrorIs(t, err, ErrMalformedDocument)

	doc = sampleDocument()
	doc.Innings = nil
	_, _, err = BuildMatch("101", doc, time.Now())
	assert.ErrorIs(t, err, ErrMalformedDocument)

	doc = sampleDocument()
	doc.Live = nil
	_, _, err = BuildMatch("101", doc, time.Now())
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestBuildMatchNoCurrentInnings(t *testing.T) {
	doc := sampleDocument()
	doc.Innings[0].LiveCurrentName = ""
	match, _, err := BuildMatch("101", doc, time.Now())
	require.NoError(t, err)
	assert.Equal(t, -1, match.CurrentInnings)
	assert.Equal(t, -1, match.CurrentBatting)
	assert.Nil(t, match.LiveInnings())
	assert.Nil(t, match.BattingTeam())
}

func TestBuildMatchIsolatesBallFailures(t *testing.T) {
	doc := sampleDocument()
	doc.Comms[0].Ball[1].Players = "garbage without separator"

	match, ballErrs, err := BuildMatch("101", doc, time.Now())
	require.NoError(t, err)
	require.Len(t, ballErrs, 1)
	assert.ErrorIs(t, ballErrs[0], ErrMalformedCommentary)

	// The malformed delivery is dropped; the good one survives.
	require.Len(t, match.Balls, 1)
	assert.Equal(t, "32.2", match.Balls[0].DeliveryNo)
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		record cricinfo.MatchRecord
		want   models.Status
	}{
		{"result wins over live state", cricinfo.MatchRecord{Result: "1", LiveState: "Stumps"}, models.StatusResult},
		{"dormant is upcoming", cricinfo.MatchRecord{Result: "0", MatchStatus: "dormant"}, models.StatusUpcoming},
		{"stumps", cricinfo.MatchRecord{Result: "0", LiveState: "Stumps"}, models.StatusStumps},
		{"drinks", cricinfo.MatchRecord{Result: "0", LiveState: "Drinks"}, models.StatusDrinks},
		{"lunch", cricinfo.MatchRecord{Result: "0", LiveState: "Lunch"}, models.StatusLunch},
		{"tea", cricinfo.MatchRecord{Result: "0", LiveState: "Tea"}, models.StatusTea},
		{"strategic timeout", cricinfo.MatchRecord{Result: "0", LiveState: "Strategic Timeout"}, models.StatusTimeout},
		{"innings break", cricinfo.MatchRecord{Result: "0", LiveState: "Innings break"}, models.StatusBreak},
		{"abandoned", cricinfo.MatchRecord{Result: "2", ResultShortName: "aban"}, models.StatusAbandoned},
		{"delayed", cricinfo.MatchRecord{Result: "2", LiveState: "rain delayed"}, models.StatusDelayed},
		{"live", cricinfo.MatchRecord{Result: "0"}, models.StatusLive},
		{"other", cricinfo.MatchRecord{Result: "2"}, models.StatusOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyStatus(&tt.record))
		})
	}
}

func TestClassifyInnings(t *testing.T) {
	tests := []struct {
		name        string
		record      cricinfo.InningsRecord
		matchStatus models.Status
		want        models.InningsStatus
	}{
		{"all out", cricinfo.InningsRecord{EventName: "all out"}, models.StatusLive, models.InningsAllOut},
		{"declared", cricinfo.InningsRecord{EventName: "declared"}, models.StatusLive, models.InningsDeclared},
		{"complete marker", cricinfo.InningsRecord{EventName: "complete"}, models.StatusLive, models.InningsComplete},
		{"not live", cricinfo.InningsRecord{LiveCurrent: 0}, models.StatusLive, models.InningsComplete},
		{"live and ongoing", cricinfo.InningsRecord{LiveCurrent: 1}, models.StatusLive, models.InningsOngoing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyInnings(tt.record, tt.matchStatus))
		})
	}
}

func TestClassifyInningsStaleLiveFlag(t *testing.T) {
	// The feed can leave live_current=1 after the match has concluded; the
	// match-level Result status must win.
	rec := cricinfo.InningsRecord{LiveCurrent: 1}
	assert.Equal(t, models.InningsComplete, ClassifyInnings(rec, models.StatusResult))
}
