package processor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cricketflow/models"
	"cricketflow/reader/cricinfo"
)

// ErrMalformedDocument reports a raw match document missing required
// top-level fields. The build aborts; a Match is never partially constructed.
var ErrMalformedDocument = errors.New("malformed match document")

// classifyStatus maps the raw match-level signal fields to a Status. The
// order is load-bearing: the result and dormant flags override the live-state
// text, which overrides the abandonment and delay markers.
func classifyStatus(m *cricinfo.MatchRecord) models.Status {
	switch {
	case m.Result == "1":
		return models.StatusResult
	case m.MatchStatus == "dormant":
		return models.StatusUpcoming
	case m.LiveState == "Stumps":
		return models.StatusStumps
	case m.LiveState == "Drinks":
		return models.StatusDrinks
	case m.LiveState == "Lunch":
		return models.StatusLunch
	case m.LiveState == "Tea":
		return models.StatusTea
	case m.LiveState == "Strategic Timeout":
		return models.StatusTimeout
	case m.LiveState == "Innings break":
		return models.StatusBreak
	case m.ResultShortName == "aban":
		return models.StatusAbandoned
	case strings.Contains(m.LiveState, "delayed"):
		return models.StatusDelayed
	case m.Result == "0":
		return models.StatusLive
	default:
		return models.StatusOther
	}
}

// ClassifyInnings maps one raw innings record to an InningsStatus. The feed
// can leave live_current set to 1 after a match has concluded, so the
// match-level Result status must override the stale flag.
func ClassifyInnings(rec cricinfo.InningsRecord, matchStatus models.Status) models.InningsStatus {
	switch {
	case rec.EventName == "all out":
		return models.InningsAllOut
	case rec.EventName == "declared":
		return models.InningsDeclared
	case rec.EventName == "complete":
		return models.InningsComplete
	case rec.LiveCurrent == 0:
		return models.InningsComplete
	case rec.LiveCurrent == 1 && matchStatus == models.StatusResult:
		return models.InningsComplete
	default:
		return models.InningsOngoing
	}
}

// BuildMatch assembles one immutable snapshot from the raw document. Per-ball
// normalization failures are isolated: a malformed commentary entry drops
// that delivery, an unparseable dismissal keeps the delivery without one.
// The returned slice of ball errors carries the isolated failures for
// logging and metrics.
func BuildMatch(matchID string, doc *cricinfo.MatchDocument, fetchedAt time.Time) (*models.Match, []error, error) {
	if doc.Match == nil {
		return nil, nil, fmt.Errorf("%w: missing match record", ErrMalformedDocument)
	}
	if len(doc.Team) < 2 {
		return nil, nil, fmt.Errorf("%w: expected 2 teams, got %d", ErrMalformedDocument, len(doc.Team))
	}
	if doc.Innings == nil {
		return nil, nil, fmt.Errorf("%w: missing innings array", ErrMalformedDocument)
	}
	if doc.Live == nil {
		return nil, nil, fmt.Errorf("%w: missing live section", ErrMalformedDocument)
	}

	status := classifyStatus(doc.Match)

	match := &models.Match{
		ID:     matchID,
		Status: status,
		Teams: [2]models.Team{
			{ID: int(doc.Team[0].ContentID), Name: doc.Team[0].TeamName, ShortName: doc.Team[0].TeamAbbreviation},
			{ID: int(doc.Team[1].ContentID), Name: doc.Team[1].TeamName, ShortName: doc.Team[1].TeamAbbreviation},
		},
		Innings:        make([]models.Innings, 0, len(doc.Innings)),
		CurrentInnings: -1,
		CurrentBatting: -1,
		StatusString:   doc.Live.Status,
		FetchedAt:      fetchedAt,
	}

	for i, rec := range doc.Innings {
		match.Innings = append(match.Innings, models.Innings{
			Batting: int(rec.BattingTeamID),
			Bowling: int(rec.BowlingTeamID),
			Runs:    int(rec.Runs),
			Wickets: int(rec.Wickets),
			Status:  ClassifyInnings(rec, status),
		})
		if rec.LiveCurrentName == "current innings" && match.CurrentInnings == -1 {
			match.CurrentInnings = i
		}
	}

	if match.CurrentInnings != -1 {
		if match.Innings[match.CurrentInnings].Batting == match.Teams[0].ID {
			match.CurrentBatting = 0
		} else {
			match.CurrentBatting = 1
		}
	}

	var ballErrs []error
	match.Balls, ballErrs = normalizeRecentOvers(doc.Live.RecentOvers, doc.Comms)

	for _, rec := range doc.Live.Batting {
		match.Batters = append(match.Batters, models.Batter{
			Name: rec.KnownAs,
			Runs: int(rec.Runs),
		})
	}
	if doc.Live.Partnership != nil && len(match.Batters) == 2 {
		match.Partnership = &models.Partnership{
			FirstBatter:  match.Batters[0].Name,
			SecondBatter: match.Batters[1].Name,
			Runs:         int(doc.Live.Partnership.Runs),
		}
	}

	return match, ballErrs, nil
}

// normalizeRecentOvers pairs the recent-overs grid with the commentary
// structure and normalizes every delivery, newest first. The grid arrives
// oldest-over-first with oldest-ball-first rows, while commentary is already
// newest-first at both levels, so the grid is walked in reverse on both axes.
func normalizeRecentOvers(recentOvers [][]cricinfo.DeliveryRecord, comms []cricinfo.OverComms) ([]models.Ball, []error) {
	var balls []models.Ball
	var errs []error

	for i := len(recentOvers) - 1; i >= 0; i-- {
		overIdx := len(recentOvers) - 1 - i
		if overIdx >= len(comms) {
			break
		}
		overComms := filterComms(comms[overIdx].Ball)
		over := recentOvers[i]

		for j := len(over) - 1; j >= 0; j-- {
			ballIdx := len(over) - 1 - j
			if ballIdx >= len(overComms) {
				continue
			}
			ball, err := NormalizeBall(over[j], overComms[ballIdx])
			if err != nil {
				errs = append(errs, err)
				if errors.Is(err, ErrMalformedCommentary) {
					continue
				}
			}
			balls = append(balls, ball)
		}
	}

	return balls, errs
}

// filterComms drops placeholder commentary entries with no event keyword,
// which the feed interleaves with real deliveries.
func filterComms(entries []cricinfo.BallComms) []cricinfo.BallComms {
	filtered := make([]cricinfo.BallComms, 0, len(entries))
	for _, e := range entries {
		if e.Event != "" {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
