package processor

import (
	"errors"
	"fmt"
	"strings"

	"cricketflow/models"
	"cricketflow/reader/cricinfo"
)

// ErrMalformedCommentary reports a commentary players field without the
// "<bowler> to <batter>" separator. The delivery is dropped rather than
// emitted with garbage names.
var ErrMalformedCommentary = errors.New("malformed commentary players field")

// NormalizeBall converts one recent-overs cell plus its commentary entry
// into a Ball. A dismissal parse failure still yields a usable ball; the
// error is returned alongside it so the caller can suppress the wicket event
// while keeping the delivery counted as seen.
func NormalizeBall(rec cricinfo.DeliveryRecord, comm cricinfo.BallComms) (models.Ball, error) {
	bowler, batter, ok := splitPlayers(comm.Players)
	if !ok {
		return models.Ball{}, fmt.Errorf("%w: %q", ErrMalformedCommentary, comm.Players)
	}

	ball := models.Ball{
		DeliveryNo:       string(comm.OversActual),
		UniqueDeliveryNo: string(comm.OversUnique),
		Batter:           batter,
		Bowler:           bowler,
		Runs:             runsFromSymbol(string(rec.Ball)),
		Extra:            models.ExtraFromCode(rec.Extras),
	}

	// Boundaries come from the commentary keyword only; a run-four off
	// overthrows is not a boundary.
	switch comm.Event {
	case "FOUR":
		ball.Boundary = models.BoundaryFour
	case "SIX":
		ball.Boundary = models.BoundarySix
	}

	if rec.Dismissal != "" || comm.Event == "OUT" {
		text := comm.Dismissal
		if text == "" {
			text = rec.Dismissal
		}
		dismissal, err := ParseDismissal(text)
		if err != nil {
			return ball, fmt.Errorf("delivery %s: %w", ball.DeliveryNo, err)
		}
		ball.Dismissal = dismissal
	}

	return ball, nil
}

func splitPlayers(players string) (bowler, batter string, ok bool) {
	idx := strings.Index(players, " to ")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(players[:idx]), strings.TrimSpace(players[idx+len(" to "):]), true
}

// runsFromSymbol maps the scoreboard cell to runs off the bat. Dots ("•" or
// its entity form), wickets and anything else non-numeric score zero rather
// than failing the delivery.
func runsFromSymbol(symbol string) int {
	symbol = strings.TrimSpace(symbol)
	end := 0
	for end < len(symbol) && symbol[end] >= '0' && symbol[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	return atoi(symbol[:end])
}
