// Package processor is the normalization core: it parses free-text dismissal
// lines, normalizes raw deliveries into typed balls, classifies match and
// innings status, assembles immutable match snapshots and diffs successive
// snapshots into notification events.
package processor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cricketflow/models"
)

var (
	// ErrUnknownDismissal reports a dismissal line matching none of the
	// known scorecard shapes.
	ErrUnknownDismissal = errors.New("unrecognized dismissal text")
	// ErrMalformedStats reports a missing or garbled batting-stats suffix.
	ErrMalformedStats = errors.New("malformed batting stats")
)

// playerName matches a free-text player name, including the wicketkeeper
// dagger and punctuation like "O'Brien" or "de Villiers-Smith". The lazy
// form is for names followed by another grammar token; the greedy form is
// for the final name of a shape, where backtracking over the mandatory
// space leaves any trailing runs digits to the runs group.
const playerName = `([\p{L}†'.\- ]+?)`
const playerNameEnd = `([\p{L}†'.\- ]+)`

// marker swallows an optional parenthesized captaincy or position marker
// between the batter name and the dismissal verb, e.g. "Smith (c) b Jones".
const marker = `(?:\((?:c|wk|\d+)\) )?`

// statsRegexp captures the trailing fragment "(52b 6x4 1x6 78m) SR: 86.53";
// the minutes group is absent in some competitions.
var statsRegexp = regexp.MustCompile(`\((\d+)b (\d+)x4 (\d+)x6(?: (\d+)m)?\) SR: ([0-9.]+)`)

type dismissalPattern struct {
	kind models.DismissalKind
	re   *regexp.Regexp
}

// Patterns are tried most specific first. The shapes are not lexically
// disjoint: "c & b", "st", "hit wicket" and "lbw" lines all contain the
// " b <bowler>" token that the plain bowled shape would otherwise claim.
// The runs group is \d* because some lines omit the score before the stats
// fragment.
var dismissalPatterns = []dismissalPattern{
	{models.DismissalCaughtAndBowled, regexp.MustCompile(`^` + playerName + ` ` + marker + `c (?:&(?:amp;)? |and )b ` + playerNameEnd + ` (\d*)`)},
	{models.DismissalStumped, regexp.MustCompile(`^` + playerName + ` ` + marker + `st ` + playerName + ` b ` + playerNameEnd + ` (\d*)`)},
	{models.DismissalHitWicket, regexp.MustCompile(`^` + playerName + ` ` + marker + `hit wicket b ` + playerNameEnd + ` (\d*)`)},
	{models.DismissalLBW, regexp.MustCompile(`^` + playerName + ` ` + marker + `lbw b ` + playerNameEnd + ` (\d*)`)},
	{models.DismissalRunOut, regexp.MustCompile(`^` + playerName + ` ` + marker + `run out \(` + playerName + ` ?\) (\d*)`)},
	{models.DismissalCaught, regexp.MustCompile(`^` + playerName + ` ` + marker + `c ` + playerName + ` b ` + playerNameEnd + ` (\d*)`)},
	{models.DismissalBowled, regexp.MustCompile(`^` + playerName + ` ` + marker + `b ` + playerNameEnd + ` (\d*)`)},
	{models.DismissalRetired, regexp.MustCompile(`^` + playerName + ` ` + marker + `retired (?:hurt |out |not out )?(\d*)`)},
}

// ParseDismissal converts one upstream dismissal line into a structured
// record. The whole parse fails when no shape matches or when the trailing
// stats fragment is malformed; a partially populated record is never
// returned.
func ParseDismissal(text string) (*models.Dismissal, error) {
	// The feed occasionally doubles spaces between tokens.
	text = strings.Join(strings.Fields(text), " ")

	for _, p := range dismissalPatterns {
		groups := p.re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}

		d := &models.Dismissal{Kind: p.kind, Batter: cleanName(groups[1])}
		switch p.kind {
		case models.DismissalCaught, models.DismissalStumped:
			d.Fielder = cleanName(groups[2])
			d.Bowler = cleanName(groups[3])
			d.Runs = atoi(groups[4])
		case models.DismissalRunOut:
			d.Fielder = cleanName(groups[2])
			d.Runs = atoi(groups[3])
		case models.DismissalRetired:
			d.Runs = atoi(groups[2])
		default:
			d.Bowler = cleanName(groups[2])
			d.Runs = atoi(groups[3])
		}

		stats := statsRegexp.FindStringSubmatch(text)
		if stats == nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedStats, text)
		}
		d.Balls = atoi(stats[1])
		d.Fours = atoi(stats[2])
		d.Sixes = atoi(stats[3])
		if stats[4] != "" {
			d.Minutes = atoi(stats[4])
		}
		strikeRate, err := strconv.ParseFloat(stats[5], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: strike rate %q", ErrMalformedStats, stats[5])
		}
		d.StrikeRate = strikeRate

		return d, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDismissal, text)
}

// cleanName trims whitespace and strips the wicketkeeper dagger; the marker
// group keeps captaincy tags out of the captured names.
func cleanName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "†", ""))
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
