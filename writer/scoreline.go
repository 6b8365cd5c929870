// Package writer fans notifications out to the configured sinks: console
// scoreline, Telegram and the parquet delivery archive. The rendering
// helpers here are pure; sinks decide where the text goes.
package writer

import (
	"fmt"
	"strings"

	"cricketflow/models"
)

// recentBallsShown caps the recent-deliveries ticker in the scoreline.
const recentBallsShown = 6

// InningsScore renders one innings in compact scorecard form: "87" all out,
// "321d" declared, "123/4" complete and "123/4*" in progress, with the
// current over appended when showOvers is set.
func InningsScore(m *models.Match, inn models.Innings, showOvers bool) string {
	switch inn.Status {
	case models.InningsAllOut:
		return fmt.Sprintf("%d", inn.Runs)
	case models.InningsDeclared:
		return fmt.Sprintf("%dd", inn.Runs)
	case models.InningsComplete, models.InningsResult:
		return fmt.Sprintf("%d/%d", inn.Runs, inn.Wickets)
	}

	overs := ""
	if showOvers && len(m.Balls) > 0 {
		overs = fmt.Sprintf(" (%s)", m.Balls[0].DeliveryNo)
	}
	return fmt.Sprintf("%d/%d*%s", inn.Runs, inn.Wickets, overs)
}

// TeamScore joins a team's innings scores with " & ", e.g. "241 & 123/4*".
func TeamScore(m *models.Match, team models.Team) string {
	var scores []string
	for _, inn := range m.Innings {
		if inn.Batting == team.ID {
			scores = append(scores, InningsScore(m, inn, true))
		}
	}
	return strings.Join(scores, " & ")
}

// Scoreline renders the one-line match summary shown in a status bar:
// "ENG 241 & 123/4* (32.4) vs AUS 197 | Live | 4 | • | W |". The ticker of
// recent deliveries appears only while the match is live; a result match
// appends its free-text description instead.
func Scoreline(m *models.Match) string {
	summary := fmt.Sprintf("%s %s vs %s %s",
		m.Teams[0].ShortName, TeamScore(m, m.Teams[0]),
		m.Teams[1].ShortName, TeamScore(m, m.Teams[1]))

	statusText := m.Status.Text()
	if m.Status == models.StatusResult && m.StatusString != "" {
		statusText += fmt.Sprintf(" (%s)", m.StatusString)
	}

	ticker := ""
	if m.Status == models.StatusLive && len(m.Balls) > 0 {
		shown := m.Balls
		if len(shown) > recentBallsShown {
			shown = shown[:recentBallsShown]
		}
		indicators := make([]string, len(shown))
		for i, ball := range shown {
			indicators[i] = ball.Indicator()
		}
		ticker = fmt.Sprintf(" | %s |", strings.Join(indicators, " | "))
	}

	return fmt.Sprintf("%s | %s%s", summary, statusText, ticker)
}

// BallSummary renders one delivery as a toast line, e.g.
// "(32.4) Anderson to Head (FOUR runs). AUS are 145/3.".
func BallSummary(ball models.Ball, m *models.Match) string {
	text := fmt.Sprintf("(%s) %s (%s).", ball.DeliveryNo, ball.DeliveryText(), ball.RunsText())

	inn := m.LiveInnings()
	team := m.BattingTeam()
	if inn != nil && team != nil {
		text += fmt.Sprintf(" %s are %s.", team.ShortName, InningsScore(m, *inn, false))
	}
	return text
}

// EventText renders one derived event as a toast line. Boundary and wicket
// texts carry the batting side's running score; the match context supplies
// it.
func EventText(e models.Event, m *models.Match) string {
	score := ""
	if inn, team := m.LiveInnings(), m.BattingTeam(); inn != nil && team != nil {
		score = fmt.Sprintf(" %s %s", team.ShortName, InningsScore(m, *inn, false))
	}

	switch e.Type {
	case models.EventBoundary:
		return fmt.Sprintf("%s! (%s)%s", e.Boundary.Name(), e.Batter, score)
	case models.EventWicket:
		if e.Dismissal == nil {
			return fmt.Sprintf("OUT!%s", score)
		}
		return fmt.Sprintf("OUT! %s%s", e.Dismissal.String(), score)
	case models.EventBatterMilestone:
		return fmt.Sprintf("%d up for %s!%s", e.Milestone, e.Batter, score)
	case models.EventPartnershipMilestone:
		return fmt.Sprintf("%d partnership between %s and %s!%s", e.Milestone, e.FirstBatter, e.SecondBatter, score)
	case models.EventTeamMilestone:
		return fmt.Sprintf("%s reach %d!", e.Team.ShortName, e.Milestone)
	case models.EventStatusChange:
		return fmt.Sprintf("%s: %s", e.Status.Text(), Scoreline(m))
	default:
		return ""
	}
}
