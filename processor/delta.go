package processor

import (
	"cricketflow/models"
)

// BallUpdate is one unseen delivery with the events it triggered.
type BallUpdate struct {
	Ball   models.Ball
	Events []models.Event
}

// Delta is the result of diffing two successive snapshots: unseen deliveries
// in chronological order, plus standalone events not tied to a delivery
// (milestones and status changes).
type Delta struct {
	Updates []BallUpdate
	Events  []models.Event
}

// Diff compares the previous snapshot against the current one. With no
// previous snapshot the first observation establishes a baseline only and no
// events are emitted, whatever the ball list contains. milestoneStep is the
// run threshold spacing for milestone events, typically 50.
func Diff(prev, cur *models.Match, milestoneStep int) Delta {
	var delta Delta
	if prev == nil {
		return delta
	}

	for _, ball := range unseenBalls(prev, cur) {
		update := BallUpdate{Ball: ball}
		if ball.Boundary != models.BoundaryNone {
			update.Events = append(update.Events, models.Event{
				Type:     models.EventBoundary,
				Boundary: ball.Boundary,
				Batter:   ball.Batter,
			})
		}
		if ball.Dismissal != nil {
			update.Events = append(update.Events, models.Event{
				Type:      models.EventWicket,
				Dismissal: ball.Dismissal,
			})
		}
		delta.Updates = append(delta.Updates, update)
	}

	delta.Events = append(delta.Events, milestoneEvents(prev, cur, milestoneStep)...)

	if prev.Status != cur.Status {
		delta.Events = append(delta.Events, models.Event{
			Type:   models.EventStatusChange,
			Status: cur.Status,
		})
	}

	return delta
}

// unseenBalls selects every current ball strictly newer than the previous
// newest one and returns them oldest first, so notifications fire in the
// order the deliveries actually occurred. Delivery numbers compare as real
// numbers: "12.10" is newer than "12.9".
func unseenBalls(prev, cur *models.Match) []models.Ball {
	threshold := -1.0
	if len(prev.Balls) > 0 {
		threshold = prev.Balls[0].UniqueNo()
	}

	var unseen []models.Ball
	for _, ball := range cur.Balls {
		if ball.UniqueNo() > threshold {
			unseen = append(unseen, ball)
		}
	}

	// Reverse newest-first into chronological order.
	for i, j := 0, len(unseen)-1; i < j; i, j = i+1, j-1 {
		unseen[i], unseen[j] = unseen[j], unseen[i]
	}
	return unseen
}

// milestoneEvents emits one event per threshold crossed between the two
// snapshots, for the batting team's innings total, each batter at the crease
// and the current partnership. A jump from 47 to 101 crosses both 50 and 100.
func milestoneEvents(prev, cur *models.Match, step int) []models.Event {
	if step <= 0 {
		return nil
	}
	var events []models.Event

	curInnings := cur.LiveInnings()
	team := cur.BattingTeam()
	if curInnings != nil && team != nil {
		prevRuns := 0
		if pi := prev.LiveInnings(); pi != nil && pi.Batting == curInnings.Batting {
			prevRuns = pi.Runs
		}
		for _, milestone := range crossings(prevRuns, curInnings.Runs, step) {
			events = append(events, models.Event{
				Type:      models.EventTeamMilestone,
				Team:      *team,
				Milestone: milestone,
			})
		}
	}

	prevBatters := make(map[string]int, len(prev.Batters))
	for _, b := range prev.Batters {
		prevBatters[b.Name] = b.Runs
	}
	for _, b := range cur.Batters {
		prevRuns, seen := prevBatters[b.Name]
		if !seen {
			continue
		}
		for _, milestone := range crossings(prevRuns, b.Runs, step) {
			events = append(events, models.Event{
				Type:      models.EventBatterMilestone,
				Batter:    b.Name,
				Milestone: milestone,
			})
		}
	}

	if prev.Partnership != nil && cur.Partnership != nil && samePair(prev.Partnership, cur.Partnership) {
		for _, milestone := range crossings(prev.Partnership.Runs, cur.Partnership.Runs, step) {
			events = append(events, models.Event{
				Type:         models.EventPartnershipMilestone,
				FirstBatter:  cur.Partnership.FirstBatter,
				SecondBatter: cur.Partnership.SecondBatter,
				Milestone:    milestone,
			})
		}
	}

	return events
}

// crossings returns every multiple of step in (prevRuns, curRuns], ascending.
func crossings(prevRuns, curRuns, step int) []int {
	if prevRuns < 0 {
		prevRuns = 0
	}
	var marks []int
	for m := (prevRuns/step + 1) * step; m <= curRuns; m += step {
		marks = append(marks, m)
	}
	return marks
}

func samePair(a, b *models.Partnership) bool {
	if a.FirstBatter == b.FirstBatter && a.SecondBatter == b.SecondBatter {
		return true
	}
	return a.FirstBatter == b.SecondBatter && a.SecondBatter == b.FirstBatter
}
