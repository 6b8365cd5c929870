package models

// EventType tags the notification events derived by the delta engine.
type EventType int

const (
	EventBoundary EventType = iota
	EventWicket
	EventBatterMilestone
	EventPartnershipMilestone
	EventTeamMilestone
	EventStatusChange
)

// Event is one derived notification. Only the fields for its Type are set.
// Events are transient: produced, delivered to the sinks, then discarded.
type Event struct {
	Type EventType `json:"type"`

	// EventBoundary
	Boundary Boundary `json:"boundary,omitempty"`
	Batter   string   `json:"batter,omitempty"`

	// EventWicket
	Dismissal *Dismissal `json:"dismissal,omitempty"`

	// milestone events
	Milestone    int    `json:"milestone,omitempty"`
	FirstBatter  string `json:"first_batter,omitempty"`
	SecondBatter string `json:"second_batter,omitempty"`
	Team         Team   `json:"team,omitempty"`

	// EventStatusChange
	Status Status `json:"status,omitempty"`
}

// Notification carries one unseen delivery (or a standalone event batch when
// Ball is nil) from the delta engine to the writer sinks.
type Notification struct {
	Match  Match   `json:"match"`
	Ball   *Ball   `json:"ball,omitempty"`
	Events []Event `json:"events,omitempty"`
}
