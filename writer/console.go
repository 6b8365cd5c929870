package writer

import (
	"context"
	"fmt"
	"os"

	"cricketflow/logger"
	"cricketflow/models"
)

// ConsoleSink prints ball summaries, event texts and the updated scoreline
// to stdout. It is the default sink when nothing else is configured.
type ConsoleSink struct {
	log *logger.Log
}

func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{log: logger.GetLogger()}
}

func (s *ConsoleSink) Name() string { return "console" }

func (s *ConsoleSink) Notify(_ context.Context, n models.Notification) error {
	for _, line := range renderNotification(n) {
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func (s *ConsoleSink) Close() {}

// renderNotification turns one notification into display lines: the ball
// summary first, then one line per event, ending with the scoreline.
func renderNotification(n models.Notification) []string {
	var lines []string
	if n.Ball != nil {
		lines = append(lines, BallSummary(*n.Ball, &n.Match))
	}
	for _, e := range n.Events {
		if text := EventText(e, &n.Match); text != "" {
			lines = append(lines, text)
		}
	}
	lines = append(lines, Scoreline(&n.Match))
	return lines
}
