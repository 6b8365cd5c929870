// Package metrics tracks pipeline counters per followed match: poll
// outcomes, snapshot build failures, dismissal parse failures, dropped
// deliveries and emitted events. Counters are always collected; CloudWatch
// publication is optional.
package metrics

import (
	"context"
	"sync"
	"time"

	"cricketflow/logger"
)

type counterKey struct {
	name    string
	matchID string
}

var (
	mu       sync.Mutex
	counters = make(map[counterKey]int64)
)

func increment(name, matchID string) {
	add(name, matchID, 1)
}

func add(name, matchID string, n int64) {
	mu.Lock()
	counters[counterKey{name, matchID}] += n
	mu.Unlock()
}

func IncrementPollSuccess(matchID string)      { increment("poll_success", matchID) }
func IncrementPollFailure(matchID string)      { increment("poll_failure", matchID) }
func IncrementBuildFailure(matchID string)     { increment("build_failure", matchID) }
func AddBallsNormalized(matchID string, n int) { add("balls_normalized", matchID, int64(n)) }
func IncrementDismissalFailure(matchID string) { increment("dismissal_parse_failure", matchID) }
func IncrementDroppedBall(matchID string)      { increment("dropped_ball", matchID) }
func AddEventsEmitted(matchID string, n int)   { add("events_emitted", matchID, int64(n)) }

// snapshot returns and resets the collected counters.
func snapshot() map[counterKey]int64 {
	mu.Lock()
	defer mu.Unlock()
	out := counters
	counters = make(map[counterKey]int64)
	return out
}

// StartReporting periodically logs the counters and, when CloudWatch is
// initialised, publishes them as metric data.
func StartReporting(ctx context.Context, interval time.Duration) {
	go func() {
		log := logger.GetLogger().WithComponent("metrics")
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				counts := snapshot()
				if len(counts) == 0 {
					continue
				}
				for key, value := range counts {
					log.WithFields(logger.Fields{
						"metric":   key.name,
						"match_id": key.matchID,
						"value":    value,
					}).Debug("metric")
				}
				publishCounters(ctx, counts)
			}
		}
	}()
}
