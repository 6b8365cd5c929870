package cricinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"cricketflow/config"
	"cricketflow/internal/channel"
	"cricketflow/internal/metrics"
	"cricketflow/logger"
	"cricketflow/models"
)

// Reader polls the match feed for every followed match and forwards raw
// documents to the raw channel. Each match gets its own worker so one slow
// fetch never delays the others.
type Reader struct {
	config   *config.Config
	client   *Client
	channels *channel.Channels
	matches  []string
	ctx      context.Context
	wg       *sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	log      *logger.Log
}

// NewReader creates a reader polling the given match ids.
func NewReader(cfg *config.Config, client *Client, channels *channel.Channels, matches []string) *Reader {
	log := logger.GetLogger()

	reader := &Reader{
		config:   cfg,
		client:   client,
		channels: channels,
		matches:  matches,
		wg:       &sync.WaitGroup{},
		log:      log,
	}

	log.WithComponent("cricinfo_reader").WithFields(logger.Fields{
		"matches":  matches,
		"interval": cfg.Reader.PollInterval,
		"timeout":  cfg.Reader.Timeout,
	}).Info("cricinfo reader initialized")

	return reader
}

// Start begins polling for all followed matches.
func (r *Reader) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("reader already running")
	}
	r.running = true
	r.ctx = ctx
	r.mu.Unlock()

	log := r.log.WithComponent("cricinfo_reader").WithFields(logger.Fields{"operation": "start"})

	if len(r.matches) == 0 {
		log.Warn("no matches followed, reader is idle")
	}

	for _, matchID := range r.matches {
		r.wg.Add(1)
		go r.pollWorker(matchID)
	}

	log.Info("cricinfo reader started successfully")
	return nil
}

// Stop signals all workers to stop and waits for completion.
func (r *Reader) Stop() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	r.log.WithComponent("cricinfo_reader").Info("stopping cricinfo reader")
	r.wg.Wait()
	r.log.WithComponent("cricinfo_reader").Info("cricinfo reader stopped")
}

func (r *Reader) pollWorker(matchID string) {
	defer r.wg.Done()

	log := r.log.WithComponent("cricinfo_reader").WithFields(logger.Fields{
		"match_id": matchID,
		"worker":   "match_poller",
	})
	log.Info("starting poll worker")

	interval := r.config.Reader.PollInterval

	// First poll immediately, then align to the interval grid.
	r.pollMatch(matchID)

	now := time.Now()
	nextTick := now.Truncate(interval).Add(interval)
	timer := time.NewTimer(nextTick.Sub(now))
	defer timer.Stop()

	for {
		select {
		case <-r.ctx.Done():
			log.Info("worker stopped due to context cancellation")
			return
		case <-timer.C:
			start := time.Now()
			r.pollMatch(matchID)
			duration := time.Since(start)

			if duration > interval {
				log.WithFields(logger.Fields{
					"duration": duration.Milliseconds(),
					"interval": interval.Milliseconds(),
				}).Warn("poll took longer than interval")
			}

			nextTick = start.Truncate(interval).Add(interval)
			timer.Reset(time.Until(nextTick))
		}
	}
}

// pollMatch performs one fetch cycle. Transport failures are logged and
// retried on the next tick; they never terminate the worker.
func (r *Reader) pollMatch(matchID string) {
	cycleID := uuid.New().String()
	log := r.log.WithComponent("cricinfo_reader").WithFields(logger.Fields{
		"match_id":  matchID,
		"cycle_id":  cycleID,
		"operation": "poll_match",
	})

	start := time.Now()
	doc, err := r.client.FetchMatch(r.ctx, matchID)
	if err != nil {
		if r.ctx.Err() != nil {
			return
		}
		metrics.IncrementPollFailure(matchID)
		log.WithError(err).Warn("failed to fetch match document")
		return
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		metrics.IncrementPollFailure(matchID)
		log.WithError(err).Warn("failed to marshal match document")
		return
	}

	msg := models.RawMatchMessage{
		MatchID:   matchID,
		CycleID:   cycleID,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	}

	if r.channels.SendRaw(r.ctx, msg) {
		metrics.IncrementPollSuccess(matchID)
		log.WithFields(logger.Fields{
			"duration_ms": time.Since(start).Milliseconds(),
			"bytes":       len(payload),
		}).Debug("match document sent to raw channel")
	} else if r.ctx.Err() == nil {
		log.Warn("raw channel is full, dropping document")
	}
}
