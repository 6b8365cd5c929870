package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	appconfig "cricketflow/config"
	"cricketflow/internal/channel"
	"cricketflow/internal/metrics"
	"cricketflow/logger"
	"cricketflow/models"
	"cricketflow/reader/cricinfo"
)

// SnapshotProcessor drains the raw channel, builds Match snapshots and
// forwards them to the snapshot channel. Build failures retain the previous
// snapshot unchanged: the match simply fails to update for one cycle.
type SnapshotProcessor struct {
	config   *appconfig.Config
	channels *channel.Channels
	ctx      context.Context
	wg       *sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	log      *logger.Log
}

func NewSnapshotProcessor(cfg *appconfig.Config, channels *channel.Channels) *SnapshotProcessor {
	return &SnapshotProcessor{
		config:   cfg,
		channels: channels,
		wg:       &sync.WaitGroup{},
		log:      logger.GetLogger(),
	}
}

func (p *SnapshotProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("snapshot processor already running")
	}
	p.running = true
	p.ctx = ctx
	p.mu.Unlock()

	log := p.log.WithComponent("snapshot_processor").WithFields(logger.Fields{"operation": "start"})

	numWorkers := p.config.Processor.SnapshotWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.WithFields(logger.Fields{"workers": numWorkers}).Info("snapshot processor started successfully")
	return nil
}

func (p *SnapshotProcessor) Stop() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.log.WithComponent("snapshot_processor").Info("stopping snapshot processor")
	p.wg.Wait()
	p.log.WithComponent("snapshot_processor").Info("snapshot processor stopped")
}

func (p *SnapshotProcessor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.WithComponent("snapshot_processor").WithFields(logger.Fields{
		"worker_id": workerID,
		"worker":    "snapshot_builder",
	})
	log.Info("starting snapshot worker")

	for {
		select {
		case <-p.ctx.Done():
			log.Info("worker stopped due to context cancellation")
			return
		case msg, ok := <-p.channels.Raw:
			if !ok {
				log.Info("raw channel closed, worker stopping")
				return
			}
			p.processMessage(msg)
		}
	}
}

func (p *SnapshotProcessor) processMessage(msg models.RawMatchMessage) {
	log := p.log.WithComponent("snapshot_processor").WithFields(logger.Fields{
		"match_id":  msg.MatchID,
		"cycle_id":  msg.CycleID,
		"operation": "build_snapshot",
	})

	start := time.Now()

	var doc cricinfo.MatchDocument
	if err := json.Unmarshal(msg.Data, &doc); err != nil {
		metrics.IncrementBuildFailure(msg.MatchID)
		log.WithError(err).Warn("failed to unmarshal match document")
		return
	}

	match, ballErrs, err := BuildMatch(msg.MatchID, &doc, msg.Timestamp)
	if err != nil {
		metrics.IncrementBuildFailure(msg.MatchID)
		log.WithError(err).Warn("failed to build match snapshot")
		return
	}

	for _, ballErr := range ballErrs {
		if errors.Is(ballErr, ErrMalformedCommentary) {
			metrics.IncrementDroppedBall(msg.MatchID)
		} else {
			metrics.IncrementDismissalFailure(msg.MatchID)
		}
		log.WithError(ballErr).Warn("delivery normalization failure")
	}
	metrics.AddBallsNormalized(msg.MatchID, len(match.Balls))

	if !p.channels.SendSnapshot(p.ctx, *match) {
		if p.ctx.Err() == nil {
			log.Warn("snapshot channel is full, dropping snapshot")
		}
		return
	}

	log.WithFields(logger.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
		"balls":       len(match.Balls),
		"innings":     len(match.Innings),
		"status":      match.Status.Text(),
	}).Debug("snapshot built")
}
