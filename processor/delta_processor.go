package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	appconfig "cricketflow/config"
	"cricketflow/internal/channel"
	"cricketflow/internal/metrics"
	"cricketflow/logger"
	"cricketflow/models"
	"cricketflow/store"
)

// DeltaProcessor drains the snapshot channel, diffs each snapshot against
// the stored previous one and forwards the resulting notifications. The
// read-diff-write section is serialized per match id so two cycles for the
// same match never interleave, whatever the worker count.
type DeltaProcessor struct {
	config   *appconfig.Config
	channels *channel.Channels
	store    store.Store
	ctx      context.Context
	wg       *sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	log      *logger.Log

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewDeltaProcessor(cfg *appconfig.Config, channels *channel.Channels, snapshots store.Store) *DeltaProcessor {
	return &DeltaProcessor{
		config:   cfg,
		channels: channels,
		store:    snapshots,
		wg:       &sync.WaitGroup{},
		log:      logger.GetLogger(),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (p *DeltaProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("delta processor already running")
	}
	p.running = true
	p.ctx = ctx
	p.mu.Unlock()

	log := p.log.WithComponent("delta_processor").WithFields(logger.Fields{"operation": "start"})

	numWorkers := p.config.Processor.DeltaWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.WithFields(logger.Fields{"workers": numWorkers}).Info("delta processor started successfully")
	return nil
}

func (p *DeltaProcessor) Stop() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.log.WithComponent("delta_processor").Info("stopping delta processor")
	p.wg.Wait()
	p.log.WithComponent("delta_processor").Info("delta processor stopped")
}

func (p *DeltaProcessor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.WithComponent("delta_processor").WithFields(logger.Fields{
		"worker_id": workerID,
		"worker":    "delta_engine",
	})
	log.Info("starting delta worker")

	for {
		select {
		case <-p.ctx.Done():
			log.Info("worker stopped due to context cancellation")
			return
		case match, ok := <-p.channels.Snapshots:
			if !ok {
				log.Info("snapshot channel closed, worker stopping")
				return
			}
			p.processSnapshot(match)
		}
	}
}

func (p *DeltaProcessor) matchLock(matchID string) *sync.Mutex {
	p.locksMu.Lock()
	defer p.locksMu.Unlock()
	lock, ok := p.locks[matchID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[matchID] = lock
	}
	return lock
}

func (p *DeltaProcessor) processSnapshot(cur models.Match) {
	log := p.log.WithComponent("delta_processor").WithFields(logger.Fields{
		"match_id":  cur.ID,
		"operation": "diff_snapshot",
	})

	lock := p.matchLock(cur.ID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()

	prev, err := p.store.Get(p.ctx, cur.ID)
	if err != nil {
		log.WithError(err).Warn("failed to load previous snapshot, skipping cycle")
		return
	}

	delta := Diff(prev, &cur, p.config.Processor.MilestoneStep)

	eventsEmitted := 0
	for _, update := range delta.Updates {
		ball := update.Ball
		if !p.channels.SendNotification(p.ctx, models.Notification{
			Match:  cur,
			Ball:   &ball,
			Events: update.Events,
		}) {
			return
		}
		eventsEmitted += len(update.Events)
	}
	if len(delta.Events) > 0 {
		if !p.channels.SendNotification(p.ctx, models.Notification{
			Match:  cur,
			Events: delta.Events,
		}) {
			return
		}
		eventsEmitted += len(delta.Events)
	}
	if eventsEmitted > 0 {
		metrics.AddEventsEmitted(cur.ID, eventsEmitted)
	}

	if err := p.store.Put(p.ctx, cur.ID, cur); err != nil {
		log.WithError(err).Warn("failed to store snapshot")
		return
	}

	log.WithFields(logger.Fields{
		"duration_ms":  time.Since(start).Milliseconds(),
		"unseen_balls": len(delta.Updates),
		"events":       eventsEmitted,
		"baseline":     prev == nil,
	}).Debug("snapshot diffed")
}
