package writer

import (
	"context"
	"fmt"
	"sync"

	appconfig "cricketflow/config"
	"cricketflow/internal/channel"
	"cricketflow/logger"
	"cricketflow/models"
)

// Sink receives rendered notifications. Implementations must not block
// indefinitely; queue and drop rather than stall the pipeline.
type Sink interface {
	Name() string
	Notify(ctx context.Context, n models.Notification) error
	Close()
}

// Writer drains the notification channel and fans each notification out to
// every configured sink. A failing sink is logged and skipped; the others
// still receive the notification.
type Writer struct {
	config   *appconfig.Config
	channels *channel.Channels
	sinks    []Sink
	ctx      context.Context
	wg       *sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	log      *logger.Log
}

func NewWriter(cfg *appconfig.Config, channels *channel.Channels, sinks []Sink) *Writer {
	return &Writer{
		config:   cfg,
		channels: channels,
		sinks:    sinks,
		wg:       &sync.WaitGroup{},
		log:      logger.GetLogger(),
	}
}

func (w *Writer) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("writer already running")
	}
	w.running = true
	w.ctx = ctx
	w.mu.Unlock()

	log := w.log.WithComponent("writer").WithFields(logger.Fields{"operation": "start"})

	names := make([]string, len(w.sinks))
	for i, sink := range w.sinks {
		names[i] = sink.Name()
	}

	w.wg.Add(1)
	go w.pump()

	log.WithFields(logger.Fields{"sinks": names}).Info("writer started successfully")
	return nil
}

func (w *Writer) Stop() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.log.WithComponent("writer").Info("stopping writer")
	w.wg.Wait()
	for _, sink := range w.sinks {
		sink.Close()
	}
	w.log.WithComponent("writer").Info("writer stopped")
}

func (w *Writer) pump() {
	defer w.wg.Done()

	log := w.log.WithComponent("writer").WithFields(logger.Fields{"worker": "notification_pump"})
	log.Info("starting notification pump")

	for {
		select {
		case <-w.ctx.Done():
			log.Info("pump stopped due to context cancellation")
			return
		case n, ok := <-w.channels.Notifications:
			if !ok {
				log.Info("notification channel closed, pump stopping")
				return
			}
			for _, sink := range w.sinks {
				if err := sink.Notify(w.ctx, n); err != nil {
					log.WithError(err).WithFields(logger.Fields{
						"sink":     sink.Name(),
						"match_id": n.Match.ID,
					}).Warn("sink failed to deliver notification")
				}
			}
		}
	}
}
