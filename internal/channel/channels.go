package channel

import (
	"context"
	"sync"
	"time"

	"cricketflow/logger"
	"cricketflow/models"
)

type ChannelStats struct {
	RawSent             int64
	RawDropped          int64
	SnapshotSent        int64
	SnapshotDropped     int64
	NotificationSent    int64
	NotificationDropped int64
}

// Channels bundles the three pipeline stages: raw match documents from the
// reader, built snapshots from the snapshot processor and notifications from
// the delta engine.
type Channels struct {
	Raw           chan models.RawMatchMessage
	Snapshots     chan models.Match
	Notifications chan models.Notification

	stats      ChannelStats
	statsMutex sync.RWMutex
	log        *logger.Log
}

func NewChannels(rawBufferSize, snapshotBufferSize, notificationBufferSize int) *Channels {
	log := logger.GetLogger()
	c := &Channels{
		Raw:           make(chan models.RawMatchMessage, rawBufferSize),
		Snapshots:     make(chan models.Match, snapshotBufferSize),
		Notifications: make(chan models.Notification, notificationBufferSize),
		log:           log,
	}

	log.WithComponent("channels").WithFields(logger.Fields{
		"raw_buffer_size":          rawBufferSize,
		"snapshot_buffer_size":     snapshotBufferSize,
		"notification_buffer_size": notificationBufferSize,
	}).Info("pipeline channels initialized")

	return c
}

func (c *Channels) Close() {
	close(c.Raw)
	close(c.Snapshots)
	close(c.Notifications)
	c.log.WithComponent("channels").Info("pipeline channels closed")
}

// SendRaw forwards a fetched document without blocking. A full channel drops
// the message; the next poll supersedes it anyway.
func (c *Channels) SendRaw(ctx context.Context, msg models.RawMatchMessage) bool {
	select {
	case c.Raw <- msg:
		c.increment(func(s *ChannelStats) { s.RawSent++ })
		return true
	case <-ctx.Done():
		return false
	default:
		c.increment(func(s *ChannelStats) { s.RawDropped++ })
		return false
	}
}

func (c *Channels) SendSnapshot(ctx context.Context, m models.Match) bool {
	select {
	case c.Snapshots <- m:
		c.increment(func(s *ChannelStats) { s.SnapshotSent++ })
		return true
	case <-ctx.Done():
		return false
	default:
		c.increment(func(s *ChannelStats) { s.SnapshotDropped++ })
		return false
	}
}

// SendNotification blocks until the writer drains the channel. Notifications
// must not be dropped: a missed wicket never comes back.
func (c *Channels) SendNotification(ctx context.Context, n models.Notification) bool {
	select {
	case c.Notifications <- n:
		c.increment(func(s *ChannelStats) { s.NotificationSent++ })
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Channels) increment(fn func(*ChannelStats)) {
	c.statsMutex.Lock()
	fn(&c.stats)
	c.statsMutex.Unlock()
}

func (c *Channels) GetStats() ChannelStats {
	c.statsMutex.RLock()
	defer c.statsMutex.RUnlock()
	return c.stats
}

// StartMetricsReporting logs channel depth and counters until ctx is done.
func (c *Channels) StartMetricsReporting(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := c.log.WithComponent("channels")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := c.GetStats()
			log.WithFields(logger.Fields{
				"raw_len":              len(c.Raw),
				"snapshots_len":        len(c.Snapshots),
				"notifications_len":    len(c.Notifications),
				"raw_sent":             stats.RawSent,
				"raw_dropped":          stats.RawDropped,
				"snapshot_sent":        stats.SnapshotSent,
				"snapshot_dropped":     stats.SnapshotDropped,
				"notification_sent":    stats.NotificationSent,
				"notification_dropped": stats.NotificationDropped,
			}).Debug("channel stats")
		}
	}
}
