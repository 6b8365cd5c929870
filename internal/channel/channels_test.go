package channel

import (
	"context"
	"testing"

	"cricketflow/models"
)

func TestSendRawNonBlocking(t *testing.T) {
	c := NewChannels(1, 1, 1)
	ctx := context.Background()

	if !c.SendRaw(ctx, models.RawMatchMessage{MatchID: "1"}) {
		t.Fatalf("first send should succeed")
	}
	if c.SendRaw(ctx, models.RawMatchMessage{MatchID: "2"}) {
		t.Fatalf("second send should drop on a full buffer")
	}

	stats := c.GetStats()
	if stats.RawSent != 1 || stats.RawDropped != 1 {
		t.Fatalf("stats = %+v, want 1 sent / 1 dropped", stats)
	}
}

func TestSendNotificationHonorsCancel(t *testing.T) {
	c := NewChannels(1, 1, 1)
	ctx := context.Background()

	if !c.SendNotification(ctx, models.Notification{}) {
		t.Fatalf("first notification should succeed")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if c.SendNotification(cancelled, models.Notification{}) {
		t.Fatalf("send on full channel with cancelled context should fail")
	}
}
