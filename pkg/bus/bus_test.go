package bus

import (
	"context"
	"testing"
	"time"
)

func TestPublishConsumeOrder(t *testing.T) {
	mb := NewMessageBus()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		if !mb.PublishInbound(ctx, InboundMessage{UpdateID: i}) {
			t.Fatalf("publish %d rejected", i)
		}
	}

	for i := int64(1); i <= 5; i++ {
		msg, ok := mb.ConsumeInbound(ctx)
		if !ok {
			t.Fatalf("consume %d failed", i)
		}
		if msg.UpdateID != i {
			t.Errorf("expected update %d, got %d", i, msg.UpdateID)
		}
	}
}

func TestPublishBlocksWhenFull(t *testing.T) {
	mb := NewMessageBus()
	ctx := context.Background()

	// Fill the inbound queue.
	for i := 0; i < 100; i++ {
		mb.PublishInbound(ctx, InboundMessage{UpdateID: int64(i)})
	}

	blocked, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if mb.PublishInbound(blocked, InboundMessage{UpdateID: 100}) {
		t.Fatal("publish on a full queue should block until ctx cancellation, not drop")
	}
}

func TestConsumeCancelled(t *testing.T) {
	mb := NewMessageBus()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := mb.ConsumeInbound(ctx); ok {
		t.Fatal("consume on cancelled context should return ok=false")
	}
	if _, ok := mb.ConsumeOutbound(ctx); ok {
		t.Fatal("outbound consume on cancelled context should return ok=false")
	}
}

func TestCloseRejectsPublish(t *testing.T) {
	mb := NewMessageBus()
	ctx := context.Background()

	mb.PublishOutbound(ctx, OutboundMessage{ChatID: 1, Content: "queued"})
	mb.Close()

	if mb.PublishOutbound(ctx, OutboundMessage{ChatID: 1, Content: "late"}) {
		t.Error("publish after Close should be rejected")
	}

	// Messages queued before Close stay consumable.
	msg, ok := mb.ConsumeOutbound(ctx)
	if !ok || msg.Content != "queued" {
		t.Errorf("expected queued message after Close, got %+v ok=%v", msg, ok)
	}
}
