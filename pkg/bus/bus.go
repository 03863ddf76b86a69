// Package bus is the in-process message pipe between channels and the
// dispatch core. Channels publish inbound updates, one consumer (the agent
// loop) drains them strictly in publish order; replies flow the other way
// through the outbound queue.
package bus

import (
	"context"
	"sync"
)

// MessageBus carries inbound updates and outbound replies.
//
// PublishInbound blocks when the queue is full rather than dropping: an
// update fetched from Telegram must reach the dispatch core, otherwise the
// offset cursor would advance past a message nobody handled.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewMessageBus creates a bus with bounded queues.
func NewMessageBus() *MessageBus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, 100),
		outbound: make(chan OutboundMessage, 100),
	}
}

// PublishInbound hands an update to the dispatch core. It blocks until the
// queue accepts the message or ctx is cancelled. Returns false when the
// message was not accepted (shutdown).
func (mb *MessageBus) PublishInbound(ctx context.Context, msg InboundMessage) bool {
	if mb.isClosed() {
		return false
	}
	select {
	case mb.inbound <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// ConsumeInbound returns the next inbound message, blocking until one is
// available or ctx is cancelled.
func (mb *MessageBus) ConsumeInbound(ctx context.Context) (InboundMessage, bool) {
	select {
	case msg := <-mb.inbound:
		return msg, true
	case <-ctx.Done():
		return InboundMessage{}, false
	}
}

// PublishOutbound queues a reply for delivery. Blocks like PublishInbound;
// reply order per chat is the queue order.
func (mb *MessageBus) PublishOutbound(ctx context.Context, msg OutboundMessage) bool {
	if mb.isClosed() {
		return false
	}
	select {
	case mb.outbound <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// ConsumeOutbound returns the next reply to deliver.
func (mb *MessageBus) ConsumeOutbound(ctx context.Context) (OutboundMessage, bool) {
	select {
	case msg := <-mb.outbound:
		return msg, true
	case <-ctx.Done():
		return OutboundMessage{}, false
	}
}

func (mb *MessageBus) isClosed() bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.closed
}

// Close marks the bus closed. Later publishes are rejected; messages already
// queued remain consumable.
func (mb *MessageBus) Close() {
	mb.closeOnce.Do(func() {
		mb.mu.Lock()
		mb.closed = true
		mb.mu.Unlock()
	})
}
