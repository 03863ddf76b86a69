package channels

import (
	"context"
	"fmt"

	"github.com/nkval/teleclaw/pkg/bus"
	"github.com/nkval/teleclaw/pkg/logger"
)

// Manager starts the registered channels and runs the single outbound
// dispatcher. Replies for one chat leave in the order they were published.
type Manager struct {
	bus      *bus.MessageBus
	channels map[string]Channel
}

func NewManager(msgBus *bus.MessageBus) *Manager {
	return &Manager{
		bus:      msgBus,
		channels: make(map[string]Channel),
	}
}

// Register adds a channel. Registering two channels with the same name is a
// wiring bug and replaces the earlier one.
func (m *Manager) Register(ch Channel) {
	m.channels[ch.Name()] = ch
}

// Count returns the number of registered channels. The set is fixed before
// Start, so this is safe to call from other goroutines afterwards.
func (m *Manager) Count() int {
	return len(m.channels)
}

// Start brings up every channel and the outbound dispatcher.
func (m *Manager) Start(ctx context.Context) error {
	for name, ch := range m.channels {
		if err := ch.Start(ctx); err != nil {
			return fmt.Errorf("start channel %s: %w", name, err)
		}
		logger.InfoCF("channels", "channel started", map[string]any{"channel": name})
	}
	go m.dispatchOutbound(ctx)
	return nil
}

// dispatchOutbound delivers replies one at a time. Send failures are logged
// and swallowed; a failed reply never re-enters the pipeline.
func (m *Manager) dispatchOutbound(ctx context.Context) {
	for {
		msg, ok := m.bus.ConsumeOutbound(ctx)
		if !ok {
			return
		}
		ch, exists := m.channels[msg.Channel]
		if !exists {
			logger.WarnCF("channels", "reply for unknown channel dropped", map[string]any{
				"channel": msg.Channel,
			})
			continue
		}
		if err := ch.Send(ctx, msg); err != nil {
			logger.ErrorCF("channels", "reply send failed", map[string]any{
				"channel":        msg.Channel,
				"chat_id":        msg.ChatID,
				"correlation_id": msg.CorrelationID,
				"error":          err.Error(),
			})
		}
	}
}
