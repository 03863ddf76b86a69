// Package heartbeat injects a scheduled prompt into the dispatch core so the
// assistant can check in without being messaged first.
package heartbeat

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/nkval/teleclaw/pkg/bus"
	"github.com/nkval/teleclaw/pkg/logger"
)

const component = "heartbeat"

const defaultPrompt = "Heartbeat check-in: anything that needs attention?"

// Heartbeat fires a prompt on a cron schedule, attributed to the configured
// user so it passes the downstream authorization gate.
type Heartbeat struct {
	bus      *bus.MessageBus
	cron     string
	channel  string
	chatID   int64
	username string
	prompt   string
}

// New validates the cron expression up front.
func New(msgBus *bus.MessageBus, cron, channel string, chatID int64, username, prompt string) (*Heartbeat, error) {
	if !gronx.New().IsValid(cron) {
		return nil, fmt.Errorf("invalid heartbeat cron %q", cron)
	}
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Heartbeat{
		bus:      msgBus,
		cron:     cron,
		channel:  channel,
		chatID:   chatID,
		username: username,
		prompt:   prompt,
	}, nil
}

// Run checks the schedule once a minute until ctx is cancelled.
func (h *Heartbeat) Run(ctx context.Context) {
	logger.InfoCF(component, "heartbeat scheduled", map[string]any{"cron": h.cron})
	g := gronx.New()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due, err := g.IsDue(h.cron, now)
			if err != nil {
				logger.WarnCF(component, "cron evaluation failed", map[string]any{"error": err.Error()})
				continue
			}
			if !due {
				continue
			}
			h.fire(ctx)
		}
	}
}

func (h *Heartbeat) fire(ctx context.Context) {
	logger.DebugC(component, "heartbeat due")
	h.bus.PublishInbound(ctx, bus.InboundMessage{
		Channel:        h.channel,
		ChatID:         h.chatID,
		SenderUsername: h.username,
		Content:        h.prompt,
	})
}
