// Package channels connects the message bus to the outside world. Each
// channel ingests user messages onto the bus and delivers replies addressed
// to it.
package channels

import (
	"context"

	"github.com/nkval/teleclaw/pkg/bus"
)

// Channel is one transport surface (Telegram, local CLI).
type Channel interface {
	// Name routes outbound messages; it matches bus.OutboundMessage.Channel.
	Name() string
	// Start begins ingesting messages. Non-blocking; workers stop when ctx
	// is cancelled.
	Start(ctx context.Context) error
	// Send delivers one reply. Errors are reported to the caller, which
	// logs and drops them; replies are never retried.
	Send(ctx context.Context, msg bus.OutboundMessage) error
}
