// Package agent is the dispatch core: it consumes inbound messages from the
// bus, runs deduplication, session gating, command parsing, authorization and
// workspace operations, and publishes exactly one reply per handled message.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nkval/teleclaw/pkg/auth"
	"github.com/nkval/teleclaw/pkg/bus"
	"github.com/nkval/teleclaw/pkg/commands"
	"github.com/nkval/teleclaw/pkg/dedup"
	"github.com/nkval/teleclaw/pkg/logger"
	"github.com/nkval/teleclaw/pkg/providers"
	"github.com/nkval/teleclaw/pkg/session"
	"github.com/nkval/teleclaw/pkg/workspace"
)

const component = "agent"

// History supplies bounded per-chat transcript context for the reply
// provider.
type History interface {
	Append(chatID int64, role, content string) error
	Recent(chatID int64, limit int) ([]providers.Turn, error)
}

// Loop owns all per-update state (dedup window, session store) and processes
// messages strictly sequentially; none of that state needs locking.
type Loop struct {
	bus      *bus.MessageBus
	dedup    *dedup.Window
	sessions *session.Store
	auth     *auth.Authorizer
	ops      *workspace.Ops
	provider providers.Provider // nil disables the general-reply path
	history  History            // nil when provider is nil
	maxTurns int

	processed atomic.Int64
	// snapshot of sessions.Count(), refreshed after each stop/start so the
	// status server can read it without touching the unlocked store
	sessionCount atomic.Int64
}

// New assembles a Loop. provider and history may both be nil, in which case
// plain text from the authorized user gets a short notice instead of an LLM
// reply.
func New(msgBus *bus.MessageBus, authorizer *auth.Authorizer, ops *workspace.Ops, provider providers.Provider, history History, maxTurns int) *Loop {
	return &Loop{
		bus:      msgBus,
		dedup:    dedup.NewWindow(dedup.DefaultCapacity),
		sessions: session.NewStore(),
		auth:     authorizer,
		ops:      ops,
		provider: provider,
		history:  history,
		maxTurns: maxTurns,
	}
}

// ProcessedCount reports how many messages have been fully handled. Safe to
// read from other goroutines.
func (l *Loop) ProcessedCount() int64 {
	return l.processed.Load()
}

// SessionCount reports how many chats have recorded session state. Safe to
// read from other goroutines.
func (l *Loop) SessionCount() int64 {
	return l.sessionCount.Load()
}

// Run consumes inbound messages until ctx is cancelled or the bus closes.
func (l *Loop) Run(ctx context.Context) {
	logger.InfoC(component, "dispatch loop started")
	for {
		msg, ok := l.bus.ConsumeInbound(ctx)
		if !ok {
			logger.InfoC(component, "dispatch loop stopped")
			return
		}
		l.Handle(ctx, msg)
	}
}

// Handle processes a single inbound message end to end. Errors become at
// most one reply to the originating chat and never propagate.
func (l *Loop) Handle(ctx context.Context, msg bus.InboundMessage) {
	if msg.SenderIsBot {
		return
	}

	// Dedup before any side effect. Only Telegram updates carry update ids;
	// locally injected messages (CLI, heartbeat) are never retried upstream.
	if msg.UpdateID > 0 && !l.dedup.Admit(msg.UpdateID) {
		logger.DebugCF(component, "duplicate update dropped", map[string]any{
			"update_id": msg.UpdateID,
			"chat_id":   msg.ChatID,
		})
		return
	}
	defer l.processed.Add(1)

	correlationID := msg.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	text := strings.TrimSpace(msg.Content)
	authorized := l.auth.IsAuthorized(msg.SenderUsername)

	// Bare stop/start toggles the chat session. Recognized even while
	// stopped, but only from the configured user.
	if authorized {
		switch {
		case strings.EqualFold(text, "stop"):
			l.sessions.Stop(msg.ChatID)
			l.sessionCount.Store(int64(l.sessions.Count()))
			l.reply(ctx, msg, correlationID, "⏸️ Paused. Send \"start\" to resume.")
			return
		case strings.EqualFold(text, "start"):
			l.sessions.Start(msg.ChatID)
			l.sessionCount.Store(int64(l.sessions.Count()))
			l.reply(ctx, msg, correlationID, "▶️ Resumed.")
			return
		}
	}

	if l.sessions.State(msg.ChatID) == session.Stopped {
		logger.DebugCF(component, "chat stopped, message suppressed", map[string]any{
			"chat_id": msg.ChatID,
		})
		return
	}

	if commands.IsCommand(text) {
		if !authorized {
			logger.WarnCF(component, "unauthorized command attempt", map[string]any{
				"username": msg.SenderUsername,
				"chat_id":  msg.ChatID,
			})
			l.reply(ctx, msg, correlationID, "⛔ You are not authorized to use workspace commands.")
			return
		}
		cmd, err := commands.Parse(text)
		if err != nil {
			l.reply(ctx, msg, correlationID, userMessage(err))
			return
		}
		l.reply(ctx, msg, correlationID, l.execute(cmd))
		return
	}

	// General text falls through to the reply provider; strangers are
	// ignored without a reply.
	if !authorized {
		logger.DebugCF(component, "ignoring message from unknown user", map[string]any{
			"username": msg.SenderUsername,
		})
		return
	}
	l.reply(ctx, msg, correlationID, l.generalReply(ctx, msg.ChatID, text))
}

// execute runs one parsed workspace command and renders its reply.
func (l *Loop) execute(cmd commands.Command) string {
	switch c := cmd.(type) {
	case commands.List:
		listing, err := l.ops.List(c.Dir)
		if err != nil {
			return userMessage(err)
		}
		return listing
	case commands.Read:
		content, err := l.ops.Read(c.Filename)
		if err != nil {
			return userMessage(err)
		}
		return content
	case commands.Write:
		if err := l.ops.Write(c.Filename, c.Content); err != nil {
			return userMessage(err)
		}
		return "✅ Wrote " + c.Filename
	case commands.Append:
		if err := l.ops.Append(c.Filename, c.Content); err != nil {
			return userMessage(err)
		}
		return "✅ Appended to " + c.Filename
	case commands.Edit:
		if err := l.ops.Edit(c.Filename, c.OldText, c.NewText); err != nil {
			return userMessage(err)
		}
		return "✅ Edited " + c.Filename
	case commands.Help:
		return commands.HelpText
	case commands.Prompt:
		return "Workspace commands start with :h. Send \":h help\" for the full list."
	case commands.Unknown:
		return fmt.Sprintf("Unknown command %q. Send \":h help\" for usage.", c.Raw)
	default:
		return "Unknown command. Send \":h help\" for usage."
	}
}

// generalReply asks the provider for an assistant reply, with transcript
// context when a history store is wired.
func (l *Loop) generalReply(ctx context.Context, chatID int64, text string) string {
	if l.provider == nil {
		return "No reply model is configured. Workspace commands still work, send \":h help\"."
	}

	var turns []providers.Turn
	if l.history != nil {
		var err error
		turns, err = l.history.Recent(chatID, l.maxTurns)
		if err != nil {
			logger.WarnCF(component, "transcript load failed", map[string]any{"error": err.Error()})
		}
	}

	answer, err := l.provider.Reply(ctx, turns, text)
	if err != nil {
		logger.ErrorCF(component, "provider reply failed", map[string]any{
			"provider": l.provider.Name(),
			"error":    err.Error(),
		})
		return "⚠️ The assistant is unavailable right now. Please try again."
	}

	if l.history != nil {
		if err := l.history.Append(chatID, providers.RoleUser, text); err != nil {
			logger.WarnCF(component, "transcript append failed", map[string]any{"error": err.Error()})
		}
		if err := l.history.Append(chatID, providers.RoleAssistant, answer); err != nil {
			logger.WarnCF(component, "transcript append failed", map[string]any{"error": err.Error()})
		}
	}
	return answer
}

func (l *Loop) reply(ctx context.Context, msg bus.InboundMessage, correlationID, text string) {
	if text == "" {
		return
	}
	l.bus.PublishOutbound(ctx, bus.OutboundMessage{
		Channel:       msg.Channel,
		ChatID:        msg.ChatID,
		Content:       text,
		CorrelationID: correlationID,
	})
}

// userMessage maps a processing error onto the single user-visible reply.
func userMessage(err error) string {
	var usage *commands.UsageError
	if errors.As(err, &usage) {
		return usage.Error()
	}
	var violation *workspace.PathViolation
	if errors.As(err, &violation) {
		return "🚫 " + violation.Reason
	}
	switch {
	case errors.Is(err, workspace.ErrNotFound):
		return "File not found."
	case errors.Is(err, workspace.ErrTextNotFound):
		return "Text not found in file. The file was not changed."
	default:
		return "⚠️ " + err.Error()
	}
}
