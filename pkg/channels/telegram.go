package channels

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mymmrac/telego"

	"github.com/nkval/teleclaw/pkg/bus"
	"github.com/nkval/teleclaw/pkg/logger"
)

// ChannelTelegram routes replies to the Telegram channel.
const ChannelTelegram = "telegram"

// telegramMaxMessage bounds outbound reply length. Telegram's hard limit is
// 4096; a little headroom avoids borderline rejections.
const telegramMaxMessage = 4000

// pollTimeout is the server-side long-poll wait, in seconds.
const pollTimeout = 30

// pollRetryDelay is the fixed sleep after a failed poll. Retries forever.
const pollRetryDelay = 5 * time.Second

// TelegramChannel long-polls getUpdates and hands each update to the bus.
//
// The offset cursor advances to max(update_id)+1 only after the entire batch
// has been handed off, so a crash mid-batch re-delivers rather than loses
// messages; the dedup window downstream absorbs the re-delivery.
type TelegramChannel struct {
	bot    *telego.Bot
	bus    *bus.MessageBus
	offset int
}

// NewTelegramChannel validates the token shape and builds the channel. The
// token itself is never logged.
func NewTelegramChannel(token string, msgBus *bus.MessageBus) (*TelegramChannel, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	bot, err := telego.NewBot(token, telego.WithDiscardLogger())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramChannel{bot: bot, bus: msgBus}, nil
}

func (t *TelegramChannel) Name() string { return ChannelTelegram }

// Start verifies the token against the API, then begins polling.
func (t *TelegramChannel) Start(ctx context.Context) error {
	me, err := t.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	logger.InfoCF(ChannelTelegram, "connected", map[string]any{"bot_username": me.Username})

	go t.pollLoop(ctx)
	return nil
}

func (t *TelegramChannel) pollLoop(ctx context.Context) {
	for ctx.Err() == nil {
		updates, err := t.bot.GetUpdates(ctx, &telego.GetUpdatesParams{
			Offset:         t.offset,
			Timeout:        pollTimeout,
			AllowedUpdates: []string{"message"},
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WarnCF(ChannelTelegram, "poll failed, retrying", map[string]any{
				"error": err.Error(),
				"delay": pollRetryDelay.String(),
			})
			select {
			case <-time.After(pollRetryDelay):
			case <-ctx.Done():
				return
			}
			continue
		}

		// Updates arrive in ascending update_id order; process strictly
		// in that order before committing the cursor.
		maxID := t.offset - 1
		for _, update := range updates {
			if update.UpdateID > maxID {
				maxID = update.UpdateID
			}
			msg, ok := inboundFromUpdate(update)
			if !ok {
				continue
			}
			if !t.bus.PublishInbound(ctx, msg) {
				return
			}
		}
		if len(updates) > 0 {
			t.offset = maxID + 1
		}
	}
}

// inboundFromUpdate converts one Telegram update. Non-message updates and
// messages without text are skipped (their ids still advance the cursor).
func inboundFromUpdate(update telego.Update) (bus.InboundMessage, bool) {
	m := update.Message
	if m == nil || m.Text == "" {
		return bus.InboundMessage{}, false
	}
	msg := bus.InboundMessage{
		Channel:  ChannelTelegram,
		UpdateID: int64(update.UpdateID),
		ChatID:   m.Chat.ID,
		Content:  m.Text,
	}
	if m.From != nil {
		msg.SenderID = m.From.ID
		msg.SenderUsername = m.From.Username
		msg.SenderIsBot = m.From.IsBot
	}
	return msg, true
}

// Send delivers one reply in Markdown, truncated to the outbound cap.
func (t *TelegramChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: msg.ChatID},
		Text:      truncateReply(msg.Content),
		ParseMode: telego.ModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// truncateReply cuts at the outbound cap, backing up to a rune boundary so
// the result stays valid UTF-8 (Markdown-mode sendMessage rejects mangled
// trailing bytes).
func truncateReply(text string) string {
	if len(text) <= telegramMaxMessage {
		return text
	}
	cut := telegramMaxMessage
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
