package channels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/nkval/teleclaw/pkg/bus"
	"github.com/nkval/teleclaw/pkg/logger"
)

// ChannelCLI routes replies to the local terminal.
const ChannelCLI = "cli"

// cliChatID is the synthetic chat id for the local terminal session.
const cliChatID = -1

// CLIChannel is a local REPL over the same dispatch core as Telegram. Lines
// are attributed to the configured user so the authorization gate behaves
// the same as in chat.
type CLIChannel struct {
	bus      *bus.MessageBus
	username string
	rl       *readline.Instance
}

func NewCLIChannel(msgBus *bus.MessageBus, username string) (*CLIChannel, error) {
	rl, err := readline.New("teleclaw> ")
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &CLIChannel{bus: msgBus, username: username, rl: rl}, nil
}

func (c *CLIChannel) Name() string { return ChannelCLI }

func (c *CLIChannel) Start(ctx context.Context) error {
	go c.readLoop(ctx)
	return nil
}

func (c *CLIChannel) readLoop(ctx context.Context) {
	defer c.rl.Close()
	for ctx.Err() == nil {
		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				logger.InfoC(ChannelCLI, "terminal closed")
				return
			}
			logger.WarnCF(ChannelCLI, "read failed", map[string]any{"error": err.Error()})
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ok := c.bus.PublishInbound(ctx, bus.InboundMessage{
			Channel:        ChannelCLI,
			ChatID:         cliChatID,
			SenderUsername: c.username,
			Content:        line,
		})
		if !ok {
			return
		}
	}
}

func (c *CLIChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	fmt.Println(msg.Content)
	return nil
}
