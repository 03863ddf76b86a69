// Package app is the composition root: it wires configuration, the message
// bus, channels, the dispatch core and the supporting services into one
// runnable application.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/nkval/teleclaw/pkg/agent"
	"github.com/nkval/teleclaw/pkg/api"
	"github.com/nkval/teleclaw/pkg/auth"
	"github.com/nkval/teleclaw/pkg/bus"
	"github.com/nkval/teleclaw/pkg/channels"
	"github.com/nkval/teleclaw/pkg/config"
	"github.com/nkval/teleclaw/pkg/heartbeat"
	"github.com/nkval/teleclaw/pkg/history"
	"github.com/nkval/teleclaw/pkg/logger"
	"github.com/nkval/teleclaw/pkg/providers"
	"github.com/nkval/teleclaw/pkg/workspace"
)

// Options tweak which surfaces are brought up.
type Options struct {
	// EnableCLI attaches a local REPL in addition to Telegram.
	EnableCLI bool
	// DisableTelegram runs without the Telegram channel (local development
	// with the CLI only).
	DisableTelegram bool
}

// App owns every long-lived component.
type App struct {
	cfg     *config.Config
	bus     *bus.MessageBus
	loop    *agent.Loop
	manager *channels.Manager
	server  *api.Server
	beat    *heartbeat.Heartbeat
	store   *history.Store
}

// New wires the application. The only fatal misconfiguration besides an
// unloadable config is a missing bot token while Telegram is enabled.
func New(cfg *config.Config, opts Options) (*App, error) {
	if !opts.DisableTelegram && cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	root, err := cfg.WorkspacePath()
	if err != nil {
		return nil, err
	}
	guard, err := workspace.NewGuard(root)
	if err != nil {
		return nil, err
	}
	logger.InfoCF("app", "workspace ready", map[string]any{"root": root})

	msgBus := bus.NewMessageBus()
	authorizer := auth.New(cfg.AuthorizedUser)
	if authorizer.AllowedUser() == "" {
		logger.WarnC("app", "AUTHORIZED_USER is empty, all workspace commands will be denied")
	}

	// The reply provider is optional: without an API key the bot still
	// serves workspace commands.
	var provider providers.Provider
	var store *history.Store
	if cfg.Provider.APIKey != "" {
		provider, err = providers.New(cfg.Provider)
		if err != nil {
			return nil, err
		}
		store, err = history.Open(cfg.HistoryDBPath(root))
		if err != nil {
			return nil, err
		}
		logger.InfoCF("app", "reply provider ready", map[string]any{"provider": provider.Name()})
	} else {
		logger.InfoC("app", "no provider API key, running command-only")
	}

	var loopHistory agent.History
	if store != nil {
		loopHistory = store
	}
	loop := agent.New(msgBus, authorizer, workspace.NewOps(guard), provider, loopHistory, cfg.Provider.MaxTurns)

	manager := channels.NewManager(msgBus)
	if !opts.DisableTelegram {
		tg, err := channels.NewTelegramChannel(cfg.TelegramBotToken, msgBus)
		if err != nil {
			return nil, err
		}
		manager.Register(tg)
	}
	if opts.EnableCLI {
		cli, err := channels.NewCLIChannel(msgBus, cfg.AuthorizedUser)
		if err != nil {
			return nil, err
		}
		manager.Register(cli)
	}

	app := &App{
		cfg:     cfg,
		bus:     msgBus,
		loop:    loop,
		manager: manager,
		server:  api.NewServer(cfg.GatewayAddr(), cfg.Gateway.APIKey, cfg.AuthorizedUser, loop, manager.Count()),
		store:   store,
	}

	if cfg.Heartbeat.Enabled {
		app.beat, err = heartbeat.New(
			msgBus,
			cfg.Heartbeat.Cron,
			channels.ChannelTelegram,
			cfg.Heartbeat.ChatID,
			cfg.AuthorizedUser,
			cfg.Heartbeat.Prompt,
		)
		if err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Run starts everything and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.manager.Start(ctx); err != nil {
		return err
	}
	a.server.Start()
	if a.beat != nil {
		go a.beat.Run(ctx)
	}

	a.loop.Run(ctx)

	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.WarnCF("app", "status server shutdown", map[string]any{"error": err.Error()})
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.WarnCF("app", "history close", map[string]any{"error": err.Error()})
		}
	}
	a.bus.Close()
	logger.InfoC("app", "shutdown complete")
}
