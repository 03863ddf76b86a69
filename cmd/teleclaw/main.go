// TeleClaw bridges a Telegram bot to an AI assistant with a small,
// path-guarded workspace command surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nkval/teleclaw/pkg/app"
	"github.com/nkval/teleclaw/pkg/config"
	"github.com/nkval/teleclaw/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to optional config.yaml")
	withCLI := flag.Bool("cli", false, "attach a local REPL")
	localOnly := flag.Bool("local", false, "run without Telegram (implies -cli)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, app.Options{
		EnableCLI:       *withCLI || *localOnly,
		DisableTelegram: *localOnly,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoC("main", "teleclaw starting")
	if err := application.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "run:", err)
		os.Exit(1)
	}
}
