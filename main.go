package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/lmittmann/tint"

	"github.com/arkete/shadebot/internal/bot"
	"github.com/arkete/shadebot/internal/config"
	"github.com/arkete/shadebot/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting the bot...", slog.String("disgo.version", disgo.Version))
	slog.Info("configuration loaded", "config", cfg)

	sess := session.New()
	b, err := bot.New(cfg, sess)
	if err != nil {
		slog.Error("bot setup failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := b.Start(ctx); err != nil {
		slog.Error("bot start failed", "error", err)
		os.Exit(1)
	}

	slog.Info("bot is running. CTRL+C to exit.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("shutting down...")
	cancel()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer closeCancel()
	b.Close(closeCtx)
}
