// cmd/bot/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"finance-tracker/internal/backend"
	"finance-tracker/internal/bot"
	"finance-tracker/internal/config"
)

func main() {
	cfg := config.MustLoad()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("Не удалось открыть хранилище", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	runner, err := bot.NewRunner(cfg.TelegramToken, bot.NewService(store), cfg.BotAllowedChatID)
	if err != nil {
		slog.Error("Не удалось инициализировать Telegram бота", "error", err)
		os.Exit(1)
	}

	if err := runner.Run(ctx); err != nil {
		slog.Error("Бот завершил работу с ошибкой", "error", err)
		os.Exit(1)
	}
}
