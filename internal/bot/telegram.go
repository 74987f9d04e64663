// internal/bot/telegram.go
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Runner polls Telegram for updates and answers each message through Service.
type Runner struct {
	api           *tgbotapi.BotAPI
	svc           *Service
	allowedChatID int64
}

// NewRunner connects to the Bot API. allowedChatID of 0 accepts every chat.
func NewRunner(token string, svc *Service, allowedChatID int64) (*Runner, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Runner{api: api, svc: svc, allowedChatID: allowedChatID}, nil
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("Бот запущен", "username", r.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			r.api.StopReceivingUpdates()
			slog.Info("Бот остановлен")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			r.handleMessage(ctx, update.Message)
		}
	}
}

func (r *Runner) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	if !r.allowed(chatID) {
		slog.Warn("Сообщение из неразрешённого чата", "chat_id", chatID)
		return
	}

	slog.Info("📥 Получено сообщение", "chat_id", chatID, "text", m.Text)
	reply := r.svc.Handle(ctx, m.Text)

	if _, err := r.api.Send(tgbotapi.NewMessage(chatID, reply)); err != nil {
		slog.Error("Не удалось отправить ответ", "chat_id", chatID, "error", err)
	}
}

func (r *Runner) allowed(chatID int64) bool {
	return r.allowedChatID == 0 || r.allowedChatID == chatID
}
