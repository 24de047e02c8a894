package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler is called when a command arrives from the configured chat.
type CommandHandler func(command string) Reply

// StartPolling long-polls for commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			t.logger.Info().Msg("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.handleUpdate(ctx, update, handler)
		}
	}
}

func (t *TelegramNotifier) handleUpdate(ctx context.Context, update tgbotapi.Update, handler CommandHandler) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	if msg.Chat.ID != t.ChatID {
		t.logger.Warn().Int64("chat", msg.Chat.ID).Msg("ignoring message from unknown chat")
		return
	}

	text := strings.TrimSpace(msg.Text)
	t.logger.Info().Str("command", text).Msg("received command")
	reply := handler(text)
	if reply.Text == "" && len(reply.Image) == 0 {
		return
	}
	if err := t.SendReply(ctx, msg.Chat.ID, reply); err != nil {
		t.logger.Error().Err(err).Msg("send reply")
	}
}
