package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// botAPI is the part of *tgbotapi.BotAPI the notifier uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Reply is the answer to a chat command: HTML text and an optional PNG chart.
type Reply struct {
	Text  string
	Image []byte
}

// TelegramNotifier sends messages via the Telegram Bot API and accepts
// commands from the configured chat.
type TelegramNotifier struct {
	ChatID     int64
	MaxRetries int
	bot        botAPI
	retryBase  time.Duration
	logger     zerolog.Logger
}

// NewTelegramNotifier connects to the Bot API with the given token.
func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	n := newNotifier(bot, chatID)
	n.logger.Info().Str("bot", bot.Self.UserName).Msg("telegram bot authorized")
	return n, nil
}

func newNotifier(bot botAPI, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		ChatID:     chatID,
		MaxRetries: 3,
		bot:        bot,
		retryBase:  500 * time.Millisecond,
		logger:     log.With().Str("component", "telegram").Logger(),
	}
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.SendReply(ctx, t.ChatID, Reply{Text: text})
}

// SendReply sends reply to chatID. With an image, the text becomes its caption.
func (t *TelegramNotifier) SendReply(ctx context.Context, chatID int64, reply Reply) error {
	var c tgbotapi.Chattable
	if len(reply.Image) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "leverage.png", Bytes: reply.Image})
		photo.Caption = reply.Text
		photo.ParseMode = tgbotapi.ModeHTML
		c = photo
	} else {
		msg := tgbotapi.NewMessage(chatID, reply.Text)
		msg.ParseMode = tgbotapi.ModeHTML
		c = msg
	}
	return t.sendWithRetry(ctx, c)
}

// sendWithRetry sends c with exponential backoff, up to MaxRetries retries.
func (t *TelegramNotifier) sendWithRetry(ctx context.Context, c tgbotapi.Chattable) error {
	attempt := 0
	operation := func() error {
		attempt++
		if _, err := t.bot.Send(c); err != nil {
			t.logger.Warn().Err(err).Int("attempt", attempt).Msg("telegram send failed")
			return err
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.retryBase
	b.MaxElapsedTime = 30 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(t.MaxRetries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("send after %d attempts: %w", attempt, err)
	}
	return nil
}
