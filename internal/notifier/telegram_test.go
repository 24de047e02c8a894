package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LeverageScope/internal/controller"
	"LeverageScope/internal/model"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	failures int
	updates  chan tgbotapi.Update
	stopped  bool
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return tgbotapi.Message{}, errors.New("flaky network")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeBot) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeBot) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestNotifier(bot *fakeBot) *TelegramNotifier {
	n := newNotifier(bot, 42)
	n.retryBase = time.Millisecond
	return n
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: text}}
}

func TestSendReply_TextAndPhoto(t *testing.T) {
	bot := &fakeBot{}
	n := newTestNotifier(bot)

	require.NoError(t, n.Send(context.Background(), "hello"))
	require.NoError(t, n.SendReply(context.Background(), 42, Reply{Text: "chart", Image: []byte("\x89PNG")}))
	require.Len(t, bot.sent, 2)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)

	photo, ok := bot.sent[1].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, "chart", photo.Caption)
}

func TestSend_RetriesThenSucceeds(t *testing.T) {
	bot := &fakeBot{failures: 2}
	n := newTestNotifier(bot)
	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, 1, bot.sentCount())
}

func TestSend_GivesUp(t *testing.T) {
	bot := &fakeBot{failures: 10}
	n := newTestNotifier(bot)
	n.MaxRetries = 1
	err := n.Send(context.Background(), "hello")
	assert.Error(t, err)
	assert.Equal(t, 0, bot.sentCount())
}

func TestStartPolling_DispatchesOwnChatOnly(t *testing.T) {
	bot := &fakeBot{updates: make(chan tgbotapi.Update, 4)}
	n := newTestNotifier(bot)

	var mu sync.Mutex
	var commands []string
	handler := func(cmd string) Reply {
		mu.Lock()
		defer mu.Unlock()
		commands = append(commands, cmd)
		return Reply{Text: "ok"}
	}

	bot.updates <- textUpdate(42, "  /lr 3.5 ")
	bot.updates <- textUpdate(7, "/lr 9")
	bot.updates <- tgbotapi.Update{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, handler)
		close(done)
	}()

	require.Eventually(t, func() bool { return bot.sentCount() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/lr 3.5"}, commands)
	assert.True(t, bot.stopped)
}

func TestFormatFrameSummary(t *testing.T) {
	f, err := controller.Evaluate(2, model.DefaultParams(), model.StateUpdated, "telegram")
	require.NoError(t, err)

	s := FormatFrameSummary(f)
	assert.Contains(t, s, "LR(0) = 2.00")
	assert.Contains(t, s, "t: [0.0000, 0.4900] (400 samples)")
	assert.Contains(t, s, "LR_call: 51.00")
	assert.Contains(t, s, "source: telegram (UPDATED)")

	assert.Contains(t, FormatSnapshot(f, 3), "updates so far: 3")
	assert.Contains(t, FormatHelp(1, 10), "[1.00, 10.00]")
}
