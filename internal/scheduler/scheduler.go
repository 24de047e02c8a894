package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"LeverageScope/internal/controller"
	"LeverageScope/internal/model"
	"LeverageScope/internal/notifier"
	"LeverageScope/internal/recorder"
	"LeverageScope/internal/render"
)

// Scheduler runs the cron snapshot job and answers chat commands.
type Scheduler struct {
	Cron       *cron.Cron
	Controller *controller.Controller
	Notifier   *notifier.TelegramNotifier // nil when Telegram is not configured
	Recorder   recorder.Recorder
	Ctx        context.Context

	width, height int
	chat          *chatControl
	logger        zerolog.Logger
}

// NewScheduler creates a new Scheduler. Charts sent to the chat are width x height.
func NewScheduler(ctx context.Context, ctrl *controller.Controller, tn *notifier.TelegramNotifier, rec recorder.Recorder, width, height int) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Controller: ctrl,
		Notifier:   tn,
		Recorder:   rec,
		Ctx:        ctx,
		width:      width,
		height:     height,
		chat:       &chatControl{},
		logger:     log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the snapshot task.
func (s *Scheduler) RegisterAll(snapshotCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunSnapshotNow executes the snapshot task immediately.
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

// ChatControl is the control fed by /lr commands. Bind it to the controller.
func (s *Scheduler) ChatControl() controller.Control {
	return s.chat
}

func (s *Scheduler) snapshotTask() {
	f := s.Controller.Current()
	if f == nil {
		s.logger.Warn().Msg("snapshot skipped, nothing drawn yet")
		return
	}
	updates := s.Controller.Updates()
	s.logger.Info().Float64("lr0", f.LR0).Int("updates", updates).Msg("running snapshot task")

	if err := s.Recorder.RecordSnapshot(&recorder.Snapshot{
		LR0:      f.LR0,
		Updates:  updates,
		TMax:     f.TMax(),
		CallEnd:  f.Last(model.CurveCall),
		ShortEnd: f.Last(model.CurveShort),
		RatioEnd: f.Last(model.CurveRatio),
		Note:     "scheduled",
	}); err != nil {
		s.logger.Error().Err(err).Msg("record snapshot")
	}

	if s.Notifier != nil {
		if err := s.Notifier.Send(s.Ctx, notifier.FormatSnapshot(f, updates)); err != nil {
			s.logger.Error().Err(err).Msg("send snapshot")
		}
	}
}

// HandleCommand processes a chat command and returns the reply.
func (s *Scheduler) HandleCommand(command string) notifier.Reply {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return s.help()
	}
	name := strings.ToLower(fields[0])
	// Group chats address commands as /cmd@botname.
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}

	switch name {
	case "/lr", "/lr0":
		if len(fields) < 2 {
			return notifier.Reply{Text: "usage: /lr &lt;value&gt;"}
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return notifier.Reply{Text: fmt.Sprintf("⚠️ %q is not a number", fields[1])}
		}
		if s.chat.emit(v) == 0 {
			return notifier.Reply{Text: "⚠️ controller not bound"}
		}
		return s.chartReply()
	case "/status":
		f := s.Controller.Current()
		if f == nil {
			return notifier.Reply{Text: "nothing drawn yet"}
		}
		return notifier.Reply{Text: notifier.FormatFrameSummary(f)}
	case "/chart":
		return s.chartReply()
	default:
		return s.help()
	}
}

func (s *Scheduler) help() notifier.Reply {
	p := s.Controller.Params()
	return notifier.Reply{Text: notifier.FormatHelp(p.MinLR0, p.MaxLR0)}
}

func (s *Scheduler) chartReply() notifier.Reply {
	f := s.Controller.Current()
	if f == nil {
		return notifier.Reply{Text: "nothing drawn yet"}
	}
	text := notifier.FormatFrameSummary(f)
	var buf bytes.Buffer
	if err := render.PNG(&buf, f, s.width, s.height); err != nil {
		s.logger.Error().Err(err).Msg("render chart for chat")
		return notifier.Reply{Text: text}
	}
	return notifier.Reply{Text: text, Image: buf.Bytes()}
}

// chatControl turns /lr commands into change events.
type chatControl struct {
	mu       sync.RWMutex
	handlers []func(float64)
}

func (c *chatControl) Name() string { return "telegram" }

func (c *chatControl) OnChange(handler func(value float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

func (c *chatControl) emit(v float64) int {
	c.mu.RLock()
	hs := make([]func(float64), len(c.handlers))
	copy(hs, c.handlers)
	c.mu.RUnlock()

	for _, h := range hs {
		h(v)
	}
	return len(hs)
}
