package controller

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"LeverageScope/internal/calculator"
	"LeverageScope/internal/model"
	"LeverageScope/internal/recorder"
)

// SourceInitial tags the frame drawn at startup.
const SourceInitial = "initial"

var (
	ErrNotStarted     = errors.New("controller not started")
	ErrAlreadyStarted = errors.New("controller already started")
	ErrAlreadyBound   = errors.New("control already bound")
)

// Presenter draws frames. It is called synchronously for every update.
type Presenter interface {
	Present(frame *model.Frame) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(frame *model.Frame) error

func (f PresenterFunc) Present(frame *model.Frame) error { return f(frame) }

// Control is a user-manipulated input that emits a new LR(0) on change.
type Control interface {
	Name() string
	OnChange(handler func(value float64))
}

// SessionStore persists the last parameter value between runs.
type SessionStore interface {
	Load() (*model.SessionState, error)
	Save(state *model.SessionState) error
}

// Controller owns the application state: parameters, the current frame and
// the presenters that display it. Updates are serialized.
type Controller struct {
	mu         sync.Mutex
	params     model.Params
	presenters []Presenter
	recorder   recorder.Recorder
	session    SessionStore
	state      model.ControllerState
	current    *model.Frame
	updates    int
	bound      map[string]bool
	logger     zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder records every parameter change.
func WithRecorder(rec recorder.Recorder) Option {
	return func(c *Controller) { c.recorder = rec }
}

// WithSession restores the initial LR(0) from, and saves updates to, store.
func WithSession(store SessionStore) Option {
	return func(c *Controller) { c.session = store }
}

// WithPresenters registers presenters up front.
func WithPresenters(ps ...Presenter) Option {
	return func(c *Controller) { c.presenters = append(c.presenters, ps...) }
}

// New creates a Controller. Call Start to draw the initial frame.
func New(p model.Params, opts ...Option) *Controller {
	c := &Controller{
		params:   p,
		recorder: recorder.NewNoopRecorder(),
		bound:    make(map[string]bool),
		logger:   log.With().Str("component", "controller").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddPresenter registers another presenter. If the controller has already
// started, the presenter receives the current frame right away.
func (c *Controller) AddPresenter(p Presenter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presenters = append(c.presenters, p)
	if c.current != nil {
		if err := p.Present(c.current); err != nil {
			c.logger.Error().Err(err).Msg("present current frame")
		}
	}
}

// Bind subscribes the controller to ctrl. Each control is bound once.
func (c *Controller) Bind(ctrl Control) error {
	name := ctrl.Name()
	c.mu.Lock()
	if c.bound[name] {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyBound, name)
	}
	c.bound[name] = true
	c.mu.Unlock()

	ctrl.OnChange(func(value float64) {
		if _, err := c.Update(name, value); err != nil {
			c.logger.Warn().Err(err).Str("source", name).Float64("lr0", value).Msg("update rejected")
		}
	})
	c.logger.Info().Str("control", name).Msg("control bound")
	return nil
}

// Start draws the initial frame.
func (c *Controller) Start() (*model.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		return nil, ErrAlreadyStarted
	}

	lr0 := c.params.InitialLR0
	if c.session != nil {
		st, err := c.session.Load()
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Msg("load session, using initial lr0")
		case st.LR0 >= c.params.MinLR0 && st.LR0 <= c.params.MaxLR0:
			lr0 = st.LR0
			c.updates = st.Updates
			c.logger.Info().Float64("lr0", lr0).Msg("session restored")
		}
	}

	frame, err := Evaluate(lr0, c.params, model.StateInitial, SourceInitial)
	if err != nil {
		return nil, fmt.Errorf("evaluate initial frame: %w", err)
	}
	c.current = frame
	c.state = model.StateInitial
	c.present(frame)
	c.logger.Info().Float64("lr0", lr0).Msg("initial frame drawn")
	return frame, nil
}

// Update recomputes and redraws everything for a new LR(0) coming from
// source. Values outside the configured range are clamped to it.
func (c *Controller) Update(source string, lr0 float64) (*model.Frame, error) {
	if math.IsNaN(lr0) || math.IsInf(lr0, 0) {
		return nil, calculator.ErrInvalidLR0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, ErrNotStarted
	}

	clamped := calculator.Clamp(lr0, c.params.MinLR0, c.params.MaxLR0)
	if clamped != lr0 {
		c.logger.Debug().Float64("requested", lr0).Float64("lr0", clamped).Msg("lr0 clamped to range")
	}

	frame, err := Evaluate(clamped, c.params, model.StateUpdated, source)
	if err != nil {
		return nil, fmt.Errorf("evaluate frame: %w", err)
	}
	c.current = frame
	c.state = model.StateUpdated
	c.updates++

	c.present(frame)

	if err := c.recorder.RecordChange(&recorder.ChangeEvent{
		Source:   source,
		State:    string(frame.State),
		LR0:      frame.LR0,
		TMax:     frame.TMax(),
		YMax:     frame.YLim.Max,
		CallEnd:  frame.Last(model.CurveCall),
		ShortEnd: frame.Last(model.CurveShort),
		RatioEnd: frame.Last(model.CurveRatio),
	}); err != nil {
		c.logger.Error().Err(err).Msg("record change")
	}

	if c.session != nil {
		if err := c.session.Save(&model.SessionState{LR0: frame.LR0, Updates: c.updates, UpdatedAt: time.Now()}); err != nil {
			c.logger.Error().Err(err).Msg("save session")
		}
	}
	return frame, nil
}

// Current returns the frame on display, or nil before Start.
func (c *Controller) Current() *model.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// State returns the controller state.
func (c *Controller) State() model.ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Updates returns how many updates have been applied.
func (c *Controller) Updates() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates
}

// Params returns the plot parameters.
func (c *Controller) Params() model.Params {
	return c.params
}

func (c *Controller) present(frame *model.Frame) {
	for _, p := range c.presenters {
		if err := p.Present(frame); err != nil {
			c.logger.Error().Err(err).Float64("lr0", frame.LR0).Msg("present frame")
		}
	}
}
