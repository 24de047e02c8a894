package web

import (
	"bytes"
	"io"
	"sync"

	"LeverageScope/internal/model"
	"LeverageScope/internal/render"
)

// Control is the browser slider. Posted values are dispatched to every
// subscribed handler.
type Control struct {
	mu       sync.RWMutex
	handlers []func(float64)
}

func NewControl() *Control { return &Control{} }

func (c *Control) Name() string { return "web" }

func (c *Control) OnChange(handler func(value float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// emit runs the handlers and returns how many ran.
func (c *Control) emit(v float64) int {
	c.mu.RLock()
	hs := make([]func(float64), len(c.handlers))
	copy(hs, c.handlers)
	c.mu.RUnlock()

	for _, h := range hs {
		h(v)
	}
	return len(hs)
}

// Presenter holds the frame on display and renders it on demand. Rendered
// charts are cached until the next frame arrives.
type Presenter struct {
	mu     sync.Mutex
	width  int
	height int
	frame  *model.Frame
	svg    []byte
	png    []byte
}

func NewPresenter(width, height int) *Presenter {
	return &Presenter{width: width, height: height}
}

func (p *Presenter) Present(frame *model.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame = frame
	p.svg = nil
	p.png = nil
	return nil
}

// Frame returns the frame on display, or nil before the first Present.
func (p *Presenter) Frame() *model.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// SVG returns the current chart as SVG.
func (p *Presenter) SVG() ([]byte, error) {
	return p.cached(&p.svg, render.SVG)
}

// PNG returns the current chart as PNG.
func (p *Presenter) PNG() ([]byte, error) {
	return p.cached(&p.png, render.PNG)
}

func (p *Presenter) cached(slot *[]byte, draw func(w io.Writer, f *model.Frame, width, height int) error) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frame == nil {
		return nil, errNoFrame
	}
	if *slot != nil {
		return *slot, nil
	}
	var buf bytes.Buffer
	if err := draw(&buf, p.frame, p.width, p.height); err != nil {
		return nil, err
	}
	*slot = buf.Bytes()
	return *slot, nil
}
