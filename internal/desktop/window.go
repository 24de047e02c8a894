// Package desktop is the fyne window: the chart image above an LR(0) slider.
package desktop

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"LeverageScope/internal/controller"
	"LeverageScope/internal/model"
	"LeverageScope/internal/render"
)

// Slider is the LR(0) control.
type Slider struct {
	widget   *widget.Slider
	label    *widget.Label
	handlers []func(float64)
}

// NewSlider creates a slider over [MinLR0, MaxLR0] starting at InitialLR0.
func NewSlider(p model.Params) *Slider {
	s := &Slider{
		widget: widget.NewSlider(p.MinLR0, p.MaxLR0),
		label:  widget.NewLabel(formatValue(p.InitialLR0)),
	}
	s.widget.Step = 0.01
	s.widget.Value = p.InitialLR0
	s.widget.OnChanged = func(v float64) {
		s.label.SetText(formatValue(v))
		for _, h := range s.handlers {
			h(v)
		}
	}
	return s
}

func (s *Slider) Name() string { return "slider" }

func (s *Slider) OnChange(handler func(value float64)) {
	s.handlers = append(s.handlers, handler)
}

// sync moves the knob without emitting a change.
func (s *Slider) sync(v float64) {
	s.widget.Value = v
	s.widget.Refresh()
	s.label.SetText(formatValue(v))
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// ChartView presents frames as an image.
type ChartView struct {
	img           *canvas.Image
	width, height int
}

func NewChartView(width, height int) *ChartView {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, width, height)))
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(float32(width)*0.75, float32(height)*0.75))
	return &ChartView{img: img, width: width, height: height}
}

func (v *ChartView) Present(frame *model.Frame) error {
	im, err := render.Image(frame, v.width, v.height)
	if err != nil {
		return err
	}
	v.img.Image = im
	v.img.Refresh()
	return nil
}

// Window ties the view and slider to a controller.
type Window struct {
	win    fyne.Window
	view   *ChartView
	slider *Slider
}

// NewWindow builds the window, draws the initial frame and binds the slider.
func NewWindow(a fyne.App, ctrl *controller.Controller, width, height int) (*Window, error) {
	w := &Window{
		win:    a.NewWindow("LeverageScope"),
		view:   NewChartView(width, height),
		slider: NewSlider(ctrl.Params()),
	}

	ctrl.AddPresenter(w.view)
	frame, err := ctrl.Start()
	if err != nil {
		return nil, fmt.Errorf("start controller: %w", err)
	}
	w.slider.sync(frame.LR0)
	if err := ctrl.Bind(w.slider); err != nil {
		return nil, err
	}

	controls := container.NewBorder(nil, nil, widget.NewLabel("LR(0)"), w.slider.label, w.slider.widget)
	w.win.SetContent(container.NewBorder(nil, controls, nil, nil, w.view.img))
	w.win.Resize(fyne.NewSize(float32(width), float32(height)+60))
	w.win.SetOnClosed(func() {
		log.Info().Str("component", "desktop").Msg("window closed")
	})
	return w, nil
}

// ShowAndRun shows the window and blocks until it is closed.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}
