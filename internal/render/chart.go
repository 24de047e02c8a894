// Package render draws frames with go-chart.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"LeverageScope/internal/model"
)

const (
	XAxisName = "t (Change in Stock Price / Original Stock Price)"
	YAxisName = "Leverage Ratio (LR(t))"

	DefaultWidth  = 1200
	DefaultHeight = 800
)

// CurveStyle is how one curve is drawn.
type CurveStyle struct {
	Kind   model.CurveKind
	Label  string
	Color  drawing.Color
	Dashed bool
}

// Curves lists the plotted curves in legend order.
var Curves = []CurveStyle{
	{Kind: model.CurveCall, Label: "LR_call(t)", Color: chart.ColorBlue},
	{Kind: model.CurveShort, Label: "LR_short(t)", Color: chart.ColorRed},
	{Kind: model.CurveRatio, Label: "LR_short(t) / LR_call(t)", Color: chart.ColorGreen, Dashed: true},
}

var (
	referenceStyle = chart.Style{
		StrokeColor:     chart.ColorBlack,
		StrokeWidth:     0.5,
		StrokeDashArray: []float64{4, 4},
	}
	gridStyle = chart.Style{
		StrokeColor: chart.ColorLightGray,
		StrokeWidth: 1.0,
	}
)

// Chart builds the go-chart definition of frame.
func Chart(frame *model.Frame, width, height int) chart.Chart {
	series := make([]chart.Series, 0, len(Curves)+2)
	for _, cs := range Curves {
		xs, ys := clip(frame.T, frame.Values(cs.Kind), frame.YLim)
		style := chart.Style{StrokeColor: cs.Color, StrokeWidth: 2}
		if cs.Dashed {
			style.StrokeDashArray = []float64{6, 4}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    cs.Label,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	// The legend lists the curves only.
	legend := chart.Chart{Series: append([]chart.Series(nil), series...)}

	// Reference lines at y=0 and t=0, drawn only when they fall inside the box.
	if frame.YLim.Min <= 0 && frame.YLim.Max >= 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "y = 0",
			XValues: []float64{frame.XLim.Min, frame.XLim.Max},
			YValues: []float64{0, 0},
			Style:   referenceStyle,
		})
	}
	if frame.XLim.Min <= 0 && frame.XLim.Max >= 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "t = 0",
			XValues: []float64{0, 0},
			YValues: []float64{frame.YLim.Min, frame.YLim.Max},
			Style:   referenceStyle,
		})
	}

	c := chart.Chart{
		Title:      frame.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 30, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           XAxisName,
			Range:          &chart.ContinuousRange{Min: frame.XLim.Min, Max: frame.XLim.Max},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           YAxisName,
			Range:          &chart.ContinuousRange{Min: frame.YLim.Min, Max: frame.YLim.Max},
			GridMajorStyle: gridStyle,
		},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&legend)}
	return c
}

// PNG writes frame as a PNG image.
func PNG(w io.Writer, frame *model.Frame, width, height int) error {
	c := Chart(frame, width, height)
	if err := c.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

// SVG writes frame as an SVG document.
func SVG(w io.Writer, frame *model.Frame, width, height int) error {
	c := Chart(frame, width, height)
	if err := c.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}

// Image renders frame and decodes it for toolkits that display images.
func Image(frame *model.Frame, width, height int) (image.Image, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, frame, width, height); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}
