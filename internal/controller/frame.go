package controller

import (
	"fmt"
	"time"

	"LeverageScope/internal/calculator"
	"LeverageScope/internal/model"
)

// TitleFormat is the chart title; the argument is LR(0).
const TitleFormat = "Leverage Ratios vs. Stock Price Change (LR(0) = %.2f)"

// Evaluate builds the frame for lr0: domain, samples, the three curves and
// the axis limits.
func Evaluate(lr0 float64, p model.Params, state model.ControllerState, source string) (*model.Frame, error) {
	ts, err := calculator.SampleT(lr0, p.Epsilon, p.Samples)
	if err != nil {
		return nil, fmt.Errorf("sample t: %w", err)
	}
	xlim, err := calculator.XLimits(lr0, p.Epsilon)
	if err != nil {
		return nil, fmt.Errorf("x limits: %w", err)
	}
	ylim, err := calculator.YLimits(lr0, p.YLimit)
	if err != nil {
		return nil, fmt.Errorf("y limits: %w", err)
	}

	return &model.Frame{
		LR0:        lr0,
		State:      state,
		Source:     source,
		T:          ts,
		Call:       calculator.LRCallSeries(ts, lr0),
		Short:      calculator.LRShortSeries(ts, lr0),
		Ratio:      calculator.LRRatioSeries(ts, lr0),
		XLim:       xlim,
		YLim:       ylim,
		Title:      fmt.Sprintf(TitleFormat, lr0),
		ComputedAt: time.Now(),
	}, nil
}
