package model

import "time"

// ControllerState is the state the controller was in when a frame was built.
type ControllerState string

const (
	StateInitial ControllerState = "INITIAL"
	StateUpdated ControllerState = "UPDATED"
)

// CurveKind identifies one of the three plotted curves.
type CurveKind string

const (
	CurveCall  CurveKind = "call"
	CurveShort CurveKind = "short"
	CurveRatio CurveKind = "ratio"
)

// Limits is a closed axis interval.
type Limits struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Frame is everything a presenter needs to draw one parameter value.
// Frames are rebuilt on every change and never mutated afterwards.
type Frame struct {
	LR0        float64         `json:"lr0"`
	State      ControllerState `json:"state"`
	Source     string          `json:"source"`
	T          []float64       `json:"t"`
	Call       []float64       `json:"call"`
	Short      []float64       `json:"short"`
	Ratio      []float64       `json:"ratio"`
	XLim       Limits          `json:"xlim"`
	YLim       Limits          `json:"ylim"`
	Title      string          `json:"title"`
	ComputedAt time.Time       `json:"computed_at"`
}

// Values returns the sampled values of the given curve.
func (f *Frame) Values(kind CurveKind) []float64 {
	switch kind {
	case CurveCall:
		return f.Call
	case CurveShort:
		return f.Short
	case CurveRatio:
		return f.Ratio
	}
	return nil
}

// TMax is the last sampled t.
func (f *Frame) TMax() float64 {
	if len(f.T) == 0 {
		return 0
	}
	return f.T[len(f.T)-1]
}

// Last returns the value of the curve at the right edge of the domain.
func (f *Frame) Last(kind CurveKind) float64 {
	v := f.Values(kind)
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}
