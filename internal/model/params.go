package model

// YLimitMode selects how the y-axis upper bound follows LR(0).
type YLimitMode string

const (
	// YLimitAdaptive grows the upper bound as 10*(e^{0.25*(LR0-1)}+1).
	YLimitAdaptive YLimitMode = "adaptive"
	// YLimitLinear uses 10*LR0.
	YLimitLinear YLimitMode = "linear"
)

// Params holds the plot parameters shared by every surface.
type Params struct {
	InitialLR0 float64
	MinLR0     float64
	MaxLR0     float64
	Samples    int
	Epsilon    float64 // distance kept from the singularity at t = 1/LR0
	YLimit     YLimitMode
}

// DefaultParams returns the parameters of the reference plot.
func DefaultParams() Params {
	return Params{
		InitialLR0: 2.0,
		MinLR0:     1.0,
		MaxLR0:     10.0,
		Samples:    400,
		Epsilon:    0.01,
		YLimit:     YLimitAdaptive,
	}
}
