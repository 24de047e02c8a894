package calculator

import (
	"fmt"
	"math"

	"LeverageScope/internal/model"
)

// YLimits returns the y-axis interval for lr0 under the given mode.
func YLimits(lr0 float64, mode model.YLimitMode) (model.Limits, error) {
	switch mode {
	case model.YLimitAdaptive, "":
		return model.Limits{Min: 1, Max: 10 * (math.Exp(0.25*(lr0-1)) + 1)}, nil
	case model.YLimitLinear:
		return model.Limits{Min: 1, Max: 10 * lr0}, nil
	default:
		return model.Limits{}, fmt.Errorf("unknown y limit mode %q", mode)
	}
}

// XLimits returns the x-axis interval, which matches the sampled t domain.
func XLimits(lr0, eps float64) (model.Limits, error) {
	tMin, tMax, err := CalculateTRange(lr0, eps)
	if err != nil {
		return model.Limits{}, err
	}
	return model.Limits{Min: tMin, Max: tMax}, nil
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
