package calculator

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidLR0 is returned for LR(0) values the formulas cannot take.
	ErrInvalidLR0 = errors.New("lr0 must be a positive finite number")
	// ErrDomain is returned when the valid t interval is empty.
	ErrDomain = errors.New("empty t domain")
)

// CalculateTRange returns the valid t interval [0, 1/lr0 - eps] for the given LR(0).
func CalculateTRange(lr0, eps float64) (tMin, tMax float64, err error) {
	if math.IsNaN(lr0) || math.IsInf(lr0, 0) || lr0 <= 0 {
		return 0, 0, ErrInvalidLR0
	}
	tMax = 1/lr0 - eps
	if tMax <= 0 {
		return 0, 0, fmt.Errorf("%w: lr0=%g eps=%g", ErrDomain, lr0, eps)
	}
	return 0, tMax, nil
}

// Linspace returns n evenly spaced values over [lo, hi], both ends included.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, errors.New("linspace needs at least 2 points")
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n-1; i++ {
		out[i] = lo + float64(i)*step
	}
	// Pin the end so the last sample is exactly hi.
	out[n-1] = hi
	return out, nil
}

// SampleT returns n evenly spaced t values spanning the valid domain of lr0.
func SampleT(lr0, eps float64, n int) ([]float64, error) {
	tMin, tMax, err := CalculateTRange(lr0, eps)
	if err != nil {
		return nil, err
	}
	return Linspace(tMin, tMax, n)
}
