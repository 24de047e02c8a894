package calculator

// LRCall returns the leverage ratio of a call-like (long) position after the
// underlying moved by the fraction t, given its leverage ratio lr0 at t = 0.
// The caller keeps t below 1/lr0.
func LRCall(t, lr0 float64) float64 {
	return lr0 * (1 - t) / (1 - t*lr0)
}

// LRShort returns the leverage ratio of the short position.
func LRShort(t, lr0 float64) float64 {
	return lr0 * (1 + t) / (1 - t*lr0)
}

// LRRatio returns LRShort/LRCall, which reduces to (1+t)/(1-t).
func LRRatio(t, lr0 float64) float64 {
	return LRShort(t, lr0) / LRCall(t, lr0)
}

// LRCallSeries applies LRCall to every t.
func LRCallSeries(ts []float64, lr0 float64) []float64 {
	return apply(ts, lr0, LRCall)
}

// LRShortSeries applies LRShort to every t.
func LRShortSeries(ts []float64, lr0 float64) []float64 {
	return apply(ts, lr0, LRShort)
}

// LRRatioSeries applies LRRatio to every t.
func LRRatioSeries(ts []float64, lr0 float64) []float64 {
	return apply(ts, lr0, LRRatio)
}

func apply(ts []float64, lr0 float64, fn func(t, lr0 float64) float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = fn(t, lr0)
	}
	return out
}
