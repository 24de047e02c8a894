package render

import "LeverageScope/internal/model"

// clip keeps the leading run of points inside lim. go-chart does not clip
// to the plot box, so a curve is cut where it first leaves the box and the
// last point is interpolated onto the boundary.
func clip(xs, ys []float64, lim model.Limits) ([]float64, []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	outX := make([]float64, 0, n)
	outY := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y := ys[i]
		if y >= lim.Min && y <= lim.Max {
			outX = append(outX, xs[i])
			outY = append(outY, y)
			continue
		}
		edge := lim.Max
		if y < lim.Min {
			edge = lim.Min
		}
		x := xs[i]
		if i > 0 && ys[i] != ys[i-1] {
			x = xs[i-1] + (edge-ys[i-1])*(xs[i]-xs[i-1])/(ys[i]-ys[i-1])
		}
		outX = append(outX, x)
		outY = append(outY, edge)
		break
	}
	return outX, outY
}
