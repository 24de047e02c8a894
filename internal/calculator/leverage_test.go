package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LeverageScope/internal/model"
)

func TestLeverage_AtZeroEqualsLR0(t *testing.T) {
	for _, lr0 := range []float64{1, 1.5, 2, 3.3, 7, 10} {
		assert.InDelta(t, lr0, LRCall(0, lr0), 1e-12, "call at t=0, lr0=%v", lr0)
		assert.InDelta(t, lr0, LRShort(0, lr0), 1e-12, "short at t=0, lr0=%v", lr0)
		assert.InDelta(t, 1.0, LRRatio(0, lr0), 1e-12, "ratio at t=0, lr0=%v", lr0)
	}
}

func TestLeverage_RatioIndependentOfLR0(t *testing.T) {
	for _, lr0 := range []float64{1.01, 2, 4.5, 10} {
		ts, err := SampleT(lr0, 0.01, 400)
		require.NoError(t, err)
		for _, tv := range ts {
			want := (1 + tv) / (1 - tv)
			got := LRRatio(tv, lr0)
			assert.InEpsilon(t, want, got, 1e-9, "lr0=%v t=%v", lr0, tv)
			assert.InEpsilon(t, LRShort(tv, lr0)/LRCall(tv, lr0), got, 1e-12)
		}
	}
}

func TestLeverage_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t, lr0 float64) float64
		t    float64
		lr0  float64
		want float64
	}{
		{"call at right edge for lr0=2", LRCall, 0.49, 2.0, 51.0},
		{"short at right edge for lr0=5", LRShort, 0.19, 5.0, 119.0},
		{"call is flat at lr0=1", LRCall, 0.5, 1.0, 1.0},
		{"short at right edge for lr0=1", LRShort, 0.99, 1.0, 199.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.fn(tt.t, tt.lr0), 1e-6)
		})
	}
}

func TestLeverage_SeriesMatchScalar(t *testing.T) {
	ts := []float64{0, 0.1, 0.2, 0.3}
	call := LRCallSeries(ts, 3)
	short := LRShortSeries(ts, 3)
	ratio := LRRatioSeries(ts, 3)
	require.Len(t, call, len(ts))
	require.Len(t, short, len(ts))
	require.Len(t, ratio, len(ts))
	for i, tv := range ts {
		assert.Equal(t, LRCall(tv, 3), call[i])
		assert.Equal(t, LRShort(tv, 3), short[i])
		assert.Equal(t, LRRatio(tv, 3), ratio[i])
	}
	assert.Empty(t, LRCallSeries(nil, 3))
}

func TestSampleT_Shape(t *testing.T) {
	for _, lr0 := range []float64{1, 1.2, 2, 5, 9.99, 10} {
		ts, err := SampleT(lr0, 0.01, 400)
		require.NoError(t, err)
		require.Len(t, ts, 400)
		assert.Equal(t, 0.0, ts[0])
		assert.Equal(t, 1/lr0-0.01, ts[len(ts)-1])
		for i := 1; i < len(ts); i++ {
			assert.Greater(t, ts[i], ts[i-1], "not increasing at %d for lr0=%v", i, lr0)
		}
	}
}

func TestSampleT_LR0AtLowerBoundStaysFinite(t *testing.T) {
	ts, err := SampleT(1.0, 0.01, 400)
	require.NoError(t, err)
	assert.InDelta(t, 0.99, ts[len(ts)-1], 1e-12)
	for _, v := range LRShortSeries(ts, 1.0) {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
	}
}

func TestCalculateTRange_Errors(t *testing.T) {
	for _, lr0 := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, _, err := CalculateTRange(lr0, 0.01)
		assert.ErrorIs(t, err, ErrInvalidLR0, "lr0=%v", lr0)
	}
	_, _, err := CalculateTRange(100, 0.01)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestLinspace(t *testing.T) {
	ts, err := Linspace(0, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, ts)

	_, err = Linspace(0, 1, 1)
	assert.Error(t, err)
}

func TestYLimits(t *testing.T) {
	adaptive, err := YLimits(1, model.YLimitAdaptive)
	require.NoError(t, err)
	assert.Equal(t, model.Limits{Min: 1, Max: 20}, adaptive)

	adaptive, err = YLimits(5, model.YLimitAdaptive)
	require.NoError(t, err)
	assert.InDelta(t, 10*(math.E+1), adaptive.Max, 1e-9)

	linear, err := YLimits(2, model.YLimitLinear)
	require.NoError(t, err)
	assert.Equal(t, model.Limits{Min: 1, Max: 20}, linear)

	_, err = YLimits(2, "log")
	assert.Error(t, err)
}

func TestXLimits(t *testing.T) {
	lim, err := XLimits(4, 0.01)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lim.Min)
	assert.InDelta(t, 0.24, lim.Max, 1e-12)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(0.2, 1, 10))
	assert.Equal(t, 10.0, Clamp(12, 1, 10))
	assert.Equal(t, 3.5, Clamp(3.5, 1, 10))
}
