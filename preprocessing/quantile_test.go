package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"first quartile of four", []float64{4, 1, 3, 2}, 0.25, 1.75},
		{"median of even count", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"median of odd count", []float64{9, 1, 5}, 0.5, 5},
		{"minimum", []float64{3, -2, 7}, 0, -2},
		{"maximum", []float64{3, -2, 7}, 1, 7},
		{"single value", []float64{42}, 0.3, 42},
		{"ties", []float64{1, 1, 1, 5}, 0.5, 1},
		{"nan ignored", []float64{math.NaN(), 10, math.NaN(), 20}, 0.5, 15},
		{"ninety-fifth of twenty one", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, 0.95, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Quantile(tt.values, tt.p)
			assert.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestQuantileOnlyNaN(t *testing.T) {
	_, ok := Quantile(nil, 0.5)
	assert.False(t, ok)

	q, ok := Quantile([]float64{math.NaN()}, 0.5)
	assert.False(t, ok)
	assert.True(t, math.IsNaN(q))
}

func TestQuantileKeepsInfinities(t *testing.T) {
	values := []float64{math.Inf(1), 2, math.NaN(), 1, math.Inf(-1)}

	lo, ok := Quantile(values, 0)
	assert.True(t, ok)
	assert.True(t, math.IsInf(lo, -1))

	hi, ok := Quantile(values, 1)
	assert.True(t, ok)
	assert.True(t, math.IsInf(hi, 1))

	mid, ok := Quantile(values, 0.5)
	assert.True(t, ok)
	assert.InDelta(t, 1.5, mid, 1e-12)

	assert.Len(t, sortedNonNaN(values), 4)
}

func TestQuantileDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_, _ = Quantile(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestQuantileMonotoneInP(t *testing.T) {
	values := normalDraws(37)
	prev := math.Inf(-1)
	for p := 0.0; p <= 1.0; p += 0.01 {
		q, _ := Quantile(values, p)
		assert.GreaterOrEqual(t, q, prev)
		prev = q
	}
}
