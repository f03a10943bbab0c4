package preprocessing

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/purepremium/core/frame"
	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestStandardScalerMatrix(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})
	s := NewStandardScalerDefault()

	got, err := s.FitTransform(X)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, s.Mean[0], 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), s.Scale[0], 1e-12)
	// constant column keeps scale 1
	assert.Equal(t, 1.0, s.Scale[1])
	assert.InDelta(t, -1.5/math.Sqrt(1.25), got.At(0, 0), 1e-12)
	assert.Equal(t, 0.0, got.At(2, 1))

	back, err := s.InverseTransform(got)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))

	_, err = s.Transform(mat.NewDense(1, 3, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestStandardScalerWithoutMeanOrStd(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})

	s := NewStandardScaler(false, true)
	require.NoError(t, s.Fit(X))
	assert.Equal(t, 0.0, s.Mean[0])
	assert.Equal(t, 1.0, s.Scale[0])

	s = NewStandardScaler(true, false)
	got, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 1}, mat.Col(nil, 0, got))
}

func TestStandardScalerFrame(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("BonusMalus", []float64{50, 60, 100, 190}))
	require.NoError(t, f.AddCategorical("Area", []string{"A", "B", "C", "D"}))
	require.NoError(t, f.AddNumeric("Density", []float64{1, 10, 100, 1000}))

	s := NewStandardScalerDefault()
	out, err := s.FitTransformFrame(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"BonusMalus", "Density"}, s.Columns)
	bm, _ := out.Column("BonusMalus")
	mean, std := stat.PopMeanStdDev(bm.Floats(), nil)
	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, 1, std, 1e-12)

	area, _ := out.Column("Area")
	assert.Equal(t, []string{"A", "B", "C", "D"}, area.Strings())

	orig, _ := f.Column("Density")
	assert.Equal(t, []float64{1, 10, 100, 1000}, orig.Floats())
}

func TestStandardScalerFrameMissingColumn(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("BonusMalus", []float64{50, 60}))
	require.NoError(t, f.AddNumeric("Density", []float64{1, 2}))

	s := NewStandardScalerDefault()
	require.NoError(t, s.FitFrame(f))

	onlyBM, err := f.Select("BonusMalus")
	require.NoError(t, err)
	_, err = s.TransformFrame(onlyBM)
	var inputErr *errors.InvalidInputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "Density", inputErr.Value)
}

func TestStandardScalerErrors(t *testing.T) {
	s := NewStandardScalerDefault()

	_, err := s.TransformFrame(frame.New())
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	_, err = s.Transform(mat.NewDense(1, 1, nil))
	assert.True(t, errors.As(err, &nf))

	assert.True(t, errors.Is(s.FitFrame(frame.New()), errors.ErrEmptyData))

	cat := frame.New()
	require.NoError(t, cat.AddCategorical("Area", []string{"A"}))
	assert.True(t, errors.Is(s.FitFrame(cat), errors.ErrEmptyData))
	assert.False(t, s.IsFitted())
}

func TestStandardScalerString(t *testing.T) {
	s := NewStandardScalerDefault()
	assert.Equal(t, "StandardScaler(with_mean=true, with_std=true)", s.String())
	require.NoError(t, s.Fit(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})))
	assert.Equal(t, "StandardScaler(with_mean=true, with_std=true, n_features=3)", s.String())
	assert.Equal(t, true, s.GetParams()["with_mean"])
}
