package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatePredictions(t *testing.T) {
	actual := []float64{0, 1, 2}
	predicted := []float64{0.5, 1, 1}

	t.Run("weighted", func(t *testing.T) {
		r, err := EvaluatePredictions(actual, predicted, []float64{1, 1, 2})
		require.NoError(t, err)

		assert.InDelta(t, 0.625, r.MAE, 1e-12)
		assert.InDelta(t, 0.5625, r.MSE, 1e-12)
		assert.InDelta(t, 0.75, r.RMSE, 1e-12)
		assert.InDelta(t, 0.875-1.25, r.Bias, 1e-12)
		assert.InDelta(t, 8*math.Ln2-3, r.Deviance, 1e-12)
	})

	t.Run("unweighted", func(t *testing.T) {
		r, err := EvaluatePredictions(actual, predicted, nil)
		require.NoError(t, err)

		assert.InDelta(t, 0.5, r.MAE, 1e-12)
		assert.InDelta(t, 1.25/3, r.MSE, 1e-12)
		assert.InDelta(t, 2.5/3-1, r.Bias, 1e-12)
		assert.InDelta(t, 4*math.Ln2-1, r.Deviance, 1e-12)
		assert.Equal(t, r.RMSE, r.Map()["RMSE"])
	})
}

func TestEvaluatePredictionsZeroPredictionOnZeroActual(t *testing.T) {
	r, err := EvaluatePredictions([]float64{0, 2, 0}, []float64{0, 2, 1}, []float64{1, 1, 1})
	require.NoError(t, err)

	assert.InDelta(t, 2, r.Deviance, 1e-12)
	assert.InDelta(t, 1.0/3, r.MAE, 1e-12)
	assert.InDelta(t, 1.0/3, r.Bias, 1e-12)
}

func TestEvaluatePredictionsErrors(t *testing.T) {
	_, err := EvaluatePredictions(nil, nil, nil)
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))

	_, err = EvaluatePredictions([]float64{1}, []float64{1, 2}, nil)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = EvaluatePredictions([]float64{1}, []float64{-1}, nil)
	assert.True(t, errors.As(err, &valErr))

	_, err = EvaluatePredictions([]float64{1}, []float64{0}, nil)
	assert.True(t, errors.As(err, &valErr))
}

func TestReportString(t *testing.T) {
	r := Report{MAE: 1, MSE: 4, RMSE: 2, Bias: -0.5, Deviance: 10}
	s := r.String()
	assert.Contains(t, s, "Metric")
	assert.Contains(t, s, "RMSE     2\n")
	assert.Contains(t, s, "Bias     -0.5\n")
}

func TestLorenzCurveAndGini(t *testing.T) {
	actual := []float64{1, 0, 3}
	predicted := []float64{0.3, 0.1, 0.9}
	exposure := []float64{1, 1, 1}

	samples, claims, err := LorenzCurve(actual, predicted, exposure)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, samples)
	assert.InDeltaSlice(t, []float64{0, 0.25, 1}, claims, 1e-12)

	gini, err := Gini(actual, predicted, exposure)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, gini, 1e-12)

	// reversing the ranking lowers the index
	worse, err := Gini(actual, []float64{0.3, 0.9, 0.1}, exposure)
	require.NoError(t, err)
	assert.Less(t, worse, gini)
}

func TestLorenzCurveErrors(t *testing.T) {
	_, _, err := LorenzCurve([]float64{1}, []float64{1}, nil)
	assert.Error(t, err)

	_, _, err = LorenzCurve([]float64{0, 0}, []float64{1, 2}, []float64{1, 1})
	assert.Error(t, err)

	_, err = Gini([]float64{1}, []float64{1}, []float64{1})
	assert.Error(t, err)
}
