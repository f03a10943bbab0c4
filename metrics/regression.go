package metrics

import (
	"math"

	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	return MeanSquaredError(rawVec(yTrue), rawVec(yPred), nil)
}

// MSEMatrix は行列形式の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}

	return MeanSquaredError(mat.Col(nil, 0, yTrue), mat.Col(nil, 0, yPred), nil)
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	return MeanAbsoluteError(rawVec(yTrue), rawVec(yPred), nil)
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	actual, predicted := rawVec(yTrue), rawVec(yPred)
	if err := checkInputs("R2Score", actual, predicted, nil); err != nil {
		return 0, err
	}

	yMean := stat.Mean(actual, nil)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i, y := range actual {
		tss += (y - yMean) * (y - yMean)
		rss += (y - predicted[i]) * (y - predicted[i])
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// MeanSquaredError は重み付き平均二乗誤差を計算する
//
// weight が nil の場合は重みなし。
//
//	MSE = Σ w·(y - ŷ)² / Σ w
func MeanSquaredError(actual, predicted, weight []float64) (float64, error) {
	if err := checkInputs("MeanSquaredError", actual, predicted, weight); err != nil {
		return 0, err
	}
	sq := make([]float64, len(actual))
	for i := range actual {
		d := actual[i] - predicted[i]
		sq[i] = d * d
	}
	return stat.Mean(sq, weight), nil
}

// MeanAbsoluteError は重み付き平均絶対誤差を計算する
//
//	MAE = Σ w·|y - ŷ| / Σ w
func MeanAbsoluteError(actual, predicted, weight []float64) (float64, error) {
	if err := checkInputs("MeanAbsoluteError", actual, predicted, weight); err != nil {
		return 0, err
	}
	abs := make([]float64, len(actual))
	floats.SubTo(abs, actual, predicted)
	for i, d := range abs {
		abs[i] = math.Abs(d)
	}
	return stat.Mean(abs, weight), nil
}

// checkInputs は長さ・空・重みを検証する
func checkInputs(op string, actual, predicted, weight []float64) error {
	n := len(actual)
	if n == 0 {
		return errors.NewValueError(op, "empty vector")
	}
	if len(predicted) != n {
		return errors.NewDimensionError(op, n, len(predicted), 0)
	}
	if weight == nil {
		return nil
	}
	if len(weight) != n {
		return errors.NewDimensionError(op, n, len(weight), 0)
	}
	for _, w := range weight {
		if w < 0 || math.IsNaN(w) {
			return errors.NewValueError(op, "weights must be non-negative")
		}
	}
	if floats.Sum(weight) == 0 {
		return errors.NewValueError(op, "weights sum to zero")
	}
	return nil
}

func rawVec(v *mat.VecDense) []float64 {
	if v == nil || v.Len() == 0 {
		return nil
	}
	return mat.Col(nil, 0, v)
}
