package metrics

import (
	"sort"

	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// LorenzCurve はリスク順に並べた累積クレーム額の曲線を返す
//
// 予測値の昇順にサンプルを並べ、実績の純保険料 × エクスポージャーの累積和を
// 総額で正規化する。samples は 0 から 1 までの等間隔の点。
func LorenzCurve(actual, predicted, exposure []float64) (samples, claims []float64, err error) {
	if err := checkInputs("LorenzCurve", actual, predicted, exposure); err != nil {
		return nil, nil, err
	}
	if exposure == nil {
		return nil, nil, errors.NewValueError("LorenzCurve", "exposure is required")
	}

	n := len(actual)
	ranking := make([]int, n)
	for i := range ranking {
		ranking[i] = i
	}
	sort.SliceStable(ranking, func(a, b int) bool {
		return predicted[ranking[a]] < predicted[ranking[b]]
	})

	claims = make([]float64, n)
	for i, r := range ranking {
		claims[i] = actual[r] * exposure[r]
	}
	floats.CumSum(claims, claims)
	total := claims[n-1]
	if total == 0 {
		return nil, nil, errors.NewValueError("LorenzCurve", "total claim amount is zero")
	}
	floats.Scale(1/total, claims)

	samples = make([]float64, n)
	if n == 1 {
		samples[0] = 1
	} else {
		floats.Span(samples, 0, 1)
	}
	return samples, claims, nil
}

// Gini は Lorenz 曲線から Gini 係数 (1 - 2·AUC) を計算する
//
// 値が大きいほど予測がリスクの高いサンプルをよく識別している。
func Gini(actual, predicted, exposure []float64) (float64, error) {
	samples, claims, err := LorenzCurve(actual, predicted, exposure)
	if err != nil {
		return 0, err
	}
	if len(samples) < 2 {
		return 0, errors.NewValueError("Gini", "at least two samples are required")
	}
	return 1 - 2*integrate.Trapezoidal(samples, claims), nil
}
