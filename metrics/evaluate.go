package metrics

import (
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Report は予測評価の結果
type Report struct {
	// MAE は重み付き平均絶対誤差
	MAE float64
	// MSE は重み付き平均二乗誤差
	MSE float64
	// RMSE は MSE の平方根
	RMSE float64
	// Bias は予測の重み付き平均と実績の重み付き平均の差 (正なら過大予測)
	Bias float64
	// Deviance は重み付きポアソン逸脱度の総和
	Deviance float64
}

// EvaluatePredictions は実績値と予測値から評価指標をまとめて計算する
//
// weight には通常エクスポージャーを渡す。nil の場合は重みなし。
//
// 使用例:
//
//	report, err := metrics.EvaluatePredictions(purePremium, predicted, exposure)
//	fmt.Print(report)
func EvaluatePredictions(actual, predicted, weight []float64) (Report, error) {
	if err := checkInputs("EvaluatePredictions", actual, predicted, weight); err != nil {
		return Report{}, err
	}

	mae, err := MeanAbsoluteError(actual, predicted, weight)
	if err != nil {
		return Report{}, err
	}
	mse, err := MeanSquaredError(actual, predicted, weight)
	if err != nil {
		return Report{}, err
	}
	deviance, err := PoissonDeviance(actual, predicted, weight)
	if err != nil {
		return Report{}, errors.Wrap(err, "EvaluatePredictions")
	}

	return Report{
		MAE:      mae,
		MSE:      mse,
		RMSE:     math.Sqrt(mse),
		Bias:     stat.Mean(predicted, weight) - stat.Mean(actual, weight),
		Deviance: deviance,
	}, nil
}

// Map は指標名から値へのマップを返す
func (r Report) Map() map[string]float64 {
	return map[string]float64{
		"MAE":      r.MAE,
		"MSE":      r.MSE,
		"RMSE":     r.RMSE,
		"Bias":     r.Bias,
		"Deviance": r.Deviance,
	}
}

// String は指標を一行ずつ表形式で返す
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %s\n", "Metric", "Value")
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"MAE", r.MAE},
		{"MSE", r.MSE},
		{"RMSE", r.RMSE},
		{"Bias", r.Bias},
		{"Deviance", r.Deviance},
	} {
		fmt.Fprintf(&b, "%-8s %.6g\n", row.name, row.value)
	}
	return b.String()
}
