package metrics

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/purepremium/pkg/errors"
)

// PoissonDeviance は重み付きポアソン逸脱度の総和を計算する
//
//	D = 2·Σ w·(y·log(y/μ) - (y - μ))
//
// y = 0 の項では y·log(y/μ) を 0 とする。μ は正であること。ただし y = 0 の行では μ = 0 も許される。
func PoissonDeviance(actual, predicted, weight []float64) (float64, error) {
	return TweedieDeviance(actual, predicted, weight, 1)
}

// TweedieDeviance は Tweedie 分布 (分散 ∝ μ^power) の重み付き逸脱度の総和を計算する
//
// power は 0 (正規)、1 (ポアソン)、2 (ガンマ)、または 1 < p < 2 の複合ポアソン・ガンマ
// などの p ∉ (0, 1) を受け付ける。
func TweedieDeviance(actual, predicted, weight []float64, power float64) (float64, error) {
	const op = "TweedieDeviance"
	if err := checkInputs(op, actual, predicted, weight); err != nil {
		return 0, err
	}
	if math.IsNaN(power) || (power > 0 && power < 1) {
		return 0, errors.NewValueError(op, fmt.Sprintf("power %v is not in (-inf, 0] ∪ [1, inf)", power))
	}

	var total float64
	for i, y := range actual {
		mu := predicted[i]
		if err := checkPrediction(y, mu, power); err != nil {
			return 0, errors.Wrapf(err, "index %d", i)
		}
		d, err := unitDeviance(y, mu, power)
		if err != nil {
			return 0, errors.Wrapf(err, "index %d", i)
		}
		if weight != nil {
			d *= weight[i]
		}
		total += d
	}
	return total, errors.CheckScalar(op, total)
}

// checkPrediction は予測値 μ が power に対して有効かを検証する
//
// 1 ≤ power < 2 では y = 0 の行に限り μ = 0 を許す (その行の逸脱度は 2μ = 0)。
// それ以外では power ≠ 0 のとき μ > 0 であること。
func checkPrediction(y, mu, power float64) error {
	const op = "TweedieDeviance"
	switch {
	case power == 0:
		return nil
	case math.IsNaN(mu) || mu < 0:
		return errors.NewValueError(op, fmt.Sprintf("prediction %v must be non-negative", mu))
	case mu > 0:
		return nil
	case power >= 1 && power < 2 && y == 0:
		return nil
	default:
		return errors.NewValueError(op, fmt.Sprintf("prediction %v must be positive", mu))
	}
}

func unitDeviance(y, mu, p float64) (float64, error) {
	switch {
	case p == 0:
		return (y - mu) * (y - mu), nil
	case p == 1:
		if y < 0 {
			return 0, errors.NewValueError("TweedieDeviance", "actual values must be non-negative for power 1")
		}
		return 2 * (xlogy(y, y/mu) - (y - mu)), nil
	case p == 2:
		if y <= 0 {
			return 0, errors.NewValueError("TweedieDeviance", "actual values must be positive for power 2")
		}
		return 2 * (math.Log(mu/y) + y/mu - 1), nil
	default:
		if p < 2 && y < 0 {
			return 0, errors.NewValueError("TweedieDeviance", "actual values must be non-negative for 1 < power < 2")
		}
		if p > 2 && y <= 0 {
			return 0, errors.NewValueError("TweedieDeviance", "actual values must be positive for power > 2")
		}
		yTerm := math.Pow(math.Max(y, 0), 2-p) / ((1 - p) * (2 - p))
		crossTerm := 0.0
		if y != 0 {
			crossTerm = y * math.Pow(mu, 1-p) / (1 - p)
		}
		return 2 * (yTerm - crossTerm + math.Pow(mu, 2-p)/(2-p)), nil
	}
}

// xlogy は x·log(y) を返す。x = 0 のときは 0。
func xlogy(x, y float64) float64 {
	if x == 0 {
		return 0
	}
	return x * math.Log(y)
}
