package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/purepremium/core/frame"
	"github.com/YuminosukeSato/purepremium/core/model"
	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"github.com/YuminosukeSato/purepremium/pkg/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	_ model.Transformer      = (*StandardScaler)(nil)
	_ model.FrameTransformer = (*StandardScaler)(nil)
	_ model.ParameterGetter  = (*StandardScaler)(nil)
	_ model.FittedChecker    = (*StandardScaler)(nil)
)

// StandardScaler はscikit-learn互換の標準化スケーラー
// データを平均0、標準偏差1に変換する
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// Columns はFrame入力で学習した数値列の名前 (行列入力では "0".."n-1")
	Columns []string

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool

	settings settings
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// パラメータ:
//   - withMean: 平均を引くかどうか (デフォルト: true)
//   - withStd: 標準偏差で割るかどうか (デフォルト: true)
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	scaled, err := scaler.FitTransformFrame(policies)
func NewStandardScaler(withMean, withStd bool, opts ...Option) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
		settings: newSettings("StandardScaler", opts),
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault(opts ...Option) *StandardScaler {
	return NewStandardScaler(true, true, opts...)
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	return s.FitFrame(frame.FromMatrix(X))
}

// FitFrame は各数値列の平均と標準偏差を計算する。非数値列は無視される。
func (s *StandardScaler) FitFrame(f *frame.Frame) error {
	if f == nil || f.NRows() == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	columns := f.NumericNames()
	if len(columns) == 0 {
		return errors.NewModelError("StandardScaler.Fit", "no numeric columns", errors.ErrEmptyData)
	}

	mean := make([]float64, len(columns))
	scale := make([]float64, len(columns))
	for j, name := range columns {
		c, _ := f.Column(name)
		m, std := stat.PopMeanStdDev(c.Floats(), nil)

		// 平均を0に設定
		if !s.WithMean {
			m = 0
		}
		// 標準偏差が0に近い場合は1に設定（ゼロ除算を避ける）
		if !s.WithStd || math.IsNaN(std) || math.Abs(std) < 1e-8 {
			std = 1
		}
		mean[j], scale[j] = m, std
	}

	s.Columns, s.Mean, s.Scale, s.NFeatures = columns, mean, scale, len(columns)
	s.SetFitted()

	s.settings.metrics.ObserveFit("StandardScaler")
	s.settings.loggerFor("StandardScaler").Debug("fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, f.NRows(),
		log.FeaturesKey, len(columns),
		log.ColumnsKey, columns,
	)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// TransformFrame は学習時の数値列を標準化した新しいFrameを返す
//
// 学習時の列が存在しない場合は InvalidInputError を返す。
// それ以外の列はそのまま渡される。
func (s *StandardScaler) TransformFrame(f *frame.Frame) (*frame.Frame, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "TransformFrame")
	}
	if f == nil {
		return nil, errors.NewInvalidInputError("StandardScaler.TransformFrame", "data", "frame must not be nil", nil)
	}

	out := f.Clone()
	for j, name := range s.Columns {
		c, ok := out.Column(name)
		if !ok || c.Kind != frame.Numeric {
			s.settings.loggerFor("StandardScaler").Warn("fitted column missing",
				log.ColumnKey, name,
				log.ErrorCodeKey, log.ErrorInvalidInput,
			)
			return nil, errors.NewInvalidInputError("StandardScaler.TransformFrame", "columns",
				"numeric column seen at fit time is missing", name)
		}
		values := c.Floats()
		for i, v := range values {
			values[i] = (v - s.Mean[j]) / s.Scale[j]
		}
		if err := out.AddNumeric(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// FitTransformFrame はFitFrameとTransformFrameを同時に実行する
func (s *StandardScaler) FitTransformFrame(f *frame.Frame) (*frame.Frame, error) {
	if err := s.FitFrame(f); err != nil {
		return nil, err
	}
	return s.TransformFrame(f)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(_, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return result, nil
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}
