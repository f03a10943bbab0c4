package preprocessing

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/YuminosukeSato/purepremium/core/frame"
	"github.com/YuminosukeSato/purepremium/core/model"
	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"github.com/YuminosukeSato/purepremium/pkg/log"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultLowerQuantile は下側クリップ分位点の既定値
	DefaultLowerQuantile = 0.05
	// DefaultUpperQuantile は上側クリップ分位点の既定値
	DefaultUpperQuantile = 0.95

	arrayColumn = "0"
)

var (
	_ model.Transformer      = (*Winsorizer)(nil)
	_ model.FrameTransformer = (*Winsorizer)(nil)
	_ model.ArrayTransformer = (*Winsorizer)(nil)
	_ model.ParameterGetter  = (*Winsorizer)(nil)
	_ model.FittedChecker    = (*Winsorizer)(nil)
)

// Winsorizer は学習データから列ごとの分位点境界を学習し、
// 変換時に値をその境界 [lower, upper] にクリップする変換器
//
// 境界は Fit 時に一度だけ計算され、再度 Fit するまで変更されない。
// テーブル・行列・一次元配列の3つの入力形式に対応し、出力は入力と同じ形式になる。
// 行列の列と配列は列名 "0", "1", ... として扱われる。
//
// 同一インスタンスの Fit と Transform を並行に呼び出してはならない。
type Winsorizer struct {
	model.BaseEstimator

	// LowerQuantile は下側の分位点 (0 ≤ LowerQuantile ≤ UpperQuantile)
	LowerQuantile float64
	// UpperQuantile は上側の分位点 (LowerQuantile ≤ UpperQuantile ≤ 1)
	UpperQuantile float64

	// Columns は境界を学習した列名 (学習順)
	Columns []string
	// Lower と Upper は Columns と同じ順序の境界値
	Lower []float64
	Upper []float64

	settings settings
}

// NewWinsorizer は新しいWinsorizerを作成する
//
// 分位点の検証は Validate または Fit 時に行われる。
//
// 使用例:
//
//	w := preprocessing.NewWinsorizer(0.05, 0.95)
//	if err := w.FitFrame(train); err != nil {
//		return err
//	}
//	clipped, err := w.TransformFrame(test)
func NewWinsorizer(lowerQuantile, upperQuantile float64, opts ...Option) *Winsorizer {
	return &Winsorizer{
		LowerQuantile: lowerQuantile,
		UpperQuantile: upperQuantile,
		settings:      newSettings("Winsorizer", opts),
	}
}

// NewWinsorizerDefault は分位点 (0.05, 0.95) のWinsorizerを作成する
func NewWinsorizerDefault(opts ...Option) *Winsorizer {
	return NewWinsorizer(DefaultLowerQuantile, DefaultUpperQuantile, opts...)
}

// Validate は分位点パラメータを検証する
func (w *Winsorizer) Validate() error {
	lo, hi := w.LowerQuantile, w.UpperQuantile
	if math.IsNaN(lo) || lo < 0 || lo > 1 {
		return errors.NewInvalidConfigError("Winsorizer", "lower_quantile", "must be in [0, 1]", lo)
	}
	if math.IsNaN(hi) || hi < 0 || hi > 1 {
		return errors.NewInvalidConfigError("Winsorizer", "upper_quantile", "must be in [0, 1]", hi)
	}
	if lo > hi {
		return errors.NewInvalidConfigError("Winsorizer", "lower_quantile",
			fmt.Sprintf("must not exceed upper_quantile %v", hi), lo)
	}
	return nil
}

// FitFrame は各数値列の境界を学習する
//
// 非数値列は無視される。NaN 以外の値を持たない列は境界を持たず、
// EmptyColumnWarning が通知される。失敗した場合は以前の学習状態が保持される。
func (w *Winsorizer) FitFrame(f *frame.Frame) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if f == nil || f.NRows() == 0 || f.NCols() == 0 {
		w.settings.loggerFor("Winsorizer").Warn("fit on empty data",
			log.OperationKey, log.OperationFit,
			log.ErrorCodeKey, log.ErrorEmptyData,
		)
		return errors.NewModelError("Winsorizer.Fit", "empty data", errors.ErrEmptyData)
	}

	start := time.Now()
	var columns []string
	var lower, upper []float64
	for _, c := range f.Columns() {
		if c.Kind != frame.Numeric {
			continue
		}
		sorted := sortedNonNaN(c.Floats())
		if len(sorted) == 0 {
			errors.Warn(errors.NewEmptyColumnWarning("Winsorizer", c.Name))
			continue
		}
		columns = append(columns, c.Name)
		lower = append(lower, quantileSorted(sorted, w.LowerQuantile))
		upper = append(upper, quantileSorted(sorted, w.UpperQuantile))
	}

	w.Columns, w.Lower, w.Upper = columns, lower, upper
	w.SetFitted()

	w.settings.metrics.ObserveFit("Winsorizer")
	w.settings.loggerFor("Winsorizer").Debug("fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, f.NRows(),
		log.FeaturesKey, f.NCols(),
		log.LowerQuantileKey, w.LowerQuantile,
		log.UpperQuantileKey, w.UpperQuantile,
		log.BoundsKey, len(columns),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// TransformFrame は境界を持つ各列をクリップした新しいFrameを返す
//
// 境界を持たない列 (非数値列や学習時に存在しなかった列) はそのまま渡される。
// 入力は変更されない。
func (w *Winsorizer) TransformFrame(f *frame.Frame) (*frame.Frame, error) {
	if err := w.checkFitted("TransformFrame"); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.NewInvalidInputError("Winsorizer.TransformFrame", "data", "frame must not be nil", nil)
	}
	out := f.Clone()
	for k, name := range w.Columns {
		c, ok := out.Column(name)
		if !ok || c.Kind != frame.Numeric {
			continue
		}
		values := c.Floats()
		w.clip(name, values, w.Lower[k], w.Upper[k])
		if err := out.AddNumeric(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FitTransformFrame はFitFrameとTransformFrameを同時に実行する
func (w *Winsorizer) FitTransformFrame(f *frame.Frame) (*frame.Frame, error) {
	if err := w.FitFrame(f); err != nil {
		return nil, err
	}
	return w.TransformFrame(f)
}

// Fit は行列の各列の境界を学習する
func (w *Winsorizer) Fit(X mat.Matrix) error {
	return w.FitFrame(frame.FromMatrix(X))
}

// Transform は行列の各列をクリップした新しい行列を返す
func (w *Winsorizer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := w.checkFitted("Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	result := mat.DenseCopyOf(X)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		name := strconv.Itoa(j)
		lo, hi, ok := w.Bounds(name)
		if !ok {
			continue
		}
		mat.Col(col, j, result)
		w.clip(name, col, lo, hi)
		result.SetCol(j, col)
	}
	return result, nil
}

// FitTransform はFitとTransformを同時に実行する
func (w *Winsorizer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := w.Fit(X); err != nil {
		return nil, err
	}
	return w.Transform(X)
}

// FitArray は一次元配列から単一の境界を学習する
func (w *Winsorizer) FitArray(x []float64) error {
	f := frame.New()
	if len(x) > 0 {
		if err := f.AddNumeric(arrayColumn, x); err != nil {
			return err
		}
	}
	return w.FitFrame(f)
}

// TransformArray は配列をクリップした新しいスライスを返す
func (w *Winsorizer) TransformArray(x []float64) ([]float64, error) {
	if err := w.checkFitted("TransformArray"); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	copy(out, x)
	if lo, hi, ok := w.Bounds(arrayColumn); ok {
		w.clip(arrayColumn, out, lo, hi)
	}
	return out, nil
}

// FitTransformArray はFitArrayとTransformArrayを同時に実行する
func (w *Winsorizer) FitTransformArray(x []float64) ([]float64, error) {
	if err := w.FitArray(x); err != nil {
		return nil, err
	}
	return w.TransformArray(x)
}

// Bounds は列の学習済み境界を返す
func (w *Winsorizer) Bounds(column string) (lower, upper float64, ok bool) {
	for k, name := range w.Columns {
		if name == column {
			return w.Lower[k], w.Upper[k], true
		}
	}
	return 0, 0, false
}

// clip は values をその場で [lo, hi] にクリップする。NaN はそのまま残る。
func (w *Winsorizer) clip(column string, values []float64, lo, hi float64) {
	below, above := 0, 0
	for i, v := range values {
		switch {
		case v < lo:
			below++
		case v > hi:
			above++
		}
		values[i] = errors.ClipValue(v, lo, hi)
	}
	w.settings.metrics.ObserveClip(column, below, above)
}

func (w *Winsorizer) checkFitted(method string) error {
	if w.IsFitted() {
		return nil
	}
	w.settings.loggerFor("Winsorizer").Debug("transform before fit",
		log.OperationKey, log.OperationTransform,
		log.ErrorCodeKey, log.ErrorNotFitted,
	)
	return errors.NewNotFittedError("Winsorizer", method)
}

// GetParams はWinsorizerのパラメータを取得する
func (w *Winsorizer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"lower_quantile": w.LowerQuantile,
		"upper_quantile": w.UpperQuantile,
	}
}

// String はWinsorizerの文字列表現を返す
func (w *Winsorizer) String() string {
	if !w.IsFitted() {
		return fmt.Sprintf("Winsorizer(lower_quantile=%g, upper_quantile=%g)", w.LowerQuantile, w.UpperQuantile)
	}
	return fmt.Sprintf("Winsorizer(lower_quantile=%g, upper_quantile=%g, n_bounds=%d)",
		w.LowerQuantile, w.UpperQuantile, len(w.Columns))
}
