package model

import (
	"github.com/YuminosukeSato/purepremium/core/frame"
	"gonum.org/v1/gonum/mat"
)

// Transformer は行列データ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// FrameTransformer は表形式データ（列名付き）変換のインターフェース
// パイプラインの各ステップはこのインターフェースを実装する
type FrameTransformer interface {
	// FitFrame は変換に必要なパラメータを学習する
	FitFrame(f *frame.Frame) error

	// TransformFrame は入力を変更せずに変換済みの新しいFrameを返す
	TransformFrame(f *frame.Frame) (*frame.Frame, error)

	// FitTransformFrame はFitFrameとTransformFrameを同時に実行する
	FitTransformFrame(f *frame.Frame) (*frame.Frame, error)
}

// ArrayTransformer は一次元配列の変換のインターフェース
type ArrayTransformer interface {
	FitArray(x []float64) error
	TransformArray(x []float64) ([]float64, error)
	FitTransformArray(x []float64) ([]float64, error)
}
