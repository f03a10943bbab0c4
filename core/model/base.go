package model

// EstimatorState は推定器の学習状態を表す
type EstimatorState int

const (
	// NotFitted は推定器が未学習の状態
	NotFitted EstimatorState = iota
	// Fitted は推定器が学習済みの状態
	Fitted
)

// String は状態の文字列表現を返す
func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not_fitted"
}

// BaseEstimator は全ての推定器・変換器の基底となる構造体
// State は gob エンコードのため公開している
type BaseEstimator struct {
	State EstimatorState
}

// IsFitted は推定器が学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted は推定器を学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}
