// Package model provides the estimator state machine, the transformer
// interfaces and gob persistence shared by the preprocessing components.
package model

// ParameterGetter is the interface for estimators that expose their hyperparameters.
type ParameterGetter interface {
	// GetParams returns the estimator's hyperparameters keyed by their snake_case name.
	GetParams() map[string]interface{}
}

// FittedChecker is implemented by every estimator embedding BaseEstimator.
type FittedChecker interface {
	IsFitted() bool
}
