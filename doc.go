// Package purepremium provides the data preparation steps of an insurance
// pure-premium study: a reproducible train/test split keyed by policy
// identifiers and a quantile clipper for claim amounts, together with the
// supporting pieces needed to run them as a pipeline.
//
// # Packages
//
//   - split: deterministic SHA-256 hash-bucket split. A row's label depends
//     only on its identifier values and the training fraction.
//   - preprocessing: Winsorizer (per-column quantile clipping learned at fit
//     time), StandardScaler and the linear-interpolation Quantile.
//   - pipeline: named chains of frame transformers and column subsets.
//   - metrics: exposure-weighted MAE, MSE, RMSE, bias, Poisson and Tweedie
//     deviance, Lorenz curve and Gini index.
//   - config: YAML and environment configuration.
//   - core/frame: a small column-oriented table.
//   - pkg/errors, pkg/log, pkg/telemetry: error types, structured logging
//     and Prometheus counters shared by the packages above.
//
// # Quick Start
//
//	df := frame.New()
//	_ = df.AddNumeric("IDpol", ids)
//	_ = df.AddNumeric("ClaimAmount", amounts)
//
//	if err := split.SampleSplit(df, []string{"IDpol"}, 0.8); err != nil {
//	    log.Fatal(err)
//	}
//	train, test, _ := split.Partitions(df, split.DefaultColumn)
//
//	w := preprocessing.NewWinsorizer(0.05, 0.95)
//	if err := w.FitFrame(train); err != nil {
//	    log.Fatal(err)
//	}
//	clipped, err := w.TransformFrame(test)
//
// # Error Handling
//
// Errors carry a stack trace and a concrete type that can be matched with
// errors.As:
//
//	var nf *errors.NotFittedError
//	if errors.As(err, &nf) {
//	    // fit first
//	}
//
// Invalid arguments produce *errors.InvalidInputError and invalid
// hyperparameters *errors.InvalidConfigError.
package purepremium
