// Standard attribute keys shared by every component that logs.
//
// Keys follow a hierarchical naming convention ("model.name",
// "data.samples") so that log records can be filtered uniformly.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator or transformer type.
	// Examples: "Winsorizer", "StandardScaler", "Splitter"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "transform", "fit_transform", "split"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "split", "preprocessing", "pipeline"
	ComponentKey = "ml.component"

	// StepKey names the pipeline step a record belongs to.
	StepKey = "pipeline.step"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ColumnKey names a single column.
	ColumnKey = "data.column"

	// ColumnsKey lists the columns involved in an operation.
	ColumnsKey = "data.columns"
)

// Splitting
const (
	// TrainingFractionKey records the requested share of training rows.
	TrainingFractionKey = "split.training_fraction"

	// TrainRowsKey and TestRowsKey record the realised partition sizes.
	TrainRowsKey = "split.train_rows"
	TestRowsKey  = "split.test_rows"

	// AlgorithmKey records the bucketing algorithm.
	AlgorithmKey = "split.algorithm"
)

// Winsorizing
const (
	// LowerQuantileKey and UpperQuantileKey record the clipping quantiles.
	LowerQuantileKey = "winsorizer.lower_quantile"
	UpperQuantileKey = "winsorizer.upper_quantile"

	// BoundsKey records the number of bound pairs stored by a fit.
	BoundsKey = "winsorizer.bounds"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationSplit        = "split"

	ErrorNotFitted    = "NOT_FITTED"
	ErrorEmptyData    = "EMPTY_DATA"
	ErrorInvalidInput = "INVALID_INPUT"
)
