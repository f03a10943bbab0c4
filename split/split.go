// Package split assigns rows of a frame to a train or test partition from a
// stable hash of their identifier columns.
//
// The label of a row depends only on its identifier values and the training
// fraction, never on row order, process or machine:
//
//	key    = Key(id_1) + "_" + Key(id_2) + ...   (caller's column order)
//	bucket = SHA-256(key) mod 100                 (digest read big-endian)
//	label  = "train" if bucket < fraction*100 else "test"
//
// so re-running a split over a growing policy table never moves an existing
// policy across the boundary.
package split

import (
	"crypto/sha256"
	"math"
	"strings"
	"time"

	"github.com/YuminosukeSato/purepremium/core/frame"
	"github.com/YuminosukeSato/purepremium/core/parallel"
	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"github.com/YuminosukeSato/purepremium/pkg/log"
	"github.com/YuminosukeSato/purepremium/pkg/telemetry"
	"github.com/zeebo/blake3"
)

const (
	// DefaultTrainingFraction is the share of buckets labelled train.
	DefaultTrainingFraction = 0.8
	// DefaultColumn is the name of the partition label column.
	DefaultColumn = "sample"
	// DefaultDelimiter joins the identifier values of a composite key.
	DefaultDelimiter = "_"

	// NumBuckets is the number of hash buckets.
	NumBuckets = 100

	parallelThreshold = 4096
)

// Partition is the label written to the partition column.
type Partition string

const (
	Train Partition = "train"
	Test  Partition = "test"
)

// Algorithm selects the digest used for bucketing.
type Algorithm int

const (
	// SHA256 is the default digest.
	SHA256 Algorithm = iota
	// BLAKE3 uses the 256-bit BLAKE3 digest. Labels differ from SHA256.
	BLAKE3
)

func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case BLAKE3:
		return "blake3"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps "sha256" or "blake3" (case-insensitive) to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sha256", "sha-256":
		return SHA256, nil
	case "blake3":
		return BLAKE3, nil
	default:
		return 0, errors.NewInvalidConfigError("Splitter", "algorithm", "must be sha256 or blake3", s)
	}
}

// Bucket returns the SHA-256 bucket of key, in [0, NumBuckets).
func Bucket(key string) int {
	return BucketWith(SHA256, key)
}

// BucketWith returns the bucket of key under the given algorithm.
func BucketWith(alg Algorithm, key string) int {
	var digest [32]byte
	if alg == BLAKE3 {
		digest = blake3.Sum256([]byte(key))
	} else {
		digest = sha256.Sum256([]byte(key))
	}
	return reduce(digest[:])
}

// reduce interprets digest as a big-endian unsigned integer and returns it
// modulo NumBuckets.
func reduce(digest []byte) int {
	r := 0
	for _, b := range digest {
		r = (r*256 + int(b)) % NumBuckets
	}
	return r
}

// Splitter labels the rows of a frame. Configure it with options; the zero
// value is not usable, construct it with New.
type Splitter struct {
	idColumns        []string
	trainingFraction float64
	column           string
	delimiter        string
	algorithm        Algorithm
	moduloBucketing  bool
	logger           log.Logger
	metrics          *telemetry.Metrics
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithTrainingFraction sets the share of buckets labelled train.
func WithTrainingFraction(f float64) Option {
	return func(s *Splitter) {
		s.trainingFraction = f
	}
}

// WithColumn sets the name of the partition label column.
func WithColumn(name string) Option {
	return func(s *Splitter) {
		s.column = name
	}
}

// WithDelimiter sets the separator placed between identifier values.
func WithDelimiter(d string) Option {
	return func(s *Splitter) {
		s.delimiter = d
	}
}

// WithAlgorithm selects the digest.
func WithAlgorithm(alg Algorithm) Option {
	return func(s *Splitter) {
		s.algorithm = alg
	}
}

// WithModuloBucketing enables the numeric fast path: with a single numeric
// identifier column, integral values are bucketed as value mod 100 instead
// of being hashed. Non-integral values are still hashed. Sequential IDs
// allocated in blocks are not spread uniformly by this path.
func WithModuloBucketing() Option {
	return func(s *Splitter) {
		s.moduloBucketing = true
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(s *Splitter) {
		s.logger = l
	}
}

// WithMetrics records partition sizes on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Splitter) {
		s.metrics = m
	}
}

// New returns a Splitter keyed on idColumns.
func New(idColumns []string, opts ...Option) *Splitter {
	s := &Splitter{
		idColumns:        append([]string(nil), idColumns...),
		trainingFraction: DefaultTrainingFraction,
		column:           DefaultColumn,
		delimiter:        DefaultDelimiter,
		algorithm:        SHA256,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	s.logger = s.logger.With(log.ModelNameKey, "Splitter", log.ComponentKey, "split")
	return s
}

// SampleSplit labels every row of f as train or test in a column named
// "sample", keyed on idColumns with the default SHA-256 bucketing.
//
// Numeric identifiers are keyed by their shortest exact decimal form, so
// an integral value is keyed without a fraction: 1.0 hashes as "1", not
// "1.0". Identifiers that must hash with a fractional suffix belong in a
// categorical column holding the exact text.
func SampleSplit(f *frame.Frame, idColumns []string, trainingFraction float64) error {
	return New(idColumns, WithTrainingFraction(trainingFraction)).Split(f)
}

// Column returns the name of the partition label column.
func (s *Splitter) Column() string { return s.column }

// TrainingFraction returns the configured training fraction.
func (s *Splitter) TrainingFraction() float64 { return s.trainingFraction }

// GetParams returns the splitter's parameters.
func (s *Splitter) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"id_columns":        append([]string(nil), s.idColumns...),
		"training_fraction": s.trainingFraction,
		"column":            s.column,
		"delimiter":         s.delimiter,
		"algorithm":         s.algorithm.String(),
		"modulo_bucketing":  s.moduloBucketing,
	}
}

// Split adds (or overwrites) the partition label column of f. On error f is
// left untouched.
func (s *Splitter) Split(f *frame.Frame) error {
	start := time.Now()
	if err := s.validateFraction(); err != nil {
		return err
	}
	buckets, err := s.Buckets(f)
	if err != nil {
		return err
	}

	threshold := s.trainingFraction * NumBuckets
	labels := make([]string, len(buckets))
	train := 0
	for i, b := range buckets {
		if float64(b) < threshold {
			labels[i] = string(Train)
			train++
		} else {
			labels[i] = string(Test)
		}
	}
	if err := f.AddCategorical(s.column, labels); err != nil {
		return err
	}

	s.metrics.ObserveSplit(train, len(labels)-train)
	s.logger.Debug("split completed",
		log.OperationKey, log.OperationSplit,
		log.ColumnsKey, s.idColumns,
		log.TrainingFractionKey, s.trainingFraction,
		log.AlgorithmKey, s.algorithm.String(),
		log.SamplesKey, len(labels),
		log.TrainRowsKey, train,
		log.TestRowsKey, len(labels)-train,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Buckets returns the bucket of every row of f without modifying it.
func (s *Splitter) Buckets(f *frame.Frame) ([]int, error) {
	if len(s.idColumns) == 0 {
		return nil, errors.NewInvalidInputError("Splitter.Split", "id_columns", "at least one identifier column is required", s.idColumns)
	}
	cols := make([]*frame.Column, len(s.idColumns))
	for i, name := range s.idColumns {
		c, ok := f.Column(name)
		if !ok {
			s.logger.Warn("identifier column not found",
				log.ColumnKey, name,
				log.ErrorCodeKey, log.ErrorInvalidInput,
			)
			return nil, errors.NewInvalidInputError("Splitter.Split", "id_columns", "column not found", name)
		}
		cols[i] = c
	}

	modulo := s.moduloBucketing && len(cols) == 1 && cols[0].Kind == frame.Numeric
	buckets := make([]int, f.NRows())
	parallel.ParallelizeWithThreshold(len(buckets), parallelThreshold, func(start, end int) {
		var sb strings.Builder
		for i := start; i < end; i++ {
			if modulo {
				if b, ok := moduloBucket(cols[0].Float(i)); ok {
					buckets[i] = b
					continue
				}
			}
			sb.Reset()
			for j, c := range cols {
				if j > 0 {
					sb.WriteString(s.delimiter)
				}
				sb.WriteString(c.Key(i))
			}
			buckets[i] = BucketWith(s.algorithm, sb.String())
		}
	})
	return buckets, nil
}

func (s *Splitter) validateFraction() error {
	f := s.trainingFraction
	if math.IsNaN(f) || f < 0 || f > 1 {
		return errors.NewInvalidInputError("Splitter.Split", "training_fraction", "must be in [0, 1]", f)
	}
	return nil
}

// moduloBucket returns v mod 100 in [0, 100) for integral v.
func moduloBucket(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	m := math.Mod(v, NumBuckets)
	if m < 0 {
		m += NumBuckets
	}
	return int(m), true
}

// Indices returns the positions of the train and test rows of a frame that
// has been labelled in column.
func Indices(f *frame.Frame, column string) (train, test []int, err error) {
	c, ok := f.Column(column)
	if !ok {
		return nil, nil, errors.NewInvalidInputError("split.Indices", "column", "column not found", column)
	}
	if c.Kind != frame.Categorical {
		return nil, nil, errors.NewInvalidInputError("split.Indices", column, "partition column must be categorical", c.Kind.String())
	}
	for i := 0; i < c.Len(); i++ {
		switch Partition(c.Key(i)) {
		case Train:
			train = append(train, i)
		case Test:
			test = append(test, i)
		default:
			return nil, nil, errors.NewInvalidInputError("split.Indices", column, "unknown partition label", c.Key(i))
		}
	}
	return train, test, nil
}

// Partitions returns copies of the train rows and the test rows of a frame
// that has been labelled in column, preserving row order.
func Partitions(f *frame.Frame, column string) (train, test *frame.Frame, err error) {
	trainIdx, testIdx, err := Indices(f, column)
	if err != nil {
		return nil, nil, err
	}
	if train, err = f.Rows(trainIdx); err != nil {
		return nil, nil, err
	}
	if test, err = f.Rows(testIdx); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
