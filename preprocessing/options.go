package preprocessing

import (
	"github.com/YuminosukeSato/purepremium/pkg/log"
	"github.com/YuminosukeSato/purepremium/pkg/telemetry"
)

// settings holds the runtime collaborators shared by the transformers of
// this package. They are not persisted with a fitted transformer.
type settings struct {
	logger  log.Logger
	metrics *telemetry.Metrics
}

// Option configures a transformer of this package.
type Option func(*settings)

// WithLogger sets the logger. The global logger is used otherwise.
func WithLogger(l log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithMetrics records fits and clipped values on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

func newSettings(modelName string, opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	s.logger = s.logger.With(log.ModelNameKey, modelName, log.ComponentKey, "preprocessing")
	return s
}

// loggerFor returns the configured logger, falling back to the global one for
// transformers restored with gob.
func (s *settings) loggerFor(modelName string) log.Logger {
	if s.logger == nil {
		s.logger = log.GetLogger().With(log.ModelNameKey, modelName, log.ComponentKey, "preprocessing")
	}
	return s.logger
}
