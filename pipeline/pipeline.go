// Package pipeline chains frame transformers into a single fit/transform
// unit. Bounds and statistics are learned on the frame passed to Fit and
// then applied unchanged by Transform.
package pipeline

import (
	"time"

	"github.com/YuminosukeSato/purepremium/core/frame"
	"github.com/YuminosukeSato/purepremium/core/model"
	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"github.com/YuminosukeSato/purepremium/pkg/log"
)

// Step is a named stage of a Pipeline.
type Step struct {
	Name        string
	Transformer model.FrameTransformer
}

// Pipeline applies its steps in order. It is not safe for concurrent use.
type Pipeline struct {
	steps  []Step
	fitted bool
	logger log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New returns a pipeline of steps. Step names must be non-empty and unique.
func New(steps []Step, opts ...Option) (*Pipeline, error) {
	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.Name == "" {
			return nil, errors.NewInvalidConfigError("Pipeline", "steps", "step name must not be empty", s.Name)
		}
		if seen[s.Name] {
			return nil, errors.NewInvalidConfigError("Pipeline", "steps", "duplicate step name", s.Name)
		}
		if s.Transformer == nil {
			return nil, errors.NewInvalidConfigError("Pipeline", s.Name, "transformer must not be nil", nil)
		}
		seen[s.Name] = true
	}

	p := &Pipeline{steps: append([]Step(nil), steps...)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLogger()
	}
	p.logger = p.logger.With(log.ModelNameKey, "Pipeline", log.ComponentKey, "pipeline")
	return p, nil
}

// Names returns the step names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Step returns the transformer registered under name.
func (p *Pipeline) Step(name string) (model.FrameTransformer, bool) {
	for _, s := range p.steps {
		if s.Name == name {
			return s.Transformer, true
		}
	}
	return nil, false
}

// IsFitted reports whether Fit or FitTransform has completed.
func (p *Pipeline) IsFitted() bool { return p.fitted }

// Fit fits every step on the output of the previous one. The last step is
// fitted without transforming. If a step fails the pipeline is left unfitted.
func (p *Pipeline) Fit(f *frame.Frame) (err error) {
	defer errors.Recover(&err, "Pipeline.Fit")

	p.fitted = false
	cur := f
	for i, s := range p.steps {
		start := time.Now()
		if i == len(p.steps)-1 {
			err = s.Transformer.FitFrame(cur)
		} else {
			cur, err = s.Transformer.FitTransformFrame(cur)
		}
		if err != nil {
			return p.stepFailed(s.Name, log.OperationFit, err)
		}
		p.stepDone(s.Name, log.OperationFit, start)
	}
	p.fitted = true
	return nil
}

// Transform passes f through every fitted step and returns the result.
// f is not modified.
func (p *Pipeline) Transform(f *frame.Frame) (out *frame.Frame, err error) {
	defer errors.Recover(&err, "Pipeline.Transform")

	if !p.fitted {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}
	out = f
	for _, s := range p.steps {
		start := time.Now()
		if out, err = s.Transformer.TransformFrame(out); err != nil {
			return nil, p.stepFailed(s.Name, log.OperationTransform, err)
		}
		p.stepDone(s.Name, log.OperationTransform, start)
	}
	if len(p.steps) == 0 {
		out = f.Clone()
	}
	return out, nil
}

// FitTransform fits every step and returns the transformed frame.
func (p *Pipeline) FitTransform(f *frame.Frame) (out *frame.Frame, err error) {
	defer errors.Recover(&err, "Pipeline.FitTransform")

	p.fitted = false
	out = f
	for _, s := range p.steps {
		start := time.Now()
		if out, err = s.Transformer.FitTransformFrame(out); err != nil {
			return nil, p.stepFailed(s.Name, log.OperationFitTransform, err)
		}
		p.stepDone(s.Name, log.OperationFitTransform, start)
	}
	if len(p.steps) == 0 {
		out = f.Clone()
	}
	p.fitted = true
	return out, nil
}

func (p *Pipeline) stepDone(name, op string, start time.Time) {
	p.logger.Debug("step completed",
		log.StepKey, name,
		log.OperationKey, op,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
}

func (p *Pipeline) stepFailed(name, op string, err error) error {
	p.logger.Error("step failed", err,
		log.StepKey, name,
		log.OperationKey, op,
	)
	return errors.Wrapf(err, "pipeline step %q", name)
}
