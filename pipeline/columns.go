package pipeline

import (
	"github.com/YuminosukeSato/purepremium/core/frame"
	"github.com/YuminosukeSato/purepremium/core/model"
	"github.com/YuminosukeSato/purepremium/pkg/errors"
)

// columnSubset applies a transformer to a fixed set of columns and merges
// its output back into the full frame.
type columnSubset struct {
	columns     []string
	transformer model.FrameTransformer
}

// OnColumns restricts t to columns. At fit time t sees only those columns;
// at transform time its output replaces them in a copy of the input, and
// any column it adds is appended. Every listed column must be present.
func OnColumns(columns []string, t model.FrameTransformer) model.FrameTransformer {
	return &columnSubset{columns: append([]string(nil), columns...), transformer: t}
}

func (c *columnSubset) FitFrame(f *frame.Frame) error {
	sub, err := c.selectFrom(f)
	if err != nil {
		return err
	}
	return c.transformer.FitFrame(sub)
}

func (c *columnSubset) TransformFrame(f *frame.Frame) (*frame.Frame, error) {
	sub, err := c.selectFrom(f)
	if err != nil {
		return nil, err
	}
	res, err := c.transformer.TransformFrame(sub)
	if err != nil {
		return nil, err
	}
	return c.merge(f, res)
}

func (c *columnSubset) FitTransformFrame(f *frame.Frame) (*frame.Frame, error) {
	sub, err := c.selectFrom(f)
	if err != nil {
		return nil, err
	}
	res, err := c.transformer.FitTransformFrame(sub)
	if err != nil {
		return nil, err
	}
	return c.merge(f, res)
}

func (c *columnSubset) selectFrom(f *frame.Frame) (*frame.Frame, error) {
	if f == nil {
		return nil, errors.NewInvalidInputError("pipeline.OnColumns", "data", "frame must not be nil", nil)
	}
	if len(c.columns) == 0 {
		return nil, errors.NewInvalidConfigError("pipeline.OnColumns", "columns", "at least one column is required", c.columns)
	}
	return f.Select(c.columns...)
}

func (c *columnSubset) merge(f, res *frame.Frame) (*frame.Frame, error) {
	out := f.Clone()
	if err := out.Merge(res); err != nil {
		return nil, err
	}
	return out, nil
}
