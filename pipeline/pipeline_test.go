package pipeline

import (
	"testing"

	"github.com/YuminosukeSato/purepremium/core/frame"
	"github.com/YuminosukeSato/purepremium/pkg/errors"
	"github.com/YuminosukeSato/purepremium/pkg/log"
	"github.com/YuminosukeSato/purepremium/preprocessing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func motorFrame(t *testing.T, amounts []float64) *frame.Frame {
	t.Helper()
	n := len(amounts)
	bm := make([]float64, n)
	density := make([]float64, n)
	area := make([]string, n)
	for i := range amounts {
		bm[i] = float64(50 + 10*i)
		density[i] = float64(100 * (i + 1))
		area[i] = string(rune('A' + i%6))
	}
	f := frame.New()
	require.NoError(t, f.AddNumeric("ClaimAmount", amounts))
	require.NoError(t, f.AddNumeric("BonusMalus", bm))
	require.NoError(t, f.AddNumeric("Density", density))
	require.NoError(t, f.AddCategorical("Area", area))
	return f
}

type panicking struct{}

func (panicking) FitFrame(*frame.Frame) error { panic("boom") }
func (panicking) TransformFrame(f *frame.Frame) (*frame.Frame, error) {
	return f, nil
}
func (panicking) FitTransformFrame(*frame.Frame) (*frame.Frame, error) { panic("boom") }

func newPricingPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New([]Step{
		{Name: "winsorize", Transformer: OnColumns([]string{"ClaimAmount"}, preprocessing.NewWinsorizer(0, 0.75))},
		{Name: "scale", Transformer: OnColumns([]string{"BonusMalus", "Density"}, preprocessing.NewStandardScalerDefault())},
	}, opts...)
	require.NoError(t, err)
	return p
}

func TestPipelineFitTransform(t *testing.T) {
	train := motorFrame(t, []float64{0, 100, 200, 300, 10000})
	p := newPricingPipeline(t)

	out, err := p.FitTransform(train)
	require.NoError(t, err)
	assert.True(t, p.IsFitted())
	assert.Equal(t, []string{"ClaimAmount", "BonusMalus", "Density", "Area"}, out.Names())

	amounts, _ := out.Column("ClaimAmount")
	assert.Equal(t, []float64{0, 100, 200, 300, 300}, amounts.Floats())

	bm, _ := out.Column("BonusMalus")
	assert.InDelta(t, 0, bm.Float(2), 1e-12)

	area, _ := out.Column("Area")
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, area.Strings())

	orig, _ := train.Column("ClaimAmount")
	assert.Equal(t, 10000.0, orig.Float(4))
}

func TestPipelineTransformAppliesTrainBounds(t *testing.T) {
	p := newPricingPipeline(t)
	require.NoError(t, p.Fit(motorFrame(t, []float64{0, 100, 200, 300, 10000})))

	out, err := p.Transform(motorFrame(t, []float64{-5, 5000}))
	require.NoError(t, err)
	amounts, _ := out.Column("ClaimAmount")
	assert.Equal(t, []float64{0, 300}, amounts.Floats())

	fitted, ok := p.Step("winsorize")
	require.True(t, ok)
	assert.NotNil(t, fitted)
	_, ok = p.Step("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"winsorize", "scale"}, p.Names())
}

func TestPipelineFitMatchesFitTransform(t *testing.T) {
	train := motorFrame(t, []float64{1, 2, 3, 4, 5, 6})

	a := newPricingPipeline(t)
	outA, err := a.FitTransform(train)
	require.NoError(t, err)

	b := newPricingPipeline(t)
	require.NoError(t, b.Fit(train))
	outB, err := b.Transform(train)
	require.NoError(t, err)

	for _, name := range outA.Names() {
		ca, _ := outA.Column(name)
		cb, _ := outB.Column(name)
		assert.Equal(t, ca.Floats(), cb.Floats(), name)
	}
}

func TestPipelineNotFitted(t *testing.T) {
	p := newPricingPipeline(t)
	_, err := p.Transform(motorFrame(t, []float64{1}))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestNewRejectsBadSteps(t *testing.T) {
	w := preprocessing.NewWinsorizerDefault()

	_, err := New([]Step{{Name: "", Transformer: w}})
	assert.Error(t, err)

	_, err = New([]Step{{Name: "a", Transformer: w}, {Name: "a", Transformer: w}})
	var cfgErr *errors.InvalidConfigError
	assert.True(t, errors.As(err, &cfgErr))

	_, err = New([]Step{{Name: "a"}})
	assert.Error(t, err)
}

func TestPipelineStepErrorIsWrapped(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	p, err := New([]Step{
		{Name: "scale", Transformer: OnColumns([]string{"VehPower"}, preprocessing.NewStandardScalerDefault())},
	}, WithLogger(logger))
	require.NoError(t, err)

	err = p.Fit(motorFrame(t, []float64{1, 2}))
	var inputErr *errors.InvalidInputError
	require.True(t, errors.As(err, &inputErr))
	assert.Contains(t, err.Error(), `pipeline step "scale"`)
	assert.False(t, p.IsFitted())
	assert.True(t, logger.ContainsField(log.StepKey, "scale"))
	assert.True(t, logger.ContainsMessage("step failed"))
}

func TestPipelineRecoversPanics(t *testing.T) {
	p, err := New([]Step{{Name: "bad", Transformer: panicking{}}})
	require.NoError(t, err)

	err = p.Fit(motorFrame(t, []float64{1}))
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "Pipeline.Fit", panicErr.Operation)
	assert.Equal(t, "boom", panicErr.PanicValue)

	_, err = p.FitTransform(motorFrame(t, []float64{1}))
	assert.True(t, errors.As(err, &panicErr))
}

func TestEmptyPipelineCopiesInput(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	in := motorFrame(t, []float64{1, 2})
	out, err := p.FitTransform(in)
	require.NoError(t, err)
	require.NoError(t, out.AddNumeric("ClaimAmount", []float64{0, 0}))

	orig, _ := in.Column("ClaimAmount")
	assert.Equal(t, []float64{1, 2}, orig.Floats())
}

func TestOnColumnsRequiresColumns(t *testing.T) {
	step := OnColumns(nil, preprocessing.NewWinsorizerDefault())
	var cfgErr *errors.InvalidConfigError
	assert.True(t, errors.As(step.FitFrame(motorFrame(t, []float64{1})), &cfgErr))
}

func TestPipelineFailedRefitLeavesPipelineUnfitted(t *testing.T) {
	noDensity := func(t *testing.T) *frame.Frame {
		t.Helper()
		f := frame.New()
		require.NoError(t, f.AddNumeric("ClaimAmount", []float64{0, 1, 2}))
		require.NoError(t, f.AddNumeric("BonusMalus", []float64{50, 60, 70}))
		return f
	}

	t.Run("fit", func(t *testing.T) {
		p := newPricingPipeline(t)
		require.NoError(t, p.Fit(motorFrame(t, []float64{0, 100, 200, 300, 10000})))
		require.True(t, p.IsFitted())

		require.Error(t, p.Fit(noDensity(t)))
		assert.False(t, p.IsFitted())

		_, err := p.Transform(motorFrame(t, []float64{1, 2}))
		var nfErr *errors.NotFittedError
		assert.True(t, errors.As(err, &nfErr), "got %v", err)
	})

	t.Run("fit_transform", func(t *testing.T) {
		p := newPricingPipeline(t)
		_, err := p.FitTransform(motorFrame(t, []float64{0, 100, 200, 300, 10000}))
		require.NoError(t, err)

		_, err = p.FitTransform(noDensity(t))
		require.Error(t, err)
		assert.False(t, p.IsFitted())
	})
}
