package sampler

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ltjmm/ltjmm/model"
)

// fakeEngine records what it was asked to run and replays a canned result.
type fakeEngine struct {
	calls   int
	variant Variant
	opts    Options
	result  *Result
	err     error
}

func (f *fakeEngine) Sample(v Variant, data *model.StanData, opts Options) (*Result, error) {
	f.calls++
	f.variant = v
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func tinyData(t *testing.T) *model.StanData {
	d := &model.StanData{
		N:              2,
		S:              1,
		K:              2,
		P:              1,
		Subject:        []int{1, 1},
		Outcome:        []int{1, 2},
		Time:           []float64{0, 0},
		Y:              []float64{1.5, 2.5},
		X:              mat.NewDense(2, 1, []float64{1, 1}),
		RowsPerOutcome: []int{1, 1},
	}
	return d
}

func TestVariantFor(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		lt   bool
		re   string
		want Variant
		name string
	}{
		{true, model.REUnivariate, LatentTimeUnivariate, "ltjmm_univariate"},
		{true, model.REMultivariate, LatentTimeMultivariate, "ltjmm_multivariate"},
		{false, model.REUnivariate, FixedTimeUnivariate, "jmm_univariate"},
		{false, model.REMultivariate, FixedTimeMultivariate, "jmm_multivariate"},
	}

	for _, c := range cases {
		v, err := VariantFor(model.Config{LatentTime: c.lt, RandomEffects: c.re})
		assert.NoError(err)
		assert.Equal(c.want, v)
		assert.Equal(c.name, v.String())
	}

	_, err := VariantFor(model.Config{LatentTime: true, RandomEffects: "banana"})
	assert.ErrorIs(err, ErrUnsupportedVariant)
}

func TestRunForwardsVerbatim(t *testing.T) {
	assert := assert.New(t)

	eng := &fakeEngine{result: &Result{LogPosterior: []float64{-10, -9, -9.5}}}
	opts := Options{Chains: 3, Warmup: 250, Iter: 500, Thin: 2, Cores: 3, Seed: 77}

	h, err := Run(model.DefaultConfig(), tinyData(t), opts, eng)
	require.NoError(t, err)

	assert.Equal(1, eng.calls)
	assert.Equal(LatentTimeUnivariate, eng.variant)
	assert.Equal(opts, eng.opts)
	assert.Equal(opts, h.Options)

	// Too few draws to fill the trace window - never "stable"
	assert.False(h.Stable(100.0))
}

func TestRunSamplerError(t *testing.T) {
	assert := assert.New(t)

	eng := &fakeEngine{err: errors.New("divergent transitions after warmup")}
	h, err := Run(model.DefaultConfig(), tinyData(t), DefaultOptions(), eng)
	assert.Nil(h)
	assert.ErrorIs(err, ErrSampler)
	assert.Contains(err.Error(), "divergent transitions")
}

func TestRunUnsupported(t *testing.T) {
	assert := assert.New(t)

	eng := &fakeEngine{result: &Result{}}
	cfg := model.Config{LatentTime: true, RandomEffects: "neither"}

	h, err := Run(cfg, tinyData(t), DefaultOptions(), eng)
	assert.Nil(h)
	assert.ErrorIs(err, ErrUnsupportedVariant)
	assert.Equal(0, eng.calls)
}

func TestHandleStable(t *testing.T) {
	assert := assert.New(t)

	lp := make([]float64, lpWindow)
	for i := range lp {
		lp[i] = -100.0
	}
	eng := &fakeEngine{result: &Result{LogPosterior: lp}}

	h, err := Run(model.DefaultConfig(), tinyData(t), DefaultOptions(), eng)
	require.NoError(t, err)
	assert.True(h.Stable(0.01))
}

func TestFitConfigFirst(t *testing.T) {
	assert := assert.New(t)

	// A bad configuration must fail before any reshaping or sampling. The
	// nil table proves no data work happened.
	eng := &fakeEngine{result: &Result{}}
	cfg := model.Config{LatentTime: true, RandomEffects: "typo"}

	h, err := Fit(nil, "y ~ t | 1 | id | test", cfg, model.ReshapeOptions{}, DefaultOptions(), eng)
	assert.Nil(h)
	assert.ErrorIs(err, model.ErrIncompatibleConfiguration)
	assert.Equal(0, eng.calls)
}

func TestFitPipeline(t *testing.T) {
	assert := assert.New(t)

	tbl := model.NewTable()
	require.NoError(t, tbl.AddString("id", []string{"a", "a", "b", "b"}))
	require.NoError(t, tbl.AddString("test", []string{"x", "y", "x", "y"}))
	require.NoError(t, tbl.AddNumeric("t", []float64{0, 0, 1, 1}))
	require.NoError(t, tbl.AddNumeric("y", []float64{1, 2, 3, 4}))

	eng := &fakeEngine{result: &Result{LogPosterior: []float64{-5}}}
	h, err := Fit(tbl, "y ~ t | 1 | id | test", model.DefaultConfig(), model.ReshapeOptions{}, DefaultOptions(), eng)
	require.NoError(t, err)

	assert.Equal(1, eng.calls)
	assert.Equal(LatentTimeUnivariate, h.Variant)

	// Bad formula and bad columns surface their own kinds, engine untouched
	eng = &fakeEngine{result: &Result{}}
	_, err = Fit(tbl, "y ~ t | 1 | id", model.DefaultConfig(), model.ReshapeOptions{}, DefaultOptions(), eng)
	assert.ErrorIs(err, model.ErrMalformedFormula)
	_, err = Fit(tbl, "y ~ t | 1 | nope | test", model.DefaultConfig(), model.ReshapeOptions{}, DefaultOptions(), eng)
	assert.ErrorIs(err, model.ErrUnresolvedColumn)
	assert.Equal(0, eng.calls)
}
