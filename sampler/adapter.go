package sampler

import (
	"math"

	"github.com/pkg/errors"

	"github.com/ltjmm/ltjmm/buffer"
	"github.com/ltjmm/ltjmm/model"
)

// lpWindow is the log-posterior window size kept on a Handle.
const lpWindow = 200

// Handle describes one finished sampling run: which artifact ran, with
// what options, and a bounded window over the log-posterior trace.
type Handle struct {
	Variant Variant
	Options Options
	Output  string

	lp *buffer.CircularFloat
}

// Stable compares the mean log-posterior of the older and newer halves of
// the trace window. False also when the run was too short to fill the
// window - a short trace proves nothing.
func (h *Handle) Stable(tol float64) bool {
	older, newer, ok := h.lp.HalfMeans()
	if !ok {
		return false
	}
	return math.Abs(older-newer) <= tol
}

// Run resolves the precompiled variant for cfg and delegates sampling to
// the engine, forwarding opts verbatim. Engine failures come back as
// ErrSampler carrying the engine's diagnostic; there is no retry and no
// recovery here.
func Run(cfg model.Config, data *model.StanData, opts Options, eng Engine) (*Handle, error) {
	v, err := VariantFor(cfg)
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, errors.Errorf("no data payload supplied")
	}
	if eng == nil {
		return nil, errors.Errorf("no engine supplied")
	}

	res, err := eng.Sample(v, data, opts)
	if err != nil {
		return nil, errors.Wrap(ErrSampler, err.Error())
	}

	h := &Handle{
		Variant: v,
		Options: opts,
		Output:  res.Output,
		lp:      buffer.NewCircularFloat(lpWindow),
	}
	for _, lp := range res.LogPosterior {
		h.lp.Add(lp)
	}

	return h, nil
}

// Fit is the whole pipeline: validate the configuration, parse the
// formula, reshape the table, build the payload, and sample. The
// configuration is checked before any reshaping work starts, so a typo in
// random_effects never costs a pass over the data.
func Fit(tbl *model.Table, formula string, cfg model.Config, ro model.ReshapeOptions, opts Options, eng Engine) (*Handle, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	f, err := model.ParseFormula(formula)
	if err != nil {
		return nil, err
	}

	rs, err := model.Reshape(tbl, f, ro)
	if err != nil {
		return nil, err
	}

	data, err := model.BuildStanData(rs, cfg)
	if err != nil {
		return nil, err
	}

	return Run(cfg, data, opts, eng)
}
