package model

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Random-effects structure constant strings - match the precompiled model
// variants of the external sampler.
const (
	REUnivariate   = "univariate"
	REMultivariate = "multivariate"
)

// Config selects the model variant: latent time shift on/off and the
// random-effects structure.
type Config struct {
	LatentTime    bool   // include the per-subject latent time shift
	RandomEffects string // REUnivariate or REMultivariate
}

// DefaultConfig is latent time on with independent random effects.
func DefaultConfig() Config {
	return Config{LatentTime: true, RandomEffects: REUnivariate}
}

// Check returns ErrIncompatibleConfiguration for any value outside the
// supported set. Called before data reshaping so a bad configuration never
// reaches a long-running sampling job.
func (c Config) Check() error {
	if c.RandomEffects != REUnivariate && c.RandomEffects != REMultivariate {
		return errors.Wrapf(ErrIncompatibleConfiguration,
			"random_effects must be %q or %q, found %q", REUnivariate, REMultivariate, c.RandomEffects)
	}
	return nil
}

// StanData is the exact payload the external sampler consumes. Field names
// and shapes are the compatibility boundary with the four precompiled model
// variants - do not rename or reshape without recompiling those.
type StanData struct {
	N int `json:"N"` // total observation rows
	S int `json:"S"` // subject count
	K int `json:"K"` // outcome count
	P int `json:"P"` // fixed-effect covariate count

	Subject []int     `json:"subj"`    // 1-based, len N
	Outcome []int     `json:"outcome"` // 1-based, len N
	Time    []float64 `json:"time"`    // len N
	Y       []float64 `json:"y"`       // len N

	X *mat.Dense `json:"-"` // N x P design matrix

	RowsPerOutcome []int `json:"n_obs"` // len K
}

// BuildStanData assembles the sampler payload from reshaped data. Pure
// deterministic assembly - no randomness, no I/O. The input arrays are
// copied so the payload cannot alias caller state.
func BuildStanData(rs *Reshaped, cfg Config) (*StanData, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	n := len(rs.Y)
	xr, xc := rs.X.Dims()
	if xr != n {
		return nil, errors.Errorf("design matrix has %d rows, response has %d", xr, n)
	}
	if len(rs.Subject) != n || len(rs.Outcome) != n || len(rs.Time) != n {
		return nil, errors.Errorf("index arrays not row-aligned with response (len %d)", n)
	}

	d := &StanData{
		N:              n,
		S:              rs.SubjectCount,
		K:              rs.OutcomeCount,
		P:              xc,
		Subject:        make([]int, n),
		Outcome:        make([]int, n),
		Time:           make([]float64, n),
		Y:              make([]float64, n),
		RowsPerOutcome: make([]int, rs.OutcomeCount),
	}

	copy(d.Subject, rs.Subject)
	copy(d.Outcome, rs.Outcome)
	copy(d.Time, rs.Time)
	copy(d.Y, rs.Y)
	d.X = mat.DenseCopyOf(rs.X)

	for i, k := range d.Outcome {
		if k < 1 || k > d.K {
			return nil, errors.Errorf("outcome index %d at row %d outside [1,%d]", k, i, d.K)
		}
		d.RowsPerOutcome[k-1]++
	}
	for i, s := range d.Subject {
		if s < 1 || s > d.S {
			return nil, errors.Errorf("subject index %d at row %d outside [1,%d]", s, i, d.S)
		}
	}

	return d, nil
}
