package sim

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrDimensionMismatch - simulation parameters whose shapes do not match
// the skeleton's outcome and covariate counts. Raised before any random
// draw is consumed, so a failed call never perturbs the stream of a
// following call with the same seed.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Params holds the generative parameters for one simulation. Every scale
// parameter is a standard deviation, never a variance.
//
// The random-effects structure is selected by RECov: nil means independent
// draws governed by InterceptSD and SlopeSD; non-nil means one joint
// multivariate normal draw per subject with RECov as covariance (those two
// SD vectors are then ignored). The first outcome is the identifiability
// reference under the independent structure: its random intercept is
// identically zero, which is why InterceptSD has K-1 entries covering
// outcomes 2..K.
type Params struct {
	Beta  [][]float64 `yaml:"beta"`  // K x P fixed-effect coefficients
	Slope []float64   `yaml:"slope"` // population time slope, len K

	TimeSD      float64   `yaml:"time_sd"`      // latent time shift scale (0 disables the shift)
	InterceptSD []float64 `yaml:"intercept_sd"` // random intercept scales, len K-1
	SlopeSD     []float64 `yaml:"slope_sd"`     // random slope scales, len K
	ResidSD     []float64 `yaml:"resid_sd"`     // residual scales, len K

	// RECov is the 2K x 2K covariance of the joint random-effect vector
	// (intercepts for outcomes 1..K, then slopes for outcomes 1..K).
	RECov [][]float64 `yaml:"re_cov,omitempty"`
}

// Multivariate reports whether the joint random-effects structure is
// selected.
func (p *Params) Multivariate() bool {
	return p.RECov != nil
}

// Check validates every shape against the skeleton's outcome count k and
// covariate count c. Any problem is ErrDimensionMismatch naming the field.
func (p *Params) Check(k, c int) error {
	if len(p.Beta) != k {
		return errors.Wrapf(ErrDimensionMismatch, "beta has %d rows, want %d outcomes", len(p.Beta), k)
	}
	for i, row := range p.Beta {
		if len(row) != c {
			return errors.Wrapf(ErrDimensionMismatch, "beta row %d has %d coefficients, want %d", i, len(row), c)
		}
	}
	if len(p.Slope) != k {
		return errors.Wrapf(ErrDimensionMismatch, "slope has len %d, want %d", len(p.Slope), k)
	}
	if p.TimeSD < 0 {
		return errors.Wrapf(ErrDimensionMismatch, "time_sd is negative (%f)", p.TimeSD)
	}
	if len(p.ResidSD) != k {
		return errors.Wrapf(ErrDimensionMismatch, "resid_sd has len %d, want %d", len(p.ResidSD), k)
	}
	if err := nonNegative("resid_sd", p.ResidSD); err != nil {
		return err
	}

	if p.Multivariate() {
		if len(p.RECov) != 2*k {
			return errors.Wrapf(ErrDimensionMismatch, "re_cov has %d rows, want %d", len(p.RECov), 2*k)
		}
		for i, row := range p.RECov {
			if len(row) != 2*k {
				return errors.Wrapf(ErrDimensionMismatch, "re_cov row %d has len %d, want %d", i, len(row), 2*k)
			}
		}
		return nil
	}

	if len(p.InterceptSD) != k-1 {
		return errors.Wrapf(ErrDimensionMismatch,
			"intercept_sd has len %d, want %d (first outcome is the fixed reference)", len(p.InterceptSD), k-1)
	}
	if err := nonNegative("intercept_sd", p.InterceptSD); err != nil {
		return err
	}
	if len(p.SlopeSD) != k {
		return errors.Wrapf(ErrDimensionMismatch, "slope_sd has len %d, want %d", len(p.SlopeSD), k)
	}
	return nonNegative("slope_sd", p.SlopeSD)
}

// nonNegative rejects scale vectors with sign errors - a negative standard
// deviation would silently flip the draw
func nonNegative(name string, sds []float64) error {
	for i, sd := range sds {
		if sd < 0 {
			return errors.Wrapf(ErrDimensionMismatch, "%s[%d] is negative (%f)", name, i, sd)
		}
	}
	return nil
}

// LoadParams reads a Params YAML file.
func LoadParams(filename string) (*Params, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not READ params from %s", filename)
	}

	p := &Params{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrapf(err, "could not PARSE params from %s", filename)
	}

	return p, nil
}
