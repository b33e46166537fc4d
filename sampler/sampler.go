package sampler

import (
	"github.com/pkg/errors"

	"github.com/ltjmm/ltjmm/model"
)

// Error kinds for the adapter boundary.
var (
	// ErrUnsupportedVariant - no precompiled model artifact matches the
	// requested (latent time, random effects) pair.
	ErrUnsupportedVariant = errors.New("unsupported model variant")

	// ErrSampler - the external engine failed; the message carries the
	// engine's own diagnostic unchanged. Never retried here.
	ErrSampler = errors.New("sampler error")
)

// Variant enumerates the four precompiled model artifacts shipped with the
// external engine. Resolution from a Config happens exactly once, before
// sampling starts.
type Variant int

const (
	LatentTimeUnivariate Variant = iota
	LatentTimeMultivariate
	FixedTimeUnivariate
	FixedTimeMultivariate
)

// String returns the artifact name the engine knows the variant by.
func (v Variant) String() string {
	switch v {
	case LatentTimeUnivariate:
		return "ltjmm_univariate"
	case LatentTimeMultivariate:
		return "ltjmm_multivariate"
	case FixedTimeUnivariate:
		return "jmm_univariate"
	case FixedTimeMultivariate:
		return "jmm_multivariate"
	}
	return "unknown"
}

// VariantFor maps a model configuration to its precompiled artifact. An
// unmatchable configuration fails with ErrUnsupportedVariant.
func VariantFor(cfg model.Config) (Variant, error) {
	switch {
	case cfg.LatentTime && cfg.RandomEffects == model.REUnivariate:
		return LatentTimeUnivariate, nil
	case cfg.LatentTime && cfg.RandomEffects == model.REMultivariate:
		return LatentTimeMultivariate, nil
	case !cfg.LatentTime && cfg.RandomEffects == model.REUnivariate:
		return FixedTimeUnivariate, nil
	case !cfg.LatentTime && cfg.RandomEffects == model.REMultivariate:
		return FixedTimeMultivariate, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedVariant,
		"no precompiled variant for lt=%v random_effects=%q", cfg.LatentTime, cfg.RandomEffects)
}

// Options are sampling controls forwarded verbatim to the external engine.
// The adapter interprets none of them.
type Options struct {
	Chains int   // parallel chain count
	Warmup int   // warmup iterations per chain
	Iter   int   // post-warmup sampling iterations per chain
	Thin   int   // keep every thin-th draw
	Cores  int   // engine-side parallelism
	Seed   int64 // engine RNG seed
}

// DefaultOptions match the engine's own defaults.
func DefaultOptions() Options {
	return Options{
		Chains: 4,
		Warmup: 1000,
		Iter:   1000,
		Thin:   1,
		Cores:  1,
		Seed:   1,
	}
}

// Result is what the external engine reports back: the pooled post-warmup
// log-posterior trace and any console diagnostics. Draw storage beyond
// this is the engine's concern.
type Result struct {
	LogPosterior []float64
	Output       string
}

// Engine is the external probabilistic-programming engine. Sampling is a
// single blocking call with no cancellation support in this core; callers
// needing cancellation supervise the engine process themselves.
type Engine interface {
	Sample(v Variant, data *model.StanData, opts Options) (*Result, error)
}
