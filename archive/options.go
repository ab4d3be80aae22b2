package archive

import (
	"log/slog"

	"github.com/hupe1980/moarchive/scalar"
)

// Options holds the construction-time configuration shared by all archive
// implementations. The zero value is not usable; start from DefaultOptions.
type Options struct {
	// ReferencePoint closes the dominated region. Immutable after
	// construction; nil disables hypervolume bookkeeping.
	ReferencePoint []float64

	// Points is the initial list of objective vectors (used by the factory;
	// the concrete constructors take the list positionally).
	Points [][]float64

	// Infos carries one opaque payload per initial point.
	Infos []any

	// Constraints carries one constraint vector per initial point
	// (constrained wrapper only).
	Constraints [][]float64

	// NumObjectives fixes the dimensionality when neither points nor a
	// reference point are given.
	NumObjectives int

	// Presorted marks the initial point list as already sorted by the
	// first objective, skipping the construction sort.
	Presorted bool

	// Computation is the scalar kind used for hypervolume deltas.
	Computation scalar.Arithmetic

	// Final is the scalar kind used to materialize indicator values.
	Final scalar.Arithmetic

	// Weights are the normalization weights, applied at indicator read
	// time.
	Weights []float64

	// IdealPoint is the normalization ideal point.
	IdealPoint []float64

	// Tau is the feasibility threshold of the constrained indicator.
	Tau float64

	// MaxGValues normalizes constraint violations per constraint
	// (constrained wrapper only).
	MaxGValues []float64

	// Logger receives warnings about precision loss and stale indicators.
	Logger *slog.Logger

	// SelfChecks enables the expensive invariant sweep after every
	// mutation. Violations panic with ErrInconsistent.
	SelfChecks bool
}

// DefaultOptions returns the baseline configuration: float64 scalars,
// tau 1, discarded logger.
func DefaultOptions() Options {
	return Options{
		Computation: scalar.Float64,
		Final:       scalar.Float64,
		Tau:         1,
		Logger:      NoopLogger(),
	}
}

// Option configures archive construction.
type Option func(*Options)

// WithReferencePoint sets the reference point.
func WithReferencePoint(r ...float64) Option {
	return func(o *Options) { o.ReferencePoint = r }
}

// WithPoints sets the initial objective vectors (factory use).
func WithPoints(fs [][]float64) Option {
	return func(o *Options) { o.Points = fs }
}

// WithInfos sets the payloads for the initial objective vectors.
func WithInfos(infos []any) Option {
	return func(o *Options) { o.Infos = infos }
}

// WithConstraints sets the constraint vectors for the initial objective
// vectors (constrained wrapper only).
func WithConstraints(gs [][]float64) Option {
	return func(o *Options) { o.Constraints = gs }
}

// WithNumObjectives fixes the dimensionality explicitly.
func WithNumObjectives(n int) Option {
	return func(o *Options) { o.NumObjectives = n }
}

// WithPresorted marks the initial list as sorted by the first objective.
func WithPresorted() Option {
	return func(o *Options) { o.Presorted = true }
}

// WithScalars selects the computation and final scalar kinds. Passing nil
// keeps the respective default.
func WithScalars(computation, final scalar.Arithmetic) Option {
	return func(o *Options) {
		if computation != nil {
			o.Computation = computation
		}
		if final != nil {
			o.Final = final
		}
	}
}

// WithWeights sets the normalization weights.
func WithWeights(w ...float64) Option {
	return func(o *Options) { o.Weights = w }
}

// WithIdealPoint sets the normalization ideal point.
func WithIdealPoint(z ...float64) Option {
	return func(o *Options) { o.IdealPoint = z }
}

// WithTau sets the feasibility threshold of the constrained indicator.
func WithTau(tau float64) Option {
	return func(o *Options) { o.Tau = tau }
}

// WithMaxGValues sets the per-constraint violation normalizers.
func WithMaxGValues(maxg ...float64) Option {
	return func(o *Options) { o.MaxGValues = maxg }
}

// WithLogger sets the logger. Passing nil keeps the no-op default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithSelfChecks toggles the diagnostic invariant sweep.
func WithSelfChecks(enabled bool) Option {
	return func(o *Options) { o.SelfChecks = enabled }
}

// Apply returns DefaultOptions with all option functions applied.
func Apply(optFns ...Option) Options {
	o := DefaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
