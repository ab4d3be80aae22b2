package moarchive

import (
	"log/slog"

	"github.com/hupe1980/moarchive/archive"
	"github.com/hupe1980/moarchive/archive/biobj"
	"github.com/hupe1980/moarchive/archive/constrained"
	"github.com/hupe1980/moarchive/archive/multiobj"
	"github.com/hupe1980/moarchive/scalar"
)

// Option configures archive construction. Re-exported from the archive
// package so that callers only import the root.
type Option = archive.Option

// Re-exported construction options.
var (
	WithPoints         = archive.WithPoints
	WithReferencePoint = archive.WithReferencePoint
	WithInfos          = archive.WithInfos
	WithConstraints    = archive.WithConstraints
	WithNumObjectives  = archive.WithNumObjectives
	WithPresorted      = archive.WithPresorted
	WithScalars        = archive.WithScalars
	WithWeights        = archive.WithWeights
	WithIdealPoint     = archive.WithIdealPoint
	WithTau            = archive.WithTau
	WithMaxGValues     = archive.WithMaxGValues
	WithLogger         = archive.WithLogger
	WithSelfChecks     = archive.WithSelfChecks
)

// New creates a non-dominated archive of the dimensionality implied by
// WithNumObjectives, the reference point, or the first initial point, in
// that order. Two objectives select the sorted-list implementation,
// three and four the dimension-sweep implementation.
func New(optFns ...Option) (archive.Archive, error) {
	o := archive.Apply(optFns...)

	nObj := o.NumObjectives
	if nObj == 0 && o.ReferencePoint != nil {
		nObj = len(o.ReferencePoint)
	}
	if nObj == 0 && len(o.Points) > 0 {
		nObj = len(o.Points[0])
	}

	switch nObj {
	case 2:
		return biobj.New(o.Points, optFns...)
	case 3, 4:
		return multiobj.New(o.Points, append([]Option{archive.WithNumObjectives(nObj)}, optFns...)...)
	default:
		return nil, &archive.ErrArity{Expected: 2, Actual: nObj}
	}
}

// NewConstrained creates a constrained archive wrapping the
// implementation New would select. Initial points require matching
// constraint vectors via WithConstraints.
func NewConstrained(optFns ...Option) (*constrained.Archive, error) {
	return constrained.New(optFns...)
}

// NewLogger creates a text logger to stderr for use with WithLogger.
func NewLogger(level slog.Level) *slog.Logger { return archive.NewLogger(level) }

// Exported error kinds; see the archive package for the typed errors.
var (
	ErrNoReferencePoint = archive.ErrNoReferencePoint
	ErrInconsistent     = archive.ErrInconsistent
)

// Scalar kinds for WithScalars.
var (
	ScalarFloat64 = scalar.Float64
	ScalarExact   = scalar.Exact
)
