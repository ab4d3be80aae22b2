package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReferencePoint is returned when a hypervolume-based indicator is
	// requested from an archive that was constructed without a reference
	// point.
	ErrNoReferencePoint = errors.New("no reference point (must be given at construction)")

	// ErrInconsistent reports an internal invariant violation detected by
	// the diagnostic self-check. It is always a bug and is raised as a
	// panic, never returned.
	ErrInconsistent = errors.New("inconsistent archive state")
)

// ErrArity indicates an objective or constraint vector of the wrong length.
type ErrArity struct {
	Expected int
	Actual   int
}

func (e *ErrArity) Error() string {
	return fmt.Sprintf("arity mismatch: need vectors of length %d, got %d", e.Expected, e.Actual)
}

// ErrIndexOutOfRange indicates an integer index beyond the archive length.
type ErrIndexOutOfRange struct {
	Index int
	Len   int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range for archive of length %d", e.Index, e.Len)
}

// ErrNotFound indicates a vector that is not resident in the archive.
type ErrNotFound struct {
	Point []float64
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("point %v not in archive", e.Point)
}

// ErrInvalidIdealPoint indicates an ideal point that is not strictly
// below the reference point in every objective.
type ErrInvalidIdealPoint struct {
	IdealPoint     []float64
	ReferencePoint []float64
}

func (e *ErrInvalidIdealPoint) Error() string {
	return fmt.Sprintf("ideal point %v must be smaller than reference point %v in every objective",
		e.IdealPoint, e.ReferencePoint)
}
