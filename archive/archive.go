// Package archive defines the contract shared by the 2-, 3- and
// 4-objective non-dominated archives, together with the construction-time
// options and error kinds. Implementations live in the biobj and multiobj
// subpackages; the constrained subpackage wraps any of them.
package archive

import (
	"github.com/hupe1980/moarchive/scalar"
)

// Archive is a set of mutually non-dominated objective vectors with
// incrementally maintained hypervolume indicators.
//
// Mutating operations require exclusive access. For the bi-objective
// implementation the query operations may run concurrently with each other
// on a quiescent archive; the 3D/4D implementation uses per-node scratch
// state during hypervolume sweeps, so there only Len, Points, Infos,
// Contains, Dominates, Dominators, CountDominators and InDomain are safe
// for concurrent reads.
type Archive interface {
	// Len returns the number of resident objective vectors.
	Len() int

	// NumObjectives returns the objective count k (2, 3 or 4).
	NumObjectives() int

	// ReferencePoint returns a copy of the reference point, or nil when
	// none was given at construction.
	ReferencePoint() []float64

	// Points returns the resident vectors in archive order.
	Points() [][]float64

	// Infos returns the per-element payloads, aligned with Points.
	Infos() []any

	// Discarded returns the vectors evicted by the most recent mutating
	// call.
	Discarded() [][]float64

	// Contains reports whether f is resident.
	Contains(f []float64) bool

	// Add inserts f unless it is weakly dominated or out of domain; those
	// cases are successful no-ops reporting false.
	Add(f []float64, info any) (bool, error)

	// AddList inserts a batch of vectors (unsorted) and returns the number
	// actually inserted. Discarded accumulates across the whole batch.
	AddList(fs [][]float64, infos []any) (int, error)

	// Remove deletes the resident vector equal to f and returns its info.
	Remove(f []float64) (any, error)

	// Clear empties the archive, keeping reference point and configuration.
	Clear()

	// Dominates reports whether some resident weakly dominates f.
	Dominates(f []float64) bool

	// Dominators returns the residents weakly dominating f, in archive
	// order.
	Dominators(f []float64) [][]float64

	// CountDominators returns len(Dominators(f)) without building the list.
	CountDominators(f []float64) int

	// InDomain reports whether f is strictly below the reference point in
	// every objective. Always true without a reference point.
	InDomain(f []float64) bool

	// Hypervolume returns the (normalized) hypervolume of the archive with
	// respect to the reference point.
	Hypervolume() (scalar.Value, error)

	// HypervolumePlus returns the uncrowded hypervolume indicator: the
	// hypervolume when the archive is non-empty, otherwise the negated
	// distance to the reference domain of the closest vector offered since
	// the archive last became empty (negative infinity when none was).
	HypervolumePlus() (float64, error)

	// ContributingHypervolumes returns the per-element hypervolume
	// contributions in archive order.
	ContributingHypervolumes() ([]scalar.Value, error)

	// ContributingHypervolumeOf returns the contribution of the resident
	// equal to f, or HypervolumeImprovement(f) when f is not resident.
	ContributingHypervolumeOf(f []float64) (scalar.Value, error)

	// HypervolumeImprovement returns the uncrowded hypervolume improvement
	// of f: the hypervolume increase adding f would produce, or, for a
	// dominated f, the negated squared distance to the Pareto front.
	HypervolumeImprovement(f []float64) (scalar.Value, error)

	// DistanceToParetoFront returns the Euclidean distance from f to the
	// boundary of the dominated region (zero for non-dominated in-domain f).
	DistanceToParetoFront(f []float64) float64

	// DistanceToHypervolumeArea returns the Euclidean distance from f to
	// the rectangle dominated by the reference point.
	DistanceToHypervolumeArea(f []float64) float64

	// Weights returns the normalization weights (all ones by default).
	Weights() []float64

	// SetWeights replaces the normalization weights.
	SetWeights(w []float64) error

	// IdealPoint returns the normalization ideal point, or nil.
	IdealPoint() []float64

	// SetIdealPoint sets the normalization ideal point. Requires a
	// reference point with z strictly below it in every objective.
	SetIdealPoint(z []float64) error
}
