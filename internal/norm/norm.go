// Package norm implements the ideal-point / weights normalization shared
// by all archive implementations. Normalization never mutates stored
// objective vectors; it rescales indicator values at read time.
package norm

import (
	"math"
	"slices"

	"github.com/hupe1980/moarchive/archive"
)

// Normalizer tracks the normalization weights and ideal point of an
// archive with a fixed reference point.
//
// Hypervolume-flavored indicators are multiplied by Factor; distance
// residuals are scaled per axis by Scale.
type Normalizer struct {
	nObj    int
	ref     []float64
	weights []float64
	ideal   []float64
	wip     []float64 // 1/(ref-ideal) per axis, all ones without ideal point
	factor  float64
}

// New returns an all-ones normalizer for nObj objectives. ref may be nil.
func New(nObj int, ref []float64) *Normalizer {
	n := &Normalizer{
		nObj:    nObj,
		ref:     slices.Clone(ref),
		weights: ones(nObj),
		wip:     ones(nObj),
		factor:  1,
	}
	return n
}

// Clone returns an independent copy of n.
func (n *Normalizer) Clone() *Normalizer {
	return &Normalizer{
		nObj:    n.nObj,
		ref:     slices.Clone(n.ref),
		weights: slices.Clone(n.weights),
		ideal:   slices.Clone(n.ideal),
		wip:     slices.Clone(n.wip),
		factor:  n.factor,
	}
}

// Weights returns the current weights.
func (n *Normalizer) Weights() []float64 {
	return slices.Clone(n.weights)
}

// SetWeights replaces the weights and returns the previous value.
func (n *Normalizer) SetWeights(w []float64) ([]float64, error) {
	if len(w) != n.nObj {
		return nil, &archive.ErrArity{Expected: n.nObj, Actual: len(w)}
	}
	prev := n.weights
	n.weights = slices.Clone(w)
	n.update()
	return prev, nil
}

// IdealPoint returns the current ideal point, or nil.
func (n *Normalizer) IdealPoint() []float64 {
	return slices.Clone(n.ideal)
}

// SetIdealPoint sets the ideal point and returns the previous value. It
// requires a reference point with z strictly below it in every objective.
func (n *Normalizer) SetIdealPoint(z []float64) ([]float64, error) {
	if len(z) != n.nObj {
		return nil, &archive.ErrArity{Expected: n.nObj, Actual: len(z)}
	}
	if n.ref == nil {
		return nil, archive.ErrNoReferencePoint
	}
	for i := range z {
		if n.ref[i] <= z[i] {
			return nil, &archive.ErrInvalidIdealPoint{
				IdealPoint:     slices.Clone(z),
				ReferencePoint: slices.Clone(n.ref),
			}
		}
	}
	prev := n.ideal
	n.ideal = slices.Clone(z)
	for i := range z {
		n.wip[i] = 1 / (n.ref[i] - z[i])
	}
	n.update()
	return prev, nil
}

func (n *Normalizer) update() {
	n.factor = 1
	for i := 0; i < n.nObj; i++ {
		n.factor *= n.weights[i] * n.wip[i]
	}
}

// Factor is the volume rescaling applied to hypervolume-flavored
// indicators.
func (n *Normalizer) Factor() float64 { return n.factor }

// Scale is the per-axis rescaling applied to distance residuals.
func (n *Normalizer) Scale(i int) float64 { return n.weights[i] * n.wip[i] }

// DistanceToArea returns the weighted Euclidean distance from f to the
// rectangle dominated by the reference point, zero without one.
func (n *Normalizer) DistanceToArea(f []float64) float64 {
	if n.ref == nil {
		return 0
	}
	var sum float64
	for i := 0; i < n.nObj; i++ {
		d := math.Max(0, f[i]-n.ref[i]) * n.Scale(i)
		sum += d * d
	}
	return math.Sqrt(sum)
}

func ones(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}
