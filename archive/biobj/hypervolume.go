package biobj

import (
	"math"

	"github.com/hupe1980/moarchive/archive"
	"github.com/hupe1980/moarchive/scalar"
)

// Hypervolume returns the cached hypervolume with respect to the
// reference point, rescaled by the normalization factor.
func (a *Archive) Hypervolume() (scalar.Value, error) {
	if a.ref == nil {
		return nil, archive.ErrNoReferencePoint
	}
	return a.scaleHV(a.final, a.hv), nil
}

// HypervolumePlus returns the uncrowded hypervolume indicator: the
// hypervolume when the archive is non-empty, otherwise the negated
// distance to the reference domain of the closest pair offered since the
// archive last became empty (negative infinity when none was).
func (a *Archive) HypervolumePlus() (float64, error) {
	if a.ref == nil {
		return 0, archive.ErrNoReferencePoint
	}
	if len(a.pts) > 0 {
		return a.norm.Factor() * a.final.Float64(a.hv), nil
	}
	return a.hvPlusDist, nil
}

// ComputeHypervolume computes the hypervolume from scratch with respect
// to an alternative reference point, without normalization.
func (a *Archive) ComputeHypervolume(ref []float64) (scalar.Value, error) {
	if len(ref) != 2 {
		return nil, &archive.ErrArity{Expected: 2, Actual: len(ref)}
	}
	return a.computeHypervolumeRaw(pair{ref[0], ref[1]}), nil
}

// computeHypervolumeRaw walks the staircase left to right, adding the
// full rectangle of the first in-domain element and a strip per element
// after it.
func (a *Archive) computeHypervolumeRaw(ref pair) scalar.Value {
	c := a.comp.FromFloat64
	hv := a.final.Zero()
	idx := 0
	for idx < len(a.pts) && !a.inDomain(a.pts[idx], &ref) {
		idx++
	}
	if idx < len(a.pts) {
		rect := a.comp.Mul(
			a.comp.Sub(c(ref[0]), c(a.pts[idx][0])),
			a.comp.Sub(c(ref[1]), c(a.pts[idx][1])),
		)
		hv = a.final.Add(hv, scalar.Convert(a.final, rect))
		idx++
	}
	for idx < len(a.pts) && a.inDomain(a.pts[idx], &ref) {
		strip := a.comp.Mul(
			a.comp.Sub(c(ref[0]), c(a.pts[idx][0])),
			a.comp.Sub(c(a.pts[idx-1][1]), c(a.pts[idx][1])),
		)
		hv = a.final.Add(hv, scalar.Convert(a.final, strip))
		idx++
	}
	return hv
}

// setHV recomputes the cached hypervolume from scratch.
func (a *Archive) setHV() {
	if a.ref == nil {
		return
	}
	a.hv = a.computeHypervolumeRaw(*a.ref)
}

// contribRaw returns the unnormalized contribution of element idx in the
// computation kind. The reference point must be set.
func (a *Archive) contribRaw(idx int) scalar.Value {
	c := a.comp.FromFloat64
	y := a.ref[1]
	if idx > 0 {
		y = a.pts[idx-1][1]
	}
	x := a.ref[0]
	if idx < len(a.pts)-1 {
		x = a.pts[idx+1][0]
	}
	return a.comp.Mul(
		a.comp.Sub(c(x), c(a.pts[idx][0])),
		a.comp.Sub(c(y), c(a.pts[idx][1])),
	)
}

// ContributingHypervolume returns the exact contribution of element idx,
// rescaled by the normalization factor.
func (a *Archive) ContributingHypervolume(idx int) (scalar.Value, error) {
	if a.ref == nil {
		return nil, archive.ErrNoReferencePoint
	}
	if idx < 0 || idx >= len(a.pts) {
		return nil, &archive.ErrIndexOutOfRange{Index: idx, Len: len(a.pts)}
	}
	return a.scaleHV(a.comp, a.contribRaw(idx)), nil
}

// ContributingHypervolumes returns the per-element contributions in
// archive order.
func (a *Archive) ContributingHypervolumes() ([]scalar.Value, error) {
	if a.ref == nil {
		return nil, archive.ErrNoReferencePoint
	}
	out := make([]scalar.Value, len(a.pts))
	for i := range a.pts {
		out[i] = a.scaleHV(a.comp, a.contribRaw(i))
	}
	return out, nil
}

// ContributingHypervolumeOf returns the contribution of the resident
// equal to f, or its uncrowded hypervolume improvement when f is not
// resident.
func (a *Archive) ContributingHypervolumeOf(f []float64) (scalar.Value, error) {
	if len(f) != 2 {
		return nil, &archive.ErrArity{Expected: 2, Actual: len(f)}
	}
	if idx, ok := a.Index(f); ok {
		return a.ContributingHypervolume(idx)
	}
	return a.HypervolumeImprovement(f)
}

// HypervolumeImprovement returns the signed uncrowded hypervolume
// improvement of f. For a weakly dominated or out-of-domain pair it is
// the negated squared weighted distance to the boundary of the dominated
// region; otherwise the exact hypervolume increase adding f would
// produce, rescaled by the normalization factor.
//
// The increase is computed on a private sublist covering just the span
// of residents f would dominate, so small differences between large
// hypervolumes are never formed.
func (a *Archive) HypervolumeImprovement(f []float64) (scalar.Value, error) {
	if len(f) != 2 {
		return nil, &archive.ErrArity{Expected: 2, Actual: len(f)}
	}
	if a.ref == nil {
		return nil, archive.ErrNoReferencePoint
	}
	if d2 := a.distanceToFrontSquared(f); d2 != 0 {
		return a.comp.FromFloat64(-d2), nil
	}
	p := pair{f[0], f[1]}
	i0 := a.bisectLeft(p, 0)
	i1 := i0
	for i1 < len(a.pts) && p[1] <= a.pts[i1][1] {
		i1++
	}
	r0 := a.ref[0]
	if i1 < len(a.pts) {
		r0 = a.pts[i1][0]
	}
	r1 := a.ref[1]
	if i0 > 0 {
		r1 = a.pts[i0-1][1]
	}
	sub := &Archive{
		pts:        append([]pair(nil), a.pts[i0:i1]...),
		infos:      make([]any, i1-i0),
		ref:        &pair{r0, r1},
		comp:       a.comp,
		final:      a.final,
		hvPlusDist: math.Inf(-1),
		norm:       newUnitNormalizer(pair{r0, r1}),
		logger:     a.logger,
	}
	sub.setHV()
	hv0 := sub.hv
	if _, _, _, _, err := sub.insertOne(f, nil, 0); err != nil {
		return nil, err
	}
	res := a.comp.Sub(scalar.Convert(a.comp, sub.hv), scalar.Convert(a.comp, hv0))
	return a.scaleHV(a.comp, res), nil
}

// scaleHV applies the normalization factor to a hypervolume-flavored
// value, keeping exact values untouched for the all-ones default.
func (a *Archive) scaleHV(arith scalar.Arithmetic, v scalar.Value) scalar.Value {
	if f := a.norm.Factor(); f != 1 {
		return arith.Mul(v, arith.FromFloat64(f))
	}
	return v
}

// addHV folds the contribution of the freshly placed element idx into the
// cached hypervolume.
func (a *Archive) addHV(idx int) {
	if a.ref == nil {
		return
	}
	dHV := a.contribRaw(idx)
	if hv := a.final.Float64(a.hv); a.floatKinds() && hv != 0 &&
		math.Abs(a.comp.Float64(dHV))/hv < 1e-9 {
		a.logger.Warn("adding a tiny contribution to the hypervolume loses precision",
			"delta", a.comp.Float64(dHV), "hypervolume", hv, "len", len(a.pts))
	}
	a.hv = a.final.Add(a.hv, scalar.Convert(a.final, dHV))
}

// subtractHV removes the area of the run pts[idx0:idx1] from the cached
// hypervolume. The run is a contiguous block about to be evicted; its
// lost area is the strip below the left kept neighbour, not the sum of
// the individual contributions.
func (a *Archive) subtractHV(idx0, idx1 int) {
	if a.ref == nil {
		return
	}
	if idx1-idx0 == len(a.pts) {
		a.hv = a.final.Zero()
		return
	}
	c := a.comp.FromFloat64
	y := a.ref[1]
	if idx0 > 0 {
		y = a.pts[idx0-1][1]
	}
	dHV := a.comp.Zero()
	for idx := idx0; idx < idx1; idx++ {
		x := a.ref[0]
		if idx < len(a.pts)-1 {
			x = a.pts[idx+1][0]
		}
		dHV = a.comp.Sub(dHV, a.comp.Mul(
			a.comp.Sub(c(x), c(a.pts[idx][0])),
			a.comp.Sub(c(y), c(a.pts[idx][1])),
		))
	}
	if hv := a.final.Float64(a.hv); a.floatKinds() && hv != 0 &&
		math.Abs(a.comp.Float64(dHV))/hv < 1e-9 {
		a.logger.Warn("subtracting a tiny area from the hypervolume loses precision",
			"delta", a.comp.Float64(dHV), "hypervolume", hv, "len", len(a.pts))
	}
	a.hv = a.final.Add(a.hv, scalar.Convert(a.final, dHV))
	if a.final.CmpFloat64(a.hv, 0) < 0 {
		a.logger.Warn("hypervolume became negative after subtraction",
			"hypervolume", a.final.Float64(a.hv), "len", len(a.pts))
	}
}

func (a *Archive) floatKinds() bool {
	return a.final.Name() == "float64"
}
