package biobj

import (
	"math"

	"github.com/hupe1980/moarchive/internal/norm"
)

func newUnitNormalizer(ref pair) *norm.Normalizer {
	return norm.New(2, []float64{ref[0], ref[1]})
}

// DistanceToParetoFront returns the weighted Euclidean distance from f to
// the boundary of the dominated region, also considering the reference
// domain. Non-dominated in-domain pairs have distance zero.
//
// The distance iterates over the kink points (pts[i+1].f1, pts[i].f2) of
// the staircase; the outer kinks borrow one coordinate from the reference
// point.
func (a *Archive) DistanceToParetoFront(f []float64) float64 {
	return math.Sqrt(a.distanceToFrontSquared(f))
}

// DistanceToHypervolumeArea returns the weighted Euclidean distance from
// f to the rectangle dominated by the reference point, zero without one.
func (a *Archive) DistanceToHypervolumeArea(f []float64) float64 {
	if len(f) != 2 {
		return math.NaN()
	}
	return a.norm.DistanceToArea(f)
}

// distanceToFrontSquared returns the squared weighted distance to the
// dominated region. The bisect position bounds the kink points that can
// be closest, so the scan usually inspects only a few of them.
func (a *Archive) distanceToFrontSquared(f []float64) float64 {
	if len(f) != 2 {
		return math.NaN()
	}
	p := pair{f[0], f[1]}
	if a.inDomain(p, a.ref) && !a.Dominates(f) {
		return 0
	}
	s0, s1 := a.norm.Scale(0), a.norm.Scale(1)
	var refD0, refD1 float64
	if a.ref != nil {
		refD0 = math.Max(0, p[0]-a.ref[0]) * s0
		refD1 = math.Max(0, p[1]-a.ref[1]) * s1
	}
	if len(a.pts) == 0 {
		return refD0*refD0 + refD1*refD1
	}
	// outer kinks: the left-most point with the reference f2, the
	// right-most with the reference f1
	d := sq(math.Max(0, p[0]-a.pts[0][0])*s0) + refD1*refD1
	if v := refD0*refD0 + sq(math.Max(0, p[1]-a.pts[len(a.pts)-1][1])*s1); v < d {
		d = v
	}
	if len(a.pts) == 1 {
		return d
	}
	for idx := a.bisectLeft(p, 0); idx > 0; idx-- {
		if idx == len(a.pts) {
			continue
		}
		v := sq(math.Max(0, p[1]-a.pts[idx-1][1])*s1) +
			sq(math.Max(0, p[0]-a.pts[idx][0])*s0)
		if v < d {
			d = v
		}
		if a.pts[idx][1] >= p[1] || idx == 1 {
			break
		}
	}
	return d
}

func sq(v float64) float64 { return v * v }
