package multiobj

import (
	"math"

	"github.com/hupe1980/moarchive/archive"
	"github.com/hupe1980/moarchive/archive/biobj"
)

// DistanceToParetoFront returns the weighted Euclidean distance from f
// to the boundary of the dominated region, computed over the kink points
// of the archive. Non-dominated in-domain vectors have distance zero.
func (a *Archive) DistanceToParetoFront(f []float64) float64 {
	if len(f) != a.nObj {
		return math.NaN()
	}
	return math.Sqrt(a.distanceToFrontSquared(f))
}

func (a *Archive) distanceToFrontSquared(f []float64) float64 {
	if a.InDomain(f) && !a.Dominates(f) {
		return 0
	}
	refD := make([]float64, a.nObj)
	if a.ref != nil {
		for i := range refD {
			refD[i] = math.Max(0, f[i]-a.ref[i]) * a.norm.Scale(i)
		}
	}
	if a.length == 0 {
		var sum float64
		for _, d := range refD {
			sum += d * d
		}
		return sum
	}
	if a.kinks == nil {
		a.kinks = a.kinkPoints()
	}
	best := math.Inf(1)
	for _, k := range a.kinks {
		var sum float64
		for i := 0; i < a.nObj; i++ {
			d := math.Max(0, f[i]-k[i]) * a.norm.Scale(i)
			sum += d * d
		}
		if sum < best {
			best = sum
		}
	}
	return best
}

func (a *Archive) kinkPoints() [][]float64 {
	if a.nObj == 3 {
		return a.kinkPoints3()
	}
	return a.kinkPoints4()
}

// kinkPoints3 sweeps the archive in z order holding two bi-objective
// archives: one of the projected points seen so far, one of the open
// kink-point candidates. A candidate closes (and becomes a kink point)
// when a later projection dominates it.
func (a *Archive) kinkPoints3() [][]float64 {
	ref := make([]float64, 3)
	for i := range ref {
		ref[i] = a.refInf[i]
	}
	negInf := math.Inf(-1)

	pointsState := mustBiobj([][]float64{{ref[0], negInf}, {negInf, ref[1]}})
	kinkCandidates := mustBiobj([][]float64{{ref[0], ref[1]}})
	pointDict := map[[2]float64]float64{{ref[0], ref[1]}: negInf}
	var kinks [][]float64

	for _, point := range a.Points() {
		p2 := []float64{point[0], point[1]}
		if _, ok, _ := kinkCandidates.Insert(p2, nil); ok {
			for _, rp := range kinkCandidates.Discarded() {
				z := pointDict[[2]float64{rp[0], rp[1]}]
				if z < point[2] && point[0] < rp[0] && point[1] < rp[1] {
					kinks = append(kinks, []float64{rp[0], rp[1], point[2]})
				}
			}
			_, _ = kinkCandidates.Remove(p2)
		}

		idx, _, _ := pointsState.Insert(p2, nil)
		for i := 0; i < 2; i++ {
			right, _ := pointsState.At(idx + i)
			left, _ := pointsState.At(idx - 1 + i)
			cand := []float64{right[0], left[1]}
			pointDict[[2]float64{cand[0], cand[1]}] = point[2]
			_, _, _ = kinkCandidates.Insert(cand, nil)
		}
	}

	for _, p := range kinkCandidates.Points() {
		kinks = append(kinks, []float64{p[0], p[1], ref[2]})
	}
	return kinks
}

// kinkPoints4 runs the analogous sweep in the last objective with two
// three-objective archives as state.
func (a *Archive) kinkPoints4() [][]float64 {
	ref := a.ref
	if ref == nil {
		maxC := math.Inf(-1)
		for _, p := range a.Points() {
			for i := 0; i < 3; i++ {
				if p[i] > maxC {
					maxC = p[i]
				}
			}
		}
		maxC++
		ref = []float64{maxC, maxC, maxC, maxC}
	}

	pointsState := a.newInternal(3, nil, ref[:3])
	kinkCandidates := a.newInternal(3,
		[][]float64{{ref[0], ref[1], ref[2]}},
		[]float64{ref[0] + 1, ref[1] + 1, ref[2] + 1})
	pointDict := map[[3]float64]float64{{ref[0], ref[1], ref[2]}: math.Inf(-1)}
	var kinks [][]float64

	for _, point := range a.Points() {
		p3 := []float64{point[0], point[1], point[2]}
		if kinkCandidates.add3(p3, nil, false) {
			for _, rp := range kinkCandidates.Discarded() {
				w := pointDict[[3]float64{rp[0], rp[1], rp[2]}]
				if w < point[3] {
					kinks = append(kinks, []float64{rp[0], rp[1], rp[2], point[3]})
				}
			}
			kinkCandidates.discarded = nil
			_, _ = kinkCandidates.remove3(p3)
		}

		pointsState.add3(p3, nil, false)
		for _, cand := range pointsState.kinkPoints3() {
			if cand[0] == point[0] || cand[1] == point[1] || cand[2] == point[2] {
				pointDict[[3]float64{cand[0], cand[1], cand[2]}] = point[3]
				kinkCandidates.add3(cand, nil, false)
			}
		}
	}

	for _, p := range kinkCandidates.Points() {
		kinks = append(kinks, []float64{p[0], p[1], p[2], ref[3]})
	}
	return kinks
}

func mustBiobj(points [][]float64) *biobj.Archive {
	b, err := biobj.New(points)
	if err != nil {
		panic(err)
	}
	return b
}

var _ archive.Archive = (*Archive)(nil)
