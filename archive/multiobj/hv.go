package multiobj

import (
	"github.com/hupe1980/moarchive/archive"
	"github.com/hupe1980/moarchive/scalar"
)

// restartListY resets the scratch chain that the area sweep threads
// through the sentinels.
func restartListY(head *node) {
	head.next[2].cnext[1] = head
	head.cnext[0] = head.next[2]
}

// computeAreaSimple accumulates the area dominated by p in the (di,
// 1-di) plane, walking the scratch staircase from s towards u.
func computeAreaSimple(comp scalar.Arithmetic, p [4]float64, di int, s, u *node) scalar.Value {
	dj := 1 - di
	c := comp.FromFloat64
	q := s
	area := comp.Mul(
		comp.Sub(c(q.x[dj]), c(p[dj])),
		comp.Sub(c(u.x[di]), c(p[di])),
	)
	for p[dj] < u.x[dj] {
		q = u
		u = u.cnext[di]
		area = comp.Add(area, comp.Mul(
			comp.Sub(c(q.x[dj]), c(p[dj])),
			comp.Sub(c(u.x[di]), c(q.x[di])),
		))
	}
	return area
}

// hv3dSweep computes the 3D hypervolume in one pass over the z-ordered
// list (the hv3d+ dimension-sweep). Nodes flagged as dominated are
// unlinked on the way.
func (a *Archive) hv3dSweep() scalar.Value {
	comp := a.comp
	c := comp.FromFloat64
	area := comp.Zero()
	volume := comp.Zero()

	restartListY(a.head)
	p := a.head.next[2].next[2]
	stop := a.head.prev[2]

	for p != stop {
		if p.ndomr < 1 {
			p.cnext[0] = p.closest[0]
			p.cnext[1] = p.closest[1]
			area = comp.Add(area, computeAreaSimple(comp, p.x, 1, p.cnext[0], p.cnext[0].cnext[1]))
			p.cnext[0].cnext[1] = p
			p.cnext[1].cnext[0] = p
		} else {
			unlinkDim(p, 2)
		}
		volume = comp.Add(volume, comp.Mul(area, comp.Sub(c(p.next[2].x[2]), c(p.x[2]))))
		p = p.next[2]
	}
	return volume
}

// setupZAndClosest computes the delimiters of a node joining the 4D
// sweep's z-order and locates its insertion position.
func setupZAndClosest(head, new *node) {
	closest1 := head
	closest0 := head.next[2]

	q := head.next[2].next[2]
	newx := new.x

	for q != nil && lexLess(q.x, newx) {
		if q.x[0] <= newx[0] && q.x[1] <= newx[1] {
			new.ndomr++
		} else if q.x[1] < newx[1] && (q.x[0] < closest0.x[0] ||
			(q.x[0] == closest0.x[0] && q.x[1] < closest0.x[1])) {
			closest0 = q
		} else if q.x[0] < newx[0] && (q.x[1] < closest1.x[1] ||
			(q.x[1] == closest1.x[1] && q.x[0] < closest1.x[0])) {
			closest1 = q
		}
		q = q.next[2]
	}

	new.closest[0] = closest0
	new.cnext[0] = closest0
	new.closest[1] = closest1
	new.cnext[1] = closest1
	if q != nil {
		new.prev[2] = q.prev[2]
	} else {
		new.prev[2] = nil
	}
	new.next[2] = q
}

func addToZ(new *node) {
	new.next[2] = new.prev[2].next[2]
	new.next[2].prev[2] = new
	new.prev[2].next[2] = new
}

// updateLinks walks the z-order above new, marking newly dominated nodes
// and re-targeting delimiters at new where it got closer.
func updateLinks(head, new, p *node) int {
	stop := head.prev[2]
	ndom := 0
	allDelimitersVisited := false

	for p != stop && !allDelimitersVisited {
		if p.x[0] <= new.x[0] && p.x[1] <= new.x[1] && (p.x[0] < new.x[0] || p.x[1] < new.x[1]) {
			allDelimitersVisited = true
		} else {
			if new.x[0] <= p.x[0] {
				if new.x[1] <= p.x[1] {
					p.ndomr++
					ndom++
					unlinkDim(p, 2)
				} else if new.x[0] < p.x[0] && (new.x[1] < p.closest[1].x[1] ||
					(new.x[1] == p.closest[1].x[1] && (new.x[0] < p.closest[1].x[0] ||
						(new.x[0] == p.closest[1].x[0] && new.x[2] < p.closest[1].x[2])))) {
					p.closest[1] = new
				}
			} else if new.x[1] < p.x[1] && (new.x[0] < p.closest[0].x[0] ||
				(new.x[0] == p.closest[0].x[0] && (new.x[1] < p.closest[0].x[1] ||
					(new.x[1] == p.closest[0].x[1] && new.x[2] < p.closest[0].x[2])))) {
				p.closest[0] = new
			}
		}
		p = p.next[2]
	}
	return ndom
}

// hv4dSweep computes the 4D hypervolume by sweeping the last objective
// and maintaining a 3D hypervolume via hv3dSweep at each step (hv4d+).
func (a *Archive) hv4dSweep() scalar.Value {
	comp := a.comp
	c := comp.FromFloat64
	hv := comp.Zero()

	stop := a.head.prev[3]
	cur := a.head.next[3].next[3]

	for cur != stop {
		setupZAndClosest(a.head, cur)
		addToZ(cur)
		updateLinks(a.head, cur, cur.next[2])

		volume := a.hv3dSweep()
		height := comp.Sub(c(cur.next[3].x[3]), c(cur.x[3]))
		hv = comp.Add(hv, comp.Mul(volume, height))

		cur = cur.next[3]
	}
	return hv
}

// setHV recomputes the cached hypervolume when a reference point is set.
func (a *Archive) setHV() {
	if a.ref == nil {
		return
	}
	if a.nObj == 3 {
		a.hv = scalar.Convert(a.final, a.hv3dSweep())
	} else {
		// the 4D sweep rewires the z-order links, so it runs once per
		// rebuild and the result is cached
		if !a.hvComputed {
			a.hv = scalar.Convert(a.final, a.hv4dSweep())
			a.hvComputed = true
		}
	}
}

// ComputeHypervolume computes the hypervolume from scratch with respect
// to an alternative reference point, without normalization. Points
// beyond the given reference point do not contribute.
func (a *Archive) ComputeHypervolume(ref []float64) (scalar.Value, error) {
	if len(ref) != a.nObj {
		return nil, &archive.ErrArity{Expected: a.nObj, Actual: len(ref)}
	}
	fresh := a.newInternal(a.nObj, a.Points(), ref)
	return fresh.hv, nil
}

// Hypervolume returns the cached hypervolume with respect to the
// reference point, rescaled by the normalization factor.
func (a *Archive) Hypervolume() (scalar.Value, error) {
	if a.ref == nil {
		return nil, archive.ErrNoReferencePoint
	}
	return a.scaleHV(a.final, a.hv), nil
}

// HypervolumePlus returns the uncrowded hypervolume indicator; see the
// archive.Archive contract.
func (a *Archive) HypervolumePlus() (float64, error) {
	if a.ref == nil {
		return 0, archive.ErrNoReferencePoint
	}
	if a.length > 0 {
		return a.norm.Factor() * a.final.Float64(a.hv), nil
	}
	return a.hvPlusDist, nil
}

func (a *Archive) scaleHV(arith scalar.Arithmetic, v scalar.Value) scalar.Value {
	if f := a.norm.Factor(); f != 1 {
		return arith.Mul(v, arith.FromFloat64(f))
	}
	return v
}

// ContributingHypervolumes returns the per-element contributions in
// archive order.
func (a *Archive) ContributingHypervolumes() ([]scalar.Value, error) {
	if a.ref == nil {
		return nil, archive.ErrNoReferencePoint
	}
	points := a.Points()
	out := make([]scalar.Value, len(points))
	for i, p := range points {
		v, err := a.ContributingHypervolumeOf(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ContributingHypervolume returns the contribution of the element at
// position idx in archive order.
func (a *Archive) ContributingHypervolume(idx int) (scalar.Value, error) {
	if idx < 0 || idx >= a.length {
		return nil, &archive.ErrIndexOutOfRange{Index: idx, Len: a.length}
	}
	return a.ContributingHypervolumeOf(a.Points()[idx])
}

// ContributingHypervolumeOf returns the contribution of the resident
// equal to f, computed as the hypervolume lost by removing it; a
// non-resident f yields its uncrowded hypervolume improvement.
func (a *Archive) ContributingHypervolumeOf(f []float64) (scalar.Value, error) {
	if len(f) != a.nObj {
		return nil, &archive.ErrArity{Expected: a.nObj, Actual: len(f)}
	}
	if a.ref == nil {
		return nil, archive.ErrNoReferencePoint
	}
	if !a.Contains(f) {
		return a.HypervolumeImprovement(f)
	}
	hvBefore := a.hv
	info, err := a.Remove(f)
	if err != nil {
		return nil, err
	}
	hvAfter := a.hv
	if a.nObj == 3 {
		a.add3(f, info, true)
	} else {
		a.add4(f, info)
	}
	a.discarded = nil
	diff := a.comp.Sub(scalar.Convert(a.comp, hvBefore), scalar.Convert(a.comp, hvAfter))
	return a.scaleHV(a.comp, diff), nil
}

// HypervolumeImprovement returns the signed uncrowded hypervolume
// improvement of f: zero for a resident, the negated squared weighted
// distance to the Pareto front for a dominated or out-of-domain vector,
// and the exact hypervolume increase otherwise. The 3D case uses the
// one-contribution sweep without touching archive membership; the 4D
// case measures the difference on a rebuilt copy.
func (a *Archive) HypervolumeImprovement(f []float64) (scalar.Value, error) {
	if len(f) != a.nObj {
		return nil, &archive.ErrArity{Expected: a.nObj, Actual: len(f)}
	}
	if a.ref == nil {
		return nil, archive.ErrNoReferencePoint
	}
	if a.Contains(f) {
		return a.comp.Zero(), nil
	}
	if d2 := a.distanceToFrontSquared(f); d2 != 0 {
		return a.comp.FromFloat64(-d2), nil
	}
	if a.nObj == 3 {
		u := &node{}
		copy(u.x[:], f)
		return a.scaleHV(a.comp, a.oneContribution3(u)), nil
	}
	cpy := a.Copy()
	cpy.add4(f, nil)
	diff := a.comp.Sub(scalar.Convert(a.comp, cpy.hv), scalar.Convert(a.comp, a.hv))
	return a.scaleHV(a.comp, diff), nil
}

// restartBaseSetupZAndClosest prepares the scratch chains and the
// delimiters of a query node for the one-contribution sweep.
func restartBaseSetupZAndClosest(head, new *node) {
	p := head.next[2].next[2]
	closest1 := head
	closest0 := head.next[2]

	newx := new.x
	restartListY(head)

	for p != nil && lexLess(p.x, newx) {
		p.cnext[0] = p.closest[0]
		p.cnext[1] = p.closest[1]

		p.cnext[0].cnext[1] = p
		p.cnext[1].cnext[0] = p

		if p.x[0] <= newx[0] && p.x[1] <= newx[1] {
			new.ndomr++
		} else if p.x[1] < newx[1] && (p.x[0] < closest0.x[0] ||
			(p.x[0] == closest0.x[0] && p.x[1] < closest0.x[1])) {
			closest0 = p
		} else if p.x[0] < newx[0] && (p.x[1] < closest1.x[1] ||
			(p.x[1] == closest1.x[1] && p.x[0] < closest1.x[0])) {
			closest1 = p
		}

		p = p.next[2]
	}

	new.closest[0] = closest0
	new.closest[1] = closest1
	if p != nil {
		new.prev[2] = p.prev[2]
	} else {
		new.prev[2] = nil
	}
	new.next[2] = p
}

// oneContribution3 computes the hypervolume a query node would add,
// sweeping the z-order above it while shrinking the added area.
func (a *Archive) oneContribution3(u *node) scalar.Value {
	comp := a.comp
	c := comp.FromFloat64

	restartBaseSetupZAndClosest(a.head, u)
	if u.ndomr > 0 {
		return comp.Zero()
	}

	u.cnext[0] = u.closest[0]
	u.cnext[1] = u.closest[1]
	area := computeAreaSimple(comp, u.x, 1, u.cnext[0], u.cnext[0].cnext[1])

	p := u.next[2]
	lastz := u.x[2]
	volume := comp.Zero()

	for p != nil && (p.x[0] > u.x[0] || p.x[1] > u.x[1]) {
		volume = comp.Add(volume, comp.Mul(area, comp.Sub(c(p.x[2]), c(lastz))))
		p.cnext[0] = p.closest[0]
		p.cnext[1] = p.closest[1]

		switch {
		case p.x[0] >= u.x[0] && p.x[1] >= u.x[1]:
			area = comp.Sub(area, computeAreaSimple(comp, p.x, 1, p.cnext[0], p.cnext[0].cnext[1]))
			p.cnext[1].cnext[0] = p
			p.cnext[0].cnext[1] = p
		case p.x[0] >= u.x[0]:
			if p.x[0] <= u.cnext[0].x[0] {
				x := [4]float64{p.x[0], u.x[1], p.x[2]}
				area = comp.Sub(area, computeAreaSimple(comp, x, 1, u.cnext[0], u.cnext[0].cnext[1]))
				p.cnext[0] = u.cnext[0]
				p.cnext[1].cnext[0] = p
				u.cnext[0] = p
			}
		default:
			if p.x[1] <= u.cnext[1].x[1] {
				x := [4]float64{u.x[0], p.x[1], p.x[2]}
				area = comp.Sub(area, computeAreaSimple(comp, x, 0, u.cnext[1], u.cnext[1].cnext[0]))
				p.cnext[1] = u.cnext[1]
				p.cnext[0].cnext[1] = p
				u.cnext[1] = p
			}
		}

		lastz = p.x[2]
		p = p.next[2]
	}

	if p != nil {
		volume = comp.Add(volume, comp.Mul(area, comp.Sub(c(p.x[2]), c(lastz))))
	}
	return volume
}
