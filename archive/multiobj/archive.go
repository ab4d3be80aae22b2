package multiobj

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/hupe1980/moarchive/archive"
	"github.com/hupe1980/moarchive/dominance"
	"github.com/hupe1980/moarchive/internal/norm"
	"github.com/hupe1980/moarchive/scalar"
)

// Archive is a non-dominated archive of 3- or 4-objective vectors. See
// the package documentation for the internal geometry.
type Archive struct {
	head   *node
	nObj   int
	length int
	ref    []float64  // nil when not set
	refInf [4]float64 // ref, or +inf per axis

	comp  scalar.Arithmetic
	final scalar.Arithmetic

	hv         scalar.Value // raw cached hypervolume, final kind
	hvComputed bool
	hvPlusDist float64

	kinks     [][]float64 // lazily computed kink point cache
	discarded [][]float64

	norm       *norm.Normalizer
	logger     *slog.Logger
	selfChecks bool
}

// New creates a 3- or 4-objective archive from an optional initial list
// of objective vectors. The dimensionality comes from WithNumObjectives,
// the reference point, or the first point, in that order.
func New(points [][]float64, optFns ...archive.Option) (*Archive, error) {
	o := archive.Apply(optFns...)

	nObj := o.NumObjectives
	if nObj == 0 && o.ReferencePoint != nil {
		nObj = len(o.ReferencePoint)
	}
	if nObj == 0 && len(points) > 0 {
		nObj = len(points[0])
	}
	if nObj != 3 && nObj != 4 {
		return nil, &archive.ErrArity{Expected: 3, Actual: nObj}
	}
	if o.ReferencePoint != nil && len(o.ReferencePoint) != nObj {
		return nil, &archive.ErrArity{Expected: nObj, Actual: len(o.ReferencePoint)}
	}
	for _, f := range points {
		if len(f) != nObj {
			return nil, &archive.ErrArity{Expected: nObj, Actual: len(f)}
		}
	}
	if o.Infos != nil && len(o.Infos) != len(points) {
		return nil, fmt.Errorf("need as many infos as points, got %d infos and %d points",
			len(o.Infos), len(points))
	}

	a := &Archive{
		nObj:       nObj,
		comp:       o.Computation,
		final:      o.Final,
		hvPlusDist: math.Inf(-1),
		norm:       norm.New(nObj, o.ReferencePoint),
		logger:     o.Logger,
		selfChecks: o.SelfChecks,
	}
	a.hv = a.final.Zero()
	a.ref = slices.Clone(o.ReferencePoint)
	for i := 0; i < nObj; i++ {
		if a.ref != nil {
			a.refInf[i] = a.ref[i]
		} else {
			a.refInf[i] = math.Inf(1)
		}
	}

	if o.Weights != nil {
		if _, err := a.norm.SetWeights(o.Weights); err != nil {
			return nil, err
		}
	}
	if o.IdealPoint != nil {
		if _, err := a.norm.SetIdealPoint(o.IdealPoint); err != nil {
			return nil, err
		}
	}

	a.rebuild(points, o.Infos)
	if a.ref != nil && a.length == 0 && len(points) > 0 {
		d := math.Inf(1)
		for _, f := range points {
			if v := a.norm.DistanceToArea(f); v < d {
				d = v
			}
		}
		if -d > a.hvPlusDist {
			a.hvPlusDist = -d
		}
	}
	a.check()
	return a, nil
}

// newInternal builds a plain archive used by the kink-point and
// improvement sweeps: same scalar kinds, no normalization.
func (a *Archive) newInternal(nObj int, points [][]float64, ref []float64) *Archive {
	sub := &Archive{
		nObj:       nObj,
		comp:       a.comp,
		final:      a.final,
		hvPlusDist: math.Inf(-1),
		norm:       norm.New(nObj, ref),
		logger:     a.logger,
	}
	sub.hv = sub.final.Zero()
	sub.ref = slices.Clone(ref)
	for i := 0; i < nObj; i++ {
		if sub.ref != nil {
			sub.refInf[i] = sub.ref[i]
		} else {
			sub.refInf[i] = math.Inf(1)
		}
	}
	sub.rebuild(points, nil)
	return sub
}

// rebuild reconstructs the linked list from scratch. Used at
// construction and by the 4D mutation paths.
func (a *Archive) rebuild(points [][]float64, infos []any) {
	a.head, a.length = setupList(a.nObj, points, a.refInf, infos)
	a.hvComputed = false
	a.kinks = nil
	if a.nObj == 3 {
		a.preprocess3()
	} else {
		a.removeDominated4()
	}
	a.length = a.count()
	a.setHV()
}

func (a *Archive) count() int {
	n := 0
	a.eachNode(func(*node) bool { n++; return true })
	return n
}

// eachNode visits the resident nodes in the order of the last objective.
func (a *Archive) eachNode(fn func(*node) bool) {
	di := a.nObj - 1
	curr := a.head.next[di].next[di]
	stop := a.head.prev[di]
	for curr != stop {
		if !fn(curr) {
			return
		}
		curr = curr.next[di]
	}
}

// preprocess3 assigns the closest-point delimiters of every node and
// unlinks dominated ones, sweeping in z order with a y-ordered tree.
func (a *Archive) preprocess3() {
	di := 2
	t := newYList()
	t.add(a.head)          // left sentinel
	t.add(a.head.next[di]) // bottom sentinel
	p := a.head.next[di].next[di]
	stop := a.head.prev[di]
	for p != stop {
		next := p.next[di]
		s := t.outerDelimiterX(p)
		if weaklyDominatesN(s.x, p.x, a.nObj) || weaklyDominatesN(t.nextY(s).x, p.x, a.nObj) {
			p.ndomr = 1
			unlinkDim(p, di)
			p = next
			continue
		}
		t.removeDominatedY(p, s)
		p.closest[0] = s
		p.closest[1] = t.nextY(s)
		t.addY(p, s)
		p = next
	}
	t.clear()
}

// removeDominated4 drops dominated nodes by pairwise comparison against
// the non-dominated prefix; the w-sorted order makes one direction
// sufficient.
func (a *Archive) removeDominated4() {
	di := a.nObj - 1
	var front []*node
	var doomed []*node
	a.eachNode(func(n *node) bool {
		for _, f := range front {
			if weaklyDominatesN(f.x, n.x, a.nObj) {
				doomed = append(doomed, n)
				return true
			}
		}
		front = append(front, n)
		return true
	})
	for _, n := range doomed {
		unlinkDim(n, di)
	}
}

// Len returns the number of resident vectors.
func (a *Archive) Len() int { return a.length }

// NumObjectives returns 3 or 4.
func (a *Archive) NumObjectives() int { return a.nObj }

// ReferencePoint returns a copy of the reference point, or nil.
func (a *Archive) ReferencePoint() []float64 { return slices.Clone(a.ref) }

// Points returns the resident vectors ordered by the last objective.
func (a *Archive) Points() [][]float64 {
	out := make([][]float64, 0, a.length)
	a.eachNode(func(n *node) bool {
		out = append(out, n.coords(a.nObj))
		return true
	})
	return out
}

// Infos returns the per-element payloads, aligned with Points.
func (a *Archive) Infos() []any {
	out := make([]any, 0, a.length)
	a.eachNode(func(n *node) bool {
		out = append(out, n.info)
		return true
	})
	return out
}

// Discarded returns the vectors evicted by the most recent mutating call.
func (a *Archive) Discarded() [][]float64 { return a.discarded }

// Contains reports whether f is resident.
func (a *Archive) Contains(f []float64) bool {
	if len(f) != a.nObj {
		return false
	}
	found := false
	a.eachNode(func(n *node) bool {
		if dominance.Equal(n.x[:a.nObj], f) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Dominates reports whether some resident weakly dominates f. The sweep
// order allows an early exit at the first node beyond f in the last
// objective.
func (a *Archive) Dominates(f []float64) bool {
	if len(f) != a.nObj {
		return false
	}
	res := false
	a.eachNode(func(n *node) bool {
		if dominance.Weak(n.x[:a.nObj], f) {
			res = true
			return false
		}
		if f[a.nObj-1] < n.x[a.nObj-1] {
			return false
		}
		return true
	})
	return res
}

// Dominators returns the residents weakly dominating f, in archive order.
func (a *Archive) Dominators(f []float64) [][]float64 {
	res, _ := a.dominators(f, false)
	return res
}

// CountDominators returns the number of residents weakly dominating f.
func (a *Archive) CountDominators(f []float64) int {
	_, n := a.dominators(f, true)
	return n
}

func (a *Archive) dominators(f []float64, numberOnly bool) ([][]float64, int) {
	if len(f) != a.nObj {
		return nil, 0
	}
	var res [][]float64
	count := 0
	a.eachNode(func(n *node) bool {
		if dominance.Weak(n.x[:a.nObj], f) {
			count++
			if !numberOnly {
				res = append(res, n.coords(a.nObj))
			}
		} else if f[a.nObj-1] < n.x[a.nObj-1] {
			return false
		}
		return true
	})
	return res, count
}

// InDomain reports whether f is strictly below the reference point in
// every objective (always true without one).
func (a *Archive) InDomain(f []float64) bool {
	if len(f) != a.nObj {
		return false
	}
	if a.ref == nil {
		return true
	}
	for i := range f {
		if f[i] >= a.ref[i] {
			return false
		}
	}
	return true
}

// Add inserts f unless it is weakly dominated or out of domain; those
// are successful no-ops reporting false.
func (a *Archive) Add(f []float64, info any) (bool, error) {
	if len(f) != a.nObj {
		return false, &archive.ErrArity{Expected: a.nObj, Actual: len(f)}
	}
	var ok bool
	if a.nObj == 3 {
		ok = a.add3(f, info, true)
	} else {
		ok = a.add4(f, info)
	}
	a.check()
	return ok, nil
}

// add3 is the single-sweep 3D insertion: one pass over the z-ordered
// list removes newly dominated nodes, maintains the closest-point
// delimiters on both sides, and links the new node in place.
func (a *Archive) add3(f []float64, info any, updateHV bool) bool {
	if a.ref != nil && a.length == 0 {
		if d := -a.norm.DistanceToArea(f); d > a.hvPlusDist {
			a.hvPlusDist = d
		}
	}

	u := &node{info: info}
	copy(u.x[:], f)
	di := a.nObj - 1

	q := a.head
	stop := a.head
	firstIter := true
	dominated := false
	inserted := false
	var bestCx, bestCy *node
	var removed [][]float64

	for q != stop || firstIter {
		firstIter = false

		if weaklyDominatesN(q.x, u.x, a.nObj) {
			dominated = true
			break
		}
		if weaklyDominatesN(u.x, q.x, a.nObj) {
			qNext := q.next[di]
			unlinkDim(q, di)
			removed = append(removed, q.coords(a.nObj))
			q = qNext
			continue
		}

		// track the best delimiter candidates for the new node
		if lexLess(q.x, u.x) && q.x[0] > u.x[0] && q.x[1] < u.x[1] {
			if bestCx == nil || q.x[0] < bestCx.x[0] {
				bestCx = q
			} else if q.x[0] == bestCx.x[0] && q.x[1] < bestCx.x[1] {
				bestCx = q
			}
		}
		if lexLess(q.x, u.x) && q.x[0] < u.x[0] && q.x[1] > u.x[1] {
			if bestCy == nil || q.x[1] < bestCy.x[1] {
				bestCy = q
			} else if q.x[1] == bestCy.x[1] && q.x[0] < bestCy.x[0] {
				bestCy = q
			}
		}

		// the new node may become the delimiter of nodes above it
		if u.x[1] < q.x[1] && lexLess(u.x, q.x) {
			if (q.x[0] < u.x[0] && u.x[0] < q.closest[0].x[0]) ||
				(u.x[0] == q.closest[0].x[0] && u.x[1] <= q.closest[0].x[1]) {
				q.closest[0] = u
			}
		}
		if u.x[0] < q.x[0] && lexLess(u.x, q.x) {
			if (q.x[1] < u.x[1] && u.x[1] < q.closest[1].x[1]) ||
				(u.x[1] == q.closest[1].x[1] && u.x[0] <= q.closest[1].x[0]) {
				q.closest[1] = u
			}
		}

		if lexLess(u.x, q.x) && !inserted {
			u.next[di] = q
			u.prev[di] = q.prev[di]
			q.prev[di].next[di] = u
			q.prev[di] = u
			inserted = true
		}

		q = q.next[di]
	}

	if !dominated {
		u.closest[0] = bestCx
		u.closest[1] = bestCy
		a.length += 1 - len(removed)
	}
	a.discarded = removed
	a.kinks = nil

	if updateHV && !dominated {
		a.setHV()
	}
	return !dominated
}

// add4 rejects dominated and out-of-domain candidates, otherwise
// rebuilds the archive with the new point included.
func (a *Archive) add4(f []float64, info any) bool {
	if a.Dominates(f) {
		a.discarded = nil
		return false
	}
	if !a.InDomain(f) {
		if a.ref != nil {
			if d := -a.norm.DistanceToArea(f); d > a.hvPlusDist {
				a.hvPlusDist = d
			}
		}
		a.discarded = nil
		return false
	}
	before := a.Points()
	points := append(a.Points(), slices.Clone(f))
	infos := append(a.Infos(), info)
	a.rebuild(points, infos)
	a.discarded = a.evictedFrom(before)
	return true
}

// evictedFrom returns the members of prev that are no longer resident.
func (a *Archive) evictedFrom(prev [][]float64) [][]float64 {
	var out [][]float64
	for _, p := range prev {
		if !a.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// AddList inserts a batch of vectors and returns the number inserted.
// For three objectives small batches go one by one and large ones
// reinitialize the archive, whichever is cheaper; four objectives always
// reinitialize.
func (a *Archive) AddList(fs [][]float64, infos []any) (int, error) {
	if infos != nil && len(infos) != len(fs) {
		return 0, fmt.Errorf("need as many infos as points, got %d infos and %d points",
			len(infos), len(fs))
	}
	for _, f := range fs {
		if len(f) != a.nObj {
			return 0, &archive.ErrArity{Expected: a.nObj, Actual: len(f)}
		}
	}

	oneByOne := a.nObj == 3 &&
		(len(fs) == 1 || (a.length > 0 && float64(len(fs)) < math.Log2(float64(a.length))/2))

	if oneByOne {
		var all [][]float64
		count := 0
		for i, f := range fs {
			var info any
			if infos != nil {
				info = infos[i]
			}
			if a.add3(f, info, false) {
				count++
				all = append(all, a.discarded...)
			}
		}
		a.setHV()
		a.discarded = all
		a.check()
		return count, nil
	}

	before := a.Points()
	points := append(a.Points(), fs...)
	merged := append(a.Infos(), make([]any, len(fs))...)
	if infos != nil {
		copy(merged[len(merged)-len(fs):], infos)
	}
	if a.ref != nil && a.length == 0 {
		for _, f := range fs {
			if d := -a.norm.DistanceToArea(f); d > a.hvPlusDist {
				a.hvPlusDist = d
			}
		}
	}
	a.rebuild(points, merged)
	a.discarded = a.evictedFrom(before)
	count := 0
	for _, f := range fs {
		if a.Contains(f) {
			count++
		}
	}
	a.check()
	return count, nil
}

// At returns the resident vector at position i in archive order.
func (a *Archive) At(i int) ([]float64, error) {
	if i < 0 || i >= a.length {
		return nil, &archive.ErrIndexOutOfRange{Index: i, Len: a.length}
	}
	return a.Points()[i], nil
}

// RemoveIndex deletes the resident vector at position i in archive
// order and returns its info.
func (a *Archive) RemoveIndex(i int) (any, error) {
	f, err := a.At(i)
	if err != nil {
		return nil, err
	}
	return a.Remove(f)
}

// Remove deletes the resident vector equal to f and returns its info.
func (a *Archive) Remove(f []float64) (any, error) {
	if len(f) != a.nObj {
		return nil, &archive.ErrArity{Expected: a.nObj, Actual: len(f)}
	}
	var info any
	var err error
	if a.nObj == 3 {
		info, err = a.remove3(f)
	} else {
		info, err = a.remove4(f)
	}
	if err != nil {
		return nil, err
	}
	a.discarded = [][]float64{slices.Clone(f)}
	if a.length == 0 {
		a.hvPlusDist = math.Inf(-1)
	}
	a.check()
	return info, nil
}

// remove3 unlinks the node equal to f, repairing the delimiters of every
// node that pointed at it with a y-ordered tree sweep.
func (a *Archive) remove3(f []float64) (any, error) {
	di := a.nObj - 1
	current := a.head.next[di]
	stop := a.head.prev[di]

	t := newYList()
	t.add(a.head)
	t.add(a.head.prev[di])
	var removeNode *node

	for current != stop {
		if dominance.Equal(current.x[:3], f) {
			removeNode = current
			current = current.next[di]
			continue
		}
		t.add(current)
		t.removeStrictlyDominated2(current)

		if dominance.Equal(current.closest[0].x[:3], f) {
			cx := t.minWhere(func(n *node) bool {
				return n.x[0] > current.x[0] && n.x[1] < current.x[1]
			}, func(n *node) float64 { return n.x[0] })
			if cx != nil {
				current.closest[0] = cx
			} else {
				current.closest[0] = a.head
			}
		}
		if dominance.Equal(current.closest[1].x[:3], f) {
			cy := t.minWhere(func(n *node) bool {
				return n.x[1] > current.x[1] && n.x[0] < current.x[0]
			}, func(n *node) float64 { return n.x[1] })
			if cy != nil {
				current.closest[1] = cy
			} else {
				current.closest[1] = a.head.prev[di]
			}
		}

		current = current.next[di]
	}

	if removeNode == nil {
		return nil, &archive.ErrNotFound{Point: slices.Clone(f)}
	}
	unlinkDim(removeNode, di)
	a.kinks = nil
	a.setHV()
	a.length--
	return removeNode.info, nil
}

// remove4 rebuilds the archive without the removed point.
func (a *Archive) remove4(f []float64) (any, error) {
	points := a.Points()
	infos := a.Infos()
	idx := -1
	for i, p := range points {
		if dominance.Equal(p, f) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &archive.ErrNotFound{Point: slices.Clone(f)}
	}
	info := infos[idx]
	points = slices.Delete(points, idx, idx+1)
	infos = slices.Delete(infos, idx, idx+1)
	a.rebuild(points, infos)
	return info, nil
}

// Clear empties the archive, keeping reference point and configuration.
func (a *Archive) Clear() {
	a.rebuild(nil, nil)
	a.discarded = nil
	a.hvPlusDist = math.Inf(-1)
}

// Copy returns a deep copy sharing no state with a.
func (a *Archive) Copy() *Archive {
	dup := &Archive{
		nObj:       a.nObj,
		comp:       a.comp,
		final:      a.final,
		hvPlusDist: a.hvPlusDist,
		refInf:     a.refInf,
		norm:       a.norm.Clone(),
		logger:     a.logger,
		selfChecks: a.selfChecks,
	}
	dup.ref = slices.Clone(a.ref)
	dup.hv = dup.final.Zero()
	dup.rebuild(a.Points(), a.Infos())
	dup.discarded = slices.Clone(a.discarded)
	return dup
}

// Weights returns the normalization weights.
func (a *Archive) Weights() []float64 { return a.norm.Weights() }

// SetWeights replaces the normalization weights.
func (a *Archive) SetWeights(w []float64) error {
	_, err := a.norm.SetWeights(w)
	if err == nil {
		a.warnStaleIndicator()
	}
	return err
}

// IdealPoint returns the normalization ideal point, or nil.
func (a *Archive) IdealPoint() []float64 { return a.norm.IdealPoint() }

// SetIdealPoint sets the normalization ideal point.
func (a *Archive) SetIdealPoint(z []float64) error {
	_, err := a.norm.SetIdealPoint(z)
	if err == nil {
		a.warnStaleIndicator()
	}
	return err
}

func (a *Archive) warnStaleIndicator() {
	if a.length == 0 && a.hvPlusDist < 0 && !math.IsInf(a.hvPlusDist, -1) {
		a.logger.Warn("hypervolume_plus indicator not updated after changing weights or ideal point",
			"hypervolume_plus", a.hvPlusDist)
	}
}

// DistanceToHypervolumeArea returns the weighted Euclidean distance from
// f to the rectangle dominated by the reference point, zero without one.
func (a *Archive) DistanceToHypervolumeArea(f []float64) float64 {
	if len(f) != a.nObj {
		return math.NaN()
	}
	return a.norm.DistanceToArea(f)
}

// check runs the diagnostic invariant sweep when enabled.
func (a *Archive) check() {
	if !a.selfChecks {
		return
	}
	points := a.Points()
	if len(points) != a.length {
		panic(fmt.Errorf("%w: length %d does not match list of %d points",
			archive.ErrInconsistent, a.length, len(points)))
	}
	for i, p := range points {
		for j, q := range points {
			if i != j && dominance.Weak(p, q) {
				panic(fmt.Errorf("%w: resident %v weakly dominates resident %v",
					archive.ErrInconsistent, p, q))
			}
		}
	}
	if a.ref != nil {
		fresh := a.newInternal(a.nObj, points, a.ref)
		if math.Abs(a.final.Float64(a.hv)-a.final.Float64(fresh.hv)) > 1e-9 {
			panic(fmt.Errorf("%w: cached hypervolume %v differs from recomputed %v",
				archive.ErrInconsistent, a.final.Float64(a.hv), a.final.Float64(fresh.hv)))
		}
	}
}
