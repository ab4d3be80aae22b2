package biobj

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
	"slices"
	"sort"

	"github.com/hupe1980/moarchive/archive"
	"github.com/hupe1980/moarchive/internal/norm"
	"github.com/hupe1980/moarchive/scalar"
)

type pair [2]float64

var _ archive.Archive = (*Archive)(nil)

func pairLess(a, b pair) bool {
	return a[0] < b[0] || (a[0] == b[0] && a[1] < b[1])
}

// Archive is a sorted list of mutually non-dominated objective pairs.
// See the package documentation for the maintained invariants.
type Archive struct {
	pts       []pair
	infos     []any
	ref       *pair
	discarded [][]float64

	comp  scalar.Arithmetic
	final scalar.Arithmetic

	hv         scalar.Value // raw cached hypervolume, final kind
	hvPlusDist float64      // negated distance to the reference domain while empty

	norm       *norm.Normalizer
	logger     *slog.Logger
	selfChecks bool
}

// New creates an archive from an optional initial list of objective pairs.
// The list does not need to be sorted (pass WithPresorted when it is);
// dominated and out-of-domain entries are pruned away and reported via
// Discarded.
func New(points [][]float64, optFns ...archive.Option) (*Archive, error) {
	o := archive.Apply(optFns...)

	if o.ReferencePoint != nil && len(o.ReferencePoint) != 2 {
		return nil, &archive.ErrArity{Expected: 2, Actual: len(o.ReferencePoint)}
	}
	if o.NumObjectives != 0 && o.NumObjectives != 2 {
		return nil, &archive.ErrArity{Expected: 2, Actual: o.NumObjectives}
	}
	if o.Infos != nil && len(o.Infos) != len(points) {
		return nil, fmt.Errorf("need as many infos as points, got %d infos and %d points",
			len(o.Infos), len(points))
	}

	a := &Archive{
		comp:       o.Computation,
		final:      o.Final,
		hvPlusDist: math.Inf(-1),
		logger:     o.Logger,
		selfChecks: o.SelfChecks,
	}
	if o.ReferencePoint != nil {
		a.ref = &pair{o.ReferencePoint[0], o.ReferencePoint[1]}
	}
	a.norm = norm.New(2, o.ReferencePoint)
	a.hv = a.final.Zero()

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

	a.pts = make([]pair, 0, len(points))
	a.infos = make([]any, 0, len(points))
	for i, f := range points {
		if len(f) != 2 {
			return nil, &archive.ErrArity{Expected: 2, Actual: len(f)}
		}
		a.pts = append(a.pts, pair{f[0], f[1]})
		if o.Infos != nil {
			a.infos = append(a.infos, o.Infos[i])
		} else {
			a.infos = append(a.infos, nil)
		}
	}
	if !o.Presorted && len(a.pts) > 1 {
		a.sortInPlace()
	}

	a.discarded = a.pruneSorted()
	a.setHV()
	if a.ref != nil && len(a.pts) == 0 && len(points) > 0 {
		d := math.Inf(1)
		for _, f := range points {
			if v := a.norm.DistanceToArea(f); v < d {
				d = v
			}
		}
		a.hvPlusDist = -d
	}
	a.check()
	return a, nil
}

func (a *Archive) sortInPlace() {
	perm := make([]int, len(a.pts))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return pairLess(a.pts[perm[i]], a.pts[perm[j]])
	})
	pts := make([]pair, len(a.pts))
	infos := make([]any, len(a.infos))
	for i, p := range perm {
		pts[i] = a.pts[p]
		infos[i] = a.infos[p]
	}
	a.pts, a.infos = pts, infos
}

// Len returns the number of resident pairs.
func (a *Archive) Len() int { return len(a.pts) }

// NumObjectives returns 2.
func (a *Archive) NumObjectives() int { return 2 }

// ReferencePoint returns a copy of the reference point, or nil.
func (a *Archive) ReferencePoint() []float64 {
	if a.ref == nil {
		return nil
	}
	return []float64{a.ref[0], a.ref[1]}
}

// Points returns the resident pairs in ascending f1 order.
func (a *Archive) Points() [][]float64 {
	out := make([][]float64, len(a.pts))
	for i, p := range a.pts {
		out[i] = []float64{p[0], p[1]}
	}
	return out
}

// At returns the pair at index i.
func (a *Archive) At(i int) ([]float64, error) {
	if i < 0 || i >= len(a.pts) {
		return nil, &archive.ErrIndexOutOfRange{Index: i, Len: len(a.pts)}
	}
	return []float64{a.pts[i][0], a.pts[i][1]}, nil
}

// All iterates the resident pairs in archive order.
func (a *Archive) All() iter.Seq2[int, []float64] {
	return func(yield func(int, []float64) bool) {
		for i, p := range a.pts {
			if !yield(i, []float64{p[0], p[1]}) {
				return
			}
		}
	}
}

// Infos returns the per-element payloads, aligned with Points.
func (a *Archive) Infos() []any { return slices.Clone(a.infos) }

// Discarded returns the pairs evicted by the most recent mutating call.
func (a *Archive) Discarded() [][]float64 { return a.discarded }

// Contains reports whether f is resident.
func (a *Archive) Contains(f []float64) bool {
	_, ok := a.Index(f)
	return ok
}

// Index returns the position of the resident pair equal to f.
func (a *Archive) Index(f []float64) (int, bool) {
	if len(f) != 2 {
		return 0, false
	}
	p := pair{f[0], f[1]}
	idx := a.bisectLeft(p, 0)
	if idx < len(a.pts) && a.pts[idx] == p {
		return idx, true
	}
	return 0, false
}

// BisectLeft returns the smallest index >= lowest at which f could be
// inserted keeping the list sorted by (f1, f2) lexicographically.
func (a *Archive) BisectLeft(f []float64, lowest int) (int, error) {
	if len(f) != 2 {
		return 0, &archive.ErrArity{Expected: 2, Actual: len(f)}
	}
	return a.bisectLeft(pair{f[0], f[1]}, lowest), nil
}

func (a *Archive) bisectLeft(p pair, lowest int) int {
	return lowest + sort.Search(len(a.pts)-lowest, func(i int) bool {
		return !pairLess(a.pts[lowest+i], p)
	})
}

// dominatesWith reports whether pts[idx] weakly dominates p; false when
// idx is out of range.
func (a *Archive) dominatesWith(idx int, p pair) bool {
	if idx < 0 || idx >= len(a.pts) {
		return false
	}
	return a.pts[idx][0] <= p[0] && a.pts[idx][1] <= p[1]
}

// Dominates reports whether some resident weakly dominates f.
func (a *Archive) Dominates(f []float64) bool {
	if len(f) != 2 || len(a.pts) == 0 {
		return false
	}
	p := pair{f[0], f[1]}
	idx := a.bisectLeft(p, 0)
	return a.dominatesWith(idx-1, p) || a.dominatesWith(idx, p)
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
	if len(f) != 2 {
		return nil, 0
	}
	p := pair{f[0], f[1]}
	var res [][]float64
	count := 0
	idx := a.bisectLeft(p, 0)
	if idx < len(a.pts) && a.pts[idx] == p {
		count++
		if !numberOnly {
			res = append(res, []float64{p[0], p[1]})
		}
	}
	for idx--; idx >= 0 && a.pts[idx][1] <= p[1]; idx-- {
		count++
		if !numberOnly {
			res = append(res, []float64{a.pts[idx][0], a.pts[idx][1]})
		}
	}
	slices.Reverse(res)
	return res, count
}

// InDomain reports whether f is strictly below the reference point in
// both objectives (always true without one).
func (a *Archive) InDomain(f []float64) bool {
	if len(f) != 2 {
		return false
	}
	return a.inDomain(pair{f[0], f[1]}, a.ref)
}

// InDomainIndex reports whether the resident at index i is in domain;
// false when i is out of range.
func (a *Archive) InDomainIndex(i int) bool {
	if i < 0 || i >= len(a.pts) {
		return false
	}
	return a.inDomain(a.pts[i], a.ref)
}

func (a *Archive) inDomain(p pair, ref *pair) bool {
	if ref == nil {
		return true
	}
	return p[0] < ref[0] && p[1] < ref[1]
}

// Add inserts f unless it is weakly dominated or out of domain; those are
// successful no-ops reporting false. Satisfies the archive.Archive
// contract; Insert additionally reports the insertion index.
func (a *Archive) Add(f []float64, info any) (bool, error) {
	_, ok, err := a.Insert(f, info)
	return ok, err
}

// Insert inserts f and returns the index at which the insertion took
// place. ok is false when f was weakly dominated or out of domain; the
// rejected pair then shows up in Discarded unless it equals a resident.
func (a *Archive) Insert(f []float64, info any) (int, bool, error) {
	idx, ok, removed, selfRejected, err := a.insertOne(f, info, 0)
	if err != nil {
		return 0, false, err
	}
	if selfRejected {
		a.discarded = [][]float64{{f[0], f[1]}}
	} else {
		a.discarded = removed
	}
	a.check()
	return idx, ok, nil
}

// insertOne is the insertion algorithm shared by Insert, AddList and
// Merge. lowest restricts the bisect search from below (merge cursor).
// removed holds the evicted residents on success; selfRejected marks a
// rejected candidate that is not resident.
func (a *Archive) insertOne(f []float64, info any, lowest int) (idx int, ok bool, removed [][]float64, selfRejected bool, err error) {
	if len(f) != 2 {
		return 0, false, nil, false, &archive.ErrArity{Expected: 2, Actual: len(f)}
	}
	p := pair{f[0], f[1]}
	if !a.inDomain(p, a.ref) {
		if a.ref != nil && len(a.pts) == 0 {
			if d := -a.norm.DistanceToArea(f); d > a.hvPlusDist {
				a.hvPlusDist = d
			}
		}
		return 0, false, nil, true, nil
	}
	idx = a.bisectLeft(p, lowest)
	if a.dominatesWith(idx-1, p) || a.dominatesWith(idx, p) {
		resident := (idx > 0 && a.pts[idx-1] == p) || (idx < len(a.pts) && a.pts[idx] == p)
		return 0, false, nil, !resident, nil
	}
	removed = a.addAt(idx, p, info)
	return idx, true, removed, false, nil
}

// addAt places p at position idx and removes the residents it dominates.
// p must not be weakly dominated and idx must come from bisectLeft.
func (a *Archive) addAt(idx int, p pair, info any) [][]float64 {
	if idx == len(a.pts) || p[1] > a.pts[idx][1] {
		a.pts = slices.Insert(a.pts, idx, p)
		a.infos = slices.Insert(a.infos, idx, info)
		a.addHV(idx)
		return nil
	}
	// p dominates pts[idx] and possibly a run to its right
	idx2 := idx + 1
	for idx2 < len(a.pts) && p[1] <= a.pts[idx2][1] {
		idx2++
	}
	a.subtractHV(idx, idx2)
	removed := make([][]float64, 0, idx2-idx)
	for _, q := range a.pts[idx:idx2] {
		removed = append(removed, []float64{q[0], q[1]})
	}
	// overwrite in place, then one splice for the rest of the run
	a.pts[idx] = p
	a.infos[idx] = info
	a.pts = slices.Delete(a.pts, idx+1, idx2)
	a.infos = slices.Delete(a.infos, idx+1, idx2)
	a.addHV(idx)
	return removed
}

// AddList inserts a batch of pairs which does not need to be sorted and
// returns the number actually inserted. Discarded accumulates the
// evictions of the whole batch, not the rejected inputs.
func (a *Archive) AddList(fs [][]float64, infos []any) (int, error) {
	if infos != nil && len(infos) != len(fs) {
		return 0, fmt.Errorf("need as many infos as points, got %d infos and %d points",
			len(infos), len(fs))
	}
	var all [][]float64
	count := 0
	for i, f := range fs {
		var info any
		if infos != nil {
			info = infos[i]
		}
		_, ok, removed, _, err := a.insertOne(f, info, 0)
		if err != nil {
			return count, err
		}
		if ok {
			count++
			all = append(all, removed...)
		}
	}
	a.discarded = all
	a.check()
	return count, nil
}

// Merge inserts a batch of pairs sorted by (f1, f2) and returns the
// number inserted. The sorted order is exploited by restarting each
// bisect search at the previous insertion position, so the total scan is
// linear in len(archive)+len(batch).
func (a *Archive) Merge(fs [][]float64, infos []any) (int, error) {
	if infos != nil && len(infos) != len(fs) {
		return 0, fmt.Errorf("need as many infos as points, got %d infos and %d points",
			len(infos), len(fs))
	}
	var all [][]float64
	count := 0
	cur := 0
	for i, f := range fs {
		var info any
		if infos != nil {
			info = infos[i]
		}
		idx, ok, removed, _, err := a.insertOne(f, info, cur)
		if err != nil {
			return count, err
		}
		if ok {
			count++
			cur = idx
			all = append(all, removed...)
		}
	}
	a.discarded = all
	a.check()
	return count, nil
}

// Remove deletes the resident pair equal to f and returns its info.
func (a *Archive) Remove(f []float64) (any, error) {
	if len(f) != 2 {
		return nil, &archive.ErrArity{Expected: 2, Actual: len(f)}
	}
	idx, ok := a.Index(f)
	if !ok {
		return nil, &archive.ErrNotFound{Point: slices.Clone(f)}
	}
	return a.RemoveIndex(idx)
}

// RemoveIndex deletes the resident pair at index i and returns its info.
func (a *Archive) RemoveIndex(i int) (any, error) {
	if i < 0 || i >= len(a.pts) {
		return nil, &archive.ErrIndexOutOfRange{Index: i, Len: len(a.pts)}
	}
	a.subtractHV(i, i+1)
	a.discarded = [][]float64{{a.pts[i][0], a.pts[i][1]}}
	info := a.infos[i]
	a.pts = slices.Delete(a.pts, i, i+1)
	a.infos = slices.Delete(a.infos, i, i+1)
	if len(a.pts) == 0 {
		a.hvPlusDist = math.Inf(-1)
	}
	a.check()
	return info, nil
}

// Clear empties the archive, keeping the reference point and
// configuration.
func (a *Archive) Clear() {
	a.pts = a.pts[:0]
	a.infos = a.infos[:0]
	a.discarded = nil
	a.hv = a.final.Zero()
	a.hvPlusDist = math.Inf(-1)
}

// Prune removes dominated or out-of-domain entries and returns the count
// dropped. On a consistent archive this is a no-op; it exists for lists
// mutated through construction with Presorted set on unsorted input.
func (a *Archive) Prune() int {
	before := len(a.pts)
	a.discarded = a.pruneSorted()
	if len(a.pts) != before {
		a.setHV()
	}
	a.check()
	return before - len(a.pts)
}

// pruneSorted drops out-of-domain and dominated entries from the sorted
// list, keeping infos aligned, and returns the dropped pairs. Duplicates
// of kept neighbours are skipped in the report, matching the discarded
// contract (a pair still resident is not discarded).
func (a *Archive) pruneSorted() [][]float64 {
	var removed [][]float64
	drop := func(from, to int) {
		a.pts = slices.Delete(a.pts, from, to)
		a.infos = slices.Delete(a.infos, from, to)
	}
	i := 0
	for i < len(a.pts) && !a.inDomain(a.pts[i], a.ref) {
		removed = append(removed, []float64{a.pts[i][0], a.pts[i][1]})
		i++
	}
	drop(0, i)
	i = 1
	for i < len(a.pts) {
		i0 := i
		for i < len(a.pts) && (a.pts[i][1] >= a.pts[i0-1][1] || !a.inDomain(a.pts[i], a.ref)) {
			i++
		}
		i0r := i0
		for i0r < i && a.pts[i0r] == a.pts[i0-1] {
			i0r++
		}
		ir := i
		if i+1 < len(a.pts) {
			for ir > i0r && a.pts[ir] == a.pts[i+1] {
				ir--
			}
		}
		for _, q := range a.pts[i0r:ir] {
			removed = append(removed, []float64{q[0], q[1]})
		}
		drop(i0, i)
		i = i0 + 1
	}
	return removed
}

// Copy returns a deep copy sharing no state with a.
func (a *Archive) Copy() *Archive {
	dup := &Archive{
		pts:        slices.Clone(a.pts),
		infos:      slices.Clone(a.infos),
		discarded:  slices.Clone(a.discarded),
		comp:       a.comp,
		final:      a.final,
		hv:         a.hv,
		hvPlusDist: a.hvPlusDist,
		norm:       a.norm.Clone(),
		logger:     a.logger,
		selfChecks: a.selfChecks,
	}
	if a.ref != nil {
		r := *a.ref
		dup.ref = &r
	}
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
	if len(a.pts) == 0 && a.hvPlusDist < 0 && !math.IsInf(a.hvPlusDist, -1) {
		a.logger.Warn("hypervolume_plus indicator not updated after changing weights or ideal point",
			"hypervolume_plus", a.hvPlusDist)
	}
}

// check runs the diagnostic invariant sweep when enabled. A violation is
// a bug and panics.
func (a *Archive) check() {
	if !a.selfChecks {
		return
	}
	for i := 1; i < len(a.pts); i++ {
		if !(a.pts[i-1][0] < a.pts[i][0] && a.pts[i-1][1] > a.pts[i][1]) {
			panic(fmt.Errorf("%w: elements %d and %d violate the staircase ordering: %v, %v",
				archive.ErrInconsistent, i-1, i, a.pts[i-1], a.pts[i]))
		}
	}
	if len(a.infos) != len(a.pts) {
		panic(fmt.Errorf("%w: %d infos for %d points", archive.ErrInconsistent, len(a.infos), len(a.pts)))
	}
	if a.ref != nil {
		fresh := a.computeHypervolumeRaw(*a.ref)
		if math.Abs(a.final.Float64(a.hv)-a.final.Float64(fresh)) > 1e-11 {
			panic(fmt.Errorf("%w: cached hypervolume %v differs from recomputed %v",
				archive.ErrInconsistent, a.hv, fresh))
		}
	}
}
