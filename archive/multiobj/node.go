package multiobj

import (
	"math"
	"sort"
)

// node is an element of the circular doubly-linked point list. The first
// three slots of next/prev are unused below their dimension; slot
// nObj-1 carries the main lexicographic order, slot 2 the z-order built
// by the 4D sweep. closest holds the delimiters in x and y direction,
// cnext is their scratch copy consumed by the area sweeps, and ndomr
// counts known dominators.
type node struct {
	x       [4]float64
	closest [2]*node
	cnext   [2]*node
	next    [4]*node
	prev    [4]*node
	ndomr   int
	info    any
}

func (n *node) coords(nObj int) []float64 {
	out := make([]float64, nObj)
	copy(out, n.x[:nObj])
	return out
}

func weaklyDominatesN(a, b [4]float64, nObj int) bool {
	for i := 0; i < nObj; i++ {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

func strictlyDominatesN(a, b [4]float64, nObj int) bool {
	strict := false
	for i := 0; i < nObj; i++ {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

// lexLess orders by (z, y, x), the sweep order of the 3D algorithms.
func lexLess(a, b [4]float64) bool {
	return a[2] < b[2] || (a[2] == b[2] && (a[1] < b[1] || (a[1] == b[1] && a[0] <= b[0])))
}

func unlinkDim(old *node, di int) {
	old.prev[di].next[di] = old.next[di]
	old.next[di].prev[di] = old.prev[di]
}

// initSentinels wires the three sentinel nodes that close the staircase
// at the reference point.
func initSentinels(s1, s2, s3 *node, ref [4]float64, nObj int) {
	s1.x = [4]float64{math.Inf(-1), ref[1], math.Inf(-1), math.Inf(-1)}
	s1.closest = [2]*node{s2, s1}
	s1.next = [4]*node{nil, nil, s2, s2}
	s1.cnext = [2]*node{}
	s1.prev = [4]*node{nil, nil, s3, s3}
	s1.ndomr = 0

	s2.x = [4]float64{ref[0], math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	s2.closest = [2]*node{s2, s1}
	s2.next = [4]*node{nil, nil, s3, s3}
	s2.cnext = [2]*node{}
	s2.prev = [4]*node{nil, nil, s1, s1}
	s2.ndomr = 0

	w := math.Inf(-1)
	if nObj == 4 {
		w = ref[3]
	}
	s3.x = [4]float64{math.Inf(-1), math.Inf(-1), ref[2], w}
	s3.closest = [2]*node{s2, s1}
	s3.next = [4]*node{nil, nil, s1, nil}
	s3.cnext = [2]*node{}
	s3.prev = [4]*node{nil, nil, s2, s2}
	s3.ndomr = 0
}

// setupList builds the circular list in dimension nObj-1 from the points
// that strictly dominate ref, sorted lexicographically with the last
// objective outermost. It returns the head sentinel and the node count.
func setupList(nObj int, points [][]float64, ref [4]float64, infos []any) (*node, int) {
	var kept [][]float64
	var keptInfos []any
	for i, p := range points {
		var p4 [4]float64
		copy(p4[:], p)
		if strictlyDominatesN(p4, ref, nObj) {
			kept = append(kept, p)
			if infos != nil {
				keptInfos = append(keptInfos, infos[i])
			} else {
				keptInfos = append(keptInfos, nil)
			}
		}
	}
	n := len(kept)

	s1, s2, s3 := &node{}, &node{}, &node{}
	initSentinels(s1, s2, s3, ref, nObj)
	di := nObj - 1
	if n == 0 {
		return s1, 0
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := kept[order[a]], kept[order[b]]
		for d := nObj - 1; d >= 0; d-- {
			if pa[d] != pb[d] {
				return pa[d] < pb[d]
			}
		}
		return false
	})

	data := make([]*node, n)
	for i, idx := range order {
		nd := &node{info: keptInfos[idx]}
		copy(nd.x[:], kept[idx])
		data[i] = nd
	}

	s2.next[di] = data[0]
	data[0].prev[di] = s2
	for i := 0; i < n-1; i++ {
		data[i].next[di] = data[i+1]
		data[i+1].prev[di] = data[i]
	}
	data[n-1].next[di] = s3
	s3.prev[di] = data[n-1]

	return s1, n
}
