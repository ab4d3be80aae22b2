package multiobj

import (
	"github.com/google/btree"
)

// yList is the y-ordered delimiter structure consumed by the 3D
// preprocessing and removal sweeps, backed by a balanced search tree
// keyed on (f2, f1).
type yList struct {
	tree *btree.BTreeG[*node]
}

func newYList() *yList {
	return &yList{
		tree: btree.NewG(2, func(a, b *node) bool {
			if a.x[1] != b.x[1] {
				return a.x[1] < b.x[1]
			}
			return a.x[0] < b.x[0]
		}),
	}
}

func (l *yList) add(n *node) { l.tree.ReplaceOrInsert(n) }

func (l *yList) remove(n *node) { l.tree.Delete(n) }

func (l *yList) clear() { l.tree.Clear(false) }

// nextY returns the node with the smallest key greater than s.
func (l *yList) nextY(s *node) *node {
	var res *node
	l.tree.AscendGreaterOrEqual(s, func(n *node) bool {
		if n == s {
			return true
		}
		res = n
		return false
	})
	return res
}

// outerDelimiterX returns the node q with the largest key below p such
// that q.f2 < p.f2 (ties on f2 are skipped), falling back to the bottom
// sentinel.
func (l *yList) outerDelimiterX(p *node) *node {
	var res *node
	l.tree.DescendLessOrEqual(p, func(n *node) bool {
		if n.x[1] >= p.x[1] {
			return true
		}
		res = n
		return false
	})
	if res == nil {
		res, _ = l.tree.Min()
	}
	return res
}

// removeDominatedY removes the run of nodes above s whose f1 is not
// better than p's, i.e. the nodes p dominates in the (f1, f2) plane.
// s must be outerDelimiterX(p).
func (l *yList) removeDominatedY(p, s *node) {
	var doomed []*node
	l.tree.AscendGreaterOrEqual(s, func(n *node) bool {
		if n == s {
			return true
		}
		if p.x[0] <= n.x[0] {
			doomed = append(doomed, n)
			return true
		}
		return false
	})
	for _, n := range doomed {
		l.tree.Delete(n)
	}
}

// addY inserts p when it falls strictly between s and its successor in
// the f2 order.
func (l *yList) addY(p, s *node) {
	next := l.nextY(s)
	if next != nil && s.x[1] < p.x[1] && p.x[1] < next.x[1] {
		l.add(p)
	}
}

// removeStrictlyDominated2 removes every node strictly dominated by
// current in the (f1, f2) plane.
func (l *yList) removeStrictlyDominated2(current *node) {
	var doomed []*node
	l.tree.Ascend(func(n *node) bool {
		if n != current && strictlyDominatesN(current.x, n.x, 2) {
			doomed = append(doomed, n)
		}
		return true
	})
	for _, n := range doomed {
		l.tree.Delete(n)
	}
}

// minWhere returns the node minimizing key among those accepted by
// filter, or nil.
func (l *yList) minWhere(filter func(*node) bool, key func(*node) float64) *node {
	var res *node
	l.tree.Ascend(func(n *node) bool {
		if filter(n) && (res == nil || key(n) < key(res)) {
			res = n
		}
		return true
	})
	return res
}
