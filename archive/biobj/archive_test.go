package biobj

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/moarchive/archive"
	"github.com/hupe1980/moarchive/scalar"
)

func mustNew(t *testing.T, points [][]float64, optFns ...archive.Option) *Archive {
	t.Helper()
	a, err := New(points, optFns...)
	require.NoError(t, err)
	return a
}

func TestNewSortsAndPrunes(t *testing.T) {
	a := mustNew(t, [][]float64{{1, 0.9}, {0, 1}, {0, 2}})
	assert.Equal(t, [][]float64{{0, 1}, {1, 0.9}}, a.Points())

	a = mustNew(t, [][]float64{
		{-0.749, -1.188}, {-0.557, 1.1076}, {0.2454, 0.4724}, {-1.146, -0.110},
	})
	assert.Equal(t, [][]float64{{-1.146, -0.110}, {-0.749, -1.188}}, a.Points())
}

func TestNewDiscardsDuplicates(t *testing.T) {
	a := mustNew(t, [][]float64{{0.1, 1}, {-2, 3}, {-4, 5}, {-4, 5}, {-4, 4.9}})
	assert.Equal(t, [][]float64{{-4, 4.9}, {-2, 3}, {0.1, 1}}, a.Points())
	assert.Equal(t, [][]float64{{-4, 5}, {-4, 5}}, a.Discarded())
}

func TestNewValidation(t *testing.T) {
	var arity *archive.ErrArity

	_, err := New(nil, archive.WithReferencePoint(1, 2, 3))
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 2, arity.Expected)
	assert.Equal(t, 3, arity.Actual)

	_, err = New([][]float64{{1, 2, 3}})
	require.ErrorAs(t, err, &arity)

	_, err = New([][]float64{{1, 2}}, archive.WithInfos([]any{"a", "b"}))
	require.Error(t, err)
}

func TestAddReturnsIndex(t *testing.T) {
	a := mustNew(t, nil)
	assert.Equal(t, 0, a.Len())
	assert.Len(t, a.Infos(), 0)

	idx, ok, err := a.Insert([]float64{2, 2}, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok, err = a.Insert([]float64{3, 1}, map[string]any{"x": []float64{-1, 2, 3}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	require.Equal(t, 2, a.Len())
	require.Len(t, a.Infos(), 2)
	assert.Nil(t, a.Infos()[0])
	assert.Equal(t, []float64{-1, 2, 3}, a.Infos()[1].(map[string]any)["x"])
}

func TestAddDominated(t *testing.T) {
	a := mustNew(t, [][]float64{{0.39, 0.075}, {0.0087, 0.14}}, archive.WithReferencePoint(1, 1))
	hv0, err := a.Hypervolume()
	require.NoError(t, err)

	// weakly dominated candidates are silent no-ops (I5)
	for _, f := range [][]float64{{0.39, 0.075}, {0.5, 0.2}, {0.0087, 0.14}} {
		_, ok, err := a.Insert(f, nil)
		require.NoError(t, err)
		assert.False(t, ok, "candidate %v", f)
		hv1, err := a.Hypervolume()
		require.NoError(t, err)
		assert.Equal(t, hv0.Float64(), hv1.Float64())
		assert.Equal(t, 2, a.Len())
	}

	// a rejected non-resident candidate shows up in Discarded
	_, ok, _ := a.Insert([]float64{0.5, 0.2}, nil)
	assert.False(t, ok)
	assert.Equal(t, [][]float64{{0.5, 0.2}}, a.Discarded())

	// an equal candidate does not
	_, ok, _ = a.Insert([]float64{0.39, 0.075}, nil)
	assert.False(t, ok)
	assert.Empty(t, a.Discarded())
}

func TestAddCascadeRemoval(t *testing.T) {
	a := mustNew(t, [][]float64{{6, 6}, {5, 7}, {4, 8}, {3, 9}}, archive.WithReferencePoint(10, 10))
	require.Equal(t, 4, a.Len())

	// dominates the whole archive
	idx, ok, err := a.Insert([]float64{1, 1}, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, a.Len())
	assert.Len(t, a.Discarded(), 4)

	// every discarded pair is weakly dominated by the insert (I6)
	for _, d := range a.Discarded() {
		assert.True(t, 1 <= d[0] && 1 <= d[1])
	}
}

func TestAddEqualF1SmallerF2(t *testing.T) {
	a := mustNew(t, [][]float64{{1, 5}}, archive.WithReferencePoint(10, 10))
	idx, ok, err := a.Insert([]float64{1, 3}, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, [][]float64{{1, 3}}, a.Points())
	assert.Equal(t, [][]float64{{1, 5}}, a.Discarded())
}

func TestAddOutOfDomain(t *testing.T) {
	a := mustNew(t, [][]float64{{-1.146, -0.11}, {-1, -3}},
		archive.WithReferencePoint(10, 10), archive.WithPresorted())
	_, ok, err := a.Insert([]float64{-1.5, 44}, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, [][]float64{{-1.146, -0.11}, {-1, -3}}, a.Points())
}

func TestBisectLeft(t *testing.T) {
	a := mustNew(t, [][]float64{{0, 3}, {1, 2}, {2, 1}})

	tests := []struct {
		name     string
		f        []float64
		lowest   int
		expected int
	}{
		{"Before", []float64{-1, 5}, 0, 0},
		{"Between", []float64{0.5, 2.5}, 0, 1},
		{"EqualF1SmallerF2", []float64{1, 1.5}, 0, 1},
		{"EqualF1LargerF2", []float64{1, 2.5}, 0, 2},
		{"EqualPair", []float64{1, 2}, 0, 1},
		{"After", []float64{5, 0}, 0, 3},
		{"LowestIndex", []float64{-1, 5}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.BisectLeft(tt.f, tt.lowest)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDominates(t *testing.T) {
	a := mustNew(t, [][]float64{{0.39, 0.075}, {0.0087, 0.14}})
	for _, p := range a.Points() {
		assert.True(t, a.Dominates(p))
	}
	assert.False(t, a.Dominates([]float64{-1, 33}))
	assert.False(t, a.Dominates([]float64{33, -1}))
	assert.True(t, a.Dominates([]float64{1, 1}))

	empty := mustNew(t, nil)
	assert.False(t, empty.Dominates([]float64{0, 0}))
}

func TestDominators(t *testing.T) {
	a := mustNew(t, [][]float64{{1.2, 0.1}, {0.5, 1}})
	require.Equal(t, 2, a.Len())

	assert.Equal(t, a.Points(), a.Dominators([]float64{2, 3}))
	assert.Equal(t, [][]float64{{0.5, 1}}, a.Dominators([]float64{0.5, 1}))
	assert.Equal(t, 1, a.CountDominators([]float64{0.6, 3}))
	assert.Len(t, a.Dominators([]float64{0.6, 3}), 1)
	assert.Empty(t, a.Dominators([]float64{0.5, 0.9}))
}

func TestInDomain(t *testing.T) {
	a := mustNew(t, [][]float64{{2.2, 0.1}, {0.5, 1}}, archive.WithReferencePoint(2, 2))
	require.Equal(t, 1, a.Len())

	assert.True(t, a.InDomain([]float64{0, 0}))
	assert.False(t, a.InDomain([]float64{2, 1}))
	for _, p := range a.Points() {
		assert.True(t, a.InDomain(p))
	}
	assert.True(t, a.InDomainIndex(0))
	assert.False(t, a.InDomainIndex(5))
}

func TestAddListAndMergeAgree(t *testing.T) {
	base := [][]float64{{0, 10}, {2, 8}, {4, 6}, {6, 4}, {8, 2}}
	batch := [][]float64{{1, 7}, {3, 6.5}, {5, 3}, {7, 2.5}, {9, 1}}

	viaAdd := mustNew(t, base, archive.WithReferencePoint(20, 20))
	nAdd, err := viaAdd.AddList(batch, nil)
	require.NoError(t, err)

	viaMerge := mustNew(t, base, archive.WithReferencePoint(20, 20))
	nMerge, err := viaMerge.Merge(batch, nil)
	require.NoError(t, err)

	assert.Equal(t, nAdd, nMerge)
	assert.Empty(t, cmp.Diff(viaAdd.Points(), viaMerge.Points()))

	hvAdd, err := viaAdd.Hypervolume()
	require.NoError(t, err)
	hvMerge, err := viaMerge.Hypervolume()
	require.NoError(t, err)
	assert.Equal(t, hvAdd.Float64(), hvMerge.Float64())
}

func TestAddListDiscarded(t *testing.T) {
	a := mustNew(t, nil)
	n, err := a.AddList([][]float64{{1, 2}, {0, 3}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, [][]float64{{0, 3}, {1, 2}}, a.Points())

	hv, err := a.ComputeHypervolume([]float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, 5.0, hv.Float64())

	// the batch eviction of a resident is reported, rejected inputs are not
	n, err = a.AddList([][]float64{{0, 2.5}, {5, 5}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, [][]float64{{0, 3}}, a.Discarded())
}

func TestRemove(t *testing.T) {
	a := mustNew(t, [][]float64{{2, 3}})
	_, err := a.Remove([]float64{1, 2})
	var notFound *archive.ErrNotFound
	require.ErrorAs(t, err, &notFound)

	a = mustNew(t, nil)
	_, err = a.AddList([][]float64{{6, 6}, {5, 7}, {4, 8}, {3, 9}}, nil)
	require.NoError(t, err)

	_, err = a.Remove([]float64{3, 9})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())

	idx, ok, err := a.Insert([]float64{2, 10}, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestRemoveRestoresState(t *testing.T) {
	points := [][]float64{{1, 6}, {2, 5}, {3, 4}, {4, 3}, {5, 2}, {6, 1}}
	a := mustNew(t, points, archive.WithReferencePoint(10, 10),
		archive.WithScalars(scalar.Exact, scalar.Exact))

	hv0, err := a.Hypervolume()
	require.NoError(t, err)
	for _, p := range a.Points() {
		info, err := a.Remove(p)
		require.NoError(t, err)
		assert.Nil(t, info)
		assert.Equal(t, len(points)-1, a.Len())
		_, ok, err := a.Insert(p, nil)
		require.NoError(t, err)
		require.True(t, ok)
		hv1, err := a.Hypervolume()
		require.NoError(t, err)
		assert.Equal(t, 0, scalar.Exact.Cmp(hv0, hv1),
			"hypervolume changed after remove/re-add of %v", p)
	}
}

func TestRemoveIndex(t *testing.T) {
	a := mustNew(t, [][]float64{{1, 2}, {2, 1}}, archive.WithReferencePoint(4, 4),
		archive.WithInfos([]any{"a", "b"}))

	info, err := a.RemoveIndex(1)
	require.NoError(t, err)
	assert.Equal(t, "b", info)
	assert.Equal(t, [][]float64{{1, 2}}, a.Points())
	hv, err := a.Hypervolume()
	require.NoError(t, err)
	assert.Equal(t, 6.0, hv.Float64())

	_, err = a.RemoveIndex(5)
	var oor *archive.ErrIndexOutOfRange
	require.ErrorAs(t, err, &oor)
}

func TestClear(t *testing.T) {
	a := mustNew(t, [][]float64{{1, 2}, {2, 1}}, archive.WithReferencePoint(4, 4))
	a.Clear()
	assert.Equal(t, 0, a.Len())
	hv, err := a.Hypervolume()
	require.NoError(t, err)
	assert.Equal(t, 0.0, hv.Float64())
	hvPlus, err := a.HypervolumePlus()
	require.NoError(t, err)
	assert.True(t, math.IsInf(hvPlus, -1))
	assert.Equal(t, []float64{4, 4}, a.ReferencePoint())
}

func TestInfosStayAligned(t *testing.T) {
	a := mustNew(t, [][]float64{{-0.749, -1.188}, {-0.557, 1.1076}, {0.2454, 0.4724}},
		archive.WithReferencePoint(10, 10), archive.WithInfos([]any{"a", "b", "c"}))
	assert.Equal(t, []any{"a"}, a.Infos())

	_, _, err := a.Insert([]float64{-1, -3}, "d")
	require.NoError(t, err)
	require.Equal(t, a.Len(), len(a.Infos()))

	for i, p := range a.Points() {
		idx, ok := a.Index(p)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	a := mustNew(t, [][]float64{{1, 2}, {2, 1}}, archive.WithReferencePoint(4, 4),
		archive.WithInfos([]any{"a", "b"}))
	b := a.Copy()

	_, _, err := b.Insert([]float64{0.5, 0.5}, "c")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1, b.Len())

	hvA, _ := a.Hypervolume()
	hvB, _ := b.Hypervolume()
	assert.Equal(t, 8.0, hvA.Float64())
	assert.Equal(t, 12.25, hvB.Float64())
}

func TestSelfChecks(t *testing.T) {
	a := mustNew(t, [][]float64{{1, 6}, {2, 5}, {3, 4}}, archive.WithReferencePoint(10, 10),
		archive.WithSelfChecks(true))
	_, _, err := a.Insert([]float64{2.5, 4.5}, nil)
	require.NoError(t, err)
	_, err = a.Remove([]float64{1, 6})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())
}

func TestIterationOrder(t *testing.T) {
	a := mustNew(t, [][]float64{{3, 1}, {1, 3}, {2, 2}})
	var got [][]float64
	for _, p := range a.All() {
		got = append(got, p)
	}
	assert.Equal(t, [][]float64{{1, 3}, {2, 2}, {3, 1}}, got)
}
