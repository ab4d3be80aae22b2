package norm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/moarchive/archive"
)

func TestDefaults(t *testing.T) {
	n := New(3, []float64{4, 4, 4})
	assert.Equal(t, []float64{1, 1, 1}, n.Weights())
	assert.Nil(t, n.IdealPoint())
	assert.Equal(t, 1.0, n.Factor())
	assert.Equal(t, 1.0, n.Scale(0))
}

func TestSetWeights(t *testing.T) {
	n := New(2, []float64{5, 5})

	prev, err := n.SetWeights([]float64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, prev)
	assert.Equal(t, 6.0, n.Factor())
	assert.Equal(t, 2.0, n.Scale(0))
	assert.Equal(t, 3.0, n.Scale(1))

	_, err = n.SetWeights([]float64{1})
	var arity *archive.ErrArity
	assert.ErrorAs(t, err, &arity)
}

func TestSetIdealPoint(t *testing.T) {
	n := New(2, []float64{5, 5})

	prev, err := n.SetIdealPoint([]float64{1, 1})
	require.NoError(t, err)
	assert.Nil(t, prev)
	assert.InDelta(t, 1.0/16, n.Factor(), 1e-12)
	assert.InDelta(t, 0.25, n.Scale(0), 1e-12)

	_, err = n.SetIdealPoint([]float64{5, 0})
	var invalid *archive.ErrInvalidIdealPoint
	assert.ErrorAs(t, err, &invalid)

	noRef := New(2, nil)
	_, err = noRef.SetIdealPoint([]float64{0, 0})
	assert.ErrorIs(t, err, archive.ErrNoReferencePoint)
}

func TestDistanceToArea(t *testing.T) {
	n := New(2, []float64{1, 1})
	assert.Equal(t, 0.0, n.DistanceToArea([]float64{0, 0}))
	assert.Equal(t, 1.0, n.DistanceToArea([]float64{1, 2}))
	assert.InDelta(t, math.Sqrt(2), n.DistanceToArea([]float64{2, 2}), 1e-12)

	_, err := n.SetWeights([]float64{3, 1})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(10), n.DistanceToArea([]float64{2, 2}), 1e-12)

	noRef := New(2, nil)
	assert.Equal(t, 0.0, noRef.DistanceToArea([]float64{100, 100}))
}

func TestClone(t *testing.T) {
	n := New(2, []float64{5, 5})
	_, err := n.SetWeights([]float64{2, 3})
	require.NoError(t, err)

	c := n.Clone()
	_, err = c.SetWeights([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 6.0, n.Factor())
	assert.Equal(t, 1.0, c.Factor())
}
