package biobj

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/moarchive/archive"
)

func TestDistanceToParetoFront(t *testing.T) {
	a := mustNew(t, [][]float64{{1, 6}, {3, 4}, {5, 2}}, archive.WithReferencePoint(10, 10))

	tests := []struct {
		name     string
		f        []float64
		expected float64
	}{
		{"NonDominated", []float64{0, 0}, 0},
		{"NonDominatedBetween", []float64{2, 5}, 0},
		{"OnKink", []float64{3, 6}, 0}, // dominated, touching the staircase
		{"DominatedInner", []float64{4, 5}, 1},
		{"DominatedAboveLeft", []float64{2, 8}, 1},
		{"DominatedRight", []float64{8, 3}, 1},
		{"BeyondReference", []float64{11, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, a.DistanceToParetoFront(tt.f), 1e-12)
		})
	}
}

func TestDistanceToParetoFrontEmpty(t *testing.T) {
	a := mustNew(t, nil, archive.WithReferencePoint(2, 2))
	assert.Equal(t, 0.0, a.DistanceToParetoFront([]float64{1, 1}))
	assert.Equal(t, math.Sqrt(2), a.DistanceToParetoFront([]float64{3, 3}))

	noRef := mustNew(t, nil)
	assert.Equal(t, 0.0, noRef.DistanceToParetoFront([]float64{100, 100}))
}

func TestDistanceToParetoFrontSingleElement(t *testing.T) {
	a := mustNew(t, [][]float64{{1, 1}}, archive.WithReferencePoint(10, 10))
	assert.Equal(t, 0.0, a.DistanceToParetoFront([]float64{0.5, 3}))
	// (2, 1) sits on the boundary of the dominated region
	assert.Equal(t, 0.0, a.DistanceToParetoFront([]float64{2, 1}))
	assert.InDelta(t, 1.0, a.DistanceToParetoFront([]float64{2, 2}), 1e-12)
}

func TestDistanceToHypervolumeArea(t *testing.T) {
	a := mustNew(t, nil, archive.WithReferencePoint(1, 1))

	tests := []struct {
		name     string
		f        []float64
		expected float64
	}{
		{"Inside", []float64{0, 0}, 0},
		{"OnCorner", []float64{1, 1}, 0},
		{"Above", []float64{1, 2}, 1},
		{"Diagonal", []float64{2, 2}, math.Sqrt(2)},
		{"FarRight", []float64{5, 0}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, a.DistanceToHypervolumeArea(tt.f), 1e-12)
		})
	}

	noRef := mustNew(t, nil)
	assert.Equal(t, 0.0, noRef.DistanceToHypervolumeArea([]float64{100, 100}))
}

func TestDistanceConsistentWithImprovementSign(t *testing.T) {
	a := mustNew(t, [][]float64{{1, 6}, {3, 4}, {5, 2}}, archive.WithReferencePoint(10, 10))

	for _, f := range [][]float64{{4, 5}, {6, 6}, {2, 7}, {0, 0}, {2, 5}} {
		d := a.DistanceToParetoFront(f)
		v, err := a.HypervolumeImprovement(f)
		require.NoError(t, err)
		if d > 0 {
			assert.InDelta(t, -(d*d), v.Float64(), 1e-12, "candidate %v", f)
		} else {
			assert.GreaterOrEqual(t, v.Float64(), 0.0, "candidate %v", f)
		}
	}
}
