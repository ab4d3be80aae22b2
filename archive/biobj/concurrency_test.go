package biobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/moarchive/archive"
)

// The query operations are read-only and may run concurrently with each
// other on a quiescent archive.
func TestConcurrentReads(t *testing.T) {
	points := make([][]float64, 0, 200)
	for i := 0; i < 200; i++ {
		points = append(points, []float64{float64(i), float64(200 - i)})
	}
	a := mustNew(t, points, archive.WithReferencePoint(1000, 1000))
	require.Equal(t, 200, a.Len())

	hv0, err := a.Hypervolume()
	require.NoError(t, err)

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < 100; i++ {
				f := []float64{float64((i + w) % 250), float64(i % 250)}
				a.Dominates(f)
				a.DistanceToParetoFront(f)
				if _, err := a.HypervolumeImprovement(f); err != nil {
					return err
				}
				if _, err := a.ContributingHypervolume(i % a.Len()); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	hv1, err := a.Hypervolume()
	require.NoError(t, err)
	assert.Equal(t, hv0.Float64(), hv1.Float64())
	assert.Equal(t, 200, a.Len())
}
