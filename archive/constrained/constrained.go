package constrained

import (
	"math"
	"slices"

	"github.com/hupe1980/moarchive/archive"
	"github.com/hupe1980/moarchive/archive/biobj"
	"github.com/hupe1980/moarchive/archive/multiobj"
	"github.com/hupe1980/moarchive/scalar"
)

// Archive wraps an unconstrained archive and tracks the constrained
// hypervolume-plus indicator. tau weighs the constraint-violation
// penalty against the distance-to-feasibility penalty.
type Archive struct {
	inner archive.Archive
	nObj  int
	tau   float64
	maxG  []float64

	hvPlusConstr float64
}

// New creates a constrained archive. The dimensionality comes from
// WithNumObjectives, the reference point, or the first initial point.
// Initial points require matching constraint vectors (WithConstraints).
func New(optFns ...archive.Option) (*Archive, error) {
	o := archive.Apply(optFns...)

	nObj := o.NumObjectives
	if nObj == 0 && o.ReferencePoint != nil {
		nObj = len(o.ReferencePoint)
	}
	if nObj == 0 && len(o.Points) > 0 {
		nObj = len(o.Points[0])
	}

	// the inner archive starts empty so that infeasible initial points
	// never become resident
	innerOpts := append(slices.Clone(optFns), archive.WithPoints(nil), archive.WithInfos(nil))
	var inner archive.Archive
	var err error
	switch nObj {
	case 2:
		inner, err = biobj.New(nil, innerOpts...)
	case 3, 4:
		inner, err = multiobj.New(nil, append(innerOpts, archive.WithNumObjectives(nObj))...)
	default:
		return nil, &archive.ErrArity{Expected: 2, Actual: nObj}
	}
	if err != nil {
		return nil, err
	}

	c := &Archive{
		inner:        inner,
		nObj:         nObj,
		tau:          o.Tau,
		maxG:         slices.Clone(o.MaxGValues),
		hvPlusConstr: math.Inf(-1),
	}
	if len(o.Points) > 0 {
		if _, err := c.AddList(o.Points, o.Constraints, o.Infos); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// violation returns the normalized aggregate constraint violation of g.
func (c *Archive) violation(g []float64) (float64, error) {
	if c.maxG != nil && len(g) != len(c.maxG) {
		return 0, &archive.ErrArity{Expected: len(c.maxG), Actual: len(g)}
	}
	var sum float64
	for i, v := range g {
		v = math.Max(0, v)
		if c.maxG != nil {
			v /= c.maxG[i]
		}
		sum += v
	}
	return sum, nil
}

// Add inserts f with constraint vector g. Infeasible solutions never
// become resident; they can only tighten the constrained indicator.
func (c *Archive) Add(f, g []float64, info any) (bool, error) {
	violation, err := c.violation(g)
	if err != nil {
		return false, err
	}
	if violation > 0 {
		if c.inner.ReferencePoint() != nil && violation+c.tau < -c.hvPlusConstr {
			c.hvPlusConstr = -(violation + c.tau)
		}
		return false, nil
	}
	ok, err := c.inner.Add(f, info)
	if err != nil {
		return false, err
	}
	if c.inner.ReferencePoint() != nil {
		hvPlus, err := c.inner.HypervolumePlus()
		if err != nil {
			return false, err
		}
		c.hvPlusConstr = math.Max(hvPlus, -c.tau)
	}
	return ok, nil
}

// AddList inserts a batch of solutions with their constraint vectors and
// returns the number of feasible solutions that became resident.
func (c *Archive) AddList(fs, gs [][]float64, infos []any) (int, error) {
	if len(gs) != len(fs) {
		return 0, &archive.ErrArity{Expected: len(fs), Actual: len(gs)}
	}
	if infos != nil && len(infos) != len(fs) {
		return 0, &archive.ErrArity{Expected: len(fs), Actual: len(infos)}
	}
	count := 0
	for i, f := range fs {
		var info any
		if infos != nil {
			info = infos[i]
		}
		ok, err := c.Add(f, gs[i], info)
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// Remove deletes a feasible resident solution and returns its info.
func (c *Archive) Remove(f []float64) (any, error) {
	info, err := c.inner.Remove(f)
	if err != nil {
		return nil, err
	}
	if c.inner.ReferencePoint() != nil {
		hvPlus, err := c.inner.HypervolumePlus()
		if err != nil {
			return nil, err
		}
		c.hvPlusConstr = hvPlus
	}
	return info, nil
}

// Len returns the number of resident (feasible) solutions.
func (c *Archive) Len() int { return c.inner.Len() }

// NumObjectives returns the objective count.
func (c *Archive) NumObjectives() int { return c.nObj }

// Tau returns the feasibility threshold of the indicator.
func (c *Archive) Tau() float64 { return c.tau }

// MaxGValues returns the per-constraint violation normalizers, or nil.
func (c *Archive) MaxGValues() []float64 { return slices.Clone(c.maxG) }

// Points returns the resident objective vectors in archive order.
func (c *Archive) Points() [][]float64 { return c.inner.Points() }

// Infos returns the per-element payloads.
func (c *Archive) Infos() []any { return c.inner.Infos() }

// Discarded returns the vectors evicted from the inner archive by the
// most recent mutating call.
func (c *Archive) Discarded() [][]float64 { return c.inner.Discarded() }

// ReferencePoint returns the reference point, or nil.
func (c *Archive) ReferencePoint() []float64 { return c.inner.ReferencePoint() }

// Contains reports whether f is resident.
func (c *Archive) Contains(f []float64) bool { return c.inner.Contains(f) }

// Dominates reports whether some resident weakly dominates f.
func (c *Archive) Dominates(f []float64) bool { return c.inner.Dominates(f) }

// Dominators returns the residents weakly dominating f.
func (c *Archive) Dominators(f []float64) [][]float64 { return c.inner.Dominators(f) }

// CountDominators returns the number of residents weakly dominating f.
func (c *Archive) CountDominators(f []float64) int { return c.inner.CountDominators(f) }

// InDomain reports whether f is strictly below the reference point in
// every objective.
func (c *Archive) InDomain(f []float64) bool { return c.inner.InDomain(f) }

// Hypervolume returns the hypervolume of the feasible residents (zero
// while none exist).
func (c *Archive) Hypervolume() (scalar.Value, error) { return c.inner.Hypervolume() }

// HypervolumePlus returns the inner archive's uncrowded hypervolume
// indicator.
func (c *Archive) HypervolumePlus() (float64, error) { return c.inner.HypervolumePlus() }

// HypervolumePlusConstr returns the constrained hypervolume-plus
// indicator: once a feasible solution has been added, the larger of the
// inner hypervolume-plus and -tau, otherwise the negated penalty of the
// best infeasible solution seen.
func (c *Archive) HypervolumePlusConstr() (float64, error) {
	if c.inner.ReferencePoint() == nil {
		return 0, archive.ErrNoReferencePoint
	}
	return c.hvPlusConstr, nil
}

// HypervolumePlusConstrImprovement returns the indicator delta that
// adding f with constraints g would cause; never negative.
func (c *Archive) HypervolumePlusConstrImprovement(f, g []float64) (float64, error) {
	violation, err := c.violation(g)
	if err != nil {
		return 0, err
	}
	if violation > 0 {
		if violation+c.tau < -c.hvPlusConstr {
			return -c.hvPlusConstr - (violation + c.tau), nil
		}
		return 0, nil
	}
	if !c.InDomain(f) {
		if c.hvPlusConstr > 0 {
			return 0, nil
		}
		dist := math.Min(c.DistanceToHypervolumeArea(f), c.tau)
		if dist < -c.hvPlusConstr {
			return -c.hvPlusConstr - dist, nil
		}
		return 0, nil
	}
	if !c.Dominates(f) {
		improvement, err := c.inner.HypervolumeImprovement(f)
		if err != nil {
			return 0, err
		}
		return math.Max(-c.hvPlusConstr, 0) + improvement.Float64(), nil
	}
	return 0, nil
}

// ContributingHypervolumes returns the contributions of the residents.
func (c *Archive) ContributingHypervolumes() ([]scalar.Value, error) {
	return c.inner.ContributingHypervolumes()
}

// ContributingHypervolumeOf returns the contribution of the resident
// equal to f, or its uncrowded hypervolume improvement.
func (c *Archive) ContributingHypervolumeOf(f []float64) (scalar.Value, error) {
	return c.inner.ContributingHypervolumeOf(f)
}

// HypervolumeImprovement returns the uncrowded hypervolume improvement
// of f on the inner archive.
func (c *Archive) HypervolumeImprovement(f []float64) (scalar.Value, error) {
	return c.inner.HypervolumeImprovement(f)
}

// DistanceToParetoFront returns the distance from f to the feasible
// Pareto front.
func (c *Archive) DistanceToParetoFront(f []float64) float64 {
	return c.inner.DistanceToParetoFront(f)
}

// DistanceToHypervolumeArea returns the distance from f to the reference
// rectangle.
func (c *Archive) DistanceToHypervolumeArea(f []float64) float64 {
	return c.inner.DistanceToHypervolumeArea(f)
}

// Weights returns the normalization weights of the inner archive.
func (c *Archive) Weights() []float64 { return c.inner.Weights() }

// SetWeights replaces the normalization weights of the inner archive.
func (c *Archive) SetWeights(w []float64) error { return c.inner.SetWeights(w) }

// IdealPoint returns the normalization ideal point, or nil.
func (c *Archive) IdealPoint() []float64 { return c.inner.IdealPoint() }

// SetIdealPoint sets the normalization ideal point of the inner archive.
func (c *Archive) SetIdealPoint(z []float64) error { return c.inner.SetIdealPoint(z) }

// Clear empties the inner archive and resets the constrained indicator.
func (c *Archive) Clear() {
	c.inner.Clear()
	c.hvPlusConstr = math.Inf(-1)
}

// Copy returns a deep copy sharing no state with c.
func (c *Archive) Copy() *Archive {
	dup := &Archive{
		nObj:         c.nObj,
		tau:          c.tau,
		maxG:         slices.Clone(c.maxG),
		hvPlusConstr: c.hvPlusConstr,
	}
	switch inner := c.inner.(type) {
	case *biobj.Archive:
		dup.inner = inner.Copy()
	case *multiobj.Archive:
		dup.inner = inner.Copy()
	}
	return dup
}
