// Package moarchive provides non-dominated archives for multi-objective
// optimization with 2, 3 or 4 objectives, maintaining the exact
// hypervolume (optionally in rational arithmetic) across every insertion
// and answering uncrowded hypervolume improvement queries for arbitrary
// candidates, including dominated ones.
//
// # Quick Start
//
//	arch, _ := moarchive.New(
//	    moarchive.WithPoints([][]float64{{1, 0.9}, {0, 1}, {0, 2}}),
//	    moarchive.WithReferencePoint(10, 10),
//	)
//	arch.Add([]float64{0.5, 0.5}, nil)
//	hv, _ := arch.Hypervolume()
//	uhvi, _ := arch.HypervolumeImprovement([]float64{2, 2})
//
// The dimensionality of the archive follows the reference point (or
// WithNumObjectives); New returns the bi-objective sorted-list
// implementation for two objectives and the dimension-sweep
// implementation for three and four.
//
// # Exact arithmetic
//
// Hypervolume bookkeeping runs on two pluggable scalar kinds, one for
// the deltas and one for the materialized values:
//
//	arch, _ := moarchive.New(
//	    moarchive.WithReferencePoint(1, 1),
//	    moarchive.WithScalars(scalar.Exact, scalar.Exact),
//	)
//
// # Constrained optimization
//
// NewConstrained wraps an archive with per-solution constraint vectors;
// infeasible solutions never become resident but drive the constrained
// hypervolume-plus indicator:
//
//	cmoa, _ := moarchive.NewConstrained(
//	    moarchive.WithReferencePoint(5, 5),
//	    moarchive.WithTau(10),
//	)
//	cmoa.Add([]float64{4, 4}, []float64{0}, nil)
//
// # Key Features
//
//   - Sub-linear amortized insertion on the bi-objective sorted archive
//   - Incremental hypervolume bookkeeping on the bi-objective archive; the
//     3- and 4-objective archives recompute it by a dimension sweep after
//     each change
//   - Uncrowded hypervolume improvement for dominated candidates
//   - Hypervolume-plus and constrained hypervolume-plus indicators
//   - Ideal-point / weights normalization applied at read time
//   - Pluggable float64 or exact rational scalar kinds
package moarchive
