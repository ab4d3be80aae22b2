// Package constrained wraps an unconstrained archive for constrained
// multi-objective optimization. Solutions carry a constraint vector; a
// solution is feasible iff every constraint is non-positive. Infeasible
// solutions never enter the inner archive but drive the constrained
// hypervolume-plus indicator towards feasibility.
package constrained
