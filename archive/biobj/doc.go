// Package biobj implements the bi-objective non-dominated archive: a
// sequence of objective pairs kept sorted by the first objective (and,
// by non-dominance, anti-sorted by the second), with incrementally
// maintained hypervolume and the uncrowded hypervolume improvement query.
//
// Insertion locates the candidate by binary search, rejects weakly
// dominated candidates, and removes the contiguous run of residents the
// candidate dominates with a single slice splice, overwriting the first
// removed slot in place instead of shifting the tail twice. The cached
// hypervolume is updated from the areas of exactly the affected
// elements, so a consistent archive never recomputes from scratch.
package biobj
