// Package multiobj implements the 3- and 4-objective non-dominated
// archives. Points live in a circular doubly-linked list ordered
// lexicographically by the last objective, with per-node closest-point
// pointers feeding the dimension-sweep hypervolume computation (hv3d+,
// and its iterated hv4d+ variant for four objectives). A balanced search
// tree ordered by the second objective drives the preprocessing and
// removal sweeps.
//
// Unlike the bi-objective archive, the indicator queries
// (Hypervolume, HypervolumeImprovement, ContributingHypervolume*) use
// per-node scratch pointers and therefore require exclusive access; only
// the membership and dominance queries are safe for concurrent reads.
package multiobj
