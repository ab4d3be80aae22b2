// Package dominance provides the Pareto dominance predicates over objective
// vectors. All functions are pure comparisons; vectors are assumed to have
// equal length (caller's responsibility).
package dominance

// Weak reports whether a weakly dominates b, i.e. a is less than or equal
// to b in every coordinate.
func Weak(a, b []float64) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

// Strict reports whether a dominates b: a is less than or equal to b in
// every coordinate and strictly less in at least one.
func Strict(a, b []float64) bool {
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

// Equal reports whether a and b agree in every coordinate.
func Equal(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
