// Package scalar provides the pluggable numeric kinds used for hypervolume
// bookkeeping. An archive carries two kinds: a computation kind for
// hypervolume deltas and a final kind for the materialized indicator values.
// Both default to native float64; the Exact kind (backed by math/big.Rat)
// makes every delta exact at the cost of speed.
package scalar

import (
	"fmt"
	"math"
	"strconv"
)

// Value is an immutable scalar produced by an Arithmetic. Values from
// different kinds must not be mixed in one operation.
type Value interface {
	// Float64 returns the value rounded to the nearest float64.
	Float64() float64

	// String returns a human-readable representation.
	String() string
}

// Arithmetic is a numeric kind: a closed set of values under addition,
// subtraction and multiplication, with total ordering against native floats.
type Arithmetic interface {
	// Name identifies the kind, e.g. "float64" or "exact".
	Name() string

	// Zero returns the additive identity.
	Zero() Value

	// FromFloat64 converts a native float to this kind.
	FromFloat64(f float64) Value

	Add(a, b Value) Value
	Sub(a, b Value) Value
	Mul(a, b Value) Value

	// Cmp returns -1, 0 or +1 comparing a against b.
	Cmp(a, b Value) int

	// CmpFloat64 returns -1, 0 or +1 comparing a against a native float.
	CmpFloat64(a Value, f float64) int

	// Float64 converts a value of this kind to a native float.
	Float64(v Value) float64
}

// Float64 is the native floating-point kind. It accepts rounding in
// exchange for speed.
var Float64 Arithmetic = float64Arithmetic{}

// Convert materializes v in the target kind. Converting a value to its own
// kind is the identity; otherwise the value goes through float64 unless
// both kinds are exact.
func Convert(to Arithmetic, v Value) Value {
	switch to.(type) {
	case float64Arithmetic:
		if _, ok := v.(f64); ok {
			return v
		}
	case rationalArithmetic:
		if _, ok := v.(rat); ok {
			return v
		}
	}
	return to.FromFloat64(v.Float64())
}

type f64 float64

func (v f64) Float64() float64 { return float64(v) }

func (v f64) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

type float64Arithmetic struct{}

func (float64Arithmetic) Name() string { return "float64" }

func (float64Arithmetic) Zero() Value { return f64(0) }

func (float64Arithmetic) FromFloat64(f float64) Value { return f64(f) }

func (float64Arithmetic) Add(a, b Value) Value { return mustF64(a) + mustF64(b) }

func (float64Arithmetic) Sub(a, b Value) Value { return mustF64(a) - mustF64(b) }

func (float64Arithmetic) Mul(a, b Value) Value { return mustF64(a) * mustF64(b) }

func (float64Arithmetic) Cmp(a, b Value) int {
	return cmpFloats(float64(mustF64(a)), float64(mustF64(b)))
}

func (float64Arithmetic) CmpFloat64(a Value, f float64) int {
	return cmpFloats(float64(mustF64(a)), f)
}

func (float64Arithmetic) Float64(v Value) float64 { return float64(mustF64(v)) }

func mustF64(v Value) f64 {
	f, ok := v.(f64)
	if !ok {
		panic(fmt.Sprintf("scalar: float64 arithmetic applied to %T value", v))
	}
	return f
}

func cmpFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
