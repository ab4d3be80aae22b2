package scalar

import (
	"fmt"
	"math/big"
)

// Exact is the arbitrary-precision rational kind. Hypervolume deltas
// computed with it are exact; converting a non-finite float to it is a bug
// and panics (the archive algorithms never feed an infinite coordinate
// into scalar arithmetic).
var Exact Arithmetic = rationalArithmetic{}

type rat struct {
	r *big.Rat
}

func (v rat) Float64() float64 {
	f, _ := v.r.Float64()
	return f
}

func (v rat) String() string { return v.r.RatString() }

type rationalArithmetic struct{}

func (rationalArithmetic) Name() string { return "exact" }

func (rationalArithmetic) Zero() Value { return rat{r: new(big.Rat)} }

func (rationalArithmetic) FromFloat64(f float64) Value {
	if !isFinite(f) {
		panic(fmt.Sprintf("scalar: cannot represent %v exactly", f))
	}
	return rat{r: new(big.Rat).SetFloat64(f)}
}

func (rationalArithmetic) Add(a, b Value) Value {
	return rat{r: new(big.Rat).Add(mustRat(a).r, mustRat(b).r)}
}

func (rationalArithmetic) Sub(a, b Value) Value {
	return rat{r: new(big.Rat).Sub(mustRat(a).r, mustRat(b).r)}
}

func (rationalArithmetic) Mul(a, b Value) Value {
	return rat{r: new(big.Rat).Mul(mustRat(a).r, mustRat(b).r)}
}

func (rationalArithmetic) Cmp(a, b Value) int {
	return mustRat(a).r.Cmp(mustRat(b).r)
}

func (rationalArithmetic) CmpFloat64(a Value, f float64) int {
	v := mustRat(a)
	if !isFinite(f) {
		if f > 0 {
			return -1
		}
		return 1
	}
	return v.r.Cmp(new(big.Rat).SetFloat64(f))
}

func (rationalArithmetic) Float64(v Value) float64 { return mustRat(v).Float64() }

func mustRat(v Value) rat {
	r, ok := v.(rat)
	if !ok {
		panic(fmt.Sprintf("scalar: exact arithmetic applied to %T value", v))
	}
	return r
}
