// Package scalar implements the generic real-scalar abstraction the engine
// is built on: a plain IEEE-754 value, or a value paired with a standard
// deviation that propagates through arithmetic by first-order linearization.
//
// Complex arithmetic (package scalar's Complex type) and the kernels in
// pkg/kernel and pkg/bessel are written against this abstraction so that a
// caller who never supplies uncertain inputs pays nothing beyond a zero
// Sigma field, while a caller who does gets uncertainty propagated through
// every Bessel call, kernel evaluation, and matrix assembly without any
// special-casing at the call site.
package scalar

import "math"

// Value is a real number with an optional standard deviation. Sigma == 0
// means the value is exact.
type Value struct {
	X     float64
	Sigma float64
}

// Exact builds a Value with no uncertainty.
func Exact(x float64) Value { return Value{X: x} }

// Measurement builds a Value with the given standard deviation.
func Measurement(x, sigma float64) Value { return Value{X: x, Sigma: math.Abs(sigma)} }

func (v Value) IsExact() bool { return v.Sigma == 0 }

func Add(a, b Value) Value {
	return Value{X: a.X + b.X, Sigma: math.Hypot(a.Sigma, b.Sigma)}
}

func Sub(a, b Value) Value {
	return Value{X: a.X - b.X, Sigma: math.Hypot(a.Sigma, b.Sigma)}
}

func Neg(a Value) Value { return Value{X: -a.X, Sigma: a.Sigma} }

func Mul(a, b Value) Value {
	return Value{X: a.X * b.X, Sigma: math.Hypot(b.X*a.Sigma, a.X*b.Sigma)}
}

func Div(a, b Value) Value {
	x := a.X / b.X
	// d(a/b)/da = 1/b, d(a/b)/db = -a/b^2
	return Value{X: x, Sigma: math.Hypot(a.Sigma/b.X, b.Sigma*a.X/(b.X*b.X))}
}

func Scale(a Value, k float64) Value {
	return Value{X: a.X * k, Sigma: math.Abs(k) * a.Sigma}
}

func Sqrt(a Value) Value {
	x := math.Sqrt(a.X)
	if x == 0 {
		return Value{X: 0}
	}
	return Value{X: x, Sigma: a.Sigma / (2 * x)}
}

func Exp(a Value) Value {
	x := math.Exp(a.X)
	return Value{X: x, Sigma: x * a.Sigma}
}

// Log is undefined (NumericalDomain, see pkg/engine) for a.X <= 0; callers
// must check before calling.
func Log(a Value) Value {
	return Value{X: math.Log(a.X), Sigma: a.Sigma / a.X}
}

// Apply evaluates a smooth real function f with known derivative fprime at
// the nominal, propagating uncertainty through the first derivative.
func Apply(a Value, f, fprime func(float64) float64) Value {
	return Value{X: f(a.X), Sigma: math.Abs(fprime(a.X)) * a.Sigma}
}
