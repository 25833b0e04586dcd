package scalar

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAddPropagatesSigmaInQuadrature(t *testing.T) {
	a := Measurement(2, 0.1)
	b := Measurement(3, 0.2)
	r := Add(a, b)
	if r.X != 5 {
		t.Fatalf("X = %v, want 5", r.X)
	}
	want := math.Hypot(0.1, 0.2)
	if !almostEqual(r.Sigma, want, 1e-12) {
		t.Fatalf("Sigma = %v, want %v", r.Sigma, want)
	}
}

func TestExactIsExact(t *testing.T) {
	if !Exact(5).IsExact() {
		t.Fatal("Exact(5) should be exact")
	}
	if Measurement(5, 0.01).IsExact() {
		t.Fatal("Measurement with nonzero sigma should not be exact")
	}
}

func TestMulSigma(t *testing.T) {
	a := Measurement(2, 0.1)
	b := Measurement(3, 0.2)
	r := Mul(a, b)
	if r.X != 6 {
		t.Fatalf("X = %v, want 6", r.X)
	}
	want := math.Hypot(3*0.1, 2*0.2)
	if !almostEqual(r.Sigma, want, 1e-12) {
		t.Fatalf("Sigma = %v, want %v", r.Sigma, want)
	}
}

func TestDivExactByExactIsExact(t *testing.T) {
	r := Div(Exact(6), Exact(2))
	if r.X != 3 || r.Sigma != 0 {
		t.Fatalf("got %+v, want {3 0}", r)
	}
}

func TestSqrtZeroIsExactZero(t *testing.T) {
	r := Sqrt(Exact(0))
	if r.X != 0 || r.Sigma != 0 {
		t.Fatalf("got %+v, want {0 0}", r)
	}
}

func TestSqrtPropagation(t *testing.T) {
	a := Measurement(4, 0.2)
	r := Sqrt(a)
	if !almostEqual(r.X, 2, 1e-12) {
		t.Fatalf("X = %v, want 2", r.X)
	}
	want := 0.2 / (2 * 2)
	if !almostEqual(r.Sigma, want, 1e-12) {
		t.Fatalf("Sigma = %v, want %v", r.Sigma, want)
	}
}

func TestApplyMatchesKnownDerivative(t *testing.T) {
	a := Measurement(math.Pi/4, 0.01)
	r := Apply(a, math.Sin, math.Cos)
	if !almostEqual(r.X, math.Sin(math.Pi/4), 1e-12) {
		t.Fatalf("X = %v, want sin(pi/4)", r.X)
	}
	want := math.Abs(math.Cos(math.Pi/4)) * 0.01
	if !almostEqual(r.Sigma, want, 1e-12) {
		t.Fatalf("Sigma = %v, want %v", r.Sigma, want)
	}
}
