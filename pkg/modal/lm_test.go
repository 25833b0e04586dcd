package modal

import (
	"math"
	"testing"
)

func TestResidualZeroAtExactEigenpair(t *testing.T) {
	// n=1: S_tilde = lambda (scalar), T = 1 satisfies S_tilde*T = T*lambda
	// trivially, and the normalization constraint reduces to 1-0-1=0.
	n := 1
	reS := []float64{0.5}
	imS := []float64{0.2}
	x := make([]float64, 2*n*n+2*n)
	x[reTIdx(0, 0, n)] = 1
	x[imTIdx(0, 0, n)] = 0
	x[reLIdx(0, n)] = 0.5
	x[imLIdx(0, n)] = 0.2
	r := residual(x, reS, imS, n)
	for i, v := range r {
		if math.Abs(v) > 1e-12 {
			t.Fatalf("residual[%d] = %v, want 0", i, v)
		}
	}
}

func TestJacobianMatchesFiniteDifference(t *testing.T) {
	n := 2
	reS := []float64{0.3, -0.1, 0.2, 0.4}
	imS := []float64{0.05, 0.02, -0.03, 0.01}
	dim := 2*n*n + 2*n
	x := make([]float64, dim)
	// arbitrary, not-at-a-root point so every Jacobian term participates.
	seed := []float64{0.9, 0.1, -0.2, 0.95, 0.05, -0.1, 0.0, 0.2, 0.6, 0.1, -0.3, 0.5}
	copy(x, seed)

	analytic := jacobian(x, reS, imS, n)
	const h = 1e-6
	for col := 0; col < dim; col++ {
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[col] += h
		xm[col] -= h
		rp := residual(xp, reS, imS, n)
		rm := residual(xm, reS, imS, n)
		for row := 0; row < dim; row++ {
			fd := (rp[row] - rm[row]) / (2 * h)
			got := analytic[row*dim+col]
			if math.Abs(fd-got) > 1e-4 {
				t.Fatalf("d residual[%d]/d x[%d]: analytic=%v finite-diff=%v", row, col, got, fd)
			}
		}
	}
}
