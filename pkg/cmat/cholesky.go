package cmat

import (
	"errors"
	"math"
	"math/cmplx"
)

var ErrNotPositiveDefinite = errors.New("cmat: matrix is not Hermitian positive-definite")

// Cholesky holds L where A = L*L^H (conjugate transpose).
type Cholesky struct {
	L *Matrix
}

// FactorizeCholesky attempts a Hermitian Cholesky factorization. Per §4.3,
// P is attempted via Cholesky first; callers fall back to LU on
// ErrNotPositiveDefinite (round-off or uncertainty can make a nominally PD
// slice fail numerically).
func FactorizeCholesky(a *Matrix) (*Cholesky, error) {
	n := a.N
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if cmplx.Abs(a.At(i, j)-conj(a.At(j, i))) > 1e-12*(cmplx.Abs(a.At(i, j))+cmplx.Abs(a.At(j, i))) {
				return nil, ErrNotPositiveDefinite
			}
		}
	}
	l := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			var sum complex128
			for k := 0; k < j; k++ {
				sum += l.At(i, k) * conj(l.At(j, k))
			}
			if i == j {
				diag := real(a.At(i, i)) - real(sum)
				if diag <= 0 || math.IsNaN(diag) {
					return nil, ErrNotPositiveDefinite
				}
				l.Set(i, i, complex(math.Sqrt(diag), 0))
			} else {
				ljj := l.At(j, j)
				if ljj == 0 {
					return nil, ErrNotPositiveDefinite
				}
				l.Set(i, j, (a.At(i, j)-sum)/ljj)
			}
		}
	}
	return &Cholesky{L: l}, nil
}

func (c *Cholesky) Solve(b []complex128) []complex128 {
	n := c.L.N
	// forward: L*y = b
	y := make([]complex128, n)
	for i := 0; i < n; i++ {
		s := b[i]
		for k := 0; k < i; k++ {
			s -= c.L.At(i, k) * y[k]
		}
		y[i] = s / c.L.At(i, i)
	}
	// backward: L^H*x = y
	x := make([]complex128, n)
	for i := n - 1; i >= 0; i-- {
		s := y[i]
		for k := i + 1; k < n; k++ {
			s -= conj(c.L.At(k, i)) * x[k]
		}
		x[i] = s / complex(real(c.L.At(i, i)), 0)
	}
	return x
}

func (c *Cholesky) Inverse() *Matrix {
	n := c.L.N
	out := New(n)
	e := make([]complex128, n)
	for col := 0; col < n; col++ {
		for i := range e {
			e[i] = 0
		}
		e[col] = 1
		x := c.Solve(e)
		for row := 0; row < n; row++ {
			out.Set(row, col, x[row])
		}
	}
	return out
}
