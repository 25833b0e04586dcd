package cmat

import "math/cmplx"

// LU holds an in-place LU factorization with partial pivoting:
// P*A = L*U, stored combined into lu.Data (unit lower triangle implied) and
// a row-permutation vector Perm.
type LU struct {
	lu   *Matrix
	Perm []int
	sign float64
}

// Factorize computes the LU decomposition of a with partial pivoting.
func Factorize(a *Matrix) *LU {
	n := a.N
	lu := a.Clone()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sign := 1.0

	for k := 0; k < n; k++ {
		// pivot: largest magnitude in column k, rows k..n-1
		maxRow := k
		maxVal := cmplx.Abs(lu.At(k, k))
		for i := k + 1; i < n; i++ {
			if v := cmplx.Abs(lu.At(i, k)); v > maxVal {
				maxVal = v
				maxRow = i
			}
		}
		if maxRow != k {
			swapRows(lu, k, maxRow)
			perm[k], perm[maxRow] = perm[maxRow], perm[k]
			sign = -sign
		}
		pivot := lu.At(k, k)
		if pivot == 0 {
			continue // singular; Solve will produce Inf/NaN, surfaced by caller
		}
		for i := k + 1; i < n; i++ {
			factor := lu.At(i, k) / pivot
			lu.Set(i, k, factor)
			for j := k + 1; j < n; j++ {
				lu.Add(i, j, -factor*lu.At(k, j))
			}
		}
	}
	return &LU{lu: lu, Perm: perm, sign: sign}
}

func swapRows(m *Matrix, i, j int) {
	for c := 0; c < m.N; c++ {
		m.Data[i*m.N+c], m.Data[j*m.N+c] = m.Data[j*m.N+c], m.Data[i*m.N+c]
	}
}

// Solve returns x such that A*x = b.
func (f *LU) Solve(b []complex128) []complex128 {
	n := f.lu.N
	y := make([]complex128, n)
	for i := 0; i < n; i++ {
		y[i] = b[f.Perm[i]]
	}
	// forward substitution, unit lower triangle
	for i := 0; i < n; i++ {
		s := y[i]
		for j := 0; j < i; j++ {
			s -= f.lu.At(i, j) * y[j]
		}
		y[i] = s
	}
	// back substitution, upper triangle
	x := make([]complex128, n)
	for i := n - 1; i >= 0; i-- {
		s := y[i]
		for j := i + 1; j < n; j++ {
			s -= f.lu.At(i, j) * x[j]
		}
		x[i] = s / f.lu.At(i, i)
	}
	return x
}

// Inverse returns A^-1 by solving against each identity column.
func (f *LU) Inverse() *Matrix {
	n := f.lu.N
	out := New(n)
	e := make([]complex128, n)
	for col := 0; col < n; col++ {
		for i := range e {
			e[i] = 0
		}
		e[col] = 1
		x := f.Solve(e)
		for row := 0; row < n; row++ {
			out.Set(row, col, x[row])
		}
	}
	return out
}

// Det returns the determinant via the product of the U diagonal, signed by
// the number of row swaps.
func (f *LU) Det() complex128 {
	d := complex(f.sign, 0)
	for i := 0; i < f.lu.N; i++ {
		d *= f.lu.At(i, i)
	}
	return d
}

// Inverse is a convenience wrapper: factorize then invert.
func Inverse(a *Matrix) *Matrix {
	return Factorize(a).Inverse()
}

// Solve is a convenience wrapper: factorize then solve.
func Solve(a *Matrix, b []complex128) []complex128 {
	return Factorize(a).Solve(b)
}
