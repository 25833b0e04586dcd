// Package cmat implements the small dense complex linear algebra the engine
// needs per frequency: LU solve/inverse, Hermitian Cholesky with an LU
// fallback, and a general complex eigendecomposition (Hessenberg reduction
// plus shifted QR, per pkg/modal's seed step). Every matrix in this domain
// is small (phase counts are tens, not thousands) and refactorized once per
// frequency, which is why a dense representation is used throughout instead
// of the teacher's sparse MNA solver — see DESIGN.md.
package cmat

// Matrix is a dense n x n complex matrix, row-major.
type Matrix struct {
	N    int
	Data []complex128
}

func New(n int) *Matrix {
	return &Matrix{N: n, Data: make([]complex128, n*n)}
}

func Identity(n int) *Matrix {
	m := New(n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func (m *Matrix) At(i, j int) complex128 { return m.Data[i*m.N+j] }
func (m *Matrix) Set(i, j int, v complex128) { m.Data[i*m.N+j] = v }
func (m *Matrix) Add(i, j int, v complex128) { m.Data[i*m.N+j] += v }

func (m *Matrix) Clone() *Matrix {
	out := New(m.N)
	copy(out.Data, m.Data)
	return out
}

func (m *Matrix) Transpose() *Matrix {
	out := New(m.N)
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			out.Set(j, i, m.At(i, j))
		}
	}
	return out
}

func (m *Matrix) ConjTranspose() *Matrix {
	out := New(m.N)
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			out.Set(j, i, conj(m.At(i, j)))
		}
	}
	return out
}

func conj(z complex128) complex128 { return complex(real(z), -imag(z)) }

func Mul(a, b *Matrix) *Matrix {
	n := a.N
	out := New(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			aik := a.At(i, k)
			if aik == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out.Add(i, j, aik*b.At(k, j))
			}
		}
	}
	return out
}

func MulVec(a *Matrix, v []complex128) []complex128 {
	n := a.N
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		var s complex128
		for j := 0; j < n; j++ {
			s += a.At(i, j) * v[j]
		}
		out[i] = s
	}
	return out
}

// Symmetrize returns (M + M^T)/2, the reciprocity-enforcing average of §4.3.
func Symmetrize(m *Matrix) *Matrix {
	n := m.N
	out := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}
	return out
}
