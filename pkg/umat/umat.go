// Package umat is a small dense matrix of scalar.Complex (nominal value
// plus propagated uncertainty), the carrier type for Z and Y between the
// assembler and the modal engine. Linear-algebra factorization itself
// happens on the nominal complex128 matrix via pkg/cmat (§9: "eigen
// decomposition of uncertain matrices is forbidden"); this package only
// assembles/stamps entries and applies nominal-only transforms to
// uncertain matrices for back-projection.
package umat

import (
	"math"

	"github.com/MohamedNumair/linecablemodels-core/pkg/cmat"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

type Matrix struct {
	N    int
	Data []scalar.Complex
}

func New(n int) *Matrix {
	return &Matrix{N: n, Data: make([]scalar.Complex, n*n)}
}

func (m *Matrix) At(i, j int) scalar.Complex     { return m.Data[i*m.N+j] }
func (m *Matrix) Set(i, j int, v scalar.Complex) { m.Data[i*m.N+j] = v }
func (m *Matrix) AddAt(i, j int, v scalar.Complex) {
	m.Data[i*m.N+j] = scalar.CAdd(m.Data[i*m.N+j], v)
}

func (m *Matrix) Clone() *Matrix {
	out := New(m.N)
	copy(out.Data, m.Data)
	return out
}

// Nominal returns the plain complex128 matrix of nominal values, the form
// pkg/cmat factorizes.
func (m *Matrix) Nominal() *cmat.Matrix {
	out := cmat.New(m.N)
	for i, v := range m.Data {
		out.Data[i] = v.Nominal()
	}
	return out
}

// FromNominal builds an exact (zero-uncertainty) Matrix from a plain
// complex128 matrix.
func FromNominal(c *cmat.Matrix) *Matrix {
	out := New(c.N)
	for i, v := range c.Data {
		out.Data[i] = scalar.FromComplex128(v)
	}
	return out
}

// Symmetrize returns (M + M^T)/2, enforcing reciprocity per §4.3.
func Symmetrize(m *Matrix) *Matrix {
	n := m.N
	out := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, scalar.CScale(scalar.CAdd(m.At(i, j), m.At(j, i)), 0.5))
		}
	}
	return out
}

// InvertWithUncertainty returns P^-1 scaled by jw (i.e. Y = jw*P^-1),
// propagating uncertainty through the inversion by first-order matrix
// perturbation: δ(P^-1) = -P^-1 · δP · P^-1, evaluated at the nominal
// inverse and applied independently per entry of δP (off-diagonal
// covariances between P entries are not modeled — a documented
// simplification, see DESIGN.md). pInvNominal is the already-computed
// nominal P inverse (from Cholesky or LU, per the §4.3 fallback).
func InvertWithUncertainty(p *Matrix, pInvNominal *cmat.Matrix, jw scalar.Complex) *Matrix {
	n := p.N
	// sigma of each element of the product term, accumulated via the
	// component sensitivity |[(P^-1) e_a]_i * [e_b^T P^-1]_j| for a
	// perturbation of magnitude sigma(P[a,b]).
	out := New(n)
	jwNom := jw.Nominal()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			nominal := pInvNominal.At(i, j)
			var sigmaRe, sigmaIm float64
			for a := 0; a < n; a++ {
				for b := 0; b < n; b++ {
					sigR := p.At(a, b).Re.Sigma
					sigI := p.At(a, b).Im.Sigma
					if sigR == 0 && sigI == 0 {
						continue
					}
					sens := pInvNominal.At(i, a) * pInvNominal.At(b, j)
					contribR := -sens * complex(sigR, 0)
					contribI := -sens * complex(0, sigI)
					sigmaRe += hypotSq(contribR)
					sigmaIm += hypotSq(contribI)
				}
			}
			val := jwNom * nominal
			out.Set(i, j, scalar.Complex{
				Re: scalar.Value{X: real(val), Sigma: sqrtSum(sigmaRe, jwNom)},
				Im: scalar.Value{X: imag(val), Sigma: sqrtSum(sigmaIm, jwNom)},
			})
		}
	}
	return out
}

// MulLeftRight computes A*M*B where A, B are exact (nominal-only)
// complex128 matrices and M carries uncertainty, used by pkg/modal's
// back-projection step: "the eigen/LM is computed on nominals, then the
// same T is applied to uncertain Z, Y" (§4.5).
func MulLeftRight(a *cmat.Matrix, m *Matrix, b *cmat.Matrix) *Matrix {
	n := m.N
	tmp := New(n) // A*M
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var acc scalar.Complex
			for k := 0; k < n; k++ {
				aik := a.At(i, k)
				if aik == 0 {
					continue
				}
				acc = scalar.CAdd(acc, scalar.CMul(scalar.FromComplex128(aik), m.At(k, j)))
			}
			tmp.Set(i, j, acc)
		}
	}
	out := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var acc scalar.Complex
			for k := 0; k < n; k++ {
				bkj := b.At(k, j)
				if bkj == 0 {
					continue
				}
				acc = scalar.CAdd(acc, scalar.CMul(tmp.At(i, k), scalar.FromComplex128(bkj)))
			}
			out.Set(i, j, acc)
		}
	}
	return out
}

func hypotSq(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

func sqrtSum(sumSq float64, scale complex128) float64 {
	s := sumSq * hypotSq(scale) // scaling by |jw| carries through linearly
	if s <= 0 {
		return 0
	}
	return math.Sqrt(s)
}
