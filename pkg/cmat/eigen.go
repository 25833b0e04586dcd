package cmat

import "math/cmplx"

// EigenResult holds the general complex eigendecomposition A*V = V*diag(D).
type EigenResult struct {
	Values  []complex128
	Vectors *Matrix // columns are eigenvectors
}

// Eigen computes the eigenvalues of a general (non-Hermitian) complex
// matrix via Householder reduction to upper Hessenberg form followed by
// shifted-QR deflation (the complex analogue needs no real/complex-pair
// double-shift trick since shifts are already complex), then recovers
// eigenvectors by inverse iteration against the original matrix. This is
// the plain eigen-decomposition §4.5 calls for at the first frequency and
// as the ConvergenceFailure fallback for later frequencies; no suitable
// general complex eigensolver was found in the retrieved corpus or gonum
// (gonum's mat.Eigen only accepts real Dense input), so it is implemented
// directly — see DESIGN.md.
func Eigen(a *Matrix) EigenResult {
	n := a.N
	h, _ := toHessenberg(a)
	values := hessenbergEigenvalues(h)
	vectors := New(n)
	for k, lambda := range values {
		v := inverseIterationEigenvector(a, lambda)
		for i := 0; i < n; i++ {
			vectors.Set(i, k, v[i])
		}
	}
	return EigenResult{Values: values, Vectors: vectors}
}

// toHessenberg reduces a to upper Hessenberg form H = Q^H * A * Q via
// Householder reflections, returning H and the accumulated Q.
func toHessenberg(a *Matrix) (*Matrix, *Matrix) {
	n := a.N
	h := a.Clone()
	q := Identity(n)

	for k := 0; k < n-2; k++ {
		m := n - (k + 1)
		x := make([]complex128, m)
		for i := 0; i < m; i++ {
			x[i] = h.At(k+1+i, k)
		}
		v, beta := householderVector(x)
		if beta == 0 {
			continue
		}
		// Apply from the left: H[k+1:,:] -= beta * v * (v^H * H[k+1:,:])
		applyHouseholderLeft(h, v, beta, k+1, n)
		// Apply from the right: H[:,k+1:] -= beta * (H[:,k+1:] * v) * v^H
		applyHouseholderRight(h, v, beta, k+1, n)
		// Accumulate into Q (right-apply)
		applyHouseholderRight(q, v, beta, k+1, n)
	}
	return h, q
}

// householderVector returns v (unit norm, v[0] implicitly 1 convention
// folded in) and beta such that (I - beta*v*v^H) * x = alpha*e1.
func householderVector(x []complex128) ([]complex128, float64) {
	m := len(x)
	normx := 0.0
	for _, xi := range x {
		normx += real(xi)*real(xi) + imag(xi)*imag(xi)
	}
	normx = cmplx.Abs(complex(normx, 0))
	normx = realSqrt(normx)
	if normx == 0 {
		return nil, 0
	}
	phase := complex(1, 0)
	if x[0] != 0 {
		phase = x[0] / complex(cmplx.Abs(x[0]), 0)
	}
	alpha := -phase * complex(normx, 0)
	v := make([]complex128, m)
	copy(v, x)
	v[0] -= alpha
	vnorm := 0.0
	for _, vi := range v {
		vnorm += real(vi)*real(vi) + imag(vi)*imag(vi)
	}
	vnorm = realSqrt(vnorm)
	if vnorm == 0 {
		return nil, 0
	}
	for i := range v {
		v[i] /= complex(vnorm, 0)
	}
	return v, 2
}

func realSqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	r := x
	// real square root taken through cmplx.Sqrt, which this file already
	// imports.
	return cmplx.Abs(cmplx.Sqrt(complex(r, 0)))
}

func applyHouseholderLeft(m *Matrix, v []complex128, beta float64, rowStart, n int) {
	rows := len(v)
	for j := 0; j < n; j++ {
		var s complex128
		for i := 0; i < rows; i++ {
			s += conj(v[i]) * m.At(rowStart+i, j)
		}
		s *= complex(beta, 0)
		for i := 0; i < rows; i++ {
			m.Add(rowStart+i, j, -v[i]*s)
		}
	}
}

func applyHouseholderRight(m *Matrix, v []complex128, beta float64, colStart, n int) {
	cols := len(v)
	for i := 0; i < n; i++ {
		var s complex128
		for j := 0; j < cols; j++ {
			s += m.At(i, colStart+j) * v[j]
		}
		s *= complex(beta, 0)
		for j := 0; j < cols; j++ {
			m.Add(i, colStart+j, -s*conj(v[j]))
		}
	}
}

// hessenbergEigenvalues extracts eigenvalues from an upper Hessenberg
// matrix via shifted QR iteration with deflation.
func hessenbergEigenvalues(h *Matrix) []complex128 {
	n := h.N
	hh := h.Clone()
	values := make([]complex128, n)
	m := n

	for m > 1 {
		iter := 0
		for {
			// deflation check
			deflated := false
			for i := m - 1; i >= 1; i-- {
				off := cmplx.Abs(hh.At(i, i-1))
				scale := cmplx.Abs(hh.At(i-1, i-1)) + cmplx.Abs(hh.At(i, i))
				if off <= 1e-13*(scale+1e-300) {
					hh.Set(i, i-1, 0)
					if i == m-1 {
						values[m-1] = hh.At(m-1, m-1)
						m--
						deflated = true
					}
					break
				}
			}
			if deflated {
				break
			}
			if m == 1 {
				values[0] = hh.At(0, 0)
				break
			}
			shift := wilkinsonShift(hh, m)
			qrStep(hh, m, shift)
			iter++
			if iter > 500 {
				// give up refining further; take current diagonal entry
				values[m-1] = hh.At(m-1, m-1)
				m--
				break
			}
		}
	}
	if m == 1 {
		values[0] = hh.At(0, 0)
	}
	return values
}

// wilkinsonShift returns the eigenvalue of the trailing 2x2 submatrix of hh
// (within the active m x m block) closest to hh[m-1,m-1].
func wilkinsonShift(hh *Matrix, m int) complex128 {
	if m < 2 {
		return hh.At(m-1, m-1)
	}
	a := hh.At(m-2, m-2)
	b := hh.At(m-2, m-1)
	c := hh.At(m-1, m-2)
	d := hh.At(m-1, m-1)
	tr := a + d
	det := a*d - b*c
	disc := cmplx.Sqrt(tr*tr - 4*det)
	l1 := (tr + disc) / 2
	l2 := (tr - disc) / 2
	if cmplx.Abs(l1-d) < cmplx.Abs(l2-d) {
		return l1
	}
	return l2
}

// qrStep performs one shifted-QR step on the active m x m leading block of
// hh in place, using Givens rotations (complex).
func qrStep(hh *Matrix, m int, shift complex128) {
	n := hh.N
	for i := 0; i < m; i++ {
		hh.Add(i, i, -shift)
	}
	// QR via Givens rotations on the Hessenberg block, then RQ to reform H'
	type givens struct {
		c complex128
		s complex128
	}
	rows := m
	gs := make([]givens, rows-1)
	for k := 0; k < rows-1; k++ {
		a := hh.At(k, k)
		b := hh.At(k+1, k)
		r := cmplx.Sqrt(a*conj(a) + b*conj(b))
		var c, s complex128
		if r == 0 {
			c, s = 1, 0
		} else {
			c = a / r
			s = b / r
		}
		gs[k] = givens{c: c, s: s}
		for j := k; j < n; j++ {
			aj := hh.At(k, j)
			bj := hh.At(k+1, j)
			hh.Set(k, j, conj(c)*aj+conj(s)*bj)
			hh.Set(k+1, j, -s*aj+c*bj)
		}
	}
	for k := 0; k < rows-1; k++ {
		c, s := gs[k].c, gs[k].s
		for i := 0; i <= k+1 && i < n; i++ {
			ak := hh.At(i, k)
			ak1 := hh.At(i, k+1)
			hh.Set(i, k, ak*c+ak1*s)
			hh.Set(i, k+1, -ak*conj(s)+ak1*conj(c))
		}
	}
	for i := 0; i < m; i++ {
		hh.Add(i, i, shift)
	}
}

// inverseIterationEigenvector recovers an eigenvector for lambda via a few
// steps of shifted inverse iteration against the original matrix.
func inverseIterationEigenvector(a *Matrix, lambda complex128) []complex128 {
	n := a.N
	shifted := a.Clone()
	eps := complex(1e-10*(cmplx.Abs(lambda)+1), 0)
	for i := 0; i < n; i++ {
		shifted.Add(i, i, -lambda-eps)
	}
	lu := Factorize(shifted)
	v := make([]complex128, n)
	for i := range v {
		v[i] = complex(1, 0)
	}
	for iter := 0; iter < 3; iter++ {
		v = lu.Solve(v)
		norm := 0.0
		for _, vi := range v {
			norm += real(vi)*real(vi) + imag(vi)*imag(vi)
		}
		norm = realSqrt(norm)
		if norm == 0 {
			break
		}
		for i := range v {
			v[i] /= complex(norm, 0)
		}
	}
	return v
}
