package modal

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/MohamedNumair/linecablemodels-core/pkg/cmat"
)

// continuationStep solves the §4.5 LM continuation for one frequency,
// seeded from the previous frequency's (T, lambda). S is the nominal Y*Z
// matrix for this frequency, kappa = -omega^2*eps0*mu0. Iterates until the
// residual norm is below opts.Tol, opts.MaxIters is reached, or no damped
// step lowers the residual; returns the new (T, lambda) and true when the
// final residual norm is below 10*opts.Tol, otherwise nil, nil, false.
//
// The residual is built directly from the real/imaginary split of
// S_tilde*T - T*Lambda plus the per-column normalization constraints
// (§4.5); its Jacobian is constructed analytically (the §9 fallback for
// implementations without forward-mode AD) rather than by finite
// differences, since every residual term is at most bilinear in the
// unknowns and the partials are closed-form.
func continuationStep(prevT *cmat.Matrix, prevLambda []complex128, s *cmat.Matrix, kappa complex128, opts Options) (*cmat.Matrix, []complex128, bool) {
	n := s.N
	sTilde := cmat.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := s.At(i, j) / kappa
			if i == j {
				v -= 1
			}
			sTilde.Set(i, j, v)
		}
	}
	reS := make([]float64, n*n)
	imS := make([]float64, n*n)
	for i := 0; i < n*n; i++ {
		reS[i] = real(sTilde.Data[i])
		imS[i] = imag(sTilde.Data[i])
	}

	dim := 2*n*n + 2*n
	x := make([]float64, dim)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x[reTIdx(i, j, n)] = real(prevT.At(i, j))
			x[imTIdx(i, j, n)] = imag(prevT.At(i, j))
		}
		lt := prevLambda[i]/kappa - 1
		x[reLIdx(i, n)] = real(lt)
		x[imLIdx(i, n)] = imag(lt)
	}

	lambda := 1e-3 // LM damping
	r := residual(x, reS, imS, n)
	normR := vecNorm(r)

	converged := false
	for iter := 0; iter < opts.MaxIters; iter++ {
		if normR < opts.Tol {
			converged = true
			break
		}
		j := jacobian(x, reS, imS, n)
		jm := mat.NewDense(dim, dim, j)
		rv := mat.NewVecDense(dim, r)

		var jt mat.Dense
		jt.Mul(jm.T(), jm)
		var jtr mat.VecDense
		jtr.MulVec(jm.T(), rv)

		accepted := false
		for try := 0; try < 10; try++ {
			damped := mat.NewDense(dim, dim, nil)
			damped.Copy(&jt)
			for i := 0; i < dim; i++ {
				damped.Set(i, i, damped.At(i, i)+lambda*damped.At(i, i)+1e-12)
			}
			var delta mat.VecDense
			if err := delta.SolveVec(damped, &jtr); err != nil {
				lambda *= 10
				continue
			}
			xNew := make([]float64, dim)
			for i := 0; i < dim; i++ {
				xNew[i] = x[i] - delta.AtVec(i)
			}
			rNew := residual(xNew, reS, imS, n)
			normNew := vecNorm(rNew)
			if normNew < normR {
				x = xNew
				r = rNew
				normR = normNew
				lambda = math.Max(lambda/10, 1e-12)
				accepted = true
				break
			}
			lambda *= 10
		}
		if !accepted {
			break
		}
	}
	if normR < opts.Tol*10 {
		converged = true
	}
	if !converged {
		return nil, nil, false
	}

	t := cmat.New(n)
	lambdaOut := make([]complex128, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			t.Set(i, j, complex(x[reTIdx(i, j, n)], x[imTIdx(i, j, n)]))
		}
		ltilde := complex(x[reLIdx(i, n)], x[imLIdx(i, n)])
		lambdaOut[i] = (ltilde + 1) * kappa
	}
	return t, lambdaOut, true
}

func reTIdx(i, j, n int) int { return i*n + j }
func imTIdx(i, j, n int) int { return n*n + i*n + j }
func reLIdx(j, n int) int    { return 2*n*n + j }
func imLIdx(j, n int) int    { return 2*n*n + n + j }

func resReIdx(i, j, n int) int { return i*n + j }
func resImIdx(i, j, n int) int { return n*n + i*n + j }
func resC1Idx(j, n int) int    { return 2*n*n + j }
func resC2Idx(j, n int) int    { return 2*n*n + n + j }

func vecNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

// residual evaluates the 2n^2+2n-length real residual vector at x.
func residual(x, reS, imS []float64, n int) []float64 {
	dim := 2*n*n + 2*n
	r := make([]float64, dim)

	reT := func(i, j int) float64 { return x[reTIdx(i, j, n)] }
	imT := func(i, j int) float64 { return x[imTIdx(i, j, n)] }
	reL := func(j int) float64 { return x[reLIdx(j, n)] }
	imL := func(j int) float64 { return x[imLIdx(j, n)] }

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sRe, sIm float64
			for k := 0; k < n; k++ {
				a, b := reS[i*n+k], imS[i*n+k]
				sRe += a*reT(k, j) - b*imT(k, j)
				sIm += a*imT(k, j) + b*reT(k, j)
			}
			tlRe := reT(i, j)*reL(j) - imT(i, j)*imL(j)
			tlIm := reT(i, j)*imL(j) + imT(i, j)*reL(j)
			r[resReIdx(i, j, n)] = sRe - tlRe
			r[resImIdx(i, j, n)] = sIm - tlIm
		}
	}
	for j := 0; j < n; j++ {
		var sumSqRe, sumSqIm, sumCross float64
		for i := 0; i < n; i++ {
			sumSqRe += reT(i, j) * reT(i, j)
			sumSqIm += imT(i, j) * imT(i, j)
			sumCross += reT(i, j) * imT(i, j)
		}
		r[resC1Idx(j, n)] = sumSqRe - sumSqIm - 1
		r[resC2Idx(j, n)] = sumCross
	}
	return r
}

// jacobian builds the dim x dim analytic Jacobian of residual() at x, in
// row-major order for gonum's mat.NewDense.
func jacobian(x, reS, imS []float64, n int) []float64 {
	dim := 2*n*n + 2*n
	j := make([]float64, dim*dim)
	set := func(row, col int, v float64) { j[row*dim+col] = v }

	reT := func(i, jj int) float64 { return x[reTIdx(i, jj, n)] }
	imT := func(i, jj int) float64 { return x[imTIdx(i, jj, n)] }
	reL := func(jj int) float64 { return x[reLIdx(jj, n)] }
	imL := func(jj int) float64 { return x[imLIdx(jj, n)] }

	for i := 0; i < n; i++ {
		for jj := 0; jj < n; jj++ {
			rowRe := resReIdx(i, jj, n)
			rowIm := resImIdx(i, jj, n)
			for p := 0; p < n; p++ {
				a, b := reS[i*n+p], imS[i*n+p]
				set(rowRe, reTIdx(p, jj, n), a)
				set(rowRe, imTIdx(p, jj, n), -b)
				set(rowIm, reTIdx(p, jj, n), b)
				set(rowIm, imTIdx(p, jj, n), a)
			}
			set(rowRe, reTIdx(i, jj, n), j[rowRe*dim+reTIdx(i, jj, n)]-reL(jj))
			set(rowRe, imTIdx(i, jj, n), j[rowRe*dim+imTIdx(i, jj, n)]+imL(jj))
			set(rowIm, reTIdx(i, jj, n), j[rowIm*dim+reTIdx(i, jj, n)]-imL(jj))
			set(rowIm, imTIdx(i, jj, n), j[rowIm*dim+imTIdx(i, jj, n)]-reL(jj))

			set(rowRe, reLIdx(jj, n), -reT(i, jj))
			set(rowRe, imLIdx(jj, n), imT(i, jj))
			set(rowIm, reLIdx(jj, n), -imT(i, jj))
			set(rowIm, imLIdx(jj, n), -reT(i, jj))
		}
	}
	for jj := 0; jj < n; jj++ {
		rowC1 := resC1Idx(jj, n)
		rowC2 := resC2Idx(jj, n)
		for p := 0; p < n; p++ {
			set(rowC1, reTIdx(p, jj, n), 2*reT(p, jj))
			set(rowC1, imTIdx(p, jj, n), -2*imT(p, jj))
			set(rowC2, reTIdx(p, jj, n), imT(p, jj))
			set(rowC2, imTIdx(p, jj, n), reT(p, jj))
		}
	}
	return j
}
