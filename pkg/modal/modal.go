// Package modal implements the §4.5 modal engine: an eigen seed at the
// first frequency, Levenberg–Marquardt continuation for later frequencies
// with an analytic Jacobian (the §9-sanctioned alternative to forward-mode
// AD), Gustavsen column rotation, and back-projection to phase-domain
// characteristic impedance/admittance and propagation constants. The LM
// normal-equation solve is real-valued, so it is built on
// gonum.org/v1/gonum/mat the way bfix-antgen's BestFitSphere solves its
// least-squares normal equations with mat.VecDense.SolveVec.
package modal

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/MohamedNumair/linecablemodels-core/internal/physconst"
	"github.com/MohamedNumair/linecablemodels-core/pkg/cmat"
	"github.com/MohamedNumair/linecablemodels-core/pkg/umat"
)

// Result is one frequency's modal decomposition output.
type Result struct {
	T               *cmat.Matrix // nominal transformation tensor
	Lambda          []complex128 // eigenvalues of Y*Z (diag of Zm*Ym)
	Zc, Yc          []complex128 // modal characteristic, diagonal
	ZCh, YCh        *umat.Matrix // phase-domain characteristic (carries uncertainty)
	Gamma           []complex128 // propagation constants, sqrt(Lambda)
	ConvergedByLM   bool
}

// Options controls the LM continuation tolerance.
type Options struct {
	Tol      float64 // default 1e-8, §4.5
	MaxIters int     // default 50
}

func DefaultOptions() Options { return Options{Tol: 1e-8, MaxIters: 50} }

// RunSweep computes the modal decomposition across the whole frequency
// sweep, sequentially (the continuation is inherently sequential across
// k, §5). z, y are the (already reduced) per-frequency Z, Y matrices and
// omegas the corresponding angular frequencies.
func RunSweep(zs, ys []*umat.Matrix, omegas []float64, opts Options) []Result {
	results := make([]Result, len(zs))
	var prevT *cmat.Matrix
	var prevLambda []complex128

	for k := range zs {
		s := cmat.Mul(ys[k].Nominal(), zs[k].Nominal())
		var t *cmat.Matrix
		var lambda []complex128
		converged := true

		if k == 0 {
			eig := cmat.Eigen(s)
			t, lambda = eig.Vectors, eig.Values
		} else {
			kappa := complex(-omegas[k]*omegas[k]*physconst.Eps0*physconst.Mu0, 0)
			var ok bool
			t, lambda, ok = continuationStep(prevT, prevLambda, s, kappa, opts)
			if !ok {
				eig := cmat.Eigen(s)
				t, lambda = eig.Vectors, eig.Values
				converged = false
			}
		}

		t = columnRotate(t)
		results[k] = backProject(t, lambda, zs[k], ys[k])
		results[k].ConvergedByLM = converged
		prevT, prevLambda = t, lambda
	}
	return results
}

// backProject computes Zm, Ym diagonals, Zc, Yc, the phase-domain
// back-projection Z_ch/Y_ch, and gamma, per §4.5's explicit formulas.
// T is treated as exact (deterministic nominal); Z, Y may carry
// uncertainty, and that uncertainty flows through via umat.MulLeftRight.
func backProject(t *cmat.Matrix, lambda []complex128, z, y *umat.Matrix) Result {
	n := t.N
	tInv := cmat.Inverse(t)
	tT := t.Transpose()
	tInvT := tInv.Transpose() // T^-T

	zm := umat.MulLeftRight(tT, z, t)       // Zm = T^T * Z * T
	ym := umat.MulLeftRight(tInv, y, tInvT) // Ym = T^-1 * Y * T^-T

	zc := make([]complex128, n)
	yc := make([]complex128, n)
	for i := 0; i < n; i++ {
		ratio := zm.At(i, i).Nominal() / ym.At(i, i).Nominal()
		zci := cmplx.Sqrt(ratio)
		zc[i] = zci
		yc[i] = 1 / zci
	}

	zcDiag := cmat.New(n)
	ycDiag := cmat.New(n)
	for i := 0; i < n; i++ {
		zcDiag.Set(i, i, zc[i])
		ycDiag.Set(i, i, yc[i])
	}

	zch := umat.MulLeftRight(tInvT, umat.FromNominal(zcDiag), tInv) // Z_ch = T^-T * Zc * T^-1
	ych := umat.MulLeftRight(t, umat.FromNominal(ycDiag), tT)       // Y_ch = T * Yc * T^T

	gamma := make([]complex128, n)
	for i, l := range lambda {
		gamma[i] = cmplx.Sqrt(l)
	}

	return Result{T: t, Lambda: lambda, Zc: zc, Yc: yc, ZCh: zch, YCh: ych, Gamma: gamma}
}

// columnRotate applies the Gustavsen per-column phase rotation that
// minimizes each column's imaginary energy, per §4.5.
func columnRotate(t *cmat.Matrix) *cmat.Matrix {
	n := t.N
	out := t.Clone()
	for c := 0; c < n; c++ {
		var sumReIm, sumSq float64
		for i := 0; i < n; i++ {
			v := out.At(i, c)
			sumReIm += real(v) * imag(v)
			sumSq += real(v)*real(v) - imag(v)*imag(v)
		}
		theta := 0.5 * math.Atan2(-2*sumReIm, sumSq)
		metric := func(th float64) float64 {
			rot := complex(math.Cos(th), math.Sin(th))
			var energy float64
			for i := 0; i < n; i++ {
				v := out.At(i, c) * rot
				energy += imag(v) * imag(v)
			}
			return energy
		}
		best := theta
		if metric(theta+math.Pi/2) < metric(theta) {
			best = theta + math.Pi/2
		}
		rot := complex(math.Cos(best), math.Sin(best))
		for i := 0; i < n; i++ {
			out.Set(i, c, out.At(i, c)*rot)
		}
	}
	return out
}
