// Package quad implements adaptive Gauss-Kronrod quadrature for the
// semi-infinite, oscillatory integrals in the earth-return kernels
// (pkg/kernel). No adaptive infinite-interval Gauss-Kronrod routine was
// found in the retrieved corpus or gonum (gonum.org/v1/gonum/integrate/quad
// only offers fixed-order rules on finite intervals), so the 7-15 point
// Gauss-Kronrod rule (the classic QUADPACK QK15 table) and its adaptive
// bisection driver are implemented directly, as the specification calls
// for ("this is the hardest part... adaptive numerical quadrature").
package quad

import "math"

// QK15 nodes/weights, even half (QUADPACK dqk15 convention): xgk holds the
// eight non-negative abscissae in descending order with xgk[7] = 0; wgk are
// the matching 15-point Kronrod weights; wg are the 7-point Gauss weights,
// aligned with the odd-indexed xgk entries (1, 3, 5, 7).
var xgk = [8]float64{
	0.991455371120813, 0.949107912342759, 0.864864423359769, 0.741531185599394,
	0.586087235467691, 0.405845151377397, 0.207784955007898, 0.000000000000000,
}

var wgk = [8]float64{
	0.022935322010529, 0.063092092629979, 0.104790010322250, 0.140653259715525,
	0.169004726639267, 0.190350578064785, 0.204432940075298, 0.209482141084728,
}

var wg = [4]float64{
	0.129484966168870, 0.279705391489277, 0.381830050505119, 0.417959183673469,
}

// Func is a real integrand evaluated at a single point.
type Func func(x float64) float64

// kronrod15 integrates f over [a, b] with the 15-point rule and returns the
// estimate plus the 7-point Gauss estimate (for error estimation) and a
// rough error bound.
func kronrod15(f Func, a, b float64) (result, resultG7, errEst float64) {
	center := 0.5 * (a + b)
	halfLen := 0.5 * (b - a)

	fc := f(center)
	resK := fc * wgk[7]
	resG := fc * wg[3]

	for i := 0; i < 7; i++ {
		dx := halfLen * xgk[i]
		f1 := f(center - dx)
		f2 := f(center + dx)
		resK += wgk[i] * (f1 + f2)
		if i%2 == 1 { // i=1,3,5 correspond to the 7-point Gauss nodes
			resG += wg[i/2] * (f1 + f2)
		}
	}

	result = resK * halfLen
	resultG7 = resG * halfLen
	errEst = math.Abs(result - resultG7)
	return
}

// AdaptiveOptions controls the bisection driver.
type AdaptiveOptions struct {
	RelTol   float64
	AbsTol   float64
	MaxDepth int
}

func DefaultOptions() AdaptiveOptions {
	return AdaptiveOptions{RelTol: 1e-8, AbsTol: 1e-12, MaxDepth: 40}
}

// Adaptive integrates f over [a, b] using recursive bisection of the
// Gauss-Kronrod panel until the local error estimate is within tolerance
// relative to the running total, or MaxDepth is reached (in which case the
// best available estimate is returned with ok=false, signalling an
// IntegrationFailure per the spec's error model).
func Adaptive(f Func, a, b float64, opt AdaptiveOptions) (value float64, ok bool) {
	v, converged := adaptiveRec(f, a, b, opt, 0)
	return v, converged
}

func adaptiveRec(f Func, a, b float64, opt AdaptiveOptions, depth int) (float64, bool) {
	result, _, errEst := kronrod15(f, a, b)
	tol := math.Max(opt.AbsTol, opt.RelTol*math.Abs(result))
	if errEst <= tol || depth >= opt.MaxDepth {
		return result, errEst <= tol
	}
	mid := 0.5 * (a + b)
	left, okL := adaptiveRec(f, a, mid, opt, depth+1)
	right, okR := adaptiveRec(f, mid, b, opt, depth+1)
	return left + right, okL && okR
}
