// Package bessel evaluates the modified Bessel functions I0, I1, K0, K1 of
// complex argument, in both plain and "scaled" form (I_k(z)*e^-Re(z),
// K_k(z)*e^Re(z)), together with their analytic derivatives so that callers
// in pkg/scalar can propagate uncertainty through them.
//
// No third-party Go library for complex-argument modified Bessel functions
// was found in the retrieved corpus or assumed elsewhere; these are the
// textbook series (Abramowitz & Stegun 9.6.10, 9.6.11, 9.6.13) with
// Hankel's asymptotic expansion (9.7.1, 9.7.2) for large argument, selected
// by magnitude to avoid catastrophic cancellation and overflow.
package bessel

import (
	"math"
	"math/cmplx"

	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

const eulerGamma = 0.5772156649015328606

// seriesThreshold is the |z| below which the power/log series are used;
// above it, the asymptotic expansion takes over.
const seriesThreshold = 15.0

// I0I1 returns I0(z), I1(z) (unscaled) via power series or asymptotic
// expansion depending on magnitude.
func I0I1(z complex128) (i0, i1 complex128) {
	if cmplx.Abs(z) < seriesThreshold {
		return i0i1Series(z)
	}
	return i0i1Asymptotic(z)
}

// K0K1 returns K0(z), K1(z) (unscaled).
func K0K1(z complex128) (k0, k1 complex128) {
	if cmplx.Abs(z) < seriesThreshold {
		return k0k1Series(z)
	}
	return k0k1Asymptotic(z)
}

func i0i1Series(z complex128) (i0, i1 complex128) {
	halfZ := z / 2
	halfZ2 := halfZ * halfZ

	term0 := complex(1, 0)
	term1 := halfZ
	i0, i1 = term0, term1
	for k := 1; k < 200; k++ {
		term0 *= halfZ2 / complex(float64(k)*float64(k), 0)
		term1 *= halfZ2 / complex(float64(k)*float64(k+1), 0)
		i0 += term0
		i1 += term1
		if cmplx.Abs(term0) < 1e-18*cmplx.Abs(i0) && cmplx.Abs(term1) < 1e-18*cmplx.Abs(i1) {
			break
		}
	}
	return
}

// k0k1Series implements A&S 9.6.13 / 9.6.11.
func k0k1Series(z complex128) (k0, k1 complex128) {
	i0, i1 := i0i1Series(z)
	logHalfZ := cmplx.Log(z / 2)

	halfZ := z / 2
	halfZ2 := halfZ * halfZ

	// S0 = sum_{k=1}^N H_k (z^2/4)^k / (k!)^2
	var s0 complex128
	var term complex128 = 1
	h := 0.0
	for k := 1; k < 200; k++ {
		term *= halfZ2 / complex(float64(k)*float64(k), 0)
		h += 1.0 / float64(k)
		add := term * complex(h, 0)
		s0 += add
		if cmplx.Abs(add) < 1e-18*cmplx.Abs(s0)+1e-300 {
			break
		}
	}
	k0 = -(logHalfZ + eulerGamma) * i0 + s0

	// S1 = sum_{k=0}^N [-2*gamma + H_k + H_{k+1}] (z/2)^{2k+1} / (k!(k+1)!)
	var s1 complex128
	term = halfZ // k=0 term base: (z/2)^1 / (0! 1!)
	hk := 0.0     // H_0
	hk1 := 1.0    // H_1
	for k := 0; k < 200; k++ {
		coeff := -2*eulerGamma + hk + hk1
		add := term * complex(coeff, 0)
		s1 += add
		if k > 0 && cmplx.Abs(add) < 1e-18*cmplx.Abs(s1)+1e-300 {
			break
		}
		// advance to k+1 term: multiply by halfZ2/((k+1)(k+2))
		term *= halfZ2 / complex(float64(k+1)*float64(k+2), 0)
		hk = hk1
		hk1 += 1.0 / float64(k+2)
	}
	k1 = 1/z + i1*logHalfZ - 0.5*s1
	return
}

// asymptoticCoeff returns a_j(k) = prod_{i=1}^j (4k^2 - (2i-1)^2) / (j! 8^j).
func asymptoticCoeff(order, j int) float64 {
	if j == 0 {
		return 1
	}
	mu := 4.0 * float64(order*order)
	num := 1.0
	for i := 1; i <= j; i++ {
		num *= mu - float64((2*i-1)*(2*i-1))
	}
	fact := 1.0
	for i := 2; i <= j; i++ {
		fact *= float64(i)
	}
	return num / (fact * math.Pow(8, float64(j)))
}

const asymptoticTerms = 8

// i0i1Asymptotic evaluates the unscaled I0, I1 via Hankel's expansion; valid
// for |z| large. Internally works in scaled form to avoid overflow, then
// multiplies back by e^z, which is safe here because callers of this
// unscaled path are only reached for moderate |Re z| (the scaled entry
// points below never unscale).
func i0i1Asymptotic(z complex128) (i0, i1 complex128) {
	s0, s1 := iScaledAsymptoticCore(z)
	ez := cmplx.Exp(z)
	return s0 * ez, s1 * ez
}

func k0k1Asymptotic(z complex128) (k0, k1 complex128) {
	s0, s1 := kScaledAsymptoticCore(z)
	emz := cmplx.Exp(-z)
	return s0 * emz, s1 * emz
}

// iScaledAsymptoticCore returns Ik(z)*e^-z (k=0,1) directly, never forming
// e^z.
func iScaledAsymptoticCore(z complex128) (g0, g1 complex128) {
	pref := 1 / cmplx.Sqrt(2*math.Pi*z)
	var sum0, sum1 complex128
	sign := 1.0
	zpow := complex(1, 0)
	for j := 0; j < asymptoticTerms; j++ {
		a0 := asymptoticCoeff(0, j)
		a1 := asymptoticCoeff(1, j)
		sum0 += complex(sign*a0, 0) / zpow
		sum1 += complex(sign*a1, 0) / zpow
		sign = -sign
		zpow *= z
	}
	return pref * sum0, pref * sum1
}

// kScaledAsymptoticCore returns Kk(z)*e^z (k=0,1) directly, never forming
// e^-z.
func kScaledAsymptoticCore(z complex128) (g0, g1 complex128) {
	pref := cmplx.Sqrt(math.Pi / (2 * z))
	var sum0, sum1 complex128
	zpow := complex(1, 0)
	for j := 0; j < asymptoticTerms; j++ {
		a0 := asymptoticCoeff(0, j)
		a1 := asymptoticCoeff(1, j)
		sum0 += complex(a0, 0) / zpow
		sum1 += complex(a1, 0) / zpow
		zpow *= z
	}
	return pref * sum0, pref * sum1
}

// K0Value returns the unscaled K0(z) with uncertainty propagated. K0 decays
// for Re(z) > 0 so this never overflows; K0'(z) = -K1(z).
func K0Value(z scalar.Complex) scalar.Complex {
	nz := z.Nominal()
	k0, k1 := K0K1(nz)
	return scalar.ApplyHolomorphic(z, k0, -k1)
}

// ScaledI0 returns Ĩ0(z) = I0(z)*e^-Re(z) with uncertainty propagated.
func ScaledI0(z scalar.Complex) scalar.Complex {
	return scaledApply(z, 0, true)
}

// ScaledI1 returns Ĩ1(z) = I1(z)*e^-Re(z).
func ScaledI1(z scalar.Complex) scalar.Complex {
	return scaledApply(z, 1, true)
}

// ScaledK0 returns K̃0(z) = K0(z)*e^Re(z).
func ScaledK0(z scalar.Complex) scalar.Complex {
	return scaledApply(z, 0, false)
}

// ScaledK1 returns K̃1(z) = K1(z)*e^Re(z).
func ScaledK1(z scalar.Complex) scalar.Complex {
	return scaledApply(z, 1, false)
}

// scaledApply computes the requested scaled Bessel function and its
// uncertainty via ApplySmooth, choosing series-plus-explicit-scaling for
// moderate |z| and the direct scaled asymptotic core for large |z|.
func scaledApply(zc scalar.Complex, order int, isI bool) scalar.Complex {
	z := zc.Nominal()
	x := real(z)

	var f, fp complex128  // unscaled function and derivative at z
	var g complex128       // scaled value
	var dgdx, dgdy complex128

	if cmplx.Abs(z) < seriesThreshold {
		i0, i1 := i0i1Series(z)
		k0, k1 := k0k1Series(z)
		if isI {
			if order == 0 {
				f, fp = i0, i1
			} else {
				f, fp = i1, i0-i1/z
			}
			ex := math.Exp(-x)
			g = f * complex(ex, 0)
			// d/dx [f e^-x] = (f'-f) e^-x ; d/dy [f e^-x] = i f' e^-x
			dgdx = (fp - f) * complex(ex, 0)
			dgdy = complex(0, 1) * fp * complex(ex, 0)
		} else {
			if order == 0 {
				f, fp = k0, -k1
			} else {
				f, fp = k1, -k0-k1/z
			}
			ex := math.Exp(x)
			g = f * complex(ex, 0)
			dgdx = (fp + f) * complex(ex, 0)
			dgdy = complex(0, 1) * fp * complex(ex, 0)
		}
	} else {
		if isI {
			s0, s1 := iScaledAsymptoticCore(z)
			// The core carries the full e^{-z} factor; the e^{i Im z} phase
			// leaves I*e^{-Re z}, the same scaling as the series branch.
			ph := cmplx.Exp(complex(0, imag(z)))
			s0, s1 = s0*ph, s1*ph
			if order == 0 {
				g = s0
			} else {
				g = s1
			}
			// f and fp are scaled by the same e^{-Re z}, so the unscaled
			// derivative relations carry over unchanged.
			f = g
			if order == 0 {
				fp = s1
			} else {
				fp = s0 - s1/z
			}
			dgdx = fp - f
			dgdy = complex(0, 1) * fp
		} else {
			s0, s1 := kScaledAsymptoticCore(z)
			// The core carries the full e^{z} factor; the e^{-i Im z} phase
			// leaves K*e^{Re z}, the same scaling as the series branch.
			ph := cmplx.Exp(complex(0, -imag(z)))
			s0, s1 = s0*ph, s1*ph
			if order == 0 {
				g = s0
			} else {
				g = s1
			}
			f = g
			if order == 0 {
				fp = -s1
			} else {
				fp = -s0 - s1/z
			}
			dgdx = fp + f
			dgdy = complex(0, 1) * fp
		}
	}
	return scalar.ApplySmooth(zc, g, dgdx, dgdy)
}
