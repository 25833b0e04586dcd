package scalar

import (
	"math"
	"math/cmplx"
)

// Complex is a complex number built from two uncertain Values. All
// arithmetic here is first-order linearization around the nominal,
// consistent with Value's own propagation rules.
type Complex struct {
	Re, Im Value
}

func FromComplex128(z complex128) Complex {
	return Complex{Re: Exact(real(z)), Im: Exact(imag(z))}
}

func FromParts(re, im Value) Complex { return Complex{Re: re, Im: im} }

// Nominal drops the uncertainty, returning the plain complex128 value.
func (z Complex) Nominal() complex128 { return complex(z.Re.X, z.Im.X) }

func (z Complex) IsExact() bool { return z.Re.IsExact() && z.Im.IsExact() }

func CAdd(a, b Complex) Complex {
	return Complex{Re: Add(a.Re, b.Re), Im: Add(a.Im, b.Im)}
}

func CSub(a, b Complex) Complex {
	return Complex{Re: Sub(a.Re, b.Re), Im: Sub(a.Im, b.Im)}
}

func CNeg(a Complex) Complex {
	return Complex{Re: Neg(a.Re), Im: Neg(a.Im)}
}

func CScale(a Complex, k float64) Complex {
	return Complex{Re: Scale(a.Re, k), Im: Scale(a.Im, k)}
}

// CMul implements (a+bi)(c+di) = (ac-bd) + (ad+bc)i, propagating
// uncertainty through each product and the difference/sum term.
func CMul(a, b Complex) Complex {
	ac := Mul(a.Re, b.Re)
	bd := Mul(a.Im, b.Im)
	ad := Mul(a.Re, b.Im)
	bc := Mul(a.Im, b.Re)
	return Complex{Re: Sub(ac, bd), Im: Add(ad, bc)}
}

// CDiv implements (a+bi)/(c+di) via the conjugate, (ac+bd)/(c^2+d^2) +
// ((bc-ad)/(c^2+d^2))i.
func CDiv(a, b Complex) Complex {
	denom := Add(Mul(b.Re, b.Re), Mul(b.Im, b.Im))
	re := Div(Add(Mul(a.Re, b.Re), Mul(a.Im, b.Im)), denom)
	im := Div(Sub(Mul(a.Im, b.Re), Mul(a.Re, b.Im)), denom)
	return Complex{Re: re, Im: im}
}

func CConj(a Complex) Complex { return Complex{Re: a.Re, Im: Neg(a.Im)} }

// CAbs returns the (real, uncertain) modulus |z|.
func CAbs(a Complex) Value {
	m := cmplx.Abs(a.Nominal())
	if m == 0 {
		return Value{X: 0}
	}
	// d|z|/dx = x/|z|, d|z|/dy = y/|z|
	sigma := math.Hypot(a.Re.X/m*a.Re.Sigma, a.Im.X/m*a.Im.Sigma)
	return Value{X: m, Sigma: sigma}
}

// FromReal lifts a real Value to a Complex with zero imaginary part.
func FromReal(v Value) Complex { return Complex{Re: v, Im: Exact(0)} }

// CExp returns e^z with uncertainty propagated (holomorphic, f'=f).
func CExp(z Complex) Complex {
	w := cmplx.Exp(z.Nominal())
	return ApplyHolomorphic(z, w, w)
}

// CSqrt returns the principal square root of z with uncertainty propagated
// (holomorphic away from the branch cut, f'(z) = 1/(2 sqrt(z))).
func CSqrt(z Complex) Complex {
	w := cmplx.Sqrt(z.Nominal())
	if w == 0 {
		return Complex{}
	}
	return ApplyHolomorphic(z, w, 1/(2*w))
}

// CLog returns the principal logarithm of z (f'(z) = 1/z).
func CLog(z Complex) Complex {
	nz := z.Nominal()
	w := cmplx.Log(nz)
	return ApplyHolomorphic(z, w, 1/nz)
}

// ApplyHolomorphic propagates uncertainty through any complex-analytic
// function given its value w and derivative dw at the nominal z, per the
// Cauchy-Riemann linearization: Re/Im output uncertainty mixes the input's
// Re/Im uncertainty through Re(dw) and Im(dw).
func ApplyHolomorphic(z Complex, w, dw complex128) Complex {
	return ApplySmooth(z, w, dw, complex(0, 1)*dw)
}

// ApplySmooth propagates uncertainty through an arbitrary (not necessarily
// holomorphic) smooth map g: C -> C given its value w = g(z) and its two
// partial derivatives dgdx = dg/d(Re z), dgdy = dg/d(Im z) at the nominal.
// This is the general form used for the "scaled" Bessel functions, whose
// e^{-Re(z)}/e^{Re(z)} factor depends on Re(z) alone and is therefore not
// holomorphic in z.
func ApplySmooth(z Complex, w, dgdx, dgdy complex128) Complex {
	sx, sy := z.Re.Sigma, z.Im.Sigma
	ux, uy := real(dgdx), real(dgdy)
	vx, vy := imag(dgdx), imag(dgdy)
	sigRe := math.Hypot(ux*sx, uy*sy)
	sigIm := math.Hypot(vx*sx, vy*sy)
	return Complex{Re: Value{X: real(w), Sigma: sigRe}, Im: Value{X: imag(w), Sigma: sigIm}}
}
