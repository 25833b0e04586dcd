// Package kernel implements the analytic per-unit-length impedance and
// admittance building blocks of §4.1: internal-conductor impedance
// (scaled-Bessel and simplified fallback), lossless insulation Z/Y, and the
// earth-return impedance/admittance kernels (Papadopoulos, Pollaczek,
// Images).
package kernel

import (
	"math"
	"math/cmplx"

	"github.com/MohamedNumair/linecablemodels-core/internal/physconst"
	"github.com/MohamedNumair/linecablemodels-core/pkg/bessel"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

// Annulus describes one conductor shell used by the internal-conductor
// kernel: inner/outer radii and the conductor material.
type Annulus struct {
	RIn, ROut scalar.Value
	Rho       scalar.Value // resistivity, ohm*m
	MuR       scalar.Value // relative permeability
}

// minRadiusFraction substitutes a small positive radius whenever RIn is
// effectively zero (solid conductor), per §4.1, avoiding division by zero
// in w_in.
const minRadiusFraction = 1e-6

func (a Annulus) effectiveRIn() scalar.Value {
	if math.Abs(a.RIn.X) < 1e-12*math.Max(a.ROut.X, 1) {
		return scalar.Exact(minRadiusFraction * a.ROut.X)
	}
	return a.RIn
}

// InternalConductorResult carries the three impedance components defined by
// the annulus formulation of §4.1.
type InternalConductorResult struct {
	ZOuter, ZInner, ZMutual scalar.Complex
}

// ScaledBesselImpedance evaluates the full scaled-Bessel internal-conductor
// formulation. jw is j*omega (rad/s), already multiplied by i.
func ScaledBesselImpedance(ann Annulus, jw scalar.Complex) InternalConductorResult {
	rIn := ann.effectiveRIn()
	sigma := scalar.Div(scalar.Exact(1), ann.Rho)
	mu := scalar.Scale(ann.MuR, physconst.Mu0)

	m := scalar.CSqrt(scalar.CMul(jw, scalar.FromReal(scalar.Mul(mu, sigma))))
	wIn := scalar.CMul(m, scalar.FromReal(rIn))
	wOut := scalar.CMul(m, scalar.FromReal(ann.ROut))

	// |Re(w)| magnitude terms are a pure numerical-conditioning device (they
	// keep the scaled-Bessel ratio bounded); their own uncertainty is not
	// physically meaningful so they are carried as exact nominal values.
	reWinAbs := scalar.Exact(math.Abs(real(wIn.Nominal())))
	reWoutAbs := scalar.Exact(math.Abs(real(wOut.Nominal())))

	scExponent := scalar.CSub(
		scalar.CAdd(scalar.FromReal(reWinAbs), wIn),
		scalar.CAdd(wOut, scalar.FromReal(reWoutAbs)),
	)
	sc := scalar.CExp(scExponent)

	i0Win := bessel.ScaledI0(wIn)
	i1Win := bessel.ScaledI1(wIn)
	k0Win := bessel.ScaledK0(wIn)
	k1Win := bessel.ScaledK1(wIn)
	i0Wout := bessel.ScaledI0(wOut)
	i1Wout := bessel.ScaledI1(wOut)
	k0Wout := bessel.ScaledK0(wOut)
	k1Wout := bessel.ScaledK1(wOut)

	d := scalar.CSub(
		scalar.CMul(i1Wout, k1Win),
		scalar.CMul(sc, scalar.CMul(k1Wout, i1Win)),
	)

	jwMu := scalar.CMul(jw, scalar.FromReal(mu))
	twoPi := 2 * math.Pi

	prefOuter := scalar.CDiv(jwMu, scalar.CScale(wOut, twoPi))
	numOuter := scalar.CAdd(
		scalar.CMul(i0Wout, k1Win),
		scalar.CMul(sc, scalar.CMul(k0Wout, i1Win)),
	)
	zOuter := scalar.CMul(prefOuter, scalar.CDiv(numOuter, d))

	prefInner := scalar.CDiv(jwMu, scalar.CScale(wIn, twoPi))
	numInner := scalar.CAdd(
		scalar.CMul(sc, scalar.CMul(i0Win, k1Wout)),
		scalar.CMul(k0Win, i1Wout),
	)
	zInner := scalar.CMul(prefInner, scalar.CDiv(numInner, d))

	denomExpExponent := scalar.CSub(scalar.FromReal(reWoutAbs), wIn)
	denomExp := scalar.CExp(denomExpExponent)
	bas := scalar.Mul(scalar.Mul(ann.ROut, rIn), sigma)
	denomAll := scalar.CMul(scalar.FromReal(scalar.Scale(bas, twoPi)), scalar.CMul(d, denomExp))
	zMutual := scalar.CDiv(scalar.FromReal(scalar.Exact(1)), denomAll)

	return InternalConductorResult{ZOuter: zOuter, ZInner: zInner, ZMutual: zMutual}
}

// SimplifiedImpedance is the coth/csch thin-shell fallback, selectable when
// the full Bessel evaluation is unnecessary or numerically delicate.
func SimplifiedImpedance(ann Annulus, jw scalar.Complex) InternalConductorResult {
	rIn := ann.effectiveRIn()
	sigma := scalar.Div(scalar.Exact(1), ann.Rho)
	mu := scalar.Scale(ann.MuR, physconst.Mu0)
	thickness := scalar.Sub(ann.ROut, rIn)
	meanRadius := scalar.Scale(scalar.Add(ann.ROut, rIn), 0.5)

	m := scalar.CSqrt(scalar.CMul(jw, scalar.FromReal(scalar.Mul(mu, sigma))))
	q := scalar.CMul(m, scalar.FromReal(thickness))

	rdc := scalar.Div(scalar.Exact(1), scalar.Scale(scalar.Mul(sigma, scalar.Mul(scalar.Add(ann.ROut, rIn), thickness)), math.Pi))
	coth := cCoth(q)
	csch := cCsch(q)

	zOuter := scalar.CMul(scalar.FromReal(rdc), scalar.CMul(q, coth))
	zInner := zOuter
	zMutual := scalar.CMul(scalar.FromReal(rdc), scalar.CMul(q, csch))
	_ = meanRadius
	return InternalConductorResult{ZOuter: zOuter, ZInner: zInner, ZMutual: zMutual}
}

// SolidConductorZOuter is the dedicated approximation for a solid round
// conductor (no inner radius): coth(m*b*0.733) scaling plus a DC residual
// term 0.3179/(sigma*pi*b^2), per §4.1.
func SolidConductorZOuter(b, rho, muR scalar.Value, jw scalar.Complex) scalar.Complex {
	sigma := scalar.Div(scalar.Exact(1), rho)
	mu := scalar.Scale(muR, physconst.Mu0)
	m := scalar.CSqrt(scalar.CMul(jw, scalar.FromReal(scalar.Mul(mu, sigma))))
	arg := scalar.CScale(scalar.CMul(m, scalar.FromReal(b)), 0.733)
	coth := cCoth(arg)

	rdcResidual := scalar.Div(scalar.Exact(0.3179), scalar.Scale(scalar.Mul(sigma, scalar.Mul(b, b)), math.Pi))
	prefactor := scalar.CDiv(scalar.CMul(jw, scalar.FromReal(mu)), scalar.CScale(scalar.CMul(m, scalar.FromReal(b)), 2*math.Pi))
	skin := scalar.CMul(prefactor, coth)
	return scalar.CAdd(skin, scalar.FromReal(rdcResidual))
}

// cCoth returns coth(z) = 1/tanh(z) with uncertainty propagated; derivative
// d/dz coth(z) = -1/sinh(z)^2.
func cCoth(z scalar.Complex) scalar.Complex {
	nz := z.Nominal()
	w := 1 / cmplx.Tanh(nz)
	s := cmplx.Sinh(nz)
	dw := -1 / (s * s)
	return scalar.ApplyHolomorphic(z, w, dw)
}

// cCsch returns csch(z) = 1/sinh(z); derivative d/dz csch(z) = -coth(z)*csch(z).
func cCsch(z scalar.Complex) scalar.Complex {
	nz := z.Nominal()
	s := cmplx.Sinh(nz)
	w := 1 / s
	dw := -cmplx.Cosh(nz) / (s * s)
	return scalar.ApplyHolomorphic(z, w, dw)
}
