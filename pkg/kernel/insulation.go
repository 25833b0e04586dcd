package kernel

import (
	"math"

	"github.com/MohamedNumair/linecablemodels-core/internal/physconst"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

// degenerate reports whether (rIn, rEx) describe a bare/degenerate
// insulator: rIn effectively zero, or rIn effectively equal to rEx.
func degenerate(rIn, rEx scalar.Value) bool {
	if math.Abs(rIn.X) < 1e-12*math.Max(rEx.X, 1) {
		return true
	}
	if math.Abs(rEx.X-rIn.X) < 1e-9*math.Max(rEx.X, 1) {
		return true
	}
	return false
}

// InsulationImpedance returns Z_ins = jw*mu*log(rEx/rIn)/(2*pi); the
// lossless insulation impedance. Degenerate geometry returns exactly 0.
func InsulationImpedance(rIn, rEx, muR scalar.Value, jw scalar.Complex) scalar.Complex {
	if degenerate(rIn, rEx) {
		return scalar.Complex{}
	}
	mu := scalar.Scale(muR, physconst.Mu0)
	logRatio := scalar.Log(scalar.Div(rEx, rIn))
	pref := scalar.Scale(scalar.Mul(mu, logRatio), 1/(2*math.Pi))
	return scalar.CMul(jw, scalar.FromReal(pref))
}

// InsulationAdmittance returns the potential coefficient
// P_ins = log(rEx/rIn)/(2*pi*eps). Degenerate geometry returns exactly 0.
func InsulationAdmittance(rIn, rEx, epsR scalar.Value) scalar.Value {
	if degenerate(rIn, rEx) {
		return scalar.Value{}
	}
	eps := scalar.Scale(epsR, physconst.Eps0)
	logRatio := scalar.Log(scalar.Div(rEx, rIn))
	return scalar.Div(logRatio, scalar.Scale(eps, 2*math.Pi))
}
