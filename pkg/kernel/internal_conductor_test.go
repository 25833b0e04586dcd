package kernel

import (
	"math"
	"testing"

	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

func copperAnnulus() Annulus {
	return Annulus{
		RIn:  scalar.Exact(0),
		ROut: scalar.Exact(0.01),
		Rho:  scalar.Exact(1.68e-8),
		MuR:  scalar.Exact(1),
	}
}

func jwAt(freqHz float64) scalar.Complex {
	return scalar.Complex{Re: scalar.Exact(0), Im: scalar.Exact(2 * math.Pi * freqHz)}
}

func TestScaledBesselImpedancePositiveResistance(t *testing.T) {
	r := ScaledBesselImpedance(copperAnnulus(), jwAt(50))
	if r.ZOuter.Re.X <= 0 {
		t.Fatalf("expected positive ZOuter resistance, got %+v", r.ZOuter)
	}
}

func TestScaledBesselImpedanceSkinEffectIncreasesResistanceWithFrequency(t *testing.T) {
	ann := copperAnnulus()
	low := ScaledBesselImpedance(ann, jwAt(50))
	high := ScaledBesselImpedance(ann, jwAt(500000))
	if high.ZOuter.Re.X <= low.ZOuter.Re.X {
		t.Fatalf("expected AC resistance to rise with frequency: low=%v high=%v", low.ZOuter.Re.X, high.ZOuter.Re.X)
	}
}

func TestSimplifiedImpedancePositiveResistance(t *testing.T) {
	ann := Annulus{
		RIn:  scalar.Exact(0.008),
		ROut: scalar.Exact(0.01),
		Rho:  scalar.Exact(1.68e-8),
		MuR:  scalar.Exact(1),
	}
	r := SimplifiedImpedance(ann, jwAt(50))
	if r.ZOuter.Re.X <= 0 {
		t.Fatalf("expected positive resistance, got %+v", r.ZOuter)
	}
}

func TestSolidConductorZOuterPositiveResistance(t *testing.T) {
	z := SolidConductorZOuter(scalar.Exact(0.01), scalar.Exact(1.68e-8), scalar.Exact(1), jwAt(50))
	if z.Re.X <= 0 {
		t.Fatalf("expected positive resistance, got %+v", z)
	}
}

func TestEffectiveRInSubstitutesForSolidConductor(t *testing.T) {
	ann := copperAnnulus()
	r := ann.effectiveRIn()
	if r.X <= 0 {
		t.Fatalf("expected a small positive substitute radius, got %v", r.X)
	}
	if r.X >= ann.ROut.X {
		t.Fatalf("substitute radius should be much smaller than outer radius, got %v >= %v", r.X, ann.ROut.X)
	}
}
