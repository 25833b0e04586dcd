package kernel

import (
	"testing"

	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

func TestInsulationImpedanceDegenerateIsExactZero(t *testing.T) {
	jw := scalar.Complex{Re: scalar.Exact(0), Im: scalar.Exact(2 * 3.14159 * 50)}
	z := InsulationImpedance(scalar.Exact(0), scalar.Exact(0.01), scalar.Exact(1), jw)
	if z.Re.X != 0 || z.Im.X != 0 {
		t.Fatalf("expected exact zero for degenerate geometry, got %+v", z)
	}
}

func TestInsulationAdmittanceDegenerateIsExactZero(t *testing.T) {
	p := InsulationAdmittance(scalar.Exact(0.01), scalar.Exact(0.01), scalar.Exact(2.3))
	if p.X != 0 || p.Sigma != 0 {
		t.Fatalf("expected exact zero for degenerate geometry, got %+v", p)
	}
}

func TestInsulationImpedanceNonDegeneratePositiveReactance(t *testing.T) {
	jw := scalar.Complex{Re: scalar.Exact(0), Im: scalar.Exact(2 * 3.14159 * 50)}
	z := InsulationImpedance(scalar.Exact(0.01), scalar.Exact(0.015), scalar.Exact(1), jw)
	if z.Im.X <= 0 {
		t.Fatalf("expected positive reactance, got %+v", z)
	}
	if z.Re.X != 0 {
		t.Fatalf("expected zero resistance for lossless insulation, got %+v", z)
	}
}

func TestInsulationAdmittanceNonDegeneratePositive(t *testing.T) {
	p := InsulationAdmittance(scalar.Exact(0.01), scalar.Exact(0.015), scalar.Exact(2.3))
	if p.X <= 0 {
		t.Fatalf("expected positive potential coefficient, got %+v", p)
	}
}
