package bessel

import (
	"math/cmplx"
	"testing"

	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

func TestI0AtZero(t *testing.T) {
	i0, i1 := I0I1(0)
	if cmplx.Abs(i0-1) > 1e-12 {
		t.Fatalf("I0(0) = %v, want 1", i0)
	}
	if cmplx.Abs(i1) > 1e-12 {
		t.Fatalf("I1(0) = %v, want 0", i1)
	}
}

func TestWronskianSmallArgument(t *testing.T) {
	z := complex(1.3, 0.7)
	i0, i1 := I0I1(z)
	k0, k1 := K0K1(z)
	// I0(z)K1(z) + I1(z)K0(z) = 1/z
	got := i0*k1 + i1*k0
	want := 1 / z
	if cmplx.Abs(got-want) > 1e-9 {
		t.Fatalf("Wronskian = %v, want %v", got, want)
	}
}

func TestWronskianLargeArgument(t *testing.T) {
	z := complex(20, 5)
	i0, i1 := I0I1(z)
	k0, k1 := K0K1(z)
	got := i0*k1 + i1*k0
	want := 1 / z
	if cmplx.Abs(got-want) > 1e-6*cmplx.Abs(want) {
		t.Fatalf("Wronskian = %v, want %v", got, want)
	}
}

func TestScaledMatchesUnscaledSmallArgument(t *testing.T) {
	z := scalar.FromComplex128(complex(2, 1))
	unscaled, _ := I0I1(z.Nominal())
	scaled := ScaledI0(z)
	want := unscaled * cmplx.Exp(-complex(real(z.Nominal()), 0))
	if cmplx.Abs(scaled.Nominal()-want) > 1e-9 {
		t.Fatalf("ScaledI0 = %v, want %v", scaled.Nominal(), want)
	}
}

func TestScaledK0PositiveAndDecaying(t *testing.T) {
	small := ScaledK0(scalar.FromComplex128(complex(5, 0)))
	large := ScaledK0(scalar.FromComplex128(complex(20, 0)))
	// e^x K0(x) decreases slowly but monotonically for real x>0.
	if cmplx.Abs(large.Nominal()) >= cmplx.Abs(small.Nominal()) {
		t.Fatalf("expected scaled K0 to decrease: at 5 got %v, at 20 got %v", small.Nominal(), large.Nominal())
	}
}

func TestUncertaintyPropagatesNonzeroSigma(t *testing.T) {
	z := scalar.Complex{Re: scalar.Measurement(2, 0.01), Im: scalar.Measurement(1, 0.01)}
	r := K0Value(z)
	if r.Re.Sigma <= 0 || r.Im.Sigma <= 0 {
		t.Fatalf("expected propagated sigma, got %+v", r)
	}
}

func TestAsymptoticContinuityAcrossThreshold(t *testing.T) {
	below := complex(seriesThreshold-0.5, 0.1)
	above := complex(seriesThreshold+0.5, 0.1)
	i0Below, _ := I0I1(below)
	i0Above, _ := I0I1(above)
	// Both should be finite and of the same order of magnitude trend
	// (exponentially growing), not exactly equal since the arguments differ.
	if cmplx.IsNaN(i0Below) || cmplx.IsNaN(i0Above) {
		t.Fatal("unexpected NaN near series/asymptotic threshold")
	}
	if cmplx.Abs(i0Above) <= cmplx.Abs(i0Below) {
		t.Fatalf("expected I0 to grow with |z|: below=%v above=%v", i0Below, i0Above)
	}
}
