package umat

import (
	"math/cmplx"
	"testing"

	"github.com/MohamedNumair/linecablemodels-core/pkg/cmat"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

func TestFromNominalRoundTripsThroughNominal(t *testing.T) {
	c := cmat.New(2)
	c.Set(0, 0, complex(1, 2))
	c.Set(0, 1, complex(3, -1))
	c.Set(1, 0, complex(0, 1))
	c.Set(1, 1, complex(-2, 2))
	m := FromNominal(c)
	got := m.Nominal()
	for i := range got.Data {
		if got.Data[i] != c.Data[i] {
			t.Fatalf("index %d: got %v, want %v", i, got.Data[i], c.Data[i])
		}
	}
}

func TestFromNominalIsExact(t *testing.T) {
	c := cmat.New(1)
	c.Set(0, 0, complex(5, 5))
	m := FromNominal(c)
	if !m.At(0, 0).IsExact() {
		t.Fatal("expected exact uncertainty from FromNominal")
	}
}

func TestSymmetrizeAveragesOffDiagonal(t *testing.T) {
	m := New(2)
	m.Set(0, 1, scalar.FromComplex128(complex(2, 0)))
	m.Set(1, 0, scalar.FromComplex128(complex(4, 0)))
	got := Symmetrize(m)
	if got.At(0, 1).Nominal() != complex(3, 0) {
		t.Fatalf("got %v, want 3", got.At(0, 1).Nominal())
	}
	if got.At(1, 0).Nominal() != complex(3, 0) {
		t.Fatalf("got %v, want 3", got.At(1, 0).Nominal())
	}
}

func TestInvertWithUncertaintyNominalMatchesJwTimesInverse(t *testing.T) {
	p := New(2)
	p.Set(0, 0, scalar.FromComplex128(complex(4, 0)))
	p.Set(0, 1, scalar.FromComplex128(complex(1, 0)))
	p.Set(1, 0, scalar.FromComplex128(complex(1, 0)))
	p.Set(1, 1, scalar.FromComplex128(complex(3, 0)))
	pInv := cmat.Inverse(p.Nominal())
	jw := scalar.Complex{Re: scalar.Exact(0), Im: scalar.Exact(100)}

	y := InvertWithUncertainty(p, pInv, jw)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := jw.Nominal() * pInv.At(i, j)
			if cmplx.Abs(y.At(i, j).Nominal()-want) > 1e-9 {
				t.Fatalf("[%d,%d] got %v, want %v", i, j, y.At(i, j).Nominal(), want)
			}
		}
	}
}

func TestInvertWithUncertaintyZeroSigmaInputGivesZeroSigmaOutput(t *testing.T) {
	p := New(2)
	p.Set(0, 0, scalar.FromComplex128(complex(4, 0)))
	p.Set(0, 1, scalar.FromComplex128(complex(1, 0)))
	p.Set(1, 0, scalar.FromComplex128(complex(1, 0)))
	p.Set(1, 1, scalar.FromComplex128(complex(3, 0)))
	pInv := cmat.Inverse(p.Nominal())
	jw := scalar.Complex{Re: scalar.Exact(0), Im: scalar.Exact(100)}

	y := InvertWithUncertainty(p, pInv, jw)
	for _, v := range y.Data {
		if v.Re.Sigma != 0 || v.Im.Sigma != 0 {
			t.Fatalf("expected zero sigma for exact input, got %+v", v)
		}
	}
}

func TestInvertWithUncertaintyPropagatesSigma(t *testing.T) {
	p := New(2)
	p.Set(0, 0, scalar.Complex{Re: scalar.Measurement(4, 0.1), Im: scalar.Exact(0)})
	p.Set(0, 1, scalar.FromComplex128(complex(1, 0)))
	p.Set(1, 0, scalar.FromComplex128(complex(1, 0)))
	p.Set(1, 1, scalar.FromComplex128(complex(3, 0)))
	pInv := cmat.Inverse(p.Nominal())
	jw := scalar.Complex{Re: scalar.Exact(0), Im: scalar.Exact(100)}

	y := InvertWithUncertainty(p, pInv, jw)
	if y.At(0, 0).Re.Sigma <= 0 && y.At(0, 0).Im.Sigma <= 0 {
		t.Fatalf("expected nonzero propagated sigma, got %+v", y.At(0, 0))
	}
}

func TestMulLeftRightIdentityIsUnchanged(t *testing.T) {
	m := New(2)
	m.Set(0, 0, scalar.FromComplex128(complex(1, 2)))
	m.Set(0, 1, scalar.FromComplex128(complex(3, -1)))
	m.Set(1, 0, scalar.FromComplex128(complex(0, 1)))
	m.Set(1, 1, scalar.FromComplex128(complex(-2, 2)))
	id := cmat.Identity(2)
	got := MulLeftRight(id, m, id)
	for i := range got.Data {
		if got.Data[i].Nominal() != m.Data[i].Nominal() {
			t.Fatalf("index %d: got %v, want %v", i, got.Data[i].Nominal(), m.Data[i].Nominal())
		}
	}
}
