package assembler

import (
	"math"
	"testing"

	"github.com/MohamedNumair/linecablemodels-core/pkg/problem"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
	"github.com/MohamedNumair/linecablemodels-core/pkg/workspace"
)

func singleUndergroundCable(freqs []float64) problem.ProblemDescription {
	comp := problem.Component{
		Conductor: problem.ConductorGroup{
			RadiusIn: scalar.Exact(0), RadiusExt: scalar.Exact(0.01),
			Rho: scalar.Exact(1.68e-8), Alpha: scalar.Exact(0.00393), MuR: scalar.Exact(1),
		},
		Insulator: problem.InsulatorGroup{
			RadiusIn: scalar.Exact(0.01), RadiusExt: scalar.Exact(0.015),
			MuR: scalar.Exact(1), EpsR: scalar.Exact(2.3),
		},
	}
	mkLayer := func(rho, eps, mu float64, n int) problem.EarthLayer {
		l := problem.EarthLayer{Rho: make([]scalar.Value, n), EpsR: make([]scalar.Value, n), MuR: make([]scalar.Value, n)}
		for i := range l.Rho {
			l.Rho[i], l.EpsR[i], l.MuR[i] = scalar.Exact(rho), scalar.Exact(eps), scalar.Exact(mu)
		}
		return l
	}
	return problem.ProblemDescription{
		Cables:      []problem.Cable{{Horz: scalar.Exact(0), Vert: scalar.Exact(-1), Components: []problem.Component{comp}}},
		PhaseMap:    []int{1},
		Earth:       problem.EarthModel{Layers: []problem.EarthLayer{mkLayer(1e12, 1, 1, len(freqs)), mkLayer(100, 10, 1, len(freqs))}},
		Frequencies: freqs,
		Temperature: 20,
	}
}

func buildWorkspace(t *testing.T, pd problem.ProblemDescription) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.Build(pd, false)
	if err != nil {
		t.Fatalf("workspace.Build: %v", err)
	}
	return ws
}

func TestAssembleSingleConductorHasPositiveResistanceAndReactance(t *testing.T) {
	pd := singleUndergroundCable([]float64{50})
	ws := buildWorkspace(t, pd)
	res, err := Assemble(ws, 0, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	z11 := res.Z.At(0, 0)
	if z11.Re.X <= 0 {
		t.Fatalf("expected positive series resistance, got %v", z11.Re.X)
	}
	if z11.Im.X <= 0 {
		t.Fatalf("expected positive series reactance, got %v", z11.Im.X)
	}
}

func TestAssembleYIsReciprocal(t *testing.T) {
	pd := singleUndergroundCable([]float64{50})
	pd.Cables = append(pd.Cables, problem.Cable{Horz: scalar.Exact(0.3), Vert: scalar.Exact(-1), Components: pd.Cables[0].Components})
	pd.PhaseMap = []int{1, 2}
	ws := buildWorkspace(t, pd)
	res, err := Assemble(ws, 0, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	a := res.Z.At(0, 1).Nominal()
	b := res.Z.At(1, 0).Nominal()
	if math.Abs(real(a)-real(b)) > 1e-12 || math.Abs(imag(a)-imag(b)) > 1e-12 {
		t.Fatalf("Z not reciprocal: Z[0,1]=%v Z[1,0]=%v", a, b)
	}
	ya := res.Y.At(0, 1).Nominal()
	yb := res.Y.At(1, 0).Nominal()
	if math.Abs(real(ya)-real(yb)) > 1e-12 || math.Abs(imag(ya)-imag(yb)) > 1e-12 {
		t.Fatalf("Y not reciprocal: Y[0,1]=%v Y[1,0]=%v", ya, yb)
	}
}

func TestAssembleDimensionsMatchPhaseCount(t *testing.T) {
	pd := singleUndergroundCable([]float64{50})
	ws := buildWorkspace(t, pd)
	res, err := Assemble(ws, 0, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.Z.N != 1 || res.Y.N != 1 {
		t.Fatalf("got Z.N=%d Y.N=%d, want 1,1", res.Z.N, res.Y.N)
	}
}

func TestAssembleStoresPrimitiveMatricesWhenRequested(t *testing.T) {
	pd := singleUndergroundCable([]float64{50})
	ws := buildWorkspace(t, pd)
	res, err := Assemble(ws, 0, Options{StorePrimitiveMatrices: true})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.Primitive == nil {
		t.Fatal("expected Primitive to be populated")
	}
	if res.Primitive.Zin == nil || res.Primitive.Pg == nil {
		t.Fatal("expected Zin and Pg to be populated")
	}
}

func TestAssembleSkipsPrimitiveByDefault(t *testing.T) {
	pd := singleUndergroundCable([]float64{50})
	ws := buildWorkspace(t, pd)
	res, err := Assemble(ws, 0, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.Primitive != nil {
		t.Fatal("expected Primitive to stay nil by default")
	}
}

func TestAssembleSimplifiedInternalStillPositiveDefinite(t *testing.T) {
	pd := singleUndergroundCable([]float64{50})
	ws := buildWorkspace(t, pd)
	res, err := Assemble(ws, 0, Options{UseSimplifiedInternal: true})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.Z.At(0, 0).Re.X <= 0 {
		t.Fatalf("expected positive resistance with simplified internal kernel, got %v", res.Z.At(0, 0).Re.X)
	}
}
