package workspace

import (
	"testing"

	"github.com/MohamedNumair/linecablemodels-core/pkg/problem"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

func twoPhaseProblem(freqs []float64) problem.ProblemDescription {
	comp := func(rIn, rOut, insOut float64) problem.Component {
		return problem.Component{
			Conductor: problem.ConductorGroup{
				RadiusIn: scalar.Exact(rIn), RadiusExt: scalar.Exact(rOut),
				Rho: scalar.Exact(1.68e-8), Alpha: scalar.Exact(0.00393), MuR: scalar.Exact(1),
			},
			Insulator: problem.InsulatorGroup{
				RadiusIn: scalar.Exact(rOut), RadiusExt: scalar.Exact(insOut),
				MuR: scalar.Exact(1), EpsR: scalar.Exact(2.3),
			},
		}
	}
	mkLayer := func(rho, eps, mu float64, n int) problem.EarthLayer {
		l := problem.EarthLayer{Rho: make([]scalar.Value, n), EpsR: make([]scalar.Value, n), MuR: make([]scalar.Value, n)}
		for i := range l.Rho {
			l.Rho[i], l.EpsR[i], l.MuR[i] = scalar.Exact(rho), scalar.Exact(eps), scalar.Exact(mu)
		}
		return l
	}
	return problem.ProblemDescription{
		Cables: []problem.Cable{
			{Horz: scalar.Exact(0), Vert: scalar.Exact(-1), Components: []problem.Component{comp(0, 0.01, 0.012)}},
			{Horz: scalar.Exact(0.3), Vert: scalar.Exact(-1), Components: []problem.Component{comp(0, 0.01, 0.012)}},
		},
		PhaseMap:    []int{1, 2},
		Earth:       problem.EarthModel{Layers: []problem.EarthLayer{mkLayer(1e12, 1, 1, len(freqs)), mkLayer(100, 10, 1, len(freqs))}},
		Frequencies: freqs,
		Temperature: 20,
	}
}

func TestBuildFlattensPhasesAndCables(t *testing.T) {
	pd := twoPhaseProblem([]float64{50, 60})
	ws, err := Build(pd, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.N() != 2 {
		t.Fatalf("N() = %d, want 2", ws.N())
	}
	if ws.NumCables() != 2 {
		t.Fatalf("NumCables() = %d, want 2", ws.NumCables())
	}
}

func TestBuildRejectsEmptyFrequencies(t *testing.T) {
	pd := twoPhaseProblem([]float64{50, 60})
	pd.Frequencies = nil
	if _, err := Build(pd, false); err == nil {
		t.Fatal("expected an error for empty frequency vector")
	}
}

func TestBuildRejectsNonMonotoneFrequencies(t *testing.T) {
	pd := twoPhaseProblem([]float64{60, 50})
	if _, err := Build(pd, false); err == nil {
		t.Fatal("expected an error for non-monotone frequencies")
	}
}

func TestBuildRejectsPhaseMapLengthMismatch(t *testing.T) {
	pd := twoPhaseProblem([]float64{50})
	pd.PhaseMap = []int{1}
	if _, err := Build(pd, false); err == nil {
		t.Fatal("expected an error for phase_map length mismatch")
	}
}

func TestBuildRejectsInsulatorConductorRadiusMismatch(t *testing.T) {
	pd := twoPhaseProblem([]float64{50})
	pd.Cables[0].Components[0].Insulator.RadiusIn = scalar.Exact(0.005)
	if _, err := Build(pd, false); err == nil {
		t.Fatal("expected an error for insulator radius below conductor radius")
	}
}

func TestTemperatureCorrectionIncreasesResistivityAboveT0(t *testing.T) {
	pd := twoPhaseProblem([]float64{50})
	pd.Temperature = 20 + 273.15 + 40 // well above T0
	ws, err := Build(pd, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	base := pd.Cables[0].Components[0].Conductor.Rho.X
	if ws.Phases[0].Conductor.Rho.X <= base {
		t.Fatalf("expected corrected resistivity above baseline %v, got %v", base, ws.Phases[0].Conductor.Rho.X)
	}
}

func TestHorzSepCrossCableUsesHorizontalDistance(t *testing.T) {
	pd := twoPhaseProblem([]float64{50})
	ws, err := Build(pd, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ws.HorzSep.At(0, 1)
	if got != 0.3 {
		t.Fatalf("got %v, want 0.3", got)
	}
}

func TestEquivalentLayerDefaultLeavesLayersUnsubstituted(t *testing.T) {
	pd := twoPhaseProblem([]float64{50})
	ws, err := Build(pd, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// layer 1 (earth) keeps its own rho (100), not air's 1e12.
	if ws.EarthAtFreq[1][0].Rho.X != 100 {
		t.Fatalf("got %v, want 100", ws.EarthAtFreq[1][0].Rho.X)
	}
}
