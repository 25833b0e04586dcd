// Package workspace flattens a problem.ProblemDescription into the
// contiguous per-phase arrays §4.2 calls for, owned once and shared
// read-only across the per-frequency pipeline, mirroring how
// circuit.Circuit in the teacher precomputes its node index map once
// before the analysis loop runs.
package workspace

import (
	"math"

	"github.com/MohamedNumair/linecablemodels-core/internal/physconst"
	"github.com/MohamedNumair/linecablemodels-core/pkg/engine/perr"
	"github.com/MohamedNumair/linecablemodels-core/pkg/kernel"
	"github.com/MohamedNumair/linecablemodels-core/pkg/problem"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

// Phase is one flattened conductor component, innermost-first order
// preserved per cable.
type Phase struct {
	Horz, Vert scalar.Value
	CableIndex int
	PhaseLabel int

	Conductor problem.ConductorGroup
	Insulator problem.InsulatorGroup
}

// Workspace is the read-only flattened view the assembler, reduction and
// modal packages operate on; it owns every array referenced from per-
// frequency scratch.
type Workspace struct {
	Phases       []Phase
	CableOf      [][]int // conductor indices belonging to each cable, innermost first
	HorzSep      *sepMatrix
	Frequencies  []float64
	JOmega       []scalar.Complex
	Earth        problem.EarthModel
	EarthAtFreq  [][]kernel.LayerProps // [layer][frequency]
	Temperature  float64
}

// sepMatrix is the n x n horizontal-separation matrix of §4.2.
type sepMatrix struct {
	n    int
	data []float64
}

func newSepMatrix(n int) *sepMatrix { return &sepMatrix{n: n, data: make([]float64, n*n)} }
func (s *sepMatrix) At(i, j int) float64      { return s.data[i*s.n+j] }
func (s *sepMatrix) set(i, j int, v float64)  { s.data[i*s.n+j] = v }

// Build flattens pd into a Workspace, applying the §7 InputValidation
// checks before any per-frequency work and the §4.2 temperature
// correction when requested.
func Build(pd problem.ProblemDescription, temperatureCorrection bool) (*Workspace, error) {
	if err := validate(pd); err != nil {
		return nil, err
	}

	ws := &Workspace{
		Earth:       pd.Earth,
		Frequencies: pd.Frequencies,
		Temperature: pd.Temperature,
	}

	idx := 0
	for ci, cable := range pd.Cables {
		var cons []int
		for _, comp := range cable.Components {
			cond := comp.Conductor
			if temperatureCorrection {
				dT := pd.Temperature - physconst.T0
				factor := 1 + cond.Alpha.X*dT
				cond.Rho = scalar.Scale(cond.Rho, factor)
			}
			label := 0
			if idx < len(pd.PhaseMap) {
				label = pd.PhaseMap[idx]
			}
			ws.Phases = append(ws.Phases, Phase{
				Horz:       cable.Horz,
				Vert:       cable.Vert,
				CableIndex: ci,
				PhaseLabel: label,
				Conductor:  cond,
				Insulator:  comp.Insulator,
			})
			cons = append(cons, idx)
			idx++
		}
		ws.CableOf = append(ws.CableOf, cons)
	}

	ws.HorzSep = buildHorzSep(ws)
	ws.JOmega = buildJOmega(pd.Frequencies)
	ws.EarthAtFreq = buildEarthArrays(pd.Earth, len(pd.Frequencies))

	return ws, nil
}

func validate(pd problem.ProblemDescription) error {
	if len(pd.Frequencies) == 0 {
		return perr.New(perr.InputValidation, "frequency vector is empty")
	}
	for i, f := range pd.Frequencies {
		if f <= 0 {
			return perr.New(perr.InputValidation, "non-positive frequency at index %d: %g", i, f)
		}
		if i > 0 && f < pd.Frequencies[i-1] {
			return perr.New(perr.InputValidation, "frequencies not monotone non-decreasing at index %d", i)
		}
	}
	n := pd.PhaseCount()
	if len(pd.PhaseMap) != n {
		return perr.New(perr.InputValidation, "phase_map length %d does not match phase count %d", len(pd.PhaseMap), n)
	}
	for _, layer := range pd.Earth.Layers {
		if len(layer.Rho) != len(pd.Frequencies) || len(layer.EpsR) != len(pd.Frequencies) || len(layer.MuR) != len(pd.Frequencies) {
			return perr.New(perr.InputValidation, "earth layer frequency array length mismatch")
		}
	}
	for ci, cable := range pd.Cables {
		for pi, comp := range cable.Components {
			if comp.Insulator.RadiusIn.X < comp.Conductor.RadiusExt.X*(1-1e-9) {
				return perr.New(perr.InputValidation, "cable %d component %d: insulator inner radius below conductor outer radius", ci, pi)
			}
		}
	}
	return nil
}

func buildHorzSep(ws *Workspace) *sepMatrix {
	n := len(ws.Phases)
	m := newSepMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pi, pj := ws.Phases[i], ws.Phases[j]
			if pi.CableIndex != pj.CableIndex {
				m.set(i, j, math.Abs(pi.Horz.X-pj.Horz.X))
			} else {
				m.set(i, j, outermostInsulatorRadius(ws, pi.CableIndex))
			}
		}
	}
	return m
}

func outermostInsulatorRadius(ws *Workspace, cableIndex int) float64 {
	r := 0.0
	for _, idx := range ws.CableOf[cableIndex] {
		if v := ws.Phases[idx].Insulator.RadiusExt.X; v > r {
			r = v
		}
	}
	return r
}

func buildJOmega(freqs []float64) []scalar.Complex {
	out := make([]scalar.Complex, len(freqs))
	for i, f := range freqs {
		w := 2 * math.Pi * f
		out[i] = scalar.Complex{Re: scalar.Exact(0), Im: scalar.Exact(w)}
	}
	return out
}

// buildEarthArrays copies the per-layer per-frequency arrays element-wise;
// the equivalent-homogeneous-earth substitution is resolved once here by
// ResolvedLayerIndex, per §4.2/§9.
func buildEarthArrays(earth problem.EarthModel, f int) [][]kernel.LayerProps {
	out := make([][]kernel.LayerProps, len(earth.Layers))
	resolved := earth.ResolvedLayerIndex()
	substitute := earth.EquivalentLayer != 0 // explicit equivalent-homogeneous-earth selection
	for li, layer := range earth.Layers {
		src := layer
		if li > 0 && substitute {
			src = earth.Layers[resolved]
		}
		arr := make([]kernel.LayerProps, f)
		for k := 0; k < f; k++ {
			arr[k] = kernel.LayerProps{Rho: src.Rho[k], EpsR: src.EpsR[k], MuR: src.MuR[k]}
		}
		out[li] = arr
	}
	return out
}

// AirLayer returns the per-frequency air properties (layer 0).
func (ws *Workspace) AirLayer(k int) kernel.LayerProps { return ws.EarthAtFreq[0][k] }

// EarthLayer returns the per-frequency resolved earth properties (layer
// ResolvedLayerIndex()).
func (ws *Workspace) EarthLayer(k int) kernel.LayerProps {
	idx := ws.Earth.ResolvedLayerIndex()
	return ws.EarthAtFreq[idx][k]
}

// N is the unreduced phase count.
func (ws *Workspace) N() int { return len(ws.Phases) }

// NumCables is the cable count Nc.
func (ws *Workspace) NumCables() int { return len(ws.CableOf) }
