// Package problem defines the input contract of §6: cables, phase mapping,
// layered earth, frequency sweep, and temperature. It is pure data — no
// behavior — handed once to pkg/workspace.
package problem

import (
	"github.com/MohamedNumair/linecablemodels-core/pkg/kernel"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
)

// ConductorGroup is one annular conductor layer of a cable component.
type ConductorGroup struct {
	RadiusIn, RadiusExt scalar.Value
	Rho, Alpha, MuR     scalar.Value
	EpsR                scalar.Value // unused by the conductor kernel, kept for symmetry with InsulatorGroup
}

// InsulatorGroup is the insulation shell surrounding a ConductorGroup;
// RadiusIn must equal the conductor's RadiusExt (§3).
type InsulatorGroup struct {
	RadiusIn, RadiusExt scalar.Value
	MuR, EpsR           scalar.Value
}

// Component is one concentric conductor/insulator pair, innermost first
// within a Cable's Components slice.
type Component struct {
	Conductor ConductorGroup
	Insulator InsulatorGroup
}

// Cable is a single cable cross-section at a fixed position.
type Cable struct {
	Horz, Vert scalar.Value // center position; Vert>0 above ground
	Components []Component
}

// EarthLayer is one layer of the layered-earth model; per §3 the first
// layer is air (nonconductive) and the rest are earth, with per-frequency
// arrays of length F.
type EarthLayer struct {
	Rho  []scalar.Value // length F
	EpsR []scalar.Value
	MuR  []scalar.Value
}

// EarthModel is the ordered stack of layers plus the §9 "EnforceLayer(-1)"
// equivalent-homogeneous-earth selector: EquivalentLayer == -1 means "use
// the last layer's properties as the single effective earth half-space";
// EquivalentLayer == 0 (default) means "use the layers as given, one
// effective layer is layers[1]" (no substitution). Any positive value
// selects that 1-based earth layer explicitly.
type EarthModel struct {
	Layers          []EarthLayer
	EquivalentLayer int
	Formulation     kernel.Formulation // Papadopoulos, Pollaczek, or Images, §4.1
}

// ResolvedLayerIndex returns the 0-based index into Layers (1-based earth
// layers, since Layers[0] is air) used as the effective homogeneous earth.
func (m EarthModel) ResolvedLayerIndex() int {
	n := len(m.Layers)
	switch {
	case m.EquivalentLayer == -1:
		return n - 1
	case m.EquivalentLayer > 0 && m.EquivalentLayer < n:
		return m.EquivalentLayer
	default:
		if n > 1 {
			return 1
		}
		return 0
	}
}

// ProblemDescription is the full input contract of §6.
type ProblemDescription struct {
	Cables      []Cable
	PhaseMap    []int // length n; 0 = ground/eliminate, equal positive values = bundle
	Earth       EarthModel
	Frequencies []float64
	Temperature float64
}

// PhaseCount returns n, the total conductor-component count across cables.
func (p ProblemDescription) PhaseCount() int {
	n := 0
	for _, c := range p.Cables {
		n += len(c.Components)
	}
	return n
}
