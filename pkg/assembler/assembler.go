// Package assembler stamps, per frequency, the primitive impedance Z and
// potential-coefficient P matrices from the kernels in pkg/kernel onto the
// flattened pkg/workspace.Workspace, then inverts P into Y, per §4.3. The
// stamping loop mirrors matrix.Device.Stamp in the teacher: a pure
// function that accumulates into a shared n x n buffer using nested loops
// over the problem's topology, generalized here from MNA stamps to the
// concentric-conductor/earth-return accumulation rule of §4.3.
package assembler

import (
	"github.com/MohamedNumair/linecablemodels-core/pkg/cmat"
	"github.com/MohamedNumair/linecablemodels-core/pkg/kernel"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
	"github.com/MohamedNumair/linecablemodels-core/pkg/umat"
	"github.com/MohamedNumair/linecablemodels-core/pkg/workspace"
)

// Primitive holds the pre-reduction matrices, retained only when
// store_primitive_matrices is set (§6/§9).
type Primitive struct {
	Zin, Pin *umat.Matrix // sum of per-cable internal/insulation contributions only
	Zg, Pg   *umat.Matrix // Nc x Nc earth-return blocks
	Z, P     *umat.Matrix // full pre-reduction stamped matrices
}

// Result is one frequency's assembled output, pre-reduction.
type Result struct {
	Z, Y     *umat.Matrix
	Primitive *Primitive
}

// Options mirrors the assembler-relevant subset of engine.Options.
type Options struct {
	StorePrimitiveMatrices bool
	IdealTransposition     bool
	UseSimplifiedInternal  bool
}

// Assemble builds Z and Y for frequency index k.
func Assemble(ws *workspace.Workspace, k int, opts Options) (*Result, error) {
	n := ws.N()
	nc := ws.NumCables()
	jw := ws.JOmega[k]
	ek := kernel.NewEarthKernel(ws.Earth.Formulation)
	air := ws.AirLayer(k)
	earth := ws.EarthLayer(k)

	zin := umat.New(n)
	pin := umat.New(n)

	for _, cons := range ws.CableOf {
		stampCableImpedance(ws, zin, cons, jw, opts)
		stampCableAdmittance(ws, pin, cons)
	}

	zg := earthBlock(ws, ek, jw, earth, air, nc, true)
	pg := earthBlock(ws, ek, jw, earth, air, nc, false)

	z := zin.Clone()
	p := pin.Clone()
	stampEarthReturn(ws, z, zg)
	stampEarthReturn(ws, p, pg)

	if opts.IdealTransposition {
		idealTranspose(z)
		idealTranspose(p)
	}

	pNominal := p.Nominal()
	pInvNominal, err := invertPotential(pNominal)
	if err != nil {
		return nil, err
	}
	y := umat.InvertWithUncertainty(p, pInvNominal, jw)
	y = umat.Symmetrize(y)
	z = umat.Symmetrize(z)

	res := &Result{Z: z, Y: y}
	if opts.StorePrimitiveMatrices {
		res.Primitive = &Primitive{Zin: zin, Pin: pin, Zg: zg, Pg: pg, Z: z.Clone(), P: p.Clone()}
	}
	return res, nil
}

// invertPotential attempts Hermitian Cholesky first, falling back to LU on
// ErrNotPositiveDefinite, per §4.3.
func invertPotential(p *cmat.Matrix) (*cmat.Matrix, error) {
	chol, err := cmat.FactorizeCholesky(p)
	if err == nil {
		return chol.Inverse(), nil
	}
	return cmat.Inverse(p), nil
}

// stampCableImpedance implements the §4.3 step-2 accumulation: iterate
// p from n down to 1, accumulate z_outer/z_inner/z_mutual/z_ins and stamp
// the cumulative loop impedance across all conductor pairs within the
// cable, innermost-first.
func stampCableImpedance(ws *workspace.Workspace, z *umat.Matrix, cons []int, jw scalar.Complex, opts Options) {
	n := len(cons)
	var prevInner scalar.Complex // z_inner(p+1), zero at p == n

	for pi := n - 1; pi >= 0; pi-- {
		idx := cons[pi]
		ph := ws.Phases[idx]
		ann := kernel.Annulus{RIn: ph.Conductor.RadiusIn, ROut: ph.Conductor.RadiusExt, Rho: ph.Conductor.Rho, MuR: ph.Conductor.MuR}

		var core kernel.InternalConductorResult
		if opts.UseSimplifiedInternal {
			core = kernel.SimplifiedImpedance(ann, jw)
		} else {
			core = kernel.ScaledBesselImpedance(ann, jw)
		}

		zIns := kernel.InsulationImpedance(ph.Insulator.RadiusIn, ph.Insulator.RadiusExt, ph.Insulator.MuR, jw)
		zLoop := scalar.CAdd(scalar.CAdd(core.ZOuter, prevInner), zIns)

		for a := 0; a < pi; a++ {
			ia := cons[a]
			for b := 0; b < pi; b++ {
				ib := cons[b]
				term := scalar.CSub(zLoop, scalar.CScale(core.ZMutual, 2))
				z.AddAt(ia, ib, term)
			}
		}
		for a := 0; a < pi; a++ {
			ia := cons[a]
			term := scalar.CSub(zLoop, core.ZMutual)
			z.AddAt(idx, ia, term)
			z.AddAt(ia, idx, term)
		}
		z.AddAt(idx, idx, zLoop)

		prevInner = core.ZInner
	}
}

// stampCableAdmittance implements the §4.3 step: gap potential
// coefficients, tail sums, and the S[max(a,b)] stamp.
func stampCableAdmittance(ws *workspace.Workspace, p *umat.Matrix, cons []int) {
	n := len(cons)
	if n == 0 {
		return
	}
	gap := make([]scalar.Value, n) // gap[i] between conductor i and i+1 (last entry unused)
	for i := 0; i < n-1; i++ {
		ph := ws.Phases[cons[i]]
		gap[i] = kernel.InsulationAdmittance(ph.Insulator.RadiusIn, ph.Insulator.RadiusExt, ph.Insulator.EpsR)
	}
	tail := make([]scalar.Value, n+1)
	tail[n] = scalar.Exact(0)
	for kk := n - 1; kk >= 1; kk-- {
		tail[kk] = scalar.Add(gap[kk-1], tail[kk+1])
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			m := a
			if b > a {
				m = b
			}
			p.AddAt(cons[a], cons[b], scalar.FromReal(tail[m+1]))
		}
	}
}

// earthBlock computes the Nc x Nc earth-return matrix using a
// representative conductor (the first) of each cable, per §4.3 step 1.
func earthBlock(ws *workspace.Workspace, ek kernel.EarthKernel, jw scalar.Complex, earth, air kernel.LayerProps, nc int, impedance bool) *umat.Matrix {
	m := umat.New(nc)
	for c1 := 0; c1 < nc; c1++ {
		rep1 := ws.CableOf[c1][0]
		for c2 := 0; c2 < nc; c2++ {
			rep2 := ws.CableOf[c2][0]
			geom := kernel.Geometry{Hi: ws.Phases[rep1].Vert, Hj: ws.Phases[rep2].Vert, Yij: scalar.Exact(ws.HorzSep.At(rep1, rep2))}
			var val scalar.Complex
			if impedance {
				val = ek.EarthImpedance(geom, jw, earth, air)
			} else {
				val = ek.EarthAdmittance(geom, jw, earth, air)
			}
			m.Set(c1, c2, val)
		}
	}
	return m
}

// stampEarthReturn adds Zg[c1,c2] (or Pg) to every conductor-pair entry
// belonging to cables c1, c2, per §4.3 steps 3-4.
func stampEarthReturn(ws *workspace.Workspace, m *umat.Matrix, g *umat.Matrix) {
	for c1, cons1 := range ws.CableOf {
		for c2, cons2 := range ws.CableOf {
			val := g.At(c1, c2)
			for _, i := range cons1 {
				for _, j := range cons2 {
					m.AddAt(i, j, val)
				}
			}
		}
	}
}

// idealTranspose averages the three cyclic rotations of any 3x3 phase
// subblock to enforce transposed-line symmetry, per §4.3/§9.
func idealTranspose(m *umat.Matrix) {
	n := m.N
	if n%3 != 0 {
		return
	}
	for base := 0; base < n; base += 3 {
		blk := [3][3]scalar.Complex{}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				blk[i][j] = m.At(base+i, base+j)
			}
		}
		rot := func(d int) [3][3]scalar.Complex {
			var r [3][3]scalar.Complex
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					r[i][j] = blk[(i+d)%3][(j+d)%3]
				}
			}
			return r
		}
		r0, r1, r2 := rot(0), rot(1), rot(2)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				avg := scalar.CScale(scalar.CAdd(scalar.CAdd(r0[i][j], r1[i][j]), r2[i][j]), 1.0/3.0)
				m.Set(base+i, base+j, avg)
			}
		}
	}
}
