// Package engine orchestrates the per-frequency pipeline of §4.2-§4.5:
// build the workspace once, assemble/reduce each frequency (optionally in
// parallel, §5), then run the sequential modal continuation. Options and
// the public Compute entry point are the library's only external surface,
// mirroring how the teacher's analysis.ACAnalysis exposes Setup/Execute
// over a circuit.Circuit built once up front.
package engine

import (
	"log"
	"sync"

	"github.com/MohamedNumair/linecablemodels-core/internal/report"
	"github.com/MohamedNumair/linecablemodels-core/pkg/assembler"
	"github.com/MohamedNumair/linecablemodels-core/pkg/engine/perr"
	"github.com/MohamedNumair/linecablemodels-core/pkg/modal"
	"github.com/MohamedNumair/linecablemodels-core/pkg/problem"
	"github.com/MohamedNumair/linecablemodels-core/pkg/reduction"
	"github.com/MohamedNumair/linecablemodels-core/pkg/umat"
	"github.com/MohamedNumair/linecablemodels-core/pkg/workspace"
)

// Error re-exports perr.Error/Kind so callers only import one package.
type Error = perr.Error
type Kind = perr.Kind

const (
	InputValidation    = perr.InputValidation
	NumericalDomain    = perr.NumericalDomain
	ConvergenceFailure = perr.ConvergenceFailure
	IntegrationFailure = perr.IntegrationFailure
)

// Options recognizes the §6 flags.
type Options struct {
	ReduceBundle           bool
	KronReduction          bool
	TemperatureCorrection  bool
	IdealTransposition     bool
	StorePrimitiveMatrices bool
	ForceOverwrite         bool
	Verbosity              int // 0..2
	Workers                int // <= 0 means 4 workers; capped at the number of frequencies
	Logger                 *log.Logger
	UseSimplifiedInternal  bool
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// LineParameters is the §6 output contract: per-frequency Z, Y and the
// frequency vector, reduced per Options.
type LineParameters struct {
	Z, Y        []*umat.Matrix // length F, each n_keep x n_keep
	F           []float64
	KeepIndices []int // original-index order of the n_keep surviving phases
}

// Diagnostics carries the optional store_primitive_matrices output.
type Diagnostics struct {
	Primitives []*assembler.Primitive // length F
}

// ModalOutput is the §6 optional modal output.
type ModalOutput struct {
	Results []modal.Result // length F
}

// Compute runs the full pipeline: validate, build workspace, assemble and
// reduce every frequency (in parallel per §5), then (always) run the
// modal engine sequentially, since γ/T are part of the standard output.
func Compute(pd problem.ProblemDescription, opts Options) (LineParameters, ModalOutput, *Diagnostics, error) {
	ws, err := workspace.Build(pd, opts.TemperatureCorrection)
	if err != nil {
		return LineParameters{}, ModalOutput{}, nil, err
	}

	f := len(pd.Frequencies)
	zs := make([]*umat.Matrix, f)
	ys := make([]*umat.Matrix, f)
	var diag *Diagnostics
	if opts.StorePrimitiveMatrices {
		diag = &Diagnostics{Primitives: make([]*assembler.Primitive, f)}
	}
	var keepIdx []int
	errs := make([]error, f)

	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > f {
		workers = f
	}

	jobs := make(chan int, f)
	var wg sync.WaitGroup
	var mu sync.Mutex
	logger := opts.logger()

	plan := reduction.NewPlan(pd.PhaseMap)

	worker := func() {
		defer wg.Done()
		for k := range jobs {
			z, y, prim, keep, werr := computeFrequency(ws, k, plan, opts)
			if werr != nil {
				errs[k] = werr
				if opts.Verbosity >= 1 {
					logger.Printf("frequency index %d: %v", k, werr)
				}
				continue
			}
			mu.Lock()
			zs[k] = z
			ys[k] = y
			if diag != nil {
				diag.Primitives[k] = prim
			}
			if keepIdx == nil {
				keepIdx = keep
			}
			mu.Unlock()
			if opts.Verbosity >= 2 {
				logger.Printf("%s: %s", report.Frequency(pd.Frequencies[k]), report.Complex("Z11", z.At(0, 0).Nominal(), "ohm/m"))
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}
	for k := 0; k < f; k++ {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return LineParameters{}, ModalOutput{}, diag, e
		}
	}

	omegas := make([]float64, f)
	for k, fr := range pd.Frequencies {
		omegas[k] = 2 * 3.141592653589793 * fr
	}
	modalResults := modal.RunSweep(zs, ys, omegas, modal.DefaultOptions())
	for k, r := range modalResults {
		if !r.ConvergedByLM && opts.Verbosity >= 1 {
			logger.Printf("frequency index %d: LM continuation did not converge, fell back to plain eigendecomposition", k)
		}
	}

	if opts.Verbosity >= 1 && f > 0 {
		logger.Printf("swept %d points, %s to %s", f, report.Frequency(pd.Frequencies[0]), report.Frequency(pd.Frequencies[f-1]))
	}

	lp := LineParameters{Z: zs, Y: ys, F: pd.Frequencies, KeepIndices: keepIdx}
	return lp, ModalOutput{Results: modalResults}, diag, nil
}

// computeFrequency runs the §4.3-§4.4 pipeline for one frequency: assemble
// raw -> reorder/merge_bundles -> kronify, per the §4.4 ordering note.
func computeFrequency(ws *workspace.Workspace, k int, plan *reduction.Plan, opts Options) (*umat.Matrix, *umat.Matrix, *assembler.Primitive, []int, error) {
	asmOpts := assembler.Options{
		StorePrimitiveMatrices: opts.StorePrimitiveMatrices,
		IdealTransposition:     opts.IdealTransposition,
		UseSimplifiedInternal:  opts.UseSimplifiedInternal,
	}
	res, err := assembler.Assemble(ws, k, asmOpts)
	if err != nil {
		return nil, nil, nil, nil, perr.AtFrequency(perr.NumericalDomain, k, "assembly failed").Wrap(err)
	}

	z, y := res.Z, res.Y
	keep := make([]int, z.N)
	for i := range keep {
		keep[i] = i
	}

	if opts.ReduceBundle {
		localPlan := &reduction.Plan{PhaseMap: append([]int(nil), plan.PhaseMap...), Groups: plan.Groups}
		shadowPlan := &reduction.Plan{PhaseMap: append([]int(nil), plan.PhaseMap...), Groups: plan.Groups}
		reduction.MergeBundles(z, localPlan)
		reduction.MergeBundles(y, shadowPlan)

		// A bundle merge is only complete once its absorbed (tail) indices
		// are actually gone from the matrix: §4.4 treats merge_bundles and
		// kronify as a single pipeline, not two independently-togglable
		// reductions. Schur-eliminate exactly the indices MergeBundles
		// zeroed (original label was positive, now 0), leaving any
		// genuinely grounded (already-0) phase_map entries untouched here —
		// those are only eliminated below when KronReduction is also on.
		tailMask := make([]int, len(localPlan.PhaseMap))
		for i, lbl := range localPlan.PhaseMap {
			if lbl == 0 && plan.PhaseMap[i] != 0 {
				tailMask[i] = 0
			} else {
				tailMask[i] = 1
			}
		}
		var tailKeep []int
		z, tailKeep = reduction.Kronify(z, tailMask)
		y, _ = reduction.Kronify(y, tailMask)
		keep = tailKeep
	}

	if opts.KronReduction {
		// Map the surviving genuinely-grounded phase_map entries (0, or -1
		// to keep explicitly) through whatever bundle elimination already
		// happened above.
		remainMask := make([]int, len(keep))
		for a, orig := range keep {
			remainMask[a] = plan.PhaseMap[orig]
		}
		var groundKeep []int
		z, groundKeep = reduction.Kronify(z, remainMask)
		y, _ = reduction.Kronify(y, remainMask)
		mapped := make([]int, len(groundKeep))
		for a, idx := range groundKeep {
			mapped[a] = keep[idx]
		}
		keep = mapped
	}

	z = umat.Symmetrize(z)
	y = umat.Symmetrize(y)

	return z, y, res.Primitive, keep, nil
}
