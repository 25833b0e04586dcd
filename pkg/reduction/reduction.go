// Package reduction implements the §4.4 bundle-merge and Kron-elimination
// passes, operating in place on a pkg/umat.Matrix the way the teacher's
// matrix.Circuit.LoadCircuit stamps are array-of-indices operations over a
// shared buffer rather than an allocate-per-step style.
package reduction

import (
	"github.com/MohamedNumair/linecablemodels-core/pkg/cmat"
	"github.com/MohamedNumair/linecablemodels-core/pkg/scalar"
	"github.com/MohamedNumair/linecablemodels-core/pkg/umat"
)

// Plan is the precomputed bundle grouping and phase-map copy derived
// once from phase_map, reused across all frequencies (§9: "write both as
// array-of-indices operations ... ensure all scratch is preallocated").
type Plan struct {
	PhaseMap []int // mutated copy; bundle tails become 0 after MergeBundles
	Groups   [][]int // for each distinct positive label, [first, tail...]
}

// NewPlan groups indices sharing the same positive phase label, first
// occurrence first.
func NewPlan(phaseMap []int) *Plan {
	order := map[int][]int{}
	var labels []int
	for i, lbl := range phaseMap {
		if lbl <= 0 {
			continue
		}
		if _, ok := order[lbl]; !ok {
			labels = append(labels, lbl)
		}
		order[lbl] = append(order[lbl], i)
	}
	groups := make([][]int, 0, len(labels))
	for _, lbl := range labels {
		groups = append(groups, order[lbl])
	}
	pm := make([]int, len(phaseMap))
	copy(pm, phaseMap)
	return &Plan{PhaseMap: pm, Groups: groups}
}

// MergeBundles applies the two-pass in-place bundle reduction of §4.4:
// pass 1 differences columns, pass 2 differences rows, zeroing the phase
// map for merged tail indices. Each tail index is only ever differenced
// once: plan.PhaseMap[t] is checked before processing a tail and set to 0
// immediately after, so a second call against the same Plan (whose
// Groups still lists the original members) sees every tail already
// merged and is a no-op, satisfying §8's idempotence invariant.
func MergeBundles(m *umat.Matrix, plan *Plan) {
	n := m.N
	for _, g := range plan.Groups {
		if len(g) < 2 {
			continue
		}
		i1 := g[0]
		for _, t := range g[1:] {
			if plan.PhaseMap[t] == 0 {
				continue
			}
			for row := 0; row < n; row++ {
				v := scalar.CSub(m.At(row, t), m.At(row, i1))
				m.Set(row, t, v)
			}
		}
	}
	for _, g := range plan.Groups {
		if len(g) < 2 {
			continue
		}
		i1 := g[0]
		for _, t := range g[1:] {
			if plan.PhaseMap[t] == 0 {
				continue
			}
			for col := 0; col < n; col++ {
				v := scalar.CSub(m.At(t, col), m.At(i1, col))
				m.Set(t, col, v)
			}
			plan.PhaseMap[t] = 0
		}
	}
}

// Kronify eliminates indices with phaseMap == 0 via the Schur complement
// M_red = M_kk - M_ke * M_ee^-1 * M_ek. Indices marked -1 are kept
// explicitly despite being grounded (§4.4/§9). Returns the reduced matrix
// and the kept index list (in original-index order).
func Kronify(m *umat.Matrix, phaseMap []int) (*umat.Matrix, []int) {
	n := m.N
	var keep, elim []int
	for i := 0; i < n; i++ {
		if phaseMap[i] != 0 {
			keep = append(keep, i)
		} else {
			elim = append(elim, i)
		}
	}
	if len(elim) == 0 {
		return m.Clone(), keep
	}

	ne := len(elim)
	mee := umat.New(ne)
	for a, i := range elim {
		for b, j := range elim {
			mee.Set(a, b, m.At(i, j))
		}
	}
	meeInvNominal := cmat.Inverse(mee.Nominal())

	nk := len(keep)
	out := umat.New(nk)
	for a, i := range keep {
		for b, j := range keep {
			out.Set(a, b, m.At(i, j))
		}
	}

	// Subtract M_ke * M_ee^-1 * M_ek entry-wise. M_ee^-1 is taken at its
	// nominal value (its own uncertainty is not propagated); the uncertainty
	// of the M_ke and M_ek entries is carried through the products.
	for a, i := range keep {
		for b, j := range keep {
			var corr scalar.Complex
			for p, ip := range elim {
				mke := m.At(i, ip)
				for q, jq := range elim {
					mek := m.At(jq, j)
					inv := scalar.FromComplex128(meeInvNominal.At(p, q))
					corr = scalar.CAdd(corr, scalar.CMul(scalar.CMul(mke, inv), mek))
				}
			}
			out.Set(a, b, scalar.CSub(out.At(a, b), corr))
		}
	}
	return out, keep
}
