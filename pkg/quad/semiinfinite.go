package quad

import "math"

// SemiInfiniteOscillatory integrates f(lambda) over [0, inf) where f decays
// (typically as exp(-alpha*lambda) for some alpha>0) and may carry a
// cos(y*lambda) oscillatory factor. When y > 0 the panel width is locked to
// the half-period pi/y (the "Levin-like subdivision by y*pi" the spec
// mentions as an optional optimization), which keeps each panel
// non-oscillatory-ish for the adaptive Gauss-Kronrod rule; when y == 0 the
// domain is covered by geometrically growing panels. Panels accumulate
// until a panel's magnitude is negligible relative to the running total or
// a hard panel-count cap is hit, at which point ok=false signals an
// IntegrationFailure the caller may recover from (§7).
func SemiInfiniteOscillatory(f Func, y float64, opt AdaptiveOptions) (value float64, ok bool) {
	const maxPanels = 4096
	var panelWidth float64
	if y > 1e-300 {
		panelWidth = math.Pi / y
	} else {
		panelWidth = 1.0
	}

	total := 0.0
	allOK := true
	a := 0.0
	width := panelWidth
	consecutiveNegligible := 0
	for i := 0; i < maxPanels; i++ {
		b := a + width
		v, panelOK := Adaptive(f, a, b, opt)
		allOK = allOK && panelOK
		total += v

		negligible := math.Abs(v) <= opt.AbsTol+opt.RelTol*math.Abs(total)
		if negligible {
			consecutiveNegligible++
		} else {
			consecutiveNegligible = 0
		}
		if consecutiveNegligible >= 3 {
			return total, allOK
		}

		a = b
		if y <= 1e-300 {
			width *= 2 // geometric growth when there is no natural period
		}
	}
	return total, false
}
