// Package report formats frequencies and complex per-unit-length values for
// the engine's verbosity logging, adapted from the teacher's
// pkg/util/formatter.go engineering-notation helpers (FormatValueFactor,
// FormatFrequency, FormatMagnitudePhase) onto this domain's Z/Y units.
package report

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Frequency renders f in Hz/kHz/MHz, matching FormatFrequency's thresholds.
func Frequency(f float64) string {
	switch {
	case f >= 1e6:
		return fmt.Sprintf("%7.3f MHz", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("%7.3f kHz", f/1e3)
	default:
		return fmt.Sprintf("%7.3f Hz ", f)
	}
}

// Complex renders a per-unit-length complex value (Z in ohm/m, Y in
// siemens/m) as magnitude<phase in the given unit, matching
// FormatMagnitudePhase's significant-figure thresholds.
func Complex(name string, z complex128, unit string) string {
	mag := cmplx.Abs(z)
	phase := cmplx.Phase(z) * 180 / math.Pi
	var magStr string
	switch {
	case mag >= 1000 || (mag < 0.001 && mag != 0):
		magStr = fmt.Sprintf("%8.2e", mag)
	default:
		magStr = fmt.Sprintf("%8.3g", mag)
	}
	return fmt.Sprintf("%s=%s%s<%6.1fdeg", name, magStr, unit, phase)
}
