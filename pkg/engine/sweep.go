package engine

import "math"

// SweepLinear and SweepDecade are convenience helpers for callers
// assembling a frequencies slice; they are not part of the computational
// contract (§6 takes frequencies directly), adapted from
// analysis.ACAnalysis.generateFrequencyPoints' LIN/DEC sweep generators.

func SweepLinear(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func SweepDecade(start, stop float64, pointsPerDecade int) []float64 {
	logStart := math.Log10(start)
	logStop := math.Log10(stop)
	n := int((logStop-logStart)*float64(pointsPerDecade)) + 1
	if n < 1 {
		n = 1
	}
	step := (logStop - logStart) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Pow(10, logStart+float64(i)*step)
	}
	return out
}
