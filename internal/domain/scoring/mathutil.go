package scoring

import "math"

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// coxIncidence applies the proportional-hazards relation
// 1 - S0^exp(lp) for a linear predictor already centred on the baseline.
func coxIncidence(s0, lp float64) float64 {
	return clamp(1-math.Pow(s0, math.Exp(lp)), 0, 1)
}

// percent converts a probability to a percentage in [0, 100].
func percent(p float64) float64 {
	return clamp(100*p, 0, 100)
}
