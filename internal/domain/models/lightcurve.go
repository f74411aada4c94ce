package models

// LightCurve is an ordered photometric time series for one target.
// Time and Flux always have equal length; Sigma is either a slice of the
// same length (per-point uncertainties) or empty, in which case SigmaScalar
// applies to every point.
type LightCurve struct {
	Target      string
	Time        []float64 // days, in the target's observation frame
	Flux        []float64
	Sigma       []float64
	SigmaScalar float64
}

// Len returns the number of samples in the curve.
func (lc *LightCurve) Len() int { return len(lc.Time) }
