package transit

// Sigma is a measurement uncertainty that is either a single scalar applied
// to every sample or a per-point slice. The zero value is invalid.
type Sigma struct {
	scalar   float64
	perPoint []float64
}

// Scalar builds a Sigma that broadcasts one uncertainty to all samples.
func Scalar(v float64) Sigma { return Sigma{scalar: v} }

// PerPoint builds a Sigma with one uncertainty per sample.
func PerPoint(vs []float64) Sigma { return Sigma{perPoint: vs} }

// At returns the uncertainty for sample i.
func (s Sigma) At(i int) float64 {
	if s.perPoint != nil {
		return s.perPoint[i]
	}
	return s.scalar
}

// validate checks positivity and, for per-point sigmas, length against n.
func (s Sigma) validate(n int) error {
	if s.perPoint == nil {
		if s.scalar <= 0 {
			return ErrInvalidUncertainty
		}
		return nil
	}
	if len(s.perPoint) != n {
		return ErrLengthMismatch
	}
	for _, v := range s.perPoint {
		if v <= 0 {
			return ErrInvalidUncertainty
		}
	}
	return nil
}
