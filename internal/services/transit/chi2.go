package transit

// ChiSquare scores the discrepancy between observed and model flux:
// sum(((flux_i - model_i) / sigma_i)^2). Lower is a better fit.
// Callers must validate sigma positivity before scoring; a zero sigma
// here would silently produce an infinite term.
func ChiSquare(flux, model []float64, sigma Sigma) float64 {
	sum := 0.0
	for i := range flux {
		r := (flux[i] - model[i]) / sigma.At(i)
		sum += r * r
	}
	return sum
}
