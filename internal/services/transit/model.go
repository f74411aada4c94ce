package transit

// Model computes the box-transit flux model on the given time grid.
// The model is 1.0 everywhere except inside the inclusive window
// [t1, t1+T], where it drops to 1.0 - d. It is a pure, total function:
// unphysical parameters (negative T or d) are accepted as-is, pruning
// them is the fitter's job.
func Model(timeGrid []float64, T, d, t1 float64) []float64 {
	t2 := t1 + T
	out := make([]float64, len(timeGrid))
	for i, t := range timeGrid {
		if t >= t1 && t <= t2 {
			out[i] = 1.0 - d
		} else {
			out[i] = 1.0
		}
	}
	return out
}
