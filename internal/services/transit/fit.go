package transit

import "math"

// Result is the outcome of one grid search. When Found is false no
// candidate triple fit inside the observed window (or none scored below
// +Inf); Chi2 is +Inf, Model is nil and the parameter fields are zero.
type Result struct {
	Found    bool
	Depth    float64
	Duration float64
	Start    float64
	Chi2     float64
	Model    []float64
	Count    int64
}

// Fit exhaustively searches the (T, d, t1) parameter space and keeps the
// minimal chi-square triple.
//
// For every candidate duration T the feasible start-time window is
// [t_min, t_max - T]; durations that cannot fit inside the observed range
// are skipped, as are non-positive durations and negative depths. Such
// unphysical grid entries are exploratory input, not errors. The start-time
// grid steps from t_min to t_max - T inclusive in t1Step increments.
//
// Replacement requires strictly smaller chi-square, so on an exact tie the
// first triple in enumeration order (duration, then depth, then start time)
// wins. Count is the exact number of triples scored.
func Fit(timeGrid, flux []float64, sigma Sigma, dGrid, tGrid []float64, t1Step float64) (Result, error) {
	if err := validateSeries(timeGrid, flux, sigma, t1Step); err != nil {
		return Result{}, err
	}

	tMin, tMax := seriesRange(timeGrid)

	best := Result{Chi2: math.Inf(1)}
	for _, T := range tGrid {
		if T <= 0 {
			continue
		}

		t1Max := tMax - T
		if t1Max <= tMin {
			continue
		}

		// Half-step padding keeps t1Max itself in the grid despite
		// floating-point rounding.
		t1Grid := Arange(tMin, t1Max+0.5*t1Step, t1Step)

		for _, d := range dGrid {
			if d < 0 {
				continue
			}
			for _, t1 := range t1Grid {
				best.Count++
				model := Model(timeGrid, T, d, t1)
				chi2 := ChiSquare(flux, model, sigma)
				if chi2 < best.Chi2 {
					best.Found = true
					best.Chi2 = chi2
					best.Depth = d
					best.Duration = T
					best.Start = t1
					best.Model = model
				}
			}
		}
	}
	return best, nil
}

func validateSeries(timeGrid, flux []float64, sigma Sigma, t1Step float64) error {
	if len(timeGrid) == 0 {
		return ErrEmptySeries
	}
	if len(flux) != len(timeGrid) {
		return ErrLengthMismatch
	}
	if t1Step <= 0 {
		return ErrInvalidStep
	}
	return sigma.validate(len(timeGrid))
}

func seriesRange(timeGrid []float64) (float64, float64) {
	lo, hi := timeGrid[0], timeGrid[0]
	for _, t := range timeGrid[1:] {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return lo, hi
}
