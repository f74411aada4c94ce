package transit

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// makeObservation builds a uniform time grid with an injected box transit
// and seeded Gaussian noise.
func makeObservation(lo, hi, dt, T, d, t1, sigma float64, seed int64) ([]float64, []float64) {
	grid := Arange(lo, hi+0.5*dt, dt)
	flux := Model(grid, T, d, t1)
	rng := rand.New(rand.NewSource(seed))
	for i := range flux {
		flux[i] += rng.NormFloat64() * sigma
	}
	return grid, flux
}

func defaultGrids() (dGrid, tGrid []float64) {
	return Linspace(0, 0.03, 61), Linspace(0.01, 0.20, 61)
}

func TestFitRecoversInjectedTransit(t *testing.T) {
	cases := []struct {
		name       string
		T, d, t1   float64
		sigma      float64
		seed       int64
	}{
		{"centered", 0.12, 0.01, -0.06, 5e-4, 1},
		{"near_left_edge", 0.12, 0.01, -0.49, 5e-4, 2},
		{"near_right_edge", 0.12, 0.01, 0.37, 5e-4, 3},
		{"short_duration", 0.03, 0.01, -0.06, 5e-4, 4},
		{"high_noise", 0.12, 0.01, -0.06, 8e-4, 5},
	}

	dGrid, tGrid := defaultGrids()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid, flux := makeObservation(-0.5, 0.5, 0.01, tc.T, tc.d, tc.t1, tc.sigma, tc.seed)

			res, err := Fit(grid, flux, Scalar(tc.sigma), dGrid, tGrid, 0.01)
			if err != nil {
				t.Fatalf("fit error: %v", err)
			}
			if !res.Found {
				t.Fatalf("expected a fit")
			}

			relDepth := math.Abs(res.Depth-tc.d) / tc.d
			if relDepth > 0.15 {
				t.Fatalf("depth %v too far from %v (rel err %v)", res.Depth, tc.d, relDepth)
			}
			if math.Abs(res.Start-tc.t1) > 0.02 {
				t.Fatalf("start %v too far from %v", res.Start, tc.t1)
			}
			if math.Abs(res.Duration-tc.T) > 0.02 {
				t.Fatalf("duration %v too far from %v", res.Duration, tc.T)
			}
			if len(res.Model) != len(grid) {
				t.Fatalf("model length %d, want %d", len(res.Model), len(grid))
			}
		})
	}
}

func TestFitPureNoiseFindsNoDeepTransit(t *testing.T) {
	dGrid, tGrid := defaultGrids()
	for _, seed := range []int64{0, 1, 2} {
		sigma := 5e-4
		grid, flux := makeObservation(-0.5, 0.5, 0.01, 0, 0, 0, sigma, seed)

		res, err := Fit(grid, flux, Scalar(sigma), dGrid, tGrid, 0.01)
		if err != nil {
			t.Fatalf("seed %d: fit error: %v", seed, err)
		}
		if !res.Found {
			t.Fatalf("seed %d: expected a (shallow) fit", seed)
		}
		if res.Depth > 6*sigma {
			t.Fatalf("seed %d: pure noise best depth %v exceeds 6 sigma", seed, res.Depth)
		}
	}
}

func TestFitSkipsUnphysicalGridEntries(t *testing.T) {
	grid, flux := makeObservation(-0.5, 0.5, 0.01, 0.12, 0.01, -0.06, 5e-4, 7)

	dGrid := Linspace(-0.02, 0.03, 51)
	tGrid := Linspace(-0.10, 0.20, 61)

	res, err := Fit(grid, flux, Scalar(5e-4), dGrid, tGrid, 0.01)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if !res.Found {
		t.Fatalf("expected a fit")
	}
	if res.Depth < 0 {
		t.Fatalf("negative depth %v selected", res.Depth)
	}
	if res.Duration <= 0 {
		t.Fatalf("non-positive duration %v selected", res.Duration)
	}
}

func TestFitCountsEveryScoredTriple(t *testing.T) {
	grid := []float64{0, 1}
	flux := []float64{1, 1}

	// t1 window is [0, 0.5]; with step 0.25 that is 3 start times, and the
	// negative duration and depth entries are skipped, so 2 depths times
	// 3 starts are scored.
	dGrid := []float64{-0.5, 0, 0.01}
	tGrid := []float64{-0.1, 0.5}

	res, err := Fit(grid, flux, Scalar(0.1), dGrid, tGrid, 0.25)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if res.Count != 6 {
		t.Fatalf("count = %d, want 6", res.Count)
	}
}

func TestFitStartGridIncludesUpperBound(t *testing.T) {
	// Transit at the very end of the observed range: t1 = t_max - T must be
	// reachable.
	grid := Arange(0, 1.05, 0.1)
	flux := Model(grid, 0.5, 0.01, 0.5)

	res, err := Fit(grid, flux, Scalar(1e-3), []float64{0, 0.01}, []float64{0.5}, 0.1)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if !res.Found {
		t.Fatalf("expected a fit")
	}
	if math.Abs(res.Start-0.5) > 1e-9 {
		t.Fatalf("start = %v, want 0.5", res.Start)
	}
	if res.Chi2 != 0 {
		t.Fatalf("chi2 = %v, want 0 for exact model", res.Chi2)
	}
}

func TestFitNoFeasibleDuration(t *testing.T) {
	grid := []float64{0, 0.05}
	flux := []float64{1, 1}

	res, err := Fit(grid, flux, Scalar(0.1), []float64{0.01}, []float64{0.2}, 0.01)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if res.Found {
		t.Fatalf("expected no fit, got %+v", res)
	}
	if !math.IsInf(res.Chi2, 1) {
		t.Fatalf("chi2 = %v, want +Inf", res.Chi2)
	}
	if res.Model != nil {
		t.Fatalf("model should be nil, got %v", res.Model)
	}
	if res.Count != 0 {
		t.Fatalf("count = %d, want 0", res.Count)
	}
}

func TestFitTieBreakFirstWins(t *testing.T) {
	// Flat data with d=0 scores identically for every window; the first
	// enumerated triple must win.
	grid := Arange(0, 1.05, 0.1)
	flux := make([]float64, len(grid))
	for i := range flux {
		flux[i] = 1
	}

	res, err := Fit(grid, flux, Scalar(0.1), []float64{0}, []float64{0.2, 0.3}, 0.1)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if !res.Found {
		t.Fatalf("expected a fit")
	}
	if res.Duration != 0.2 || res.Start != 0 {
		t.Fatalf("tie broken wrong: T=%v t1=%v, want first triple T=0.2 t1=0", res.Duration, res.Start)
	}
}

func TestFitDeterministic(t *testing.T) {
	grid, flux := makeObservation(-0.5, 0.5, 0.01, 0.12, 0.01, -0.06, 5e-4, 11)
	dGrid, tGrid := defaultGrids()

	a, err := Fit(grid, flux, Scalar(5e-4), dGrid, tGrid, 0.01)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	b, err := Fit(grid, flux, Scalar(5e-4), dGrid, tGrid, 0.01)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if a.Chi2 != b.Chi2 || a.Depth != b.Depth || a.Duration != b.Duration || a.Start != b.Start || a.Count != b.Count {
		t.Fatalf("fit not deterministic: %+v vs %+v", a, b)
	}
}

func TestFitValidation(t *testing.T) {
	grid := []float64{0, 1}
	flux := []float64{1, 1}
	dGrid, tGrid := []float64{0.01}, []float64{0.5}

	if _, err := Fit(nil, nil, Scalar(0.1), dGrid, tGrid, 0.01); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("empty series: got %v", err)
	}
	if _, err := Fit(grid, []float64{1}, Scalar(0.1), dGrid, tGrid, 0.01); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("flux mismatch: got %v", err)
	}
	if _, err := Fit(grid, flux, Scalar(0.1), dGrid, tGrid, 0); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("zero step: got %v", err)
	}
	if _, err := Fit(grid, flux, Scalar(0), dGrid, tGrid, 0.01); !errors.Is(err, ErrInvalidUncertainty) {
		t.Fatalf("zero sigma: got %v", err)
	}
	if _, err := Fit(grid, flux, Scalar(-0.1), dGrid, tGrid, 0.01); !errors.Is(err, ErrInvalidUncertainty) {
		t.Fatalf("negative sigma: got %v", err)
	}
	if _, err := Fit(grid, flux, PerPoint([]float64{0.1}), dGrid, tGrid, 0.01); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("sigma length mismatch: got %v", err)
	}
	if _, err := Fit(grid, flux, PerPoint([]float64{0.1, 0}), dGrid, tGrid, 0.01); !errors.Is(err, ErrInvalidUncertainty) {
		t.Fatalf("zero per-point sigma: got %v", err)
	}
}

func TestFitPerPointSigma(t *testing.T) {
	grid, flux := makeObservation(-0.5, 0.5, 0.01, 0.12, 0.01, -0.06, 5e-4, 13)
	sig := make([]float64, len(grid))
	for i := range sig {
		sig[i] = 5e-4
	}
	dGrid, tGrid := defaultGrids()

	a, err := Fit(grid, flux, Scalar(5e-4), dGrid, tGrid, 0.01)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	b, err := Fit(grid, flux, PerPoint(sig), dGrid, tGrid, 0.01)
	if err != nil {
		t.Fatalf("fit error: %v", err)
	}
	if a.Chi2 != b.Chi2 || a.Depth != b.Depth {
		t.Fatalf("uniform per-point sigma disagrees with scalar: %+v vs %+v", a, b)
	}
}
