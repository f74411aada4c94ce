package synth

import (
	"math/rand"

	"TransitScan/internal/services/transit"
)

// Synthetic light-curve generation for validation trials. These are callers
// of the transit core, used by the recovery endpoint and the tests.

// TimeGrid builds a uniform time grid from lo to hi inclusive in dt steps.
func TimeGrid(lo, hi, dt float64) []float64 {
	return transit.Arange(lo, hi+0.5*dt, dt)
}

// Inject produces the noiseless flux for a single box transit.
func Inject(timeGrid []float64, T, d, t1 float64) []float64 {
	return transit.Model(timeGrid, T, d, t1)
}

// AddNoise adds seeded Gaussian noise of scale sigma to a copy of flux.
// Identical seeds yield identical realizations.
func AddNoise(flux []float64, sigma float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, len(flux))
	for i, f := range flux {
		out[i] = f + rng.NormFloat64()*sigma
	}
	return out
}

// NoisyTransit builds a complete synthetic observation: uniform time grid,
// injected transit, Gaussian noise.
func NoisyTransit(lo, hi, dt, T, d, t1, sigma float64, seed int64) (timeGrid, flux []float64) {
	timeGrid = TimeGrid(lo, hi, dt)
	flux = AddNoise(Inject(timeGrid, T, d, t1), sigma, seed)
	return timeGrid, flux
}

// FlatNoise builds a pure-noise observation around a flat unit baseline.
func FlatNoise(lo, hi, dt, sigma float64, seed int64) (timeGrid, flux []float64) {
	timeGrid = TimeGrid(lo, hi, dt)
	base := make([]float64, len(timeGrid))
	for i := range base {
		base[i] = 1.0
	}
	flux = AddNoise(base, sigma, seed)
	return timeGrid, flux
}
