package transit

import (
	"math"
	"testing"
)

func TestModelWindowInclusive(t *testing.T) {
	grid := []float64{-0.1, 0.0, 0.1, 0.2}
	m := Model(grid, 0.1, 0.2, 0.0)

	want := []float64{1.0, 0.8, 0.8, 1.0}
	for i := range want {
		if m[i] != want[i] {
			t.Fatalf("model[%d] = %v, want %v", i, m[i], want[i])
		}
	}
}

func TestModelZeroDuration(t *testing.T) {
	grid := []float64{0.0, 0.5, 1.0}
	m := Model(grid, 0.0, 0.1, 0.5)

	if m[0] != 1.0 || m[2] != 1.0 {
		t.Fatalf("expected baseline outside window, got %v", m)
	}
	if m[1] != 0.9 {
		t.Fatalf("point at t1 should be in window, got %v", m[1])
	}
}

func TestModelNegativeDepthBrightens(t *testing.T) {
	grid := []float64{0.0}
	m := Model(grid, 1.0, -0.05, -0.5)
	if m[0] != 1.05 {
		t.Fatalf("expected 1.05, got %v", m[0])
	}
}

func TestModelDoesNotMutateInput(t *testing.T) {
	grid := []float64{0.0, 1.0}
	Model(grid, 0.5, 0.1, 0.0)
	if grid[0] != 0.0 || grid[1] != 1.0 {
		t.Fatalf("time grid mutated: %v", grid)
	}
}

func TestChiSquareScalarSigma(t *testing.T) {
	flux := []float64{1.0, 1.0}
	model := []float64{0.9, 1.1}
	got := ChiSquare(flux, model, Scalar(0.1))
	if math.Abs(got-2.0) > 1e-12 {
		t.Fatalf("chi2 = %v, want 2.0", got)
	}
}

func TestChiSquarePerPointSigma(t *testing.T) {
	flux := []float64{1.0, 1.0}
	model := []float64{0.9, 1.1}
	got := ChiSquare(flux, model, PerPoint([]float64{0.1, 0.2}))
	if math.Abs(got-1.25) > 1e-12 {
		t.Fatalf("chi2 = %v, want 1.25", got)
	}
}

func TestChiSquarePerfectFit(t *testing.T) {
	grid := []float64{0, 0.1, 0.2, 0.3}
	model := Model(grid, 0.1, 0.01, 0.1)
	if got := ChiSquare(model, model, Scalar(0.001)); got != 0 {
		t.Fatalf("chi2 = %v, want 0", got)
	}
}
