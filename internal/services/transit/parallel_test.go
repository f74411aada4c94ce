package transit

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestFitParallelMatchesSequential(t *testing.T) {
	grid, flux := makeObservation(-0.5, 0.5, 0.01, 0.12, 0.01, -0.06, 5e-4, 21)
	dGrid, tGrid := defaultGrids()

	seq, err := Fit(grid, flux, Scalar(5e-4), dGrid, tGrid, 0.01)
	if err != nil {
		t.Fatalf("sequential fit error: %v", err)
	}

	for _, workers := range []int{1, 2, 4, 8} {
		par, err := FitParallel(context.Background(), grid, flux, Scalar(5e-4), dGrid, tGrid, 0.01, workers)
		if err != nil {
			t.Fatalf("workers=%d: parallel fit error: %v", workers, err)
		}
		if par.Chi2 != seq.Chi2 || par.Depth != seq.Depth || par.Duration != seq.Duration || par.Start != seq.Start {
			t.Fatalf("workers=%d: parallel %+v disagrees with sequential %+v", workers, par, seq)
		}
		if par.Count != seq.Count {
			t.Fatalf("workers=%d: count %d, want %d", workers, par.Count, seq.Count)
		}
	}
}

func TestFitParallelStableAcrossRuns(t *testing.T) {
	grid, flux := makeObservation(-0.5, 0.5, 0.01, 0.12, 0.01, -0.06, 5e-4, 22)
	dGrid, tGrid := defaultGrids()

	first, err := FitParallel(context.Background(), grid, flux, Scalar(5e-4), dGrid, tGrid, 0.01, 4)
	if err != nil {
		t.Fatalf("parallel fit error: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := FitParallel(context.Background(), grid, flux, Scalar(5e-4), dGrid, tGrid, 0.01, 4)
		if err != nil {
			t.Fatalf("run %d: parallel fit error: %v", i, err)
		}
		if got.Chi2 != first.Chi2 || got.Depth != first.Depth || got.Duration != first.Duration || got.Start != first.Start {
			t.Fatalf("run %d: result changed: %+v vs %+v", i, got, first)
		}
	}
}

func TestFitParallelNoFeasibleDuration(t *testing.T) {
	grid := []float64{0, 0.05}
	flux := []float64{1, 1}

	res, err := FitParallel(context.Background(), grid, flux, Scalar(0.1), []float64{0.01}, []float64{0.2}, 0.01, 2)
	if err != nil {
		t.Fatalf("parallel fit error: %v", err)
	}
	if res.Found {
		t.Fatalf("expected no fit, got %+v", res)
	}
	if !math.IsInf(res.Chi2, 1) || res.Count != 0 {
		t.Fatalf("degenerate result wrong: %+v", res)
	}
}

func TestFitParallelCancellation(t *testing.T) {
	grid, flux := makeObservation(-0.5, 0.5, 0.01, 0.12, 0.01, -0.06, 5e-4, 23)
	tGrid := Linspace(0.01, 0.20, 500)
	dGrid := Linspace(0, 0.03, 61)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FitParallel(ctx, grid, flux, Scalar(5e-4), dGrid, tGrid, 0.01, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFitParallelValidation(t *testing.T) {
	if _, err := FitParallel(context.Background(), nil, nil, Scalar(0.1), []float64{0.01}, []float64{0.5}, 0.01, 2); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("empty series: got %v", err)
	}
	if _, err := FitParallel(context.Background(), []float64{0, 1}, []float64{1, 1}, Scalar(0), []float64{0.01}, []float64{0.5}, 0.01, 2); !errors.Is(err, ErrInvalidUncertainty) {
		t.Fatalf("zero sigma: got %v", err)
	}
}
