package usecase

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"TransitScan/internal/domain/models"
	domrepo "TransitScan/internal/domain/repository"
	"TransitScan/internal/services/synth"
	"TransitScan/internal/services/transit"
)

type memStore struct {
	curve *models.LightCurve
	saved []*models.TransitFit
	err   error
}

func (m *memStore) GetLightCurve(ctx context.Context, target string, from, to time.Time, c domrepo.Cadence) (*models.LightCurve, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.curve, nil
}

func (m *memStore) GetLatestN(ctx context.Context, target string, n int, c domrepo.Cadence) (*models.LightCurve, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.curve, nil
}

func (m *memStore) SaveFit(ctx context.Context, fit *models.TransitFit) error {
	m.saved = append(m.saved, fit)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordPointStored(backend, target string)            {}
func (nopMetrics) RecordError(kind string)                             {}
func (nopMetrics) RecordFit(target string, found bool, evaluated int64) {}
func (nopMetrics) RecordBestDepth(target string, depth float64)        {}
func (nopMetrics) RecordLatency(op string, seconds float64)            {}

func testCurve(seed int64) *models.LightCurve {
	grid, flux := synth.NoisyTransit(-0.5, 0.5, 0.01, 0.12, 0.01, -0.06, 5e-4, seed)
	return &models.LightCurve{
		Target:      "KIC-1",
		Time:        grid,
		Flux:        flux,
		SigmaScalar: 5e-4,
	}
}

func newTestSearch(store domrepo.LightCurveStore) *TransitSearch {
	return NewTransitSearch(store, transit.NewFitter(1), transit.NewFitter(4), nil, nopMetrics{})
}

func TestFitStoredRecoversAndPersists(t *testing.T) {
	store := &memStore{curve: testCurve(1)}
	search := newTestSearch(store)

	res, err := search.FitStored(context.Background(), FitStoredParams{
		Target:  "KIC-1",
		N:       2000,
		Cadence: domrepo.Cad1m,
		DGrid:   transit.Linspace(0, 0.03, 61),
		TGrid:   transit.Linspace(0.01, 0.20, 61),
		T1Step:  0.01,
	})
	if err != nil {
		t.Fatalf("fit stored: %v", err)
	}
	if !res.Fit.Found {
		t.Fatalf("expected a fit")
	}
	rel := math.Abs(res.Fit.Params.Depth-0.01) / 0.01
	if rel > 0.15 {
		t.Fatalf("depth %v, rel err %v", res.Fit.Params.Depth, rel)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 persisted fit, got %d", len(store.saved))
	}
	if res.Target.Target != "KIC-1" {
		t.Fatalf("target info not set: %+v", res.Target)
	}
}

func TestFitStoredParallelMatchesSequential(t *testing.T) {
	store := &memStore{curve: testCurve(2)}
	search := newTestSearch(store)

	p := FitStoredParams{
		Target:  "KIC-1",
		N:       2000,
		Cadence: domrepo.Cad1m,
		DGrid:   transit.Linspace(0, 0.03, 61),
		TGrid:   transit.Linspace(0.01, 0.20, 61),
		T1Step:  0.01,
	}
	seq, err := search.FitStored(context.Background(), p)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	p.Parallel = true
	par, err := search.FitStored(context.Background(), p)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if seq.Fit.Chi2 != par.Fit.Chi2 || seq.Fit.Params != par.Fit.Params {
		t.Fatalf("parallel %+v disagrees with sequential %+v", par.Fit, seq.Fit)
	}
}

func TestFitStoredValidation(t *testing.T) {
	store := &memStore{curve: testCurve(3)}
	search := newTestSearch(store)

	if _, err := search.FitStored(context.Background(), FitStoredParams{T1Step: 0.01}); err == nil {
		t.Fatalf("expected error for empty target")
	}
	if _, err := search.FitStored(context.Background(), FitStoredParams{Target: "KIC-1"}); err == nil {
		t.Fatalf("expected error for zero t1 step")
	}

	store.curve = &models.LightCurve{Target: "KIC-1", Time: []float64{0}, Flux: []float64{1}, SigmaScalar: 5e-4}
	if _, err := search.FitStored(context.Background(), FitStoredParams{Target: "KIC-1", T1Step: 0.01}); err == nil {
		t.Fatalf("expected error for short curve")
	}

	store.curve = nil
	store.err = fmt.Errorf("boom")
	if _, err := search.FitStored(context.Background(), FitStoredParams{Target: "KIC-1", T1Step: 0.01}); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}

func TestFitInline(t *testing.T) {
	search := newTestSearch(&memStore{})
	lc := testCurve(4)

	fit, err := search.FitInline(context.Background(), &models.FitRequest{
		Time:   lc.Time,
		Flux:   lc.Flux,
		Sigma:  []float64{5e-4},
		DGrid:  transit.Linspace(0, 0.03, 61),
		TGrid:  transit.Linspace(0.01, 0.20, 61),
		T1Step: 0.01,
	})
	if err != nil {
		t.Fatalf("fit inline: %v", err)
	}
	if !fit.Found {
		t.Fatalf("expected a fit")
	}
}

func TestFitInlineInvalidSigma(t *testing.T) {
	search := newTestSearch(&memStore{})

	_, err := search.FitInline(context.Background(), &models.FitRequest{
		Time:   []float64{0, 1},
		Flux:   []float64{1, 1},
		Sigma:  []float64{0},
		DGrid:  []float64{0.01},
		TGrid:  []float64{0.5},
		T1Step: 0.01,
	})
	if err == nil {
		t.Fatalf("expected invalid uncertainty error")
	}
}

func TestSyntheticTrial(t *testing.T) {
	search := newTestSearch(&memStore{})

	res, err := search.SyntheticTrial(context.Background(), &models.SyntheticFitRequest{
		DTrue: 0.01, TTrue: 0.12, T1True: -0.06,
		Sigma: 5e-4, Seed: 1,
		TimeLo: -0.5, TimeHi: 0.5, DT: 0.01,
		DMax: 0.03, DSteps: 61,
		TMin: 0.01, TMax: 0.20, TSteps: 61,
	})
	if err != nil {
		t.Fatalf("synthetic trial: %v", err)
	}
	if !res.Fit.Found {
		t.Fatalf("expected a fit")
	}
	if res.RelDepthErr > 0.15 {
		t.Fatalf("rel depth err %v exceeds 0.15", res.RelDepthErr)
	}
	if res.Injected.Depth != 0.01 || res.Injected.Duration != 0.12 {
		t.Fatalf("injected params not echoed: %+v", res.Injected)
	}
}
