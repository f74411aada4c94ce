package usecase

import (
	"context"
	"fmt"
	"time"

	"TransitScan/internal/domain/models"
	domrepo "TransitScan/internal/domain/repository"
	domsvc "TransitScan/internal/domain/service"
	"TransitScan/internal/services/synth"
	"TransitScan/internal/services/transit"
)

// TransitSearch drives grid-search fits: over stored light curves, over
// inline request data, and over synthetic injection trials.
type TransitSearch struct {
	store   domrepo.LightCurveStore
	fitter  domsvc.TransitFitter
	par     domsvc.TransitFitter
	catalog domsvc.TargetCatalog
	metrics domrepo.Metrics
}

func NewTransitSearch(store domrepo.LightCurveStore, fitter, par domsvc.TransitFitter, catalog domsvc.TargetCatalog, metrics domrepo.Metrics) *TransitSearch {
	return &TransitSearch{store: store, fitter: fitter, par: par, catalog: catalog, metrics: metrics}
}

type FitStoredParams struct {
	Target   string
	From     time.Time
	To       time.Time
	N        int
	Cadence  domrepo.Cadence
	DGrid    []float64
	TGrid    []float64
	T1Step   float64
	Parallel bool
}

type FitStoredResult struct {
	Fit    *models.TransitFit
	Target models.TargetInfo
}

// FitStored loads a target's light curve and fits the transit grid over it.
// A found fit is persisted best-effort; a persist failure does not fail the
// request.
func (s *TransitSearch) FitStored(ctx context.Context, p FitStoredParams) (*FitStoredResult, error) {
	if p.Target == "" {
		return nil, fmt.Errorf("target required")
	}
	if p.T1Step <= 0 {
		return nil, transit.ErrInvalidStep
	}

	var (
		lc  *models.LightCurve
		err error
	)
	if !p.From.IsZero() && !p.To.IsZero() {
		lc, err = s.store.GetLightCurve(ctx, p.Target, p.From, p.To, p.Cadence)
	} else {
		lc, err = s.store.GetLatestN(ctx, p.Target, p.N, p.Cadence)
	}
	if err != nil {
		return nil, fmt.Errorf("load light curve: %w", err)
	}
	if lc.Len() < 2 {
		return nil, fmt.Errorf("light curve too short: %d points", lc.Len())
	}

	start := time.Now()
	fit, err := s.pick(p.Parallel).Fit(ctx, lc, p.DGrid, p.TGrid, p.T1Step)
	if err != nil {
		s.metrics.RecordError("fit")
		return nil, err
	}
	s.metrics.RecordLatency("fit", time.Since(start).Seconds())
	s.metrics.RecordFit(p.Target, fit.Found, fit.Evaluated)
	if fit.Found {
		s.metrics.RecordBestDepth(p.Target, fit.Params.Depth)
		_ = s.store.SaveFit(ctx, fit)
	}

	res := &FitStoredResult{Fit: fit, Target: models.TargetInfo{Target: p.Target}}
	if s.catalog != nil {
		if info, cerr := s.catalog.Lookup(ctx, p.Target); cerr == nil {
			res.Target = info
		}
	}
	return res, nil
}

// FitInline fits explicit arrays supplied by the caller.
func (s *TransitSearch) FitInline(ctx context.Context, req *models.FitRequest) (*models.TransitFit, error) {
	lc := &models.LightCurve{Time: req.Time, Flux: req.Flux}
	if len(req.Sigma) == 1 {
		lc.SigmaScalar = req.Sigma[0]
	} else {
		lc.Sigma = req.Sigma
	}

	start := time.Now()
	fit, err := s.fitter.Fit(ctx, lc, req.DGrid, req.TGrid, req.T1Step)
	if err != nil {
		s.metrics.RecordError("fit_inline")
		return nil, err
	}
	s.metrics.RecordLatency("fit_inline", time.Since(start).Seconds())
	s.metrics.RecordFit("inline", fit.Found, fit.Evaluated)
	return fit, nil
}

// SyntheticTrial generates a noisy injected transit and recovers it, the
// standard validation loop for the fitter.
type SyntheticTrialResult struct {
	Fit         *models.TransitFit   `json:"fit"`
	Injected    models.TransitParams `json:"injected"`
	RelDepthErr float64              `json:"rel_depth_err"`
}

func (s *TransitSearch) SyntheticTrial(ctx context.Context, req *models.SyntheticFitRequest) (*SyntheticTrialResult, error) {
	timeGrid, flux := synth.NoisyTransit(req.TimeLo, req.TimeHi, req.DT, req.TTrue, req.DTrue, req.T1True, req.Sigma, req.Seed)
	lc := &models.LightCurve{Target: "synthetic", Time: timeGrid, Flux: flux, SigmaScalar: req.Sigma}

	dGrid := transit.Linspace(0, req.DMax, req.DSteps)
	tGrid := transit.Linspace(req.TMin, req.TMax, req.TSteps)

	fit, err := s.fitter.Fit(ctx, lc, dGrid, tGrid, req.DT)
	if err != nil {
		s.metrics.RecordError("fit_synth")
		return nil, err
	}
	s.metrics.RecordFit("synthetic", fit.Found, fit.Evaluated)

	out := &SyntheticTrialResult{
		Fit:      fit,
		Injected: models.TransitParams{Duration: req.TTrue, Depth: req.DTrue, Start: req.T1True},
	}
	if fit.Found && req.DTrue > 0 {
		rel := (fit.Params.Depth - req.DTrue) / req.DTrue
		if rel < 0 {
			rel = -rel
		}
		out.RelDepthErr = rel
	}
	return out, nil
}

func (s *TransitSearch) pick(parallel bool) domsvc.TransitFitter {
	if parallel && s.par != nil {
		return s.par
	}
	return s.fitter
}
