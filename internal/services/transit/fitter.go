package transit

import (
	"context"
	"time"

	"TransitScan/internal/domain/models"
)

// Fitter adapts the grid-search functions to the domain TransitFitter
// interface. With Workers > 1 the duration grid is searched in parallel.
type Fitter struct {
	Workers int
}

func NewFitter(workers int) *Fitter { return &Fitter{Workers: workers} }

func (f *Fitter) Fit(ctx context.Context, lc *models.LightCurve, dGrid, tGrid []float64, t1Step float64) (*models.TransitFit, error) {
	sigma := Scalar(lc.SigmaScalar)
	if len(lc.Sigma) > 0 {
		sigma = PerPoint(lc.Sigma)
	}

	var (
		res Result
		err error
	)
	if f.Workers > 1 {
		res, err = FitParallel(ctx, lc.Time, lc.Flux, sigma, dGrid, tGrid, t1Step, f.Workers)
	} else {
		res, err = Fit(lc.Time, lc.Flux, sigma, dGrid, tGrid, t1Step)
	}
	if err != nil {
		return nil, err
	}

	fit := &models.TransitFit{
		Target:    lc.Target,
		Timestamp: time.Now(),
		Found:     res.Found,
		Chi2:      res.Chi2,
		Model:     res.Model,
		Evaluated: res.Count,
	}
	if res.Found {
		fit.Params = models.TransitParams{
			Duration: res.Duration,
			Depth:    res.Depth,
			Start:    res.Start,
		}
	}
	return fit, nil
}
