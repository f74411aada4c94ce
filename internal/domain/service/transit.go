package service

import (
	"context"

	"TransitScan/internal/domain/models"
)

// TransitFitter searches a box-transit parameter space over a light curve
// and returns the minimal chi-square candidate.
type TransitFitter interface {
	Fit(ctx context.Context, lc *models.LightCurve, dGrid, tGrid []float64, t1Step float64) (*models.TransitFit, error)
}

// TargetCatalog resolves metadata for observed targets from an external
// catalog service.
type TargetCatalog interface {
	Lookup(ctx context.Context, target string) (models.TargetInfo, error)
}
