package repository

import (
	"context"
	"time"

	"TransitScan/internal/domain/models"
)

// Cadence represents the binned sampling resolution of stored photometry.
type Cadence string

const (
	Cad1s Cadence = "1s"
	Cad1m Cadence = "1m"
	Cad5m Cadence = "5m"
)

// LightCurveStore provides read access to binned photometry and write
// access to persisted fit results.
type LightCurveStore interface {
	GetLightCurve(ctx context.Context, target string, from, to time.Time, c Cadence) (*models.LightCurve, error)
	GetLatestN(ctx context.Context, target string, n int, c Cadence) (*models.LightCurve, error)
	SaveFit(ctx context.Context, fit *models.TransitFit) error
}
