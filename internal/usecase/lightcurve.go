package usecase

import (
	"context"
	"fmt"
	"time"

	"TransitScan/internal/domain/models"
	domrepo "TransitScan/internal/domain/repository"
	"TransitScan/pkg/util"
)

// LightCurveUseCase provides business logic for retrieving stored photometry.
type LightCurveUseCase struct {
	store domrepo.LightCurveStore
}

func NewLightCurveUseCase(store domrepo.LightCurveStore) *LightCurveUseCase {
	return &LightCurveUseCase{store: store}
}

type GetLightCurveParams struct {
	Target  string
	From    time.Time
	To      time.Time
	Cadence domrepo.Cadence
	Limit   int
}

type GetLightCurveResult struct {
	Target  string
	Cadence string
	From    time.Time
	To      time.Time
	Count   int
	Curve   *models.LightCurve
}

func (uc *LightCurveUseCase) GetLightCurve(ctx context.Context, p GetLightCurveParams) (*GetLightCurveResult, error) {
	if p.Target == "" {
		return nil, fmt.Errorf("target required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 100000 {
		p.Limit = 100000
	}

	p.From, p.To = util.AlignFromTo(p.From, p.To, string(p.Cadence))
	lc, err := uc.store.GetLightCurve(ctx, p.Target, p.From, p.To, p.Cadence)
	if err != nil {
		return nil, fmt.Errorf("get light curve: %w", err)
	}
	if lc.Len() > p.Limit {
		lc.Time = lc.Time[:p.Limit]
		lc.Flux = lc.Flux[:p.Limit]
		if len(lc.Sigma) > p.Limit {
			lc.Sigma = lc.Sigma[:p.Limit]
		}
	}

	return &GetLightCurveResult{
		Target:  p.Target,
		Cadence: string(p.Cadence),
		From:    p.From,
		To:      p.To,
		Count:   lc.Len(),
		Curve:   lc,
	}, nil
}
