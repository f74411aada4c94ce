package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TransitScan/internal/domain/models"
	domrepo "TransitScan/internal/domain/repository"
	pkgch "TransitScan/pkg/clickhouse"
	applogger "TransitScan/pkg/logger"
)

// secondsPerDay converts stored unix timestamps to the day-based time frame
// the fitter works in.
const secondsPerDay = 86400.0

// CHLightCurveStore implements LightCurveStore backed by ClickHouse.
type CHLightCurveStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHLightCurveStore(ch *pkgch.Client) *CHLightCurveStore {
	return &CHLightCurveStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHLightCurveStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHLightCurveStore) GetLightCurve(ctx context.Context, target string, from, to time.Time, c domrepo.Cadence) (*models.LightCurve, error) {
	start := time.Now()
	table, err := tableForCadence(c)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT bucket, flux, sigma
        FROM %s
        WHERE target = ? AND bucket >= ? AND bucket <= ?
        ORDER BY bucket ASC
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, target, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_lightcurve query error",
				applogger.String("table", table),
				applogger.String("target", target),
				applogger.String("cadence", string(c)),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get light curve: %w", err)
	}
	defer rows.Close()

	lc, err := s.scanCurve(rows, target)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_lightcurve scan error",
				applogger.String("table", table),
				applogger.String("target", target),
				applogger.Error(err),
			)
		}
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse get_lightcurve ok",
			applogger.String("table", table),
			applogger.String("target", target),
			applogger.String("cadence", string(c)),
			applogger.Int("rows", lc.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return lc, nil
}

func (s *CHLightCurveStore) GetLatestN(ctx context.Context, target string, n int, c domrepo.Cadence) (*models.LightCurve, error) {
	start := time.Now()
	table, err := tableForCadence(c)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT bucket, flux, sigma
        FROM (
            SELECT bucket, flux, sigma
            FROM %s
            WHERE target = ?
            ORDER BY bucket DESC
            LIMIT ?
        )
        ORDER BY bucket ASC
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, target, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_lightcurve query error",
				applogger.String("table", table),
				applogger.String("target", target),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get latest light curve: %w", err)
	}
	defer rows.Close()

	lc, err := s.scanCurve(rows, target)
	if err != nil {
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse latest_lightcurve ok",
			applogger.String("table", table),
			applogger.String("target", target),
			applogger.Int("limit", n),
			applogger.Int("rows", lc.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return lc, nil
}

// SaveFit persists a found fit for later inspection.
func (s *CHLightCurveStore) SaveFit(ctx context.Context, fit *models.TransitFit) error {
	const q = `
        INSERT INTO transitscan.fit_results
            (target, ts, found, depth, duration, start_t1, chi2, evaluated)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q,
		fit.Target,
		fit.Timestamp,
		boolToUInt8(fit.Found),
		fit.Params.Depth,
		fit.Params.Duration,
		fit.Params.Start,
		fit.Chi2,
		fit.Evaluated,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_fit error",
				applogger.String("target", fit.Target),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save fit: %w", err)
	}
	if s.l != nil {
		s.l.Debug("fit stored",
			applogger.String("target", fit.Target),
			applogger.Float64("depth", fit.Params.Depth),
			applogger.Float64("chi2", fit.Chi2),
		)
	}
	return nil
}

// scanCurve reads (bucket, flux, sigma) rows into a LightCurve with time
// expressed in days relative to the first sample.
func (s *CHLightCurveStore) scanCurve(rows *sql.Rows, target string) (*models.LightCurve, error) {
	lc := &models.LightCurve{Target: target}
	var t0 int64
	for rows.Next() {
		var (
			bucket time.Time
			flux   float64
			sigma  float64
		)
		if err := rows.Scan(&bucket, &flux, &sigma); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		ts := bucket.Unix()
		if lc.Len() == 0 {
			t0 = ts
		}
		lc.Time = append(lc.Time, float64(ts-t0)/secondsPerDay)
		lc.Flux = append(lc.Flux, flux)
		lc.Sigma = append(lc.Sigma, sigma)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lc, nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func tableForCadence(c domrepo.Cadence) (string, error) {
	switch c {
	case domrepo.Cad1s:
		return "transitscan.phot_1s", nil
	case domrepo.Cad1m:
		return "transitscan.phot_1m", nil
	case domrepo.Cad5m:
		// fold to 1m for now; 5m can be aggregated in-memory if needed
		return "transitscan.phot_1m", nil
	default:
		return "", fmt.Errorf("unsupported cadence: %s", c)
	}
}
