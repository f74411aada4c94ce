package repository

import (
	"context"
	"time"

	"TransitScan/internal/domain/models"
)

type PhotometryStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.PhotometryPoint, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, p *models.PhotometryPoint) error
	PublishBatch(ctx context.Context, points []*models.PhotometryPoint) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, p *models.PhotometryPoint) error
	StoreBatch(ctx context.Context, points []*models.PhotometryPoint) error
	Query(ctx context.Context, target string, from, to time.Time, limit int) ([]*models.PhotometryPoint, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordPointStored(backend, target string)
	RecordError(kind string)
	RecordFit(target string, found bool, evaluated int64)
	RecordBestDepth(target string, depth float64)
	RecordLatency(op string, seconds float64)
}
