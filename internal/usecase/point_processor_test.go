package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TransitScan/internal/domain/models"
)

type stubStorage struct {
	stored  []*models.PhotometryPoint
	batches [][]*models.PhotometryPoint
	err     error
}

func (s *stubStorage) Init(ctx context.Context) error { return nil }
func (s *stubStorage) Store(ctx context.Context, p *models.PhotometryPoint) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, p)
	return nil
}
func (s *stubStorage) StoreBatch(ctx context.Context, points []*models.PhotometryPoint) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, points)
	return nil
}
func (s *stubStorage) Query(ctx context.Context, target string, from, to time.Time, limit int) ([]*models.PhotometryPoint, error) {
	return nil, nil
}
func (s *stubStorage) Health(ctx context.Context) error { return nil }
func (s *stubStorage) Close() error                     { return nil }

type stubPublisher struct {
	published []*models.PhotometryPoint
}

func (p *stubPublisher) Publish(ctx context.Context, pt *models.PhotometryPoint) error {
	p.published = append(p.published, pt)
	return nil
}
func (p *stubPublisher) PublishBatch(ctx context.Context, points []*models.PhotometryPoint) error {
	p.published = append(p.published, points...)
	return nil
}
func (p *stubPublisher) Close() error { return nil }

func point(target string) *models.PhotometryPoint {
	return &models.PhotometryPoint{Target: target, Timestamp: time.Now().Unix(), Flux: 1.0, Sigma: 5e-4}
}

func TestPointProcessorClickHouseBackend(t *testing.T) {
	store := &stubStorage{}
	proc := NewPointProcessor(nil, store, nopMetrics{}, "clickhouse", 100, time.Second)

	if err := proc.Process(context.Background(), point("KIC-1")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("stored %d points, want 1", len(store.stored))
	}
}

func TestPointProcessorKafkaBackend(t *testing.T) {
	pub := &stubPublisher{}
	proc := NewPointProcessor(pub, nil, nopMetrics{}, "kafka", 100, time.Second)

	if err := proc.Process(context.Background(), point("KIC-1")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d points, want 1", len(pub.published))
	}
}

func TestPointProcessorUnknownBackend(t *testing.T) {
	proc := NewPointProcessor(nil, nil, nopMetrics{}, "carrier-pigeon", 100, time.Second)
	if err := proc.Process(context.Background(), point("KIC-1")); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestPointProcessorNilPoint(t *testing.T) {
	proc := NewPointProcessor(nil, &stubStorage{}, nopMetrics{}, "clickhouse", 100, time.Second)
	if err := proc.Process(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil point")
	}
}

func TestPointProcessorBatch(t *testing.T) {
	store := &stubStorage{}
	proc := NewPointProcessor(nil, store, nopMetrics{}, "clickhouse", 100, time.Second)

	pts := []*models.PhotometryPoint{point("KIC-1"), point("KIC-2")}
	if err := proc.ProcessBatch(context.Background(), pts); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(store.batches) != 1 || len(store.batches[0]) != 2 {
		t.Fatalf("batch not forwarded: %+v", store.batches)
	}
	if err := proc.ProcessBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
}

func TestPointProcessorStoreError(t *testing.T) {
	store := &stubStorage{err: fmt.Errorf("insert failed")}
	proc := NewPointProcessor(nil, store, nopMetrics{}, "clickhouse", 100, time.Second)
	if err := proc.Process(context.Background(), point("KIC-1")); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}
