package middleware

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TransitScan/internal/domain/models"
)

type recordProc struct {
	points []*models.PhotometryPoint
	err    error
}

func (r *recordProc) Process(ctx context.Context, p *models.PhotometryPoint) error {
	if r.err != nil {
		return r.err
	}
	r.points = append(r.points, p)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordPointStored(backend, target string)            {}
func (nopMetrics) RecordError(kind string)                             {}
func (nopMetrics) RecordFit(target string, found bool, evaluated int64) {}
func (nopMetrics) RecordBestDepth(target string, depth float64)        {}
func (nopMetrics) RecordLatency(op string, seconds float64)            {}

func validPoint() *models.PhotometryPoint {
	return &models.PhotometryPoint{Target: "KIC-1", Timestamp: time.Now().Unix(), Flux: 1.0, Sigma: 5e-4}
}

func TestPipelineForwardsValidPoint(t *testing.T) {
	proc := &recordProc{}
	p := NewIngestPipeline(proc, nopMetrics{})

	if err := p.Process(context.Background(), validPoint()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(proc.points) != 1 {
		t.Fatalf("forwarded %d points, want 1", len(proc.points))
	}
}

func TestPipelineRejectsInvalidPoints(t *testing.T) {
	proc := &recordProc{}
	p := NewIngestPipeline(proc, nopMetrics{})

	cases := []*models.PhotometryPoint{
		nil,
		{Target: "", Timestamp: 1, Flux: 1, Sigma: 0},
		{Target: "KIC-1", Timestamp: 0, Flux: 1, Sigma: 0},
		{Target: "KIC-1", Timestamp: 1, Flux: 1, Sigma: -1e-4},
	}
	for i, pt := range cases {
		if err := p.Process(context.Background(), pt); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if len(proc.points) != 0 {
		t.Fatalf("invalid points forwarded: %d", len(proc.points))
	}
}

func TestPipelineThrottleDropsSilently(t *testing.T) {
	proc := &recordProc{}
	p := NewIngestPipeline(proc, nopMetrics{}, WithMaxRPS(1))

	for i := 0; i < 10; i++ {
		if err := p.Process(context.Background(), validPoint()); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if len(proc.points) >= 10 {
		t.Fatalf("throttle never engaged: %d forwarded", len(proc.points))
	}
	if len(proc.points) == 0 {
		t.Fatalf("all points throttled")
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &recordProc{err: fmt.Errorf("backend down")}
	p := NewIngestPipeline(proc, nopMetrics{}, WithBufferSize(4))

	if err := p.Process(context.Background(), validPoint()); err == nil {
		t.Fatalf("expected downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("buffer depth %d, want 1", len(p.bufCh))
	}
}

func TestPipelineTransformApplied(t *testing.T) {
	proc := &recordProc{}
	p := NewIngestPipeline(proc, nopMetrics{}, WithTransform(func(pt *models.PhotometryPoint) *models.PhotometryPoint {
		pt.Target = "renamed"
		return pt
	}))

	if err := p.Process(context.Background(), validPoint()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if proc.points[0].Target != "renamed" {
		t.Fatalf("transform not applied: %+v", proc.points[0])
	}
}

func TestPipelineStartStopIdempotent(t *testing.T) {
	p := NewIngestPipeline(&recordProc{}, nopMetrics{})
	ctx := context.Background()
	p.Start(ctx)
	p.Start(ctx)
	p.Stop()
	p.Stop()
}
