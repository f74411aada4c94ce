package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TransitScan/internal/domain/models"
	domrepo "TransitScan/internal/domain/repository"
	"TransitScan/internal/service/ratelimit"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, p *models.PhotometryPoint) error
}

// IngestPipeline sits between the photometry feed and the backend.
// It validates, throttles per target, optionally transforms, and buffers
// points when the downstream is unavailable.
type IngestPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	maxRPS  int
	bufSize int
	bufCh   chan *models.PhotometryPoint
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	rl      *ratelimit.Limiter
	// simple format transform hook (optional)
	transform func(*models.PhotometryPoint) *models.PhotometryPoint
	// metrics
	bufDepthGauge func(int)
	throttleWarn  func(string)
}

type PipelineOption func(*IngestPipeline)

// WithMaxRPS sets the max points per second per target.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a transformation hook to modify point format.
func WithTransform(fn func(*models.PhotometryPoint) *models.PhotometryPoint) PipelineOption {
	return func(p *IngestPipeline) { p.transform = fn }
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:    proc,
		metrics: metrics,
		maxRPS:  20,   // default throttle per target
		bufSize: 1000, // default buffer
		bufCh:   make(chan *models.PhotometryPoint, 1000),
		stopCh:  make(chan struct{}),
		rl:      ratelimit.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.PhotometryPoint, p.bufSize)
	}
	// metrics hooks using domain metrics if available
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	p.throttleWarn = func(target string) { p.metrics.RecordError("pipeline_throttle_" + target) }
	return p
}

// Start launches background flushing of buffered points.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case pt := <-p.bufCh:
				if pt == nil {
					continue
				}
				if err := p.proc.Process(ctx, pt); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- pt:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a point downstream, buffering on errors.
func (p *IngestPipeline) Process(ctx context.Context, pt *models.PhotometryPoint) error {
	start := time.Now()
	if err := validatePoint(pt); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		pt = p.transform(pt)
		if err := validatePoint(pt); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if !p.allow(pt.Target) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		if p.throttleWarn != nil {
			p.throttleWarn(pt.Target)
		}
		return nil
	}

	if err := p.proc.Process(ctx, pt); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- pt:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validatePoint(pt *models.PhotometryPoint) error {
	if pt == nil {
		return fmt.Errorf("point nil")
	}
	if pt.Target == "" {
		return fmt.Errorf("target empty")
	}
	if pt.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if pt.Sigma < 0 {
		return fmt.Errorf("negative sigma")
	}
	return nil
}

func (p *IngestPipeline) allow(target string) bool {
	if p.maxRPS <= 0 {
		return true
	}
	return p.rl.Allow(target, float64(p.maxRPS), float64(p.maxRPS))
}
