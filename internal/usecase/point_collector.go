package usecase

import (
	"context"

	"TransitScan/internal/domain/models"
	drepo "TransitScan/internal/domain/repository"
	mid "TransitScan/internal/middleware"
)

// PointCollector collects photometry from the feed stream and processes it.
type PointCollector struct {
	stream  drepo.PhotometryStream
	proc    *PointProcessor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
}

// NewPointCollector creates a new PointCollector instance.
func NewPointCollector(stream drepo.PhotometryStream, proc *PointProcessor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *PointCollector {
	return &PointCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the photometry stream is connected.
func (c *PointCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *PointCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	ptCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, ptCh, errCh)
	return nil
}

func (c *PointCollector) consume(ctx context.Context, ptCh <-chan *models.PhotometryPoint, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case pt := <-ptCh:
			if pt == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, pt)
			} else {
				_ = c.proc.Process(ctx, pt)
			}
		}
	}
}

func (c *PointCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying PointProcessor for lifecycle management.
func (c *PointCollector) Processor() *PointProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *PointCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
