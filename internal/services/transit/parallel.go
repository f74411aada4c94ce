package transit

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

type candidate struct {
	chi2     float64
	duration float64
	depth    float64
	start    float64
	model    []float64
}

// better reports whether a should replace b under the order-independent
// comparator: chi-square first, then duration, depth and start time.
// This makes the parallel search deterministic regardless of how durations
// are assigned to workers; for tie-free inputs it selects the same triple
// as the sequential first-encountered-wins rule.
func better(a, b candidate) bool {
	if a.model == nil || math.IsNaN(a.chi2) || math.IsInf(a.chi2, 1) {
		return false
	}
	if b.model == nil {
		return true
	}
	if a.chi2 != b.chi2 {
		return a.chi2 < b.chi2
	}
	if a.duration != b.duration {
		return a.duration < b.duration
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.start < b.start
}

// FitParallel runs the same search as Fit with the duration grid spread
// across a worker pool. Results are merged with the explicit comparator so
// the outcome is bit-identical across runs and worker counts. Cancellation
// is observed between durations; a cancelled search returns ctx.Err().
func FitParallel(ctx context.Context, timeGrid, flux []float64, sigma Sigma, dGrid, tGrid []float64, t1Step float64, workers int) (Result, error) {
	if err := validateSeries(timeGrid, flux, sigma, t1Step); err != nil {
		return Result{}, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tMin, tMax := seriesRange(timeGrid)

	durations := make(chan float64)
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		count atomic.Int64
		best  candidate
	)
	best.chi2 = math.Inf(1)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := candidate{chi2: math.Inf(1)}
			for T := range durations {
				c, n := scanDuration(timeGrid, flux, sigma, dGrid, T, tMin, tMax, t1Step)
				count.Add(n)
				if better(c, local) {
					local = c
				}
			}
			mu.Lock()
			if better(local, best) {
				best = local
			}
			mu.Unlock()
		}()
	}

	var cancelled bool
feed:
	for _, T := range tGrid {
		if T <= 0 {
			continue
		}
		select {
		case durations <- T:
		case <-ctx.Done():
			cancelled = true
			break feed
		}
	}
	close(durations)
	wg.Wait()

	if cancelled {
		return Result{}, ctx.Err()
	}

	res := Result{Chi2: math.Inf(1), Count: count.Load()}
	if best.model != nil {
		res.Found = true
		res.Chi2 = best.chi2
		res.Depth = best.depth
		res.Duration = best.duration
		res.Start = best.start
		res.Model = best.model
	}
	return res, nil
}

// scanDuration scores every (d, t1) pair for one duration and returns the
// local best plus the number of triples evaluated. T is assumed positive.
func scanDuration(timeGrid, flux []float64, sigma Sigma, dGrid []float64, T, tMin, tMax, t1Step float64) (candidate, int64) {
	local := candidate{chi2: math.Inf(1)}
	var n int64

	t1Max := tMax - T
	if t1Max <= tMin {
		return local, 0
	}
	t1Grid := Arange(tMin, t1Max+0.5*t1Step, t1Step)

	for _, d := range dGrid {
		if d < 0 {
			continue
		}
		for _, t1 := range t1Grid {
			n++
			model := Model(timeGrid, T, d, t1)
			chi2 := ChiSquare(flux, model, sigma)
			c := candidate{chi2: chi2, duration: T, depth: d, start: t1, model: model}
			if better(c, local) {
				local = c
			}
		}
	}
	return local, n
}
