package scanner

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// ParallelReader scans chunks on a bounded pool of goroutines.
//
// A dispatcher goroutine submits chunks to the pool and checks ctx before
// each submission. Workers send their reports over a channel to the
// collection loop on the calling goroutine, which is the aggregator's only
// writer. Once ctx is cancelled no further chunks are dispatched; chunks
// already running finish, and the scan is reported as failed.
type ParallelReader struct {
	readerBase
}

// NewParallelReader creates a pooled reader. opts must already carry defaults.
func NewParallelReader(opts Options) *ParallelReader {
	return &ParallelReader{readerBase: newReaderBase(opts, "parallel-reader", opts.MaxWorkers)}
}

// Scan implements Reader.
func (r *ParallelReader) Scan(ctx context.Context, directory string) (ScanResult, error) {
	start := time.Now()
	plan, err := r.plan(ctx, directory)
	if err != nil {
		return r.fail(directory, err, start)
	}
	r.notifyStart(directory, plan)

	agg := NewResultAggregator(r.opts.Logger)
	if len(plan.chunks) == 0 {
		return r.finish(agg.Result(directory, 0), start), nil
	}

	worker := NewChunkWorker(r.opts.ProcessorFactory(&r.opts, r.opts.Logger), r.opts.Logger)
	reports := make(chan chunkReport, r.workers)

	// dispatchErr is written before reports is closed and read only after
	// the collection loop below has drained it.
	var dispatchErr error
	go func() {
		defer close(reports)
		var pool errgroup.Group
		pool.SetLimit(r.workers)
		for _, chunk := range plan.chunks {
			if err := ctx.Err(); err != nil {
				r.logger.Info("Scan cancelled, no further chunks dispatched",
					slog.Int("chunk", chunk.Index),
					slog.String("reason", err.Error()))
				dispatchErr = err
				break
			}
			pool.Go(func() error {
				reports <- r.runChunk(worker, chunk)
				return nil
			})
		}
		_ = pool.Wait()
	}()

	completed := 0
	for rep := range reports {
		completed++
		folded := r.collect(agg, rep)
		r.logger.Debug("Completed chunk", slog.Int("completed", completed), slog.Int("total", len(plan.chunks)))
		r.notifyChunk(completed, len(plan.chunks), folded)
	}

	if dispatchErr != nil {
		return r.fail(directory, dispatchErr, start)
	}
	return r.finish(agg.Result(directory, len(plan.files)), start), nil
}
