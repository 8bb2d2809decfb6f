package scanner

import (
	"context"
	"time"
)

// BasicReader scans on the calling goroutine, one chunk after another. It
// shares the processor, retry and aggregation path with ParallelReader and is
// the reference the parallel strategy is tested against.
type BasicReader struct {
	readerBase
}

// NewBasicReader creates a sequential reader. opts must already carry defaults.
func NewBasicReader(opts Options) *BasicReader {
	return &BasicReader{readerBase: newReaderBase(opts, "basic-reader", 1)}
}

// Scan implements Reader.
func (r *BasicReader) Scan(ctx context.Context, directory string) (ScanResult, error) {
	start := time.Now()
	plan, err := r.plan(ctx, directory)
	if err != nil {
		return r.fail(directory, err, start)
	}
	r.notifyStart(directory, plan)

	worker := NewChunkWorker(r.opts.ProcessorFactory(&r.opts, r.opts.Logger), r.opts.Logger)
	agg := NewResultAggregator(r.opts.Logger)
	for i, chunk := range plan.chunks {
		if err := ctx.Err(); err != nil {
			return r.fail(directory, err, start)
		}
		folded := r.collect(agg, r.runChunk(worker, chunk))
		r.notifyChunk(i+1, len(plan.chunks), folded)
	}
	return r.finish(agg.Result(directory, len(plan.files)), start), nil
}
