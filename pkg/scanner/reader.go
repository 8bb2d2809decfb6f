package scanner

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// Reader is a scanning strategy. Scan returns a non-nil error exactly when
// the returned result has Success == false; the result is populated either way.
type Reader interface {
	Scan(ctx context.Context, directory string) (ScanResult, error)
	DirectoryInfo(ctx context.Context, directory string) DirectoryInfo
	PerformanceInfo() PerformanceInfo
}

var (
	_ Reader = (*BasicReader)(nil)
	_ Reader = (*ParallelReader)(nil)
)

// scanPlan is the output of the Validating and Planning states.
type scanPlan struct {
	files  []string
	chunks []Chunk
}

// chunkReport carries one chunk's fate from a worker to the collection loop.
type chunkReport struct {
	chunk  Chunk
	result ChunkResult
	err    error
}

// readerBase holds what both strategies share: validated options, the
// enumerator, and result stamping.
type readerBase struct {
	opts       Options
	logger     *slog.Logger
	enumerator *Enumerator
	workers    int
}

func newReaderBase(opts Options, component string, workers int) readerBase {
	return readerBase{
		opts:       opts,
		logger:     slog.New(opts.Logger).With(slog.String("component", component)),
		enumerator: NewEnumerator(&opts, opts.Logger),
		workers:    workers,
	}
}

// DirectoryInfo implements Reader.
func (b *readerBase) DirectoryInfo(ctx context.Context, directory string) DirectoryInfo {
	return b.enumerator.DirectoryInfo(ctx, directory)
}

// PerformanceInfo implements Reader.
func (b *readerBase) PerformanceInfo() PerformanceInfo {
	return PerformanceInfo{
		ReaderType: b.opts.ReaderType,
		MaxWorkers: b.workers,
		ChunkSize:  b.opts.ChunkSize,
		CPUCount:   runtime.NumCPU(),
	}
}

// plan validates and enumerates directory, then partitions the files.
func (b *readerBase) plan(ctx context.Context, directory string) (scanPlan, error) {
	files, err := b.enumerator.Enumerate(ctx, directory)
	if err != nil {
		return scanPlan{}, err
	}
	chunks, err := PlanChunks(files, b.opts.ChunkSize)
	if err != nil {
		return scanPlan{}, err
	}
	return scanPlan{files: files, chunks: chunks}, nil
}

// runChunk executes chunk, re-running it up to the configured retry budget
// when the whole chunk fails.
func (b *readerBase) runChunk(worker *ChunkWorker, chunk Chunk) chunkReport {
	result, err := worker.Run(chunk)
	retries := b.opts.retryBudget()
	for attempt := 1; err != nil && attempt <= retries; attempt++ {
		b.logger.Warn("Retrying failed chunk",
			slog.Int("chunk", chunk.Index),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		result, err = worker.Run(chunk)
	}
	if err != nil {
		b.logger.Error("Chunk lost after retries",
			slog.Int("chunk", chunk.Index),
			slog.Int("files", len(chunk.Files)),
			slog.String("error", err.Error()))
	}
	return chunkReport{chunk: chunk, result: result, err: err}
}

// collect folds one report into agg and returns what the hooks should see.
func (b *readerBase) collect(agg *ResultAggregator, rep chunkReport) ChunkResult {
	if rep.err != nil {
		return agg.AddLost(rep.chunk, rep.err)
	}
	agg.Add(rep.result)
	return rep.result
}

// fail builds the result of a scan that did not complete.
func (b *readerBase) fail(directory string, err error, start time.Time) (ScanResult, error) {
	b.logger.Error("Scan failed", slog.String("directory", directory), slog.String("error", err.Error()))
	result := b.finish(failedResult(directory, err), start)
	return result, err
}

// finish stamps run metadata onto result and fires OnScanComplete.
func (b *readerBase) finish(result ScanResult, start time.Time) ScanResult {
	result.ScanID = uuid.NewString()
	result.ReaderType = b.opts.ReaderType
	result.Workers = b.workers
	result.ChunkSize = b.opts.ChunkSize
	result.DurationSeconds = time.Since(start).Seconds()
	result.Timestamp = time.Now().UTC()

	if result.Success {
		b.logger.Info("Scan finished",
			slog.String("directory", result.Directory),
			slog.Int("files", result.TotalFiles),
			slog.Int("records", result.TotalRecords),
			slog.Int("assetClasses", len(result.AssetClasses)),
			slog.Int("parseErrors", result.ParseErrors),
			slog.Int("lostFiles", result.LostFiles),
			slog.Duration("duration", time.Since(start)))
	}
	if hookErr := b.opts.EventHooks.OnScanComplete(result); hookErr != nil {
		b.logger.Warn("OnScanComplete hook returned an error", slog.String("error", hookErr.Error()))
	}
	return result
}

func (b *readerBase) notifyStart(directory string, p scanPlan) {
	b.logger.Info("Starting scan",
		slog.String("directory", directory),
		slog.Int("files", len(p.files)),
		slog.Int("chunks", len(p.chunks)),
		slog.Int("workers", b.workers))
	if hookErr := b.opts.EventHooks.OnScanStart(directory, len(p.files), len(p.chunks)); hookErr != nil {
		b.logger.Warn("OnScanStart hook returned an error", slog.String("error", hookErr.Error()))
	}
}

func (b *readerBase) notifyChunk(completed, total int, r ChunkResult) {
	if hookErr := b.opts.EventHooks.OnChunkComplete(completed, total, r); hookErr != nil {
		b.logger.Warn("OnChunkComplete hook returned an error", slog.String("error", hookErr.Error()))
	}
}
