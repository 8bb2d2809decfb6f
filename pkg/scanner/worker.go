package scanner

import (
	"fmt"
	"log/slog"
)

// ChunkWorker runs a Processor over every file of one chunk, sequentially,
// and folds the outcomes into a ChunkResult. Workers hold no state between
// chunks, so any chunk may run (or re-run) on any worker.
type ChunkWorker struct {
	processor Processor
	logger    *slog.Logger
}

// NewChunkWorker creates a ChunkWorker around processor.
func NewChunkWorker(processor Processor, loggerHandler slog.Handler) *ChunkWorker {
	return &ChunkWorker{
		processor: processor,
		logger:    slog.New(loggerHandler).With(slog.String("component", "worker")),
	}
}

// Run processes chunk. The returned error is non-nil only when the chunk as a
// whole failed (a panic escaped the processor); it then wraps
// ErrChunkExecution and the partial result must be discarded.
func (w *ChunkWorker) Run(chunk Chunk) (result ChunkResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic recovered in chunk worker", slog.Int("chunk", chunk.Index), slog.Any("panicValue", r))
			result = ChunkResult{Index: chunk.Index}
			err = fmt.Errorf("%w: chunk %d: panic: %v", ErrChunkExecution, chunk.Index, r)
		}
	}()

	classes := classSet{}
	result = ChunkResult{
		Index:    chunk.Index,
		Outcomes: make([]FileOutcome, 0, len(chunk.Files)),
	}
	for _, task := range chunk.Files {
		outcome := w.processor.Process(task.Path)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Status == StatusOk {
			result.RecordTotal += outcome.RecordCount
		}
		classes.addAll(outcome.AssetClasses)
	}
	result.AssetClasses = classes.sorted()

	w.logger.Debug("Chunk processed",
		slog.Int("chunk", chunk.Index),
		slog.Int("files", len(chunk.Files)),
		slog.Int("records", result.RecordTotal))
	return result, nil
}
