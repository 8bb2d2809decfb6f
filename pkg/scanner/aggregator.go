package scanner

import (
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
)

// classSet is a set of asset class names.
type classSet map[string]struct{}

func (s classSet) add(class string) { s[class] = struct{}{} }

func (s classSet) addAll(classes []string) {
	for _, c := range classes {
		s[c] = struct{}{}
	}
}

// sorted returns the members in ascending order; never nil.
func (s classSet) sorted() []string {
	if len(s) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(s))
}

// ResultAggregator folds ChunkResults into a ScanResult. Folding is
// commutative and associative, so chunks may arrive in any order.
//
// It is not safe for concurrent use: a reader's collection loop is its only
// writer.
type ResultAggregator struct {
	outcomes     []FileOutcome
	totalRecords int
	classes      classSet
	parseErrors  int
	lostFiles    int
	chunks       int
	logger       *slog.Logger
}

// NewResultAggregator creates an empty aggregator.
func NewResultAggregator(loggerHandler slog.Handler) *ResultAggregator {
	return &ResultAggregator{
		outcomes: make([]FileOutcome, 0, 512),
		classes:  classSet{},
		logger:   slog.New(loggerHandler).With(slog.String("component", "aggregator")),
	}
}

// Add folds one completed chunk.
func (a *ResultAggregator) Add(r ChunkResult) {
	a.chunks++
	a.totalRecords += r.RecordTotal
	a.classes.addAll(r.AssetClasses)
	for _, o := range r.Outcomes {
		if o.Status == StatusParseError {
			a.parseErrors++
		}
	}
	a.outcomes = append(a.outcomes, r.Outcomes...)
}

// AddLost records every file of a chunk that could not be executed, so the
// files stay accounted for in TotalFiles. It returns the synthesized result.
func (a *ResultAggregator) AddLost(chunk Chunk, cause error) ChunkResult {
	a.chunks++
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	lost := ChunkResult{
		Index:        chunk.Index,
		Outcomes:     make([]FileOutcome, 0, len(chunk.Files)),
		AssetClasses: []string{},
	}
	for _, task := range chunk.Files {
		lost.Outcomes = append(lost.Outcomes, FileOutcome{
			FileName:     filepath.Base(task.Path),
			Path:         task.Path,
			AssetClasses: []string{},
			Status:       StatusChunkLost,
			Error:        msg,
		})
	}
	a.outcomes = append(a.outcomes, lost.Outcomes...)
	a.lostFiles += len(chunk.Files)
	return lost
}

// Outcomes returns the number of outcomes folded so far.
func (a *ResultAggregator) Outcomes() int { return len(a.outcomes) }

// Result builds the successful ScanResult. totalFiles is the number of files
// originally enumerated; a mismatch with the folded outcomes is logged, never
// papered over.
func (a *ResultAggregator) Result(directory string, totalFiles int) ScanResult {
	if len(a.outcomes) != totalFiles {
		a.logger.Error("Folded outcomes do not match enumerated files",
			slog.Int("enumerated", totalFiles),
			slog.Int("outcomes", len(a.outcomes)))
	}
	details := make([]FileDetail, len(a.outcomes))
	for i, o := range a.outcomes {
		details[i] = NewFileDetail(o)
	}
	return ScanResult{
		SchemaVersion: ReportSchemaVersion,
		Success:       true,
		Directory:     directory,
		TotalFiles:    totalFiles,
		TotalRecords:  a.totalRecords,
		AssetClasses:  a.classes.sorted(),
		ParseErrors:   a.parseErrors,
		LostFiles:     a.lostFiles,
		ChunkCount:    a.chunks,
		FileDetails:   details,
	}
}
