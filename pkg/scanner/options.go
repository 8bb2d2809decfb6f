package scanner

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/stackvity/asset-scanner/pkg/scanner/encoding"
)

// Hooks defines callbacks for progress updates during a scan.
// Readers call them from a single goroutine (the collection loop), but an
// implementation shared across concurrent scans must still be thread-safe.
type Hooks interface {
	OnScanStart(directory string, totalFiles, totalChunks int) error
	OnChunkComplete(completed, totalChunks int, result ChunkResult) error
	OnScanComplete(result ScanResult) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnScanStart implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnScanStart(directory string, totalFiles, totalChunks int) error { return nil }

// OnChunkComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnChunkComplete(completed, totalChunks int, result ChunkResult) error {
	return nil
}

// OnScanComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnScanComplete(result ScanResult) error { return nil }

// Processor turns one file path into exactly one FileOutcome.
type Processor interface {
	Process(path string) FileOutcome
}

// ProcessorFactory builds the Processor a reader hands to its workers.
// Tests inject one to simulate failing chunks.
type ProcessorFactory func(opts *Options, loggerHandler slog.Handler) Processor

// Options holds all configuration for a scan.
type Options struct {
	ScanRequest `mapstructure:",squash"`

	// --- Behavior ---
	ReaderType      ReaderType `mapstructure:"reader"`          // "basic" or "parallel"
	ChunkRetries    int        `mapstructure:"chunkRetries"`    // re-runs of a failed chunk; 0 = DefaultChunkRetries, <0 = none
	Recursive       bool       `mapstructure:"recursive"`       // descend into subdirectories
	IgnorePatterns  []string   `mapstructure:"ignore"`          // glob patterns matched against relative paths
	AssetClassField string     `mapstructure:"assetClassField"` // record key holding the class tag
	DefaultEncoding string     `mapstructure:"defaultEncoding"` // fallback when the charset cannot be determined

	// --- CLI surface ---
	AppVersion     string       `mapstructure:"-"`
	ConfigFilePath string       `mapstructure:"-"`
	ProfileName    string       `mapstructure:"-"`
	Verbose        bool         `mapstructure:"verbose"`
	Progress       bool         `mapstructure:"progress"`
	OutputFormat   OutputFormat `mapstructure:"outputFormat"`
	ReportFile     string       `mapstructure:"reportFile"`
	ReportFormat   OutputFormat `mapstructure:"reportFormat"`

	// --- Injected Dependencies ---
	EventHooks       Hooks            `mapstructure:"-"` // Optional: defaults to NoOpHooks
	Logger           slog.Handler     `mapstructure:"-"` // Required: logging backend
	EncodingHandler  encoding.Handler `mapstructure:"-"` // Optional: defaults to the charset handler
	ProcessorFactory ProcessorFactory `mapstructure:"-"` // Optional: defaults to NewFileProcessor
}

// withDefaults validates opts and fills every zero-valued tunable.
func (opts Options) withDefaults() (Options, error) {
	if opts.Logger == nil {
		return opts, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	if opts.MaxWorkers < 0 {
		return opts, fmt.Errorf("%w: maxWorkers cannot be negative (got %d)", ErrConfigValidation, opts.MaxWorkers)
	}
	if opts.ChunkSize < 0 {
		return opts, fmt.Errorf("%w: chunkSize cannot be negative (got %d)", ErrConfigValidation, opts.ChunkSize)
	}

	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.MaxWorkers == 0 {
		opts.MaxWorkers = defaultWorkerCount()
	}
	if opts.ReaderType == "" {
		opts.ReaderType = DefaultReaderType
	}
	if opts.AssetClassField == "" {
		opts.AssetClassField = DefaultAssetClassField
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if opts.EncodingHandler == nil {
		opts.EncodingHandler = encoding.NewCharsetHandler(opts.DefaultEncoding)
	}
	if opts.ProcessorFactory == nil {
		opts.ProcessorFactory = defaultProcessorFactory
	}
	return opts, nil
}

// retryBudget resolves ChunkRetries into the number of re-runs a failed chunk gets.
func (opts *Options) retryBudget() int {
	switch {
	case opts.ChunkRetries == 0:
		return DefaultChunkRetries
	case opts.ChunkRetries < 0:
		return 0
	}
	return opts.ChunkRetries
}

// defaultWorkerCount is the pool size used when MaxWorkers is unset.
func defaultWorkerCount() int {
	return min(runtime.NumCPU(), MaxWorkersCeiling)
}

func defaultProcessorFactory(opts *Options, loggerHandler slog.Handler) Processor {
	return NewFileProcessor(opts, loggerHandler)
}
