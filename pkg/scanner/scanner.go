// Package scanner inventories directories of JSON asset documents. It counts
// records, collects the distinct asset classes, and isolates per-file
// failures so one corrupt document never costs the rest of a scan.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
)

// Scan is the main entry point of the library. It validates opts, builds the
// configured Reader and scans opts.Directory.
//
// Invalid options return ErrConfigValidation (or ErrUnknownReaderType) and an
// empty result before anything is read. Every other failure returns a
// populated ScanResult with Success false alongside the error, so callers can
// both render the result and test the cause with errors.Is.
func Scan(ctx context.Context, opts Options) (ScanResult, error) {
	if opts.Logger == nil {
		return ScanResult{}, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger)

	reader, err := NewReader(readerTypeOrDefault(opts.ReaderType), opts)
	if err != nil {
		logger.Error("Cannot create reader", slog.String("error", err.Error()))
		return ScanResult{}, err
	}
	return reader.Scan(ctx, opts.Directory)
}

// Inspect reports DirectoryInfo and PerformanceInfo for opts without parsing
// any file.
func Inspect(ctx context.Context, opts Options) (DirectoryInfo, PerformanceInfo, error) {
	reader, err := NewReader(readerTypeOrDefault(opts.ReaderType), opts)
	if err != nil {
		return DirectoryInfo{}, PerformanceInfo{}, err
	}
	return reader.DirectoryInfo(ctx, opts.Directory), reader.PerformanceInfo(), nil
}

func readerTypeOrDefault(t ReaderType) ReaderType {
	if t == "" {
		return DefaultReaderType
	}
	return t
}
