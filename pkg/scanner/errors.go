package scanner

import "errors"

// --- Exported Error Variables ---
// Callers check against these with errors.Is. Validation errors are fatal to
// a scan; per-file errors only ever appear as text inside a FileOutcome.

var (
	// ErrEmptyPath indicates that no directory was supplied.
	ErrEmptyPath = errors.New("please provide a directory path")

	// ErrDirectoryNotFound indicates that the scan directory does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrNotADirectory indicates that the scan path exists but is a file.
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrStatFailed indicates a failure to stat a file (permissions, or the
	// file vanished after enumeration). Folded into a parse_error outcome.
	ErrStatFailed = errors.New("failed to get file stats")

	// ErrReadFailed indicates a failure to read a file's content.
	// Folded into a parse_error outcome.
	ErrReadFailed = errors.New("failed to read file")

	// ErrDecodeFailed indicates the content could not be converted to UTF-8.
	// Folded into a parse_error outcome.
	ErrDecodeFailed = errors.New("failed to decode file content")

	// ErrFileParse indicates that a file's content is not valid JSON.
	// Local to one file; never aborts a chunk or a scan.
	ErrFileParse = errors.New("failed to parse JSON document")

	// ErrChunkExecution indicates that the goroutine running a chunk failed
	// unexpectedly. The chunk is retried; if it fails again its files are
	// reported with StatusChunkLost.
	ErrChunkExecution = errors.New("chunk execution failed")

	// ErrInvalidChunkSize indicates a non-positive chunk size was given to PlanChunks.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrUnknownReaderType indicates NewReader was asked for a strategy it does not know.
	ErrUnknownReaderType = errors.New("unsupported reader type")

	// ErrConfigValidation indicates that the provided Options failed validation.
	// Returned before any file is touched.
	ErrConfigValidation = errors.New("invalid configuration options provided")
)
