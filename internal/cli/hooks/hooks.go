package hooks

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/stackvity/asset-scanner/pkg/scanner"
)

// CLIHooks implements the scanner.Hooks interface, bridging library events
// to the CLI's progress bar and logger.
type CLIHooks struct {
	logger         *slog.Logger
	verboseEnabled bool
	progressBar    ProgressBar // nil when no bar is shown
	out            io.Writer   // where the bar renders
	mu             sync.Mutex  // Protects concurrent access to progressBar
}

// ProgressBar is the subset of *progressbar.ProgressBar the hooks drive.
type ProgressBar interface {
	Add(num int) error
	Describe(description string)
	ChangeMax(max int)
	Finish() error
}

// NewCLIHooks creates a new CLIHooks instance. Pass a nil progBar when no
// bar should be drawn (verbose mode, or stderr is not a terminal).
func NewCLIHooks(logger *slog.Logger, verboseEnabled bool, progBar ProgressBar, out io.Writer) *CLIHooks {
	if out == nil {
		out = io.Discard
	}
	return &CLIHooks{
		logger:         logger,
		verboseEnabled: verboseEnabled,
		progressBar:    progBar,
		out:            out,
	}
}

var _ scanner.Hooks = (*CLIHooks)(nil)

// OnScanStart sizes the progress bar to the number of chunks.
func (h *CLIHooks) OnScanStart(directory string, totalFiles, totalChunks int) error {
	if h.progressBar != nil {
		h.mu.Lock()
		h.progressBar.ChangeMax(totalChunks)
		h.progressBar.Describe(fmt.Sprintf("Scanning %d files", totalFiles))
		h.mu.Unlock()
	}
	if h.verboseEnabled {
		h.logger.Debug("Scan started",
			slog.String("directory", directory),
			slog.Int("files", totalFiles),
			slog.Int("chunks", totalChunks))
	}
	return nil
}

// OnChunkComplete advances the bar by one chunk. In verbose mode every file
// that did not parse is logged as well.
func (h *CLIHooks) OnChunkComplete(completed, totalChunks int, result scanner.ChunkResult) error {
	if h.progressBar != nil {
		h.mu.Lock()
		_ = h.progressBar.Add(1)
		h.mu.Unlock()
	}
	if !h.verboseEnabled {
		return nil
	}

	h.logger.Info(fmt.Sprintf("Completed chunk %d/%d", completed, totalChunks),
		slog.Int("files", len(result.Outcomes)),
		slog.Int("records", result.RecordTotal))
	for _, o := range result.Outcomes {
		switch o.Status {
		case scanner.StatusParseError:
			h.logger.Warn("File could not be parsed", slog.String("path", o.Path), slog.String("error", o.Error))
		case scanner.StatusChunkLost:
			h.logger.Error("File lost with its chunk", slog.String("path", o.Path), slog.String("error", o.Error))
		}
	}
	return nil
}

// OnScanComplete finalizes the progress bar.
func (h *CLIHooks) OnScanComplete(result scanner.ScanResult) error {
	if h.progressBar == nil {
		return nil
	}
	h.mu.Lock()
	_ = h.progressBar.Finish()
	h.mu.Unlock()
	// Keep the prompt off the bar's line.
	_, _ = fmt.Fprintln(h.out)
	return nil
}
