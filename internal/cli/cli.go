// Package cli runs the asset-scanner commands once configuration has been
// loaded: it drives the scanner library, renders summaries and persists
// reports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/stackvity/asset-scanner/internal/cli/hooks"
	"github.com/stackvity/asset-scanner/pkg/report"
	"github.com/stackvity/asset-scanner/pkg/scanner"
	"github.com/stackvity/asset-scanner/pkg/util"
)

// ErrScanFailed wraps the cause of a scan that produced no usable result.
var ErrScanFailed = errors.New("scan failed")

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

// Run scans opts.Directory, renders the summary to stdout and, when
// opts.ReportFile is set, persists the full result. Progress and logs go to
// stderr.
func Run(ctx context.Context, opts scanner.Options, logger *slog.Logger, stdout, stderr io.Writer) error {
	textMode := opts.OutputFormat == "" || opts.OutputFormat == scanner.OutputFormatText

	if textMode {
		if info, _, err := scanner.Inspect(ctx, opts); err == nil {
			st := newStyles(stdout)
			var b strings.Builder
			writeDirectoryInfo(&b, st, info)
			if info.Valid {
				b.WriteString("Running detailed analysis...\n\n")
			}
			if _, err := io.WriteString(stdout, b.String()); err != nil {
				return err
			}
		}
	}

	var bar hooks.ProgressBar
	if opts.Progress && !opts.Verbose && isTerminal(stderr) {
		bar = newProgressBar(stderr)
	}
	opts.EventHooks = hooks.NewCLIHooks(logger, opts.Verbose, bar, stderr)

	result, scanErr := scanner.Scan(ctx, opts)
	if scanErr != nil && result.SchemaVersion == "" {
		// Rejected before the scan started; there is nothing to render.
		return scanErr
	}

	if err := RenderSummary(stdout, result, opts.OutputFormat); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	if opts.ReportFile != "" {
		if err := report.Write(opts.ReportFile, result, opts.ReportFormat); err != nil {
			logger.Error("Failed to write report", slog.String("path", opts.ReportFile), slog.String("error", err.Error()))
			return err
		}
		logger.Info("Report written", slog.String("path", opts.ReportFile))
	}

	if scanErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrScanFailed, opts.Directory, scanErr)
	}
	logger.Debug("Run complete",
		slog.String("scanId", result.ScanID),
		slog.String("files", util.FormatCount(result.TotalFiles)),
		slog.String("records", util.FormatCount(result.TotalRecords)))
	return nil
}

// Info previews opts.Directory and the execution plan without parsing any file.
func Info(ctx context.Context, opts scanner.Options, stdout io.Writer) error {
	info, perf, err := scanner.Inspect(ctx, opts)
	if err != nil {
		return err
	}
	return RenderInfo(stdout, info, perf, opts.OutputFormat)
}

// ValidateReport loads the JSON report at path, checking it against the
// report schema and this build's schema version.
func ValidateReport(path string, stdout io.Writer) error {
	result, err := report.Load(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "OK: %s (schema %s, scan %s, %s files, %s records)\n",
		path, result.SchemaVersion, result.ScanID,
		util.FormatCount(result.TotalFiles), util.FormatCount(result.TotalRecords))
	return err
}
