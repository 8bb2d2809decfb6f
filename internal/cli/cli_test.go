package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvity/asset-scanner/internal/testutil"
	"github.com/stackvity/asset-scanner/pkg/report"
	"github.com/stackvity/asset-scanner/pkg/scanner"
)

func runOptions(dir string, format scanner.OutputFormat) scanner.Options {
	return scanner.Options{
		ScanRequest:  scanner.ScanRequest{Directory: dir, MaxWorkers: 2, ChunkSize: 2},
		ReaderType:   scanner.ReaderParallel,
		OutputFormat: format,
		Progress:     true,
		Logger:       testutil.DiscardHandler(),
	}
}

func quietLogger() *slog.Logger {
	return slog.New(testutil.DiscardHandler())
}

func TestRun_TextSummary(t *testing.T) {
	dir := testutil.NewAssetDir(t, 3, 2, "server")
	testutil.CreateDummyFile(t, filepath.Join(dir, "broken.json"), `{"id":`)

	var stdout, stderr bytes.Buffer
	err := Run(t.Context(), runOptions(dir, scanner.OutputFormatText), quietLogger(), &stdout, &stderr)

	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "Analyzing source directory: "+dir)
	assert.Contains(t, out, "Found 4 JSON files")
	assert.Contains(t, out, "Running detailed analysis...")
	assert.Contains(t, out, "Scan results")
	assert.Contains(t, out, "server (1)")
	assert.Contains(t, out, "asset-0002.json")
	assert.Contains(t, out, "parse_error")
	assert.Contains(t, out, "Scan complete.")
	assert.Empty(t, stderr.String(), "a buffer is not a terminal, so no bar is drawn")
}

func TestRun_JSONSummary(t *testing.T) {
	dir := testutil.NewAssetDir(t, 2, 5, "db")

	var stdout bytes.Buffer
	err := Run(t.Context(), runOptions(dir, scanner.OutputFormatJSON), quietLogger(), &stdout, io.Discard)

	require.NoError(t, err)
	var result scanner.ScanResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), "json mode prints only the document")
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 10, result.TotalRecords)
	assert.Equal(t, []string{"db"}, result.AssetClasses)
	assert.NoError(t, report.Validate(stdout.Bytes()))
}

func TestRun_WritesReport(t *testing.T) {
	dir := testutil.NewAssetDir(t, 2, 1, "vm")
	reportPath := filepath.Join(t.TempDir(), "reports", "scan.yaml")

	opts := runOptions(dir, scanner.OutputFormatText)
	opts.ReportFile = reportPath

	var logBuf bytes.Buffer
	err := Run(t.Context(), opts, slog.New(testutil.NewTestLogHandler(&logBuf)), io.Discard, io.Discard)

	require.NoError(t, err)
	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "totalRecords: 2")
	assert.Contains(t, logBuf.String(), "Report written")
}

func TestRun_ReportWriteFailure(t *testing.T) {
	dir := testutil.NewAssetDir(t, 1, 1, "vm")
	opts := runOptions(dir, scanner.OutputFormatText)
	opts.ReportFile = filepath.Join(t.TempDir(), "scan.json")
	opts.ReportFormat = scanner.OutputFormatText

	err := Run(t.Context(), opts, quietLogger(), io.Discard, io.Discard)

	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
}

func TestRun_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")

	var stdout bytes.Buffer
	err := Run(t.Context(), runOptions(dir, scanner.OutputFormatText), quietLogger(), &stdout, io.Discard)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScanFailed)
	assert.ErrorIs(t, err, scanner.ErrDirectoryNotFound)
	assert.Contains(t, stdout.String(), "Directory is not usable")
	assert.Contains(t, stdout.String(), "Scan failed")
}

func TestRun_RejectedOptions(t *testing.T) {
	opts := runOptions(t.TempDir(), scanner.OutputFormatJSON)
	opts.Logger = nil

	var stdout bytes.Buffer
	err := Run(t.Context(), opts, quietLogger(), &stdout, io.Discard)

	assert.ErrorIs(t, err, scanner.ErrConfigValidation)
	assert.NotErrorIs(t, err, ErrScanFailed)
	assert.Empty(t, stdout.String())
}

func TestRun_VerboseLogsChunks(t *testing.T) {
	dir := testutil.NewAssetDir(t, 4, 1, "vm")
	opts := runOptions(dir, scanner.OutputFormatJSON)
	opts.Verbose = true

	var logBuf bytes.Buffer
	err := Run(t.Context(), opts, slog.New(testutil.NewTestLogHandler(&logBuf)), io.Discard, io.Discard)

	require.NoError(t, err)
	assert.Contains(t, logBuf.String(), "Completed chunk")
	assert.Contains(t, logBuf.String(), "Run complete")
}

func TestInfo(t *testing.T) {
	dir := testutil.NewAssetDir(t, 7, 1, "vm")

	t.Run("text", func(t *testing.T) {
		var stdout bytes.Buffer
		require.NoError(t, Info(t.Context(), runOptions(dir, scanner.OutputFormatText), &stdout))
		assert.Contains(t, stdout.String(), "Found 7 JSON files")
		assert.Contains(t, stdout.String(), "asset-0000.json")
		assert.Contains(t, stdout.String(), "parallel, 2 workers, chunk size 2")
	})
	t.Run("json", func(t *testing.T) {
		var stdout bytes.Buffer
		require.NoError(t, Info(t.Context(), runOptions(dir, scanner.OutputFormatJSON), &stdout))

		var doc struct {
			Directory   scanner.DirectoryInfo   `json:"directory"`
			Performance scanner.PerformanceInfo `json:"performance"`
		}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
		assert.True(t, doc.Directory.Valid)
		assert.Equal(t, 7, doc.Directory.TotalFiles)
		assert.Equal(t, scanner.ReaderParallel, doc.Performance.ReaderType)
		assert.Equal(t, 2, doc.Performance.ChunkSize)
	})
	t.Run("yaml", func(t *testing.T) {
		var stdout bytes.Buffer
		require.NoError(t, Info(t.Context(), runOptions(dir, scanner.OutputFormatYAML), &stdout))
		assert.Contains(t, stdout.String(), "totalFiles: 7")
	})
	t.Run("rejected options", func(t *testing.T) {
		opts := runOptions(dir, scanner.OutputFormatText)
		opts.ReaderType = "turbo"
		assert.ErrorIs(t, Info(t.Context(), opts, io.Discard), scanner.ErrUnknownReaderType)
	})
}

func TestValidateReport(t *testing.T) {
	dir := testutil.NewAssetDir(t, 2, 3, "vm")
	reportPath := filepath.Join(t.TempDir(), "scan.json")
	opts := runOptions(dir, scanner.OutputFormatJSON)
	opts.ReportFile = reportPath
	require.NoError(t, Run(t.Context(), opts, quietLogger(), io.Discard, io.Discard))

	var stdout bytes.Buffer
	require.NoError(t, ValidateReport(reportPath, &stdout))
	assert.True(t, strings.HasPrefix(stdout.String(), "OK: "+reportPath))
	assert.Contains(t, stdout.String(), "2 files, 6 records")

	broken := filepath.Join(t.TempDir(), "broken.json")
	testutil.CreateDummyFile(t, broken, `{"success": true}`)
	assert.ErrorIs(t, ValidateReport(broken, io.Discard), report.ErrSchemaValidation)
}

func TestRenderSummary_FailedScan(t *testing.T) {
	var out bytes.Buffer
	err := RenderSummary(&out, scanner.ScanResult{Directory: "/nope", Error: "directory not found"}, scanner.OutputFormatText)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "/nope")
	assert.Contains(t, out.String(), "Scan failed: directory not found")
	assert.NotContains(t, out.String(), "File details")
}

func TestRenderSummary_UnsupportedFormat(t *testing.T) {
	err := RenderSummary(io.Discard, scanner.ScanResult{Success: true}, "xml")
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
}

func TestTruncateName(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "short", in: "a.json", want: "a.json"},
		{name: "exactly the limit", in: strings.Repeat("x", 25) + ".json", want: strings.Repeat("x", 25) + ".json"},
		{name: "one over", in: strings.Repeat("x", 26) + ".json", want: strings.Repeat("x", 26) + ".j.."},
		{name: "multibyte", in: strings.Repeat("é", 31), want: strings.Repeat("é", 28) + ".."},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, truncateName(tc.in))
		})
	}
}

func TestIsTerminal_NonFileWriter(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
