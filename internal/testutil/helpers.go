package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateDummyFile creates a file with the given content, creating parent
// directories as needed.
func CreateDummyFile(t *testing.T, path string, content string) {
	t.Helper()
	fullPath := filepath.Clean(path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755), "Failed to create parent directory for %s", fullPath)
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644), "Failed to write dummy file %s", fullPath)
}

// CreateDummyDir ensures a directory exists at the given path.
func CreateDummyDir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Clean(path), 0755), "Failed to create dummy directory %s", path)
}

// WriteJSONFile marshals v into path.
func WriteJSONFile(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal fixture for %s", path)
	CreateDummyFile(t, path, string(data))
}

// Assets returns n asset records, all tagged with class. An empty class
// produces records without the tag.
func Assets(class string, n int) []map[string]any {
	records := make([]map[string]any, n)
	for i := range records {
		rec := map[string]any{"id": i + 1}
		if class != "" {
			rec["assetClass"] = class
		}
		records[i] = rec
	}
	return records
}

// NewAssetDir creates a temporary directory holding numFiles JSON files
// named asset-0000.json onwards, each an array of recordsPerFile records of
// class. It returns the directory path.
func NewAssetDir(t *testing.T, numFiles, recordsPerFile int, class string) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < numFiles; i++ {
		WriteJSONFile(t, filepath.Join(dir, fmt.Sprintf("asset-%04d.json", i)), Assets(class, recordsPerFile))
	}
	return dir
}

// NewTestLogHandler returns a debug-level text handler writing to buf, for
// asserting on log output.
func NewTestLogHandler(buf *bytes.Buffer) slog.Handler {
	return slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// DiscardHandler returns a handler that drops every record.
func DiscardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})
}
