package scanner_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvity/asset-scanner/pkg/scanner"
)

func fileList(n int) []string {
	files := make([]string, n)
	for i := range files {
		files[i] = fmt.Sprintf("/data/f%03d.json", i)
	}
	return files
}

func TestPlanChunks_PartitionLaw(t *testing.T) {
	testCases := []struct {
		files      int
		chunkSize  int
		wantChunks int
		wantLast   int
	}{
		{files: 0, chunkSize: 50, wantChunks: 0},
		{files: 1, chunkSize: 50, wantChunks: 1, wantLast: 1},
		{files: 50, chunkSize: 50, wantChunks: 1, wantLast: 50},
		{files: 51, chunkSize: 50, wantChunks: 2, wantLast: 1},
		{files: 10, chunkSize: 3, wantChunks: 4, wantLast: 1},
		{files: 9, chunkSize: 3, wantChunks: 3, wantLast: 3},
		{files: 7, chunkSize: 1, wantChunks: 7, wantLast: 1},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d files by %d", tc.files, tc.chunkSize), func(t *testing.T) {
			files := fileList(tc.files)
			chunks, err := scanner.PlanChunks(files, tc.chunkSize)
			require.NoError(t, err)
			require.Len(t, chunks, tc.wantChunks)

			var rebuilt []string
			for i, c := range chunks {
				assert.Equal(t, i, c.Index)
				assert.LessOrEqual(t, len(c.Files), tc.chunkSize)
				if i < len(chunks)-1 {
					assert.Len(t, c.Files, tc.chunkSize, "only the last chunk may be short")
				}
				for _, task := range c.Files {
					rebuilt = append(rebuilt, task.Path)
				}
			}
			if tc.wantChunks > 0 {
				assert.Len(t, chunks[len(chunks)-1].Files, tc.wantLast)
			}
			if tc.files == 0 {
				assert.Empty(t, rebuilt)
			} else {
				assert.Equal(t, files, rebuilt, "concatenation must reconstruct the enumerated order")
			}
		})
	}
}

func TestPlanChunks_RejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		chunks, err := scanner.PlanChunks(fileList(3), size)
		assert.ErrorIs(t, err, scanner.ErrInvalidChunkSize)
		assert.Nil(t, chunks)
	}
}
