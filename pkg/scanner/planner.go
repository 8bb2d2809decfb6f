package scanner

import "fmt"

// PlanChunks partitions files into ceil(len(files)/chunkSize) chunks, keeping
// their relative order. The last chunk holds the remainder; no files yields
// no chunks.
func PlanChunks(files []string, chunkSize int) ([]Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, chunkSize)
	}
	chunks := make([]Chunk, 0, (len(files)+chunkSize-1)/chunkSize)
	for start := 0; start < len(files); start += chunkSize {
		end := min(start+chunkSize, len(files))
		tasks := make([]FileTask, 0, end-start)
		for _, f := range files[start:end] {
			tasks = append(tasks, FileTask{Path: f})
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Files: tasks})
	}
	return chunks, nil
}
