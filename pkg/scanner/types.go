package scanner

// Status describes how a single file fared during a scan.
type Status string

// Constants representing the defined per-file outcome statuses.
const (
	StatusOk         Status = "ok"
	StatusParseError Status = "parse_error"
	// StatusChunkLost marks files whose chunk failed on every attempt. They
	// were never parsed, but they still count towards TotalFiles.
	StatusChunkLost Status = "chunk_lost"
)

// ReaderType selects the scanning strategy returned by NewReader.
type ReaderType string

const (
	ReaderBasic    ReaderType = "basic"
	ReaderParallel ReaderType = "parallel"
)

// OutputFormat defines the format used when a ScanResult is rendered or persisted.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatTOML OutputFormat = "toml"
)

// ScanRequest carries the directory and tuning parameters of one scan.
// A reader copies it at construction, so it cannot change mid-scan.
type ScanRequest struct {
	Directory  string `mapstructure:"directory"`
	MaxWorkers int    `mapstructure:"maxWorkers"` // 0 = min(NumCPU, MaxWorkersCeiling)
	ChunkSize  int    `mapstructure:"chunkSize"`  // 0 = DefaultChunkSize
}

// FileTask is one file inside a chunk.
type FileTask struct {
	Path string
}

// Chunk is a fixed-size slice of the enumerated file list dispatched as one
// unit of work. Index is only used for progress reporting.
type Chunk struct {
	Index int
	Files []FileTask
}

// FileOutcome holds the facts extracted from one file. Exactly one outcome
// exists per enumerated file.
type FileOutcome struct {
	FileName     string   `json:"fileName"`
	Path         string   `json:"path"`
	SizeBytes    int64    `json:"sizeBytes"`
	RecordCount  int      `json:"recordCount"`
	AssetClasses []string `json:"assetClasses"` // sorted, unique
	Status       Status   `json:"status"`
	Error        string   `json:"error,omitempty"`
}

// ChunkResult is the fold of one chunk's outcomes.
//
// RecordTotal is the sum of RecordCount over outcomes with StatusOk and
// AssetClasses is the sorted union of every outcome's classes.
type ChunkResult struct {
	Index        int
	Outcomes     []FileOutcome
	RecordTotal  int
	AssetClasses []string
}
