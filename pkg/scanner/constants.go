package scanner

// Defaults used when the corresponding Options field is left at its zero value.
// The CLI config layer registers these with viper as well.
const (
	// DefaultChunkSize is the number of files handed to one worker at a time.
	DefaultChunkSize = 50
	// DefaultMaxWorkers means auto: min(runtime.NumCPU(), MaxWorkersCeiling).
	DefaultMaxWorkers = 0
	// MaxWorkersCeiling caps the auto-detected pool size.
	MaxWorkersCeiling = 16
	// DefaultChunkRetries is how many times a failed chunk is re-run before
	// its files are marked StatusChunkLost.
	DefaultChunkRetries = 1
	// DefaultReaderType is the strategy used by Scan when none is configured.
	DefaultReaderType = ReaderParallel
	// DefaultAssetClassField is the record key holding the asset class tag.
	DefaultAssetClassField = "assetClass"
	// DefaultOutputFormat is the format of the CLI summary.
	DefaultOutputFormat = OutputFormatText
	// DefaultRecursive controls whether subdirectories are scanned.
	DefaultRecursive = false
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
)

// FilePattern is the glob every candidate file name must match.
const FilePattern = "*.json"

// SampleFileLimit bounds DirectoryInfo.SampleFiles.
const SampleFileLimit = 5

// Display placeholders used by FileDetail.AssetClasses. They never appear in
// FileOutcome or ScanResult.AssetClasses.
const (
	LabelUnknown = "Unknown"
	LabelError   = "Error"
	LabelLost    = "Lost"
)

// ReportSchemaVersion indicates the version of the serialized ScanResult.
// Bump the major component on incompatible changes.
const ReportSchemaVersion = "1.0.0"
