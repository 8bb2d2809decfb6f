package scanner

import (
	"strings"
	"time"

	"github.com/stackvity/asset-scanner/pkg/util"
)

// ScanResult is the immutable summary of one directory scan.
//
// A failed scan (Success false) carries only Error, Directory and zero
// counters. A successful scan holds one FileDetails row per enumerated file,
// so TotalFiles == len(FileDetails); rows follow chunk order internally but
// chunks appear in completion order.
type ScanResult struct {
	SchemaVersion   string       `json:"schemaVersion" yaml:"schemaVersion" toml:"schemaVersion"`
	ScanID          string       `json:"scanId" yaml:"scanId" toml:"scanId"`
	Success         bool         `json:"success" yaml:"success" toml:"success"`
	Error           string       `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	Directory       string       `json:"directory" yaml:"directory" toml:"directory"`
	TotalFiles      int          `json:"totalFiles" yaml:"totalFiles" toml:"totalFiles"`
	TotalRecords    int          `json:"totalRecords" yaml:"totalRecords" toml:"totalRecords"`
	AssetClasses    []string     `json:"assetClasses" yaml:"assetClasses" toml:"assetClasses"`
	ParseErrors     int          `json:"parseErrors" yaml:"parseErrors" toml:"parseErrors"`
	LostFiles       int          `json:"lostFiles" yaml:"lostFiles" toml:"lostFiles"`
	ReaderType      ReaderType   `json:"readerType" yaml:"readerType" toml:"readerType"`
	Workers         int          `json:"workers" yaml:"workers" toml:"workers"`
	ChunkSize       int          `json:"chunkSize" yaml:"chunkSize" toml:"chunkSize"`
	ChunkCount      int          `json:"chunkCount" yaml:"chunkCount" toml:"chunkCount"`
	DurationSeconds float64      `json:"durationSeconds" yaml:"durationSeconds" toml:"durationSeconds"`
	Timestamp       time.Time    `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	FileDetails     []FileDetail `json:"fileDetails" yaml:"fileDetails" toml:"fileDetails"`
}

// FileDetail is the display row of one file.
type FileDetail struct {
	File         string  `json:"file" yaml:"file" toml:"file"`
	SizeMB       float64 `json:"sizeMB" yaml:"sizeMB" toml:"sizeMB"`
	Assets       int     `json:"assets" yaml:"assets" toml:"assets"`
	AssetClasses string  `json:"assetClasses" yaml:"assetClasses" toml:"assetClasses"`
	Status       Status  `json:"status" yaml:"status" toml:"status"`
	Error        string  `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// PerformanceInfo describes how a reader will execute a scan.
type PerformanceInfo struct {
	ReaderType ReaderType `json:"readerType" yaml:"readerType" toml:"readerType"`
	MaxWorkers int        `json:"maxWorkers" yaml:"maxWorkers" toml:"maxWorkers"`
	ChunkSize  int        `json:"chunkSize" yaml:"chunkSize" toml:"chunkSize"`
	CPUCount   int        `json:"cpuCount" yaml:"cpuCount" toml:"cpuCount"`
}

// NewFileDetail converts an outcome into its display row. The class column
// joins the sorted classes with ", ", or shows a placeholder when there is
// nothing to join.
func NewFileDetail(o FileOutcome) FileDetail {
	d := FileDetail{
		File:   o.FileName,
		SizeMB: util.SizeInMB(o.SizeBytes),
		Assets: o.RecordCount,
		Status: o.Status,
		Error:  o.Error,
	}
	switch {
	case o.Status == StatusParseError:
		d.AssetClasses = LabelError
	case o.Status == StatusChunkLost:
		d.AssetClasses = LabelLost
	case len(o.AssetClasses) == 0:
		d.AssetClasses = LabelUnknown
	default:
		d.AssetClasses = strings.Join(o.AssetClasses, ", ")
	}
	return d
}

// failedResult builds the zero-count result of a scan that never started.
func failedResult(directory string, err error) ScanResult {
	return ScanResult{
		SchemaVersion: ReportSchemaVersion,
		Success:       false,
		Error:         err.Error(),
		Directory:     directory,
		AssetClasses:  []string{},
		FileDetails:   []FileDetail{},
		Timestamp:     time.Now().UTC(),
	}
}
