// Package report persists and reloads scanner.ScanResult documents.
//
// Reports are written as JSON, YAML or TOML. JSON reports can be validated
// against the embedded schema and loaded back, provided their schemaVersion
// shares a major version with scanner.ReportSchemaVersion.
package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/stackvity/asset-scanner/pkg/scanner"
)

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema every JSON report satisfies.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// Encode writes result to w in format.
func Encode(w io.Writer, result scanner.ScanResult, format scanner.OutputFormat) error {
	return EncodeValue(w, result, format)
}

// EncodeValue writes any tagged struct to w in one of the report formats.
func EncodeValue(w io.Writer, v any, format scanner.OutputFormat) error {
	switch format {
	case scanner.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case scanner.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case scanner.OutputFormatTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Write persists result to path. The file is written to a temporary sibling
// and renamed into place, so readers never observe a partial report.
func Write(path string, result scanner.ScanResult, format scanner.OutputFormat) (err error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	switch format {
	case scanner.OutputFormatJSON, scanner.OutputFormatYAML, scanner.OutputFormatTOML:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to ensure report directory exists '%s': %w", ErrReportPersist, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary report file in '%s': %w", ErrReportPersist, dir, err)
	}
	tmpPath := tmp.Name()
	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
		}
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("%w: failed to set permissions on '%s': %w", ErrReportPersist, tmpPath, err)
	}
	if err := Encode(tmp, result, format); err != nil {
		return fmt.Errorf("%w: failed to encode report (%s): %w", ErrReportPersist, format, err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temporary report file '%s': %w", ErrReportPersist, tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: failed to rename '%s' to '%s': %w", ErrReportPersist, tmpPath, path, err)
	}
	return nil
}

// FormatFromPath infers a report format from the file extension, defaulting
// to JSON.
func FormatFromPath(path string) scanner.OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return scanner.OutputFormatYAML
	case ".toml":
		return scanner.OutputFormatTOML
	default:
		return scanner.OutputFormatJSON
	}
}

// Validate checks a JSON report against the embedded schema.
func Validate(data []byte) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return fmt.Errorf("failed to compile report schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaValidation, err)
	}
	if res.Valid() {
		return nil
	}
	issues := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		issues = append(issues, e.String())
	}
	return fmt.Errorf("%w: %s", ErrSchemaValidation, strings.Join(issues, "; "))
}

// CheckCompatible reports whether version can be read by this build.
func CheckCompatible(version string) error {
	constraint, err := semver.NewConstraint("^" + scanner.ReportSchemaVersion)
	if err != nil {
		return fmt.Errorf("invalid report schema version: %w", err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version: %w", ErrIncompatibleSchema, version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: report is %s, this build reads ^%s", ErrIncompatibleSchema, version, scanner.ReportSchemaVersion)
	}
	return nil
}

// Load reads a JSON report from path, validates it and checks its schema version.
func Load(path string) (scanner.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scanner.ScanResult{}, fmt.Errorf("failed to read report '%s': %w", path, err)
	}
	if err := Validate(data); err != nil {
		return scanner.ScanResult{}, err
	}
	var result scanner.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return scanner.ScanResult{}, fmt.Errorf("failed to decode report '%s': %w", path, err)
	}
	if err := CheckCompatible(result.SchemaVersion); err != nil {
		return scanner.ScanResult{}, err
	}
	return result, nil
}
