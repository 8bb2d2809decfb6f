package report

import "errors"

var (
	// ErrUnsupportedFormat indicates a format that cannot be persisted. The
	// text format is a terminal rendering only.
	ErrUnsupportedFormat = errors.New("unsupported report format")

	// ErrReportPersist indicates a failure to write a report file.
	ErrReportPersist = errors.New("failed to persist report")

	// ErrSchemaValidation indicates a JSON report does not satisfy the report schema.
	ErrSchemaValidation = errors.New("report failed schema validation")

	// ErrIncompatibleSchema indicates a report written under an incompatible
	// schemaVersion.
	ErrIncompatibleSchema = errors.New("incompatible report schema version")
)
