package scanner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stackvity/asset-scanner/pkg/scanner/encoding"
)

const jsonMIME = "application/json"

// FileProcessor extracts the record count and asset classes of one JSON file.
// It is stateless between calls and safe for concurrent use.
type FileProcessor struct {
	logger          *slog.Logger
	encodingHandler encoding.Handler
	classField      string
}

// NewFileProcessor creates a FileProcessor from opts. Unset dependencies fall
// back to their defaults so the processor is usable outside a reader.
func NewFileProcessor(opts *Options, loggerHandler slog.Handler) *FileProcessor {
	encHandler := opts.EncodingHandler
	if encHandler == nil {
		encHandler = encoding.NewCharsetHandler(opts.DefaultEncoding)
	}
	classField := opts.AssetClassField
	if classField == "" {
		classField = DefaultAssetClassField
	}
	return &FileProcessor{
		logger:          slog.New(loggerHandler).With(slog.String("component", "processor")),
		encodingHandler: encHandler,
		classField:      classField,
	}
}

// Process produces exactly one FileOutcome for path. Every failure (stat,
// read, decode, parse, or a panic while walking the document) is folded into
// a StatusParseError outcome; nothing is returned or raised to the caller.
func (p *FileProcessor) Process(path string) (out FileOutcome) {
	out = FileOutcome{
		FileName:     filepath.Base(path),
		Path:         path,
		AssetClasses: []string{},
		Status:       StatusOk,
	}
	defer func() {
		if r := recover(); r != nil {
			p.fail(&out, fmt.Errorf("%w: panic while processing: %v", ErrFileParse, r))
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		p.fail(&out, fmt.Errorf("%w: %w", ErrStatFailed, err))
		return out
	}
	out.SizeBytes = info.Size()

	raw, err := os.ReadFile(path)
	if err != nil {
		p.fail(&out, fmt.Errorf("%w: %w", ErrReadFailed, err))
		return out
	}

	text, encName, _, err := p.encodingHandler.DetectAndDecode(raw)
	if err != nil {
		p.fail(&out, fmt.Errorf("%w: %w", ErrDecodeFailed, err))
		return out
	}
	if encName != "utf-8" {
		p.logger.Debug("Decoded non UTF-8 file", slog.String("path", path), slog.String("encoding", encName))
	}

	var doc any
	if err := json.Unmarshal(text, &doc); err != nil {
		switch mt := p.encodingHandler.Sniff(raw); {
		case p.encodingHandler.IsBinary(raw):
			err = fmt.Errorf("binary content (%s): %w", mt, err)
		case mt != jsonMIME:
			err = fmt.Errorf("content looks like %s: %w", mt, err)
		}
		p.fail(&out, fmt.Errorf("%w: %w", ErrFileParse, err))
		return out
	}

	classes := classSet{}
	if records, ok := doc.([]any); ok {
		out.RecordCount = len(records)
		for _, rec := range records {
			p.collectClass(classes, rec)
		}
	} else {
		out.RecordCount = 1
		p.collectClass(classes, doc)
	}
	out.AssetClasses = classes.sorted()
	return out
}

// collectClass adds rec's class tag to set when rec is an object carrying a
// non-empty string under the class field. Anything else contributes nothing.
func (p *FileProcessor) collectClass(set classSet, rec any) {
	obj, ok := rec.(map[string]any)
	if !ok {
		return
	}
	if class, ok := obj[p.classField].(string); ok && class != "" {
		set.add(class)
	}
}

func (p *FileProcessor) fail(out *FileOutcome, err error) {
	out.Status = StatusParseError
	out.RecordCount = 0
	out.AssetClasses = []string{}
	out.Error = err.Error()
	p.logger.Debug("File could not be processed", slog.String("path", out.Path), slog.String("error", out.Error))
}
